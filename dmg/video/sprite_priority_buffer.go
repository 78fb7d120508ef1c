package video

// SpritePriorityBuffer resolves DMG (non-color) sprite-to-pixel
// ownership: lower X coordinate wins; ties go to the lower OAM index.
// Reference: https://gbdev.io/pandocs/OAM.html#drawing-priority
//
// Tracking per-pixel ownership during the OAM scan avoids a sort:
// each sprite's 8 columns try to claim their screen-X slot as the
// scan visits sprites in OAM order, and a later sprite only displaces
// the incumbent when the priority rule says it should.
type SpritePriorityBuffer struct {
	ownerIndex [Width]int
	ownerX     [Width]int
}

// Clear resets ownership for a new scanline.
func (s *SpritePriorityBuffer) Clear() {
	for i := range s.ownerIndex {
		s.ownerIndex[i] = -1
		s.ownerX[i] = 0xFF
	}
}

// TryClaim attempts to give pixelX's ownership to spriteIndex (at
// screen-X spriteX). Returns whether it won.
func (s *SpritePriorityBuffer) TryClaim(pixelX, spriteIndex, spriteX int) bool {
	if pixelX < 0 || pixelX >= Width {
		return false
	}

	current := s.ownerIndex[pixelX]
	currentX := s.ownerX[pixelX]

	wins := current == -1 || spriteX < currentX || (spriteX == currentX && spriteIndex < current)
	if !wins {
		return false
	}

	s.ownerIndex[pixelX] = spriteIndex
	s.ownerX[pixelX] = spriteX
	return true
}

// GetOwner returns the OAM index owning pixelX, or -1 if unclaimed.
func (s *SpritePriorityBuffer) GetOwner(pixelX int) int {
	if pixelX < 0 || pixelX >= Width {
		return -1
	}
	return s.ownerIndex[pixelX]
}
