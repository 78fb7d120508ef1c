package debug

import (
	"fmt"

	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/bit"
)

const (
	oamSpriteCount    = 40
	oamBytesPerSprite = 4
	spriteYOffset     = 16
	spriteXOffset     = 8
)

// SpriteInfo is one decoded OAM entry, trimmed from go-jeebie's
// debug.SpriteInfo to the fields a read-only viewer needs.
type SpriteInfo struct {
	Index              int
	Y, X               int
	TileIndex          uint8
	BackgroundPriority bool
	FlipY, FlipX       bool
	PaletteOBP1        bool
}

func (s SpriteInfo) String() string {
	return fmt.Sprintf("Sprite %2d: Y=%3d X=%3d Tile=0x%02X", s.Index, s.Y, s.X, s.TileIndex)
}

// OAMSnapshot is every sprite currently in Object Attribute Memory,
// independent of which scanline is being drawn.
type OAMSnapshot struct {
	Sprites [oamSpriteCount]SpriteInfo
}

// CaptureOAM reads all 40 OAM entries from bus.
func CaptureOAM(bus Bus) OAMSnapshot {
	var snap OAMSnapshot
	for i := 0; i < oamSpriteCount; i++ {
		base := addr.OAMStart + uint16(i*oamBytesPerSprite)
		flags := bus.Read(base + 3)
		snap.Sprites[i] = SpriteInfo{
			Index:              i,
			Y:                  int(bus.Read(base)) - spriteYOffset,
			X:                  int(bus.Read(base+1)) - spriteXOffset,
			TileIndex:          bus.Read(base + 2),
			BackgroundPriority: bit.IsSet(7, flags),
			FlipY:              bit.IsSet(6, flags),
			FlipX:              bit.IsSet(5, flags),
			PaletteOBP1:        bit.IsSet(4, flags),
		}
	}
	return snap
}

// VisibleOn returns the subset of snap's sprites that overlap
// scanline, given the current sprite height (8 or 16).
func (snap OAMSnapshot) VisibleOn(scanline, height int) []SpriteInfo {
	var visible []SpriteInfo
	for _, s := range snap.Sprites {
		if scanline >= s.Y && scanline < s.Y+height {
			visible = append(visible, s)
		}
	}
	return visible
}
