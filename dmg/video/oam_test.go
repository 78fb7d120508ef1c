package video

import (
	"testing"

	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/memory"
	"github.com/stretchr/testify/assert"
)

func writeSprite(bus *memory.MMU, index int, y, x, tile, flags byte) {
	base := addr.OAMStart + uint16(index*4)
	bus.Write(base, y)
	bus.Write(base+1, x)
	bus.Write(base+2, tile)
	bus.Write(base+3, flags)
}

func TestOAMScanLineFindsOverlappingSprites(t *testing.T) {
	bus := memory.New()
	oam := NewOAM(bus)

	writeSprite(bus, 0, 16+10, 8+5, 0x01, 0x00)  // rows 10-17
	writeSprite(bus, 1, 16+50, 8+5, 0x02, 0x00)  // rows 50-57, not on line 10

	sprites := oam.ScanLine(10, false)
	assert.Len(t, sprites, 1)
	assert.Equal(t, uint8(0x01), sprites[0].TileIndex)
}

func TestOAMScanLineCapsAt10Sprites(t *testing.T) {
	bus := memory.New()
	oam := NewOAM(bus)

	for i := 0; i < 15; i++ {
		writeSprite(bus, i, 16+20, byte(8+i), 0x00, 0x00)
	}

	sprites := oam.ScanLine(20, false)
	assert.Len(t, sprites, 10)
}

func TestOAMTallSpritesSpan16Rows(t *testing.T) {
	bus := memory.New()
	oam := NewOAM(bus)

	writeSprite(bus, 0, 16+0, 8+0, 0x04, 0x00)

	assert.Len(t, oam.ScanLine(0, true), 1)
	assert.Len(t, oam.ScanLine(15, true), 1)
	assert.Len(t, oam.ScanLine(16, true), 0)
}

func TestOAMPriorityLowerOAMIndexWinsSameX(t *testing.T) {
	bus := memory.New()
	oam := NewOAM(bus)

	writeSprite(bus, 0, 16+0, 8+20, 0x00, 0x00) // columns 20-27
	writeSprite(bus, 1, 16+0, 8+10, 0x00, 0x00) // columns 10-17, no overlap with sprite 0

	// overlap sprite 0 and a new sprite 2 at the same columns as sprite 0
	writeSprite(bus, 2, 16+0, 8+20, 0x00, 0x00)

	sprites := oam.ScanLine(0, false)
	assert.Len(t, sprites, 3)

	// sprite 0 (OAM index 0) and sprite "2" (OAM index 2) share columns 20-27;
	// the lower OAM index wins the tie.
	var first, third *Sprite
	for i := range sprites {
		if sprites[i].OAMIndex == 0 {
			first = &sprites[i]
		}
		if sprites[i].OAMIndex == 2 {
			third = &sprites[i]
		}
	}
	assert.True(t, first.HasPriorityForPixel(0))
	assert.False(t, third.HasPriorityForPixel(0))
}

func TestOAMFlagsParsedFromAttributeByte(t *testing.T) {
	bus := memory.New()
	oam := NewOAM(bus)

	writeSprite(bus, 0, 16+0, 8+0, 0x00, 0xF0) // all four flag bits set

	sprites := oam.ScanLine(0, false)
	assert.True(t, sprites[0].BehindBG)
	assert.True(t, sprites[0].FlipY)
	assert.True(t, sprites[0].FlipX)
	assert.True(t, sprites[0].PaletteOBP1)
}

func TestSpritePriorityBufferTieBreaksOnOAMIndex(t *testing.T) {
	var buf SpritePriorityBuffer
	buf.Clear()

	assert.True(t, buf.TryClaim(5, 3, 20))
	assert.False(t, buf.TryClaim(5, 7, 20), "higher OAM index loses the X tie")
	assert.True(t, buf.TryClaim(5, 1, 20), "lower OAM index wins the X tie")
	assert.Equal(t, 1, buf.GetOwner(5))
}

func TestSpritePriorityBufferLowerXWins(t *testing.T) {
	var buf SpritePriorityBuffer
	buf.Clear()

	assert.True(t, buf.TryClaim(5, 9, 30))
	assert.True(t, buf.TryClaim(5, 2, 10), "lower X always wins regardless of OAM index")
	assert.Equal(t, 2, buf.GetOwner(5))
}

func TestSpritePriorityBufferOutOfBoundsIsNoop(t *testing.T) {
	var buf SpritePriorityBuffer
	buf.Clear()

	assert.False(t, buf.TryClaim(-1, 0, 0))
	assert.False(t, buf.TryClaim(Width, 0, 0))
	assert.Equal(t, -1, buf.GetOwner(-1))
}
