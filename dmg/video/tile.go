package video

import "github.com/ashryu/dmgcore/dmg/bit"

// MemoryReader is the minimal interface tile/sprite fetches need.
type MemoryReader interface {
	Read(address uint16) byte
}

// TileRow is one 8-pixel row of a tile, stored as the two bit-planes
// the hardware uses: Low holds bit 0 of each pixel's color, High bit 1.
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type TileRow struct {
	Low, High byte
}

// GetPixel returns the 2-bit color index (0-3) of pixel x (0=leftmost,
// 7=rightmost), optionally horizontally flipped.
func (t TileRow) GetPixel(x int, flipX bool) int {
	bitIndex := uint8(7 - x)
	if flipX {
		bitIndex = uint8(x)
	}

	color := 0
	if bit.IsSet(bitIndex, t.Low) {
		color |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		color |= 2
	}
	return color
}

// Tile is a complete 8x8 (or, for tall sprites, the first half of an
// 8x16) tile pattern: 8 rows of 2 bytes each.
type Tile struct {
	Rows [8]TileRow
}

// FetchTile reads a 16-byte tile starting at base.
func FetchTile(mem MemoryReader, base uint16) Tile {
	var t Tile
	for row := 0; row < 8; row++ {
		addr := base + uint16(row*2)
		t.Rows[row] = TileRow{Low: mem.Read(addr), High: mem.Read(addr + 1)}
	}
	return t
}

// GetPixel returns the color index at (x, y), optionally flipped on
// either axis; y is pre-flipped by the caller choosing which row to
// read, so this only handles the X flip within the row.
func (t *Tile) GetPixel(x, y int, flipX bool) int {
	return t.Rows[y].GetPixel(x, flipX)
}

// BGTileAddress resolves a background/window tile index to its
// address in VRAM, honoring LCDC bit 4's signed/unsigned addressing
// mode (the "0x9000 block" quirk).
func BGTileAddress(tileIndex byte, unsignedMode bool) uint16 {
	if unsignedMode {
		return 0x8000 + uint16(tileIndex)*16
	}
	return uint16(0x9000 + int(int8(tileIndex))*16)
}
