// Package video implements the DMG's scanline PPU: the STAT mode
// state machine, background/window/sprite compositing, and the fixed
// four-shade palette resolution, driven one scanline-cycle-counter
// advance at a time by the same cycle counts the CPU/timer consume.
package video

import (
	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/bit"
)

// Mode is one of the four STAT mode values (bits 1-0).
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeVRAM   Mode = 3
)

const (
	oamCycles       = 80
	vramCycles      = 172
	oamAndVRAM      = oamCycles + vramCycles
	scanlineCycles  = 456
	visibleLines    = 144
	totalLines      = 154
)

// Bus is the memory-mapped surface the PPU reads/writes.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	WriteLY(value byte)
	WriteSTAT(value byte)
	RequestInterrupt(interrupt addr.Interrupt)
}

// PPU renders one completed frame into its FrameBuffer every 154
// scanlines, signalling completion through OnFrame.
type PPU struct {
	bus Bus
	fb  *FrameBuffer
	oam *OAM

	scanlineCycles int
	mode           Mode

	OnFrame func(*FrameBuffer)
}

func NewPPU(bus Bus) *PPU {
	p := &PPU{bus: bus, fb: NewFrameBuffer(), mode: ModeOAM}
	p.oam = NewOAM(bus)
	return p
}

func (p *PPU) FrameBuffer() *FrameBuffer { return p.fb }

// Reset restores the mode FSM to its post-boot state (Mode 2, scanline
// cycle counter at 0) without reallocating the PPU or its frame buffer.
func (p *PPU) Reset() {
	p.scanlineCycles = 0
	p.mode = ModeOAM
}

// Tick advances the PPU by cycles CPU t-cycles.
func (p *PPU) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		p.tick1()
	}
}

func (p *PPU) tick1() {
	if !p.lcdEnabled() {
		p.bus.WriteLY(0)
		p.scanlineCycles = 0
		p.setMode(ModeVBlank)
		return
	}

	p.scanlineCycles++
	if p.scanlineCycles >= scanlineCycles {
		p.scanlineCycles -= scanlineCycles
		p.advanceLine()
	}
	p.updateMode()
}

func (p *PPU) advanceLine() {
	ly := (p.line() + 1) % totalLines
	p.bus.WriteLY(ly)

	if ly == visibleLines {
		p.bus.RequestInterrupt(addr.VBlankInterrupt)
		if bit.IsSet(4, p.bus.Read(addr.STAT)) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
		if p.OnFrame != nil {
			p.OnFrame(p.fb)
		}
	}

	p.updateCoincidence(ly)
}

func (p *PPU) updateCoincidence(ly uint8) {
	stat := p.bus.Read(addr.STAT)
	if ly == p.bus.Read(addr.LYC) {
		stat = bit.Set(2, stat)
		if bit.IsSet(6, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	} else {
		stat = bit.Clear(2, stat)
	}
	p.bus.WriteSTAT(stat)
}

func (p *PPU) updateMode() {
	ly := p.line()
	var next Mode
	switch {
	case ly >= visibleLines:
		next = ModeVBlank
	case p.scanlineCycles < oamCycles:
		next = ModeOAM
	case p.scanlineCycles < oamAndVRAM:
		next = ModeVRAM
	default:
		next = ModeHBlank
	}

	if next == p.mode {
		return
	}
	previous := p.mode
	p.setMode(next)

	if next == ModeHBlank && previous == ModeVRAM && ly < visibleLines {
		p.renderLine(int(ly))
	}

	if source, ok := statSourceBit(next); ok && bit.IsSet(source, p.bus.Read(addr.STAT)) {
		p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

// statSourceBit maps a mode transition to the STAT bit that enables
// an interrupt for entering it. VBlank is covered separately in
// advanceLine alongside the VBlank IRQ itself.
func statSourceBit(m Mode) (uint8, bool) {
	switch m {
	case ModeHBlank:
		return 3, true
	case ModeOAM:
		return 5, true
	default:
		return 0, false
	}
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	stat := (p.bus.Read(addr.STAT) &^ 0x03) | uint8(m)
	p.bus.WriteSTAT(stat)
}

func (p *PPU) line() uint8       { return p.bus.Read(addr.LY) }
func (p *PPU) lcdEnabled() bool { return bit.IsSet(lcdEnable, p.bus.Read(addr.LCDC)) }

// LCDC bit positions.
const (
	lcdEnable      = 7
	windowTileMap  = 6
	windowEnable   = 5
	bgTileData     = 4
	bgTileMap      = 3
	objSize        = 2
	objEnable      = 1
	bgEnable       = 0
)

func (p *PPU) lcdc(bitPos uint8) bool { return bit.IsSet(bitPos, p.bus.Read(addr.LCDC)) }

func (p *PPU) renderLine(ly int) {
	var bg [Width]int // color index per pixel, for sprite BG-priority checks

	if p.lcdc(bgEnable) {
		p.renderBackground(ly, &bg)
	}
	if p.lcdc(windowEnable) {
		p.renderWindow(ly, &bg)
	}
	if p.lcdc(objEnable) {
		p.renderSprites(ly, &bg)
	}
}

func (p *PPU) renderBackground(ly int, bg *[Width]int) {
	scy := int(p.bus.Read(addr.SCY))
	scx := int(p.bus.Read(addr.SCX))
	bgp := Palette(p.bus.Read(addr.BGP))
	unsigned := p.lcdc(bgTileData)

	mapBase := addr.TileMap0
	if p.lcdc(bgTileMap) {
		mapBase = addr.TileMap1
	}

	y := (ly + scy) & 0xFF
	tileRow := y / 8
	rowInTile := y % 8

	for sx := 0; sx < Width; sx++ {
		x := (sx + scx) & 0xFF
		tileCol := x / 8
		colInTile := x % 8

		tileIndex := p.bus.Read(mapBase + uint16(tileRow*32+tileCol))
		tileAddr := BGTileAddress(tileIndex, unsigned) + uint16(rowInTile*2)
		row := TileRow{Low: p.bus.Read(tileAddr), High: p.bus.Read(tileAddr + 1)}

		color := row.GetPixel(colInTile, false)
		bg[sx] = color
		p.fb.SetPixel(sx, ly, bgp.Resolve(uint8(color)))
	}
}

func (p *PPU) renderWindow(ly int, bg *[Width]int) {
	wy := int(p.bus.Read(addr.WY))
	wx := int(p.bus.Read(addr.WX)) - 7
	if ly < wy {
		return
	}

	bgp := Palette(p.bus.Read(addr.BGP))
	unsigned := p.lcdc(bgTileData)
	mapBase := addr.TileMap0
	if p.lcdc(windowTileMap) {
		mapBase = addr.TileMap1
	}

	windowLine := ly - wy
	tileRow := windowLine / 8
	rowInTile := windowLine % 8

	for sx := 0; sx < Width; sx++ {
		wpx := sx - wx
		if wpx < 0 {
			continue
		}
		tileCol := wpx / 8
		colInTile := wpx % 8

		tileIndex := p.bus.Read(mapBase + uint16(tileRow*32+tileCol))
		tileAddr := BGTileAddress(tileIndex, unsigned) + uint16(rowInTile*2)
		row := TileRow{Low: p.bus.Read(tileAddr), High: p.bus.Read(tileAddr + 1)}

		color := row.GetPixel(colInTile, false)
		bg[sx] = color
		p.fb.SetPixel(sx, ly, bgp.Resolve(uint8(color)))
	}
}

func (p *PPU) renderSprites(ly int, bg *[Width]int) {
	sprites := p.oam.ScanLine(ly, p.lcdc(objSize))
	obp0 := Palette(p.bus.Read(addr.OBP0))
	obp1 := Palette(p.bus.Read(addr.OBP1))

	for i := range sprites {
		s := &sprites[i]
		row := ly - s.Y
		if s.FlipY {
			row = s.Height - 1 - row
		}

		tileIndex := s.TileIndex
		if s.Height == 16 {
			tileIndex &^= 1 // the top/bottom halves of 8x16 sprites share a pair of consecutive tile indices
			if row >= 8 {
				tileIndex |= 1
				row -= 8
			}
		}

		tile := FetchTile(p.bus, 0x8000+uint16(tileIndex)*16)

		for px := 0; px < 8; px++ {
			sx := s.X + px
			if sx < 0 || sx >= Width || !s.HasPriorityForPixel(px) {
				continue
			}

			color := tile.GetPixel(px, row, s.FlipX)
			if color == 0 {
				continue // transparent
			}
			if s.BehindBG && bg[sx] != 0 {
				continue
			}

			palette := obp0
			if s.PaletteOBP1 {
				palette = obp1
			}
			p.fb.SetPixel(sx, ly, palette.Resolve(uint8(color)))
		}
	}
}
