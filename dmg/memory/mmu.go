// Package memory implements the DMG's 64KB address space: the
// cartridge/MBC window, VRAM/WRAM/OAM/HRAM, the region-mapped I/O
// registers, and the timer, serial, joypad and APU peripherals that
// live behind them.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/audio"
	"github.com/ashryu/dmgcore/dmg/bit"
	"github.com/ashryu/dmgcore/dmg/serial"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// SerialPort is the minimal interface a serial device connected to
// SB/SC must satisfy.
type SerialPort interface {
	Write(address uint16, value byte)
	Read(address uint16) byte
	Tick(cycles int)
	Reset()
}

// MMU is the DMG memory bus: every component that isn't the CPU itself
// hangs off of it, dispatched through a region map indexed by the
// address's high byte.
type MMU struct {
	cart      *Cartridge
	mbc       MBC
	memory    []byte
	APU       *audio.APU
	Joypad    *Joypad
	regionMap [256]memRegion

	serial SerialPort
	timer  Timer

	dmaCallback func()
}

// New returns an MMU with no cartridge inserted.
func New() *MMU {
	mmu := &MMU{
		memory: make([]byte, 0x10000),
		cart:   NewCartridge(),
		APU:    audio.New(),
		Joypad: NewJoypad(),
	}
	mmu.serial = serial.NewLogSink(func() { mmu.RequestInterrupt(addr.SerialInterrupt) })
	mmu.timer.InterruptHandler = func() { mmu.RequestInterrupt(addr.TimerInterrupt) }
	mmu.Joypad.OnTransition(func() { mmu.RequestInterrupt(addr.JoypadInterrupt) })
	mmu.initRegionMap()
	mmu.initPowerOnRegisters()
	return mmu
}

// initPowerOnRegisters writes the documented DMG post-boot I/O values
// (spec's register table: LCDC=0x91, STAT low bits=0x01) directly into
// the backing array, bypassing the write-mask in writeIO since these
// are the initial hardware state, not a game-originated write.
func (m *MMU) initPowerOnRegisters() {
	m.memory[addr.LCDC] = 0x91
	m.memory[addr.STAT] = 0x01
	m.memory[addr.BGP] = 0xFC
	m.memory[addr.P1] = 0xCF
}

// Reset reinstates the documented post-boot I/O register values and
// resets the timer's internal counter, the APU and the serial port,
// without reallocating the MMU or its memory backing array. Joypad
// state and the TIMA/TMA/TAC values are left as they are.
func (m *MMU) Reset() {
	for i := range m.memory {
		m.memory[i] = 0
	}
	m.initPowerOnRegisters()
	m.timer.SetSeed(0)
	m.APU.Reset()
	m.serial.Reset()
}

// NewWithCartridge returns an MMU with cart inserted and the matching
// MBC constructed from its header.
func NewWithCartridge(cart *Cartridge) *MMU {
	mmu := New()
	mmu.cart = cart

	switch cart.mbcType {
	case NoMBCType:
		mmu.mbc = NewNoMBC(cart.data)
	case MBC1Type, MBC1MultiType:
		mmu.mbc = NewMBC1(cart.data, cart.hasBattery, cart.ramBankCount)
	case MBC2Type:
		mmu.mbc = NewMBC2(cart.data)
	case MBC3Type:
		mmu.mbc = NewMBC3(cart.data, cart.ramBankCount, cart.hasRTC, nil)
	case MBC5Type:
		mmu.mbc = NewMBC5(cart.data, cart.hasRumble, cart.ramBankCount)
	default:
		panic(fmt.Sprintf("memory: unsupported MBC type %d", cart.mbcType))
	}

	return mmu
}

// Tick advances the timer and the serial port; the APU is not advanced
// here (dmg.Machine.Step ticks it directly).
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	if m.serial != nil {
		m.serial.Tick(cycles)
	}
}

// SetDivFrozen stops (or resumes) the timer's system counter, used by
// the CPU while STOPped.
func (m *MMU) SetDivFrozen(frozen bool) { m.timer.SetFrozen(frozen) }

// SetTimerSeed gives DIV a starting phase.
func (m *MMU) SetTimerSeed(seed uint16) { m.timer.SetSeed(seed) }

// SerialOutput returns every line the serial port has logged so far,
// for hosts (like the blargg test harness) that read pass/fail text
// off SB/SC instead of a real link cable.
func (m *MMU) SerialOutput() []string {
	if sink, ok := m.serial.(interface{ History() []string }); ok {
		return sink.History()
	}
	return nil
}

// OnOAMDMA registers a callback fired after an OAM DMA transfer
// completes, so the PPU/host can charge the 160-cycle transfer cost.
func (m *MMU) OnOAMDMA(fn func()) { m.dmaCallback = fn }

func (m *MMU) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	m.regionMap[0xFE] = regionOAM
	m.regionMap[0xFF] = regionIO
}

// RequestInterrupt sets interrupt's bit in IF.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.Write(addr.IF, bit.Set(uint8(interrupt), m.Read(addr.IF)))
}

func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Warn("memory: read from ROM/external RAM with no cartridge", "addr", fmt.Sprintf("0x%04X", address))
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM, regionOAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("memory: read at unmapped address 0x%04X", address))
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return m.timer.Read(address)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return m.APU.ReadRegister(address)
	case address == addr.IF:
		// the top 3 bits of IF are unimplemented and always read as 1.
		return m.memory[address] | 0xE0
	case address == addr.STAT:
		return m.memory[address] | 0x80 // bit 7 is unimplemented, reads as 1
	default:
		return m.memory[address]
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM:
		if m.mbc == nil {
			slog.Warn("memory: write to ROM with no cartridge", "addr", fmt.Sprintf("0x%04X", address))
			return
		}
		m.mbc.Write(address, value)
	case regionExtRAM:
		if m.mbc == nil {
			slog.Warn("memory: write to external RAM with no cartridge", "addr", fmt.Sprintf("0x%04X", address))
			return
		}
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM, regionOAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("memory: write at unmapped address 0x%04X", address))
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.Joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		m.timer.Write(address, value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.APU.WriteRegister(address, value)
	case address == addr.IF:
		m.memory[address] = value | 0xE0
	case address == addr.STAT:
		// bits 2-0 (coincidence flag, mode) are read-only hardware state;
		// only the four interrupt-source-enable bits are writable.
		m.memory[address] = (m.memory[address] & 0x07) | (value & 0x78)
	case address == addr.LY:
		// LY is read-only; writes are ignored.
	case address == addr.DMA:
		m.performOAMDMA(value)
	default:
		m.memory[address] = value
	}
}

func (m *MMU) performOAMDMA(value byte) {
	source := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		m.memory[addr.OAMStart+i] = m.Read(source + i)
	}
	m.memory[addr.DMA] = value
	if m.dmaCallback != nil {
		m.dmaCallback()
	}
}

// WriteLY is used only by the PPU, which owns LY's value; everything
// else must go through the read-only register above.
func (m *MMU) WriteLY(value byte) { m.memory[addr.LY] = value }

// WriteSTAT is used only by the PPU to update the mode (bits 1-0) and
// coincidence (bit 2) bits it owns, bypassing the write-mask that
// protects them from games writing to FF41 directly.
func (m *MMU) WriteSTAT(value byte) { m.memory[addr.STAT] = value }

// Cartridge exposes the inserted cartridge for debug/disasm use.
func (m *MMU) Cartridge() *Cartridge { return m.cart }
