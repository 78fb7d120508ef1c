// Package cpu implements the Sharp LR35902 instruction set: register
// file, flag semantics, the primary and CB-prefixed opcode tables, and
// the interrupt/HALT/STOP/EI-latency model.
package cpu

import (
	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/bit"
)

// Bus is what the CPU needs from its memory/interrupt/timer collaborator.
// A *memory.MMU satisfies this.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	RequestInterrupt(interrupt addr.Interrupt)
	SetDivFrozen(frozen bool)
}

// Flag identifies one of the four flag bits held in the high nibble of F.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// CPU holds the Sharp LR35902 register file and execution state.
type CPU struct {
	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16

	ime           bool // Interrupt Master Enable
	imeEnableDelay int  // instructions remaining before a pending EI promotes to ime=true (0 = inactive)

	halted  bool
	stopped bool

	// haltBug marks that the instruction about to be fetched should not
	// advance the PC, reproducing the hardware quirk where HALT executed
	// with IME=0 and an interrupt already pending fails to halt and
	// instead re-reads the following opcode byte.
	haltBug bool

	cycles uint64

	bus Bus
}

// New returns a CPU wired to bus and initialized to DMG post-boot state.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset restores the documented DMG post-boot register values without
// reallocating the CPU or its bus.
func (c *CPU) Reset() {
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	c.ime = false
	c.imeEnableDelay = 0
	c.halted = false
	c.stopped = false
	c.haltBug = false
	c.cycles = 0
}

// Step advances the CPU by one instruction, or by one interrupt
// dispatch when an enabled interrupt is pending. It returns the number
// of machine cycles (T-cycles) consumed.
func (c *CPU) Step() int {
	if cycles, serviced := c.serviceInterrupt(); serviced {
		return cycles
	}

	if c.halted {
		if c.pendingInterrupts() != 0 {
			c.halted = false
		} else {
			return 4
		}
	}

	if c.stopped {
		if c.pendingInterrupts() != 0 {
			c.stopped = false
			c.bus.SetDivFrozen(false)
		} else {
			return 4
		}
	}

	opcode := c.fetchOpcode()

	var exec opFunc
	if opcode == 0xCB {
		cbOpcode := c.fetchOpcode()
		exec = cbTable[cbOpcode].fn
	} else {
		exec = primaryTable[opcode].fn
	}

	cycles := exec(c)
	c.cycles += uint64(cycles)

	if c.imeEnableDelay > 0 {
		c.imeEnableDelay--
		if c.imeEnableDelay == 0 {
			c.ime = true
		}
	}

	return cycles
}

// fetchOpcode reads the byte at PC and advances PC, unless the HALT bug
// is active for this fetch, in which case PC is left unmoved exactly
// once so the following opcode overlaps the byte just read.
func (c *CPU) fetchOpcode() uint8 {
	b := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return b
}

// peekImmediate returns the byte at PC without advancing it.
func (c *CPU) peekImmediate() uint8 {
	return c.bus.Read(c.pc)
}

// readImmediate returns the byte at PC and advances PC by one.
func (c *CPU) readImmediate() uint8 {
	n := c.bus.Read(c.pc)
	c.pc++
	return n
}

// readImmediateWord returns the little-endian word at PC and advances
// PC by two.
func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

// readSignedImmediate returns the signed byte at PC and advances PC by one.
func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) setFlag(flag Flag)   { c.f |= uint8(flag) }
func (c *CPU) resetFlag(flag Flag) { c.f &^= uint8(flag) }
func (c *CPU) isSet(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) setFlagIf(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

// setFlags sets all four flags at once, the common shape for ALU ops.
func (c *CPU) setFlags(zero, sub, halfCarry, carry bool) {
	c.setFlagIf(zeroFlag, zero)
	c.setFlagIf(subFlag, sub)
	c.setFlagIf(halfCarryFlag, halfCarry)
	c.setFlagIf(carryFlag, carry)
}

func (c *CPU) flagBit(flag Flag) uint8 {
	if c.isSet(flag) {
		return 1
	}
	return 0
}

func (c *CPU) setBC(value uint16) { c.b, c.c = bit.High(value), bit.Low(value) }
func (c *CPU) getBC() uint16      { return bit.Combine(c.b, c.c) }
func (c *CPU) setDE(value uint16) { c.d, c.e = bit.High(value), bit.Low(value) }
func (c *CPU) getDE() uint16      { return bit.Combine(c.d, c.e) }
func (c *CPU) setHL(value uint16) { c.h, c.l = bit.High(value), bit.Low(value) }
func (c *CPU) getHL() uint16      { return bit.Combine(c.h, c.l) }

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	c.f = bit.Low(value) & 0xF0 // F's low nibble is unreadable and always zero
}
func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f) }

// --- public getters, for debuggers, disassemblers and the top-level machine ---

func (c *CPU) A() uint8       { return c.a }
func (c *CPU) F() uint8       { return c.f }
func (c *CPU) B() uint8       { return c.b }
func (c *CPU) C() uint8       { return c.c }
func (c *CPU) D() uint8       { return c.d }
func (c *CPU) E() uint8       { return c.e }
func (c *CPU) H() uint8       { return c.h }
func (c *CPU) L() uint8       { return c.l }
func (c *CPU) SP() uint16     { return c.sp }
func (c *CPU) PC() uint16     { return c.pc }
func (c *CPU) Cycles() uint64 { return c.cycles }
func (c *CPU) AF() uint16     { return c.getAF() }
func (c *CPU) BC() uint16     { return c.getBC() }
func (c *CPU) DE() uint16     { return c.getDE() }
func (c *CPU) HL() uint16     { return c.getHL() }

func (c *CPU) IME() bool      { return c.ime }
func (c *CPU) IsHalted() bool { return c.halted }
func (c *CPU) IsStopped() bool { return c.stopped }

// PendingInterrupts returns IE & IF & 0x1F, the set of interrupts that
// are both enabled and requested.
func (c *CPU) PendingInterrupts() uint8 { return c.pendingInterrupts() }

// FlagString renders the flag register as "ZNHC", with a dash for each
// flag that is clear. Handy for trace logs and debug displays.
func (c *CPU) FlagString() string {
	bits := [4]struct {
		flag Flag
		ch   byte
	}{
		{zeroFlag, 'Z'}, {subFlag, 'N'}, {halfCarryFlag, 'H'}, {carryFlag, 'C'},
	}
	out := make([]byte, 4)
	for i, b := range bits {
		if c.isSet(b.flag) {
			out[i] = b.ch
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}
