// Package debug assembles read-only views of a running core's state
// for external debuggers and backends, without exposing anything that
// would let a caller mutate emulation state out from under it.
package debug

import (
	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/cpu"
)

// Bus is the minimal read surface a snapshot needs.
type Bus interface {
	Read(address uint16) byte
}

// CPUState is a read-only copy of the Sharp LR35902's register file,
// assembled from CPU's own public getters.
type CPUState struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Halted                 bool
	Stopped                bool
	Cycles                 uint64
}

// CaptureCPU snapshots c's current register file.
func CaptureCPU(c *cpu.CPU) CPUState {
	return CPUState{
		A: c.A(), F: c.F(), B: c.B(), C: c.C(),
		D: c.D(), E: c.E(), H: c.H(), L: c.L(),
		SP: c.SP(), PC: c.PC(),
		IME:     c.IME(),
		Halted:  c.IsHalted(),
		Stopped: c.IsStopped(),
		Cycles:  c.Cycles(),
	}
}

// LCDState is a read-only copy of the PPU's memory-mapped registers.
type LCDState struct {
	LCDC, STAT               uint8
	SCY, SCX                 uint8
	LY, LYC                  uint8
	BGP, OBP0, OBP1          uint8
	WY, WX                   uint8
	Mode                     uint8 // STAT bits 1-0
	CoincidenceFlag          bool  // STAT bit 2
}

// CaptureLCD snapshots the PPU registers as bus currently exposes them.
func CaptureLCD(bus Bus) LCDState {
	stat := bus.Read(addr.STAT)
	return LCDState{
		LCDC:            bus.Read(addr.LCDC),
		STAT:            stat,
		SCY:             bus.Read(addr.SCY),
		SCX:             bus.Read(addr.SCX),
		LY:              bus.Read(addr.LY),
		LYC:             bus.Read(addr.LYC),
		BGP:             bus.Read(addr.BGP),
		OBP0:            bus.Read(addr.OBP0),
		OBP1:            bus.Read(addr.OBP1),
		WY:              bus.Read(addr.WY),
		WX:              bus.Read(addr.WX),
		Mode:            stat & 0x03,
		CoincidenceFlag: stat&0x04 != 0,
	}
}

// TimerState is a read-only copy of the timer/divider registers.
type TimerState struct {
	DIV, TIMA, TMA, TAC uint8
}

// CaptureTimer snapshots the timer registers as bus currently exposes them.
func CaptureTimer(bus Bus) TimerState {
	return TimerState{
		DIV:  bus.Read(addr.DIV),
		TIMA: bus.Read(addr.TIMA),
		TMA:  bus.Read(addr.TMA),
		TAC:  bus.Read(addr.TAC),
	}
}

// InterruptState is a read-only copy of the interrupt controller's
// enable and pending-flag registers.
type InterruptState struct {
	IE, IF uint8
}

// CaptureInterrupts snapshots IE/IF as bus currently exposes them.
func CaptureInterrupts(bus Bus) InterruptState {
	return InterruptState{IE: bus.Read(addr.IE), IF: bus.Read(addr.IF)}
}

// Snapshot bundles every per-subsystem view into one read-only
// picture of the machine at a point in time, sized down from
// go-jeebie's CompleteDebugData to what the core can honestly expose
// without reaching into host rendering concerns.
type Snapshot struct {
	CPU        CPUState
	LCD        LCDState
	Timer      TimerState
	Interrupts InterruptState
	OAM        OAMSnapshot
}

// Capture assembles a full Snapshot from c and bus.
func Capture(c *cpu.CPU, bus Bus) Snapshot {
	return Snapshot{
		CPU:        CaptureCPU(c),
		LCD:        CaptureLCD(bus),
		Timer:      CaptureTimer(bus),
		Interrupts: CaptureInterrupts(bus),
		OAM:        CaptureOAM(bus),
	}
}
