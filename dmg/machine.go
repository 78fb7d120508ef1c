// Package dmg assembles the memory bus, CPU core, PPU, and shared
// peripherals into the single driver loop spec.md §2 describes: a
// caller advances one instruction (or interrupt service) at a time,
// and every cycle-driven collaborator advances by exactly that count.
//
// This wires the collaborators together by explicit construction
// rather than the source header's back-pointer pattern (spec.md §9):
// the MMU is built first, then handed to the PPU and CPU, then the
// Machine holds all three.
package dmg

import (
	"fmt"
	"os"

	"github.com/ashryu/dmgcore/dmg/cpu"
	"github.com/ashryu/dmgcore/dmg/input"
	"github.com/ashryu/dmgcore/dmg/input/action"
	"github.com/ashryu/dmgcore/dmg/input/event"
	"github.com/ashryu/dmgcore/dmg/memory"
	"github.com/ashryu/dmgcore/dmg/video"
)

// oamDMAStallCycles is the approximation spec.md §4.5 allows for OAM
// DMA's hardware stall: the transfer itself is an instantaneous block
// copy, but the CPU is charged 160 extra cycles for it.
const oamDMAStallCycles = 160

// Machine is the top-level emulation session: MMU + CPU + PPU plus the
// shared input manager, wired once at construction and driven by
// repeated calls to Step or RunUntilFrame.
type Machine struct {
	MMU   *memory.MMU
	CPU   *cpu.CPU
	PPU   *video.PPU
	Input *input.Manager

	frameCount       uint64
	instructionCount uint64
	dmaStallCycles   int

	completionFrames uint64 // RunUntilComplete's frame budget; set by ConfigureCompletionDetection
	minLoopInstrs    uint64 // RunUntilComplete's idle-loop detection threshold
}

// New returns a Machine with an empty cartridge inserted (no ROM, all
// reads return the post-boot default).
func New() *Machine {
	return NewWithCartridge(memory.NewCartridge())
}

// NewWithFile loads the ROM image at romPath and returns a Machine
// wired to play it.
func NewWithFile(romPath string) (*Machine, error) {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("dmg: failed to read ROM %q: %w", romPath, err)
	}
	return NewWithCartridge(memory.NewCartridgeWithData(data)), nil
}

// NewWithCartridge wires an MMU (with mbc selected from cart's header),
// a PPU reading/writing that MMU, a CPU driven by that MMU, and an
// input manager bound to the MMU's joypad.
func NewWithCartridge(cart *memory.Cartridge) *Machine {
	mmu := memory.NewWithCartridge(cart)
	ppu := video.NewPPU(mmu)
	c := cpu.New(mmu)

	m := &Machine{
		MMU:   mmu,
		CPU:   c,
		PPU:   ppu,
		Input: input.NewManager(mmu.Joypad),
	}
	mmu.OnOAMDMA(func() { m.dmaStallCycles += oamDMAStallCycles })
	ppu.OnFrame = func(*video.FrameBuffer) { m.frameCount++ }

	return m
}

// Reset reinstates the documented DMG post-boot state across every
// collaborator, without reallocating the Machine, per spec.md §3's
// lifecycle note.
func (m *Machine) Reset() {
	m.MMU.Reset()
	m.CPU.Reset()
	m.PPU.Reset()
	m.frameCount = 0
	m.instructionCount = 0
	m.dmaStallCycles = 0
}

// Step advances the machine by exactly one CPU instruction or
// interrupt service, then every cycle-driven peripheral by the same
// cycle count (spec.md §2, §5): interrupt check and instruction
// execution happen inside CPU.Step; the timer, serial port, APU, and
// PPU are then advanced in-line here by the driver, matching the
// ordering spec.md §5 requires. A completed OAM DMA transfer adds its
// approximated stall to this tick's cycle count before peripherals
// advance, so the timer/PPU see the stall too.
func (m *Machine) Step() int {
	cycles := m.CPU.Step()
	m.instructionCount++

	if m.dmaStallCycles > 0 {
		cycles += m.dmaStallCycles
		m.dmaStallCycles = 0
	}

	m.MMU.Tick(cycles)
	m.PPU.Tick(cycles)
	m.MMU.APU.Tick(cycles)

	return cycles
}

// RunUntilFrame steps the machine until exactly one more frame has
// completed (the PPU has raised VBlank once).
func (m *Machine) RunUntilFrame() error {
	target := m.frameCount + 1
	for m.frameCount < target {
		m.Step()
	}
	return nil
}

// ConfigureCompletionDetection bounds RunUntilComplete: it stops after
// maxFrames frames regardless of output, or earlier once the machine
// has looped in place (PC revisiting its own value) for at least
// minLoopInstrs consecutive instructions — the usual shape of a blargg
// test ROM's "test complete, spin forever" idle loop.
func (m *Machine) ConfigureCompletionDetection(maxFrames uint64, minLoopInstrs int) {
	m.completionFrames = maxFrames
	m.minLoopInstrs = uint64(minLoopInstrs)
}

// RunUntilComplete runs until ConfigureCompletionDetection's frame
// budget is exhausted or PC has stopped advancing to a new value for
// minLoopInstrs consecutive steps (the test ROM has parked itself in
// an idle loop after reporting its result over serial).
func (m *Machine) RunUntilComplete() {
	var lastPC uint16
	var stillCount uint64

	for m.frameCount < m.completionFrames {
		pc := m.CPU.PC()
		if pc == lastPC {
			stillCount++
		} else {
			stillCount = 0
			lastPC = pc
		}
		if m.minLoopInstrs > 0 && stillCount >= m.minLoopInstrs {
			return
		}
		m.Step()
	}
}

// GetCurrentFrame returns the PPU's framebuffer, valid as of the last
// completed frame (or mid-render, if called between VBlanks).
func (m *Machine) GetCurrentFrame() *video.FrameBuffer { return m.PPU.FrameBuffer() }

// GetFrameCount returns the number of frames rendered so far.
func (m *Machine) GetFrameCount() uint64 { return m.frameCount }

// GetInstructionCount returns the number of CPU steps taken so far.
func (m *Machine) GetInstructionCount() uint64 { return m.instructionCount }

// SerialOutput returns every line logged by the serial port so far.
func (m *Machine) SerialOutput() []string { return m.MMU.SerialOutput() }

// HandleAction routes a single backend-reported action through the
// input manager as a Press or Release event.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	evtType := event.Release
	if pressed {
		evtType = event.Press
	}
	m.Input.Dispatch(input.Event{Action: act, Type: evtType})
}
