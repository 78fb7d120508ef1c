package memory

import (
	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/bit"
)

// tacLookup maps the TAC input clock select (bits 1-0) to the bit
// position of the 16-bit internal divider used as the timer's clock
// source. TIMA increments on falling edges of the selected bit while
// the timer is enabled (TAC bit 2 = 1).
//
//	00 -> bit 9 (4096 Hz)
//	01 -> bit 3 (262144 Hz)
//	10 -> bit 5 (65536 Hz)
//	11 -> bit 7 (16384 Hz)
var tacLookup = [4]uint16{9, 3, 5, 7}

// Timer models DIV/TIMA/TMA/TAC as a single 16-bit system counter with
// edge detection, matching the real hardware closely enough that the
// TIMA-overflow reload delay and DIV-write reset behave correctly.
type Timer struct {
	systemCounter uint16
	lastTimerBit  bool
	timaOverflow  int
	timaDelayInt  bool
	frozen        bool

	tima, tma, tac byte

	InterruptHandler func()
}

// SetSeed initializes the internal divider, used to give DIV a known
// starting phase (e.g. replaying a boot ROM's warm-up cycles).
func (t *Timer) SetSeed(seed uint16) {
	t.systemCounter = seed
	t.lastTimerBit = false
	t.timaOverflow = 0
	t.timaDelayInt = false
}

// SetFrozen stops the system counter from advancing, modeling STOP's
// effect on DIV.
func (t *Timer) SetFrozen(frozen bool) { t.frozen = frozen }

func (t *Timer) Tick(cycles int) {
	if t.frozen {
		return
	}
	for i := 0; i < cycles; i++ {
		if t.timaDelayInt {
			if t.InterruptHandler != nil {
				t.InterruptHandler()
			}
			t.timaDelayInt = false
		}

		t.systemCounter++

		if t.timaOverflow > 0 {
			t.timaOverflow--
			if t.timaOverflow == 0 {
				t.tima = t.tma
				t.timaDelayInt = true
			}
			continue
		}

		if bit.IsSet(2, t.tac) {
			currentTimerBit := bit.IsSet16(tacLookup[t.tac&0x03], t.systemCounter)
			if t.lastTimerBit && !currentTimerBit {
				t.incrementTIMA()
			}
			t.lastTimerBit = currentTimerBit
		} else {
			t.lastTimerBit = false
		}
	}
}

func (t *Timer) incrementTIMA() {
	if t.tima == 0xFF {
		t.timaOverflow = 4
	}
	t.tima++
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return byte(t.systemCounter >> 8)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.systemCounter = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
	}
}
