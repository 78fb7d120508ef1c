package cpu

import (
	"github.com/ashryu/dmgcore/dmg/addr"
	"github.com/ashryu/dmgcore/dmg/bit"
)

// pendingInterrupts returns IE & IF restricted to the five defined bits.
func (c *CPU) pendingInterrupts() uint8 {
	return c.bus.Read(addr.IE) & c.bus.Read(addr.IF) & 0x1F
}

// serviceInterrupt dispatches the highest-priority pending interrupt if
// IME is set, pushing PC and jumping to the interrupt's vector. It
// reports whether it did anything and how many cycles that took.
//
// Dispatching also wakes the CPU from HALT/STOP: Step checks this
// before its own halted/stopped unhalt branch, so if a dispatch didn't
// clear them here, a CPU halted with IME=1 would dispatch into the ISR
// forever without ever leaving the halted state to fetch the ISR's
// instructions, and the next Step (IME now false, IF's bit already
// cleared) would just spin returning 4 with nothing pending.
func (c *CPU) serviceInterrupt() (cycles int, serviced bool) {
	if !c.ime {
		return 0, false
	}

	pending := c.pendingInterrupts()
	if pending == 0 {
		return 0, false
	}

	for i := uint8(0); i < 5; i++ {
		if !bit.IsSet(i, pending) {
			continue
		}

		c.bus.Write(addr.IF, bit.Clear(i, c.bus.Read(addr.IF)))
		c.ime = false
		c.imeEnableDelay = 0
		if c.halted {
			c.halted = false
		}
		if c.stopped {
			c.stopped = false
			c.bus.SetDivFrozen(false)
		}
		c.pushWord(c.pc)
		c.pc = addr.Interrupt(i).Vector()
		c.cycles += 20
		return 20, true
	}

	return 0, false
}
