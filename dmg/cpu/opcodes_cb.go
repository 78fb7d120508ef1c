package cpu

import "github.com/ashryu/dmgcore/dmg/bit"

// The CB-prefixed space is fully regular: 8 bit-shuffle operations over
// the same eight operand positions used by the primary table (0x00-0x3F),
// followed by BIT/RES/SET indexed by bit number 0-7 over the same eight
// operands (0x40-0xFF). Building it with two loops instead of 256
// hand-written near-duplicates keeps every operand/opcode pairing
// mechanically in sync.
var cbTable = buildCBTable()

func buildCBTable() [256]opcodeEntry {
	var t [256]opcodeEntry

	shiftOps := [8]func(c *CPU, value uint8) uint8{
		func(c *CPU, v uint8) uint8 { r, _ := c.rotateCB(v, rlcVal); return r },
		func(c *CPU, v uint8) uint8 { r, _ := c.rotateCB(v, rrcVal); return r },
		func(c *CPU, v uint8) uint8 {
			r, _ := c.rotateCB(v, func(v uint8) (uint8, bool) { return rlVal(v, c.isSet(carryFlag)) })
			return r
		},
		func(c *CPU, v uint8) uint8 {
			r, _ := c.rotateCB(v, func(v uint8) (uint8, bool) { return rrVal(v, c.isSet(carryFlag)) })
			return r
		},
		func(c *CPU, v uint8) uint8 { r, _ := c.rotateCB(v, slaVal); return r },
		func(c *CPU, v uint8) uint8 { r, _ := c.rotateCB(v, sraVal); return r },
		func(c *CPU, v uint8) uint8 { return c.swapCB(v) },
		func(c *CPU, v uint8) uint8 { r, _ := c.rotateCB(v, srlVal); return r },
	}

	for op := uint16(0); op < 8; op++ {
		for operand := uint16(0); operand < 8; operand++ {
			opcode := op*8 + operand
			shift, o := shiftOps[op], operand
			t[opcode] = opcodeEntry{fn: func(c *CPU) int {
				v := reg8Get[o](c)
				reg8Set[o](c, shift(c, v))
				if o == 6 {
					return 16
				}
				return 8
			}}
		}
	}

	for bitIndex := uint16(0); bitIndex < 8; bitIndex++ {
		for operand := uint16(0); operand < 8; operand++ {
			opcode := 0x40 + bitIndex*8 + operand
			idx, o := bitIndex, operand
			t[opcode] = opcodeEntry{fn: func(c *CPU) int {
				c.bitTest(uint8(idx), reg8Get[o](c))
				if o == 6 {
					return 12
				}
				return 8
			}}
		}
	}

	for bitIndex := uint16(0); bitIndex < 8; bitIndex++ {
		for operand := uint16(0); operand < 8; operand++ {
			opcode := 0x80 + bitIndex*8 + operand
			idx, o := bitIndex, operand
			t[opcode] = opcodeEntry{fn: func(c *CPU) int {
				v := reg8Get[o](c)
				reg8Set[o](c, bit.Clear(uint8(idx), v))
				if o == 6 {
					return 16
				}
				return 8
			}}
		}
	}

	for bitIndex := uint16(0); bitIndex < 8; bitIndex++ {
		for operand := uint16(0); operand < 8; operand++ {
			opcode := 0xC0 + bitIndex*8 + operand
			idx, o := bitIndex, operand
			t[opcode] = opcodeEntry{fn: func(c *CPU) int {
				v := reg8Get[o](c)
				reg8Set[o](c, bit.Set(uint8(idx), v))
				if o == 6 {
					return 16
				}
				return 8
			}}
		}
	}

	return t
}
