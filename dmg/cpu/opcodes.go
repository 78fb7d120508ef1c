package cpu

import "fmt"

// opFunc executes one decoded instruction and returns the number of
// machine cycles (T-cycles) it took.
type opFunc func(c *CPU) int

type opcodeEntry struct {
	fn opFunc
}

// reg8Get/reg8Set index the eight operand positions used throughout the
// primary and CB opcode spaces: B, C, D, E, H, L, (HL), A. Index 6, (HL),
// costs extra cycles in place of a plain register: 4 for loads, ALU ops
// and BIT, 8 for the CB read-modify-write ops (shifts, RES, SET).
var reg8Get = [8]func(c *CPU) uint8{
	func(c *CPU) uint8 { return c.b },
	func(c *CPU) uint8 { return c.c },
	func(c *CPU) uint8 { return c.d },
	func(c *CPU) uint8 { return c.e },
	func(c *CPU) uint8 { return c.h },
	func(c *CPU) uint8 { return c.l },
	func(c *CPU) uint8 { return c.bus.Read(c.getHL()) },
	func(c *CPU) uint8 { return c.a },
}

var reg8Set = [8]func(c *CPU, v uint8){
	func(c *CPU, v uint8) { c.b = v },
	func(c *CPU, v uint8) { c.c = v },
	func(c *CPU, v uint8) { c.d = v },
	func(c *CPU, v uint8) { c.e = v },
	func(c *CPU, v uint8) { c.h = v },
	func(c *CPU, v uint8) { c.l = v },
	func(c *CPU, v uint8) { c.bus.Write(c.getHL(), v) },
	func(c *CPU, v uint8) { c.a = v },
}

var aluOps = [8]func(c *CPU, v uint8){
	(*CPU).addToA,
	(*CPU).adcToA,
	(*CPU).subFromA,
	(*CPU).sbcFromA,
	(*CPU).andWithA,
	(*CPU).xorWithA,
	(*CPU).orWithA,
	(*CPU).cpWithA,
}

func illegal(opcode uint8) opFunc {
	return func(c *CPU) int {
		panic(fmt.Sprintf("cpu: illegal opcode 0x%02X at PC=0x%04X", opcode, c.pc-1))
	}
}

var primaryTable = buildPrimaryTable()

func buildPrimaryTable() [256]opcodeEntry {
	var t [256]opcodeEntry

	// 0x40-0x7F: LD r,r' (64 opcodes), except 0x76 which is HALT.
	for dst := uint16(0); dst < 8; dst++ {
		for src := uint16(0); src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			d, s := dst, src
			t[opcode] = opcodeEntry{fn: func(c *CPU) int {
				v := reg8Get[s](c)
				reg8Set[d](c, v)
				if d == 6 || s == 6 {
					return 8
				}
				return 4
			}}
		}
	}

	// 0x80-0xBF: ALU A,r' (64 opcodes): ADD, ADC, SUB, SBC, AND, XOR, OR, CP.
	for op := uint16(0); op < 8; op++ {
		for src := uint16(0); src < 8; src++ {
			opcode := 0x80 + op*8 + src
			o, s := op, src
			t[opcode] = opcodeEntry{fn: func(c *CPU) int {
				v := reg8Get[s](c)
				aluOps[o](c, v)
				if s == 6 {
					return 8
				}
				return 4
			}}
		}
	}

	for opcode, fn := range irregularOpcodes() {
		t[opcode] = opcodeEntry{fn: fn}
	}

	// HALT overrides the LD (HL),(HL) slot the loop above filled in.
	t[0x76] = opcodeEntry{fn: opHalt}

	return t
}

func opHalt(c *CPU) int {
	if !c.ime && c.pendingInterrupts() != 0 {
		c.haltBug = true
	} else {
		c.halted = true
	}
	return 4
}

// irregularOpcodes returns every primary opcode outside the two
// regular LD/ALU blocks built by buildPrimaryTable.
func irregularOpcodes() map[uint8]opFunc {
	m := map[uint8]opFunc{}

	m[0x00] = func(c *CPU) int { return 4 } // NOP

	m[0x01] = func(c *CPU) int { c.setBC(c.readImmediateWord()); return 12 }
	m[0x11] = func(c *CPU) int { c.setDE(c.readImmediateWord()); return 12 }
	m[0x21] = func(c *CPU) int { c.setHL(c.readImmediateWord()); return 12 }
	m[0x31] = func(c *CPU) int { c.sp = c.readImmediateWord(); return 12 }

	m[0x02] = func(c *CPU) int { c.bus.Write(c.getBC(), c.a); return 8 }
	m[0x12] = func(c *CPU) int { c.bus.Write(c.getDE(), c.a); return 8 }
	m[0x22] = func(c *CPU) int { c.bus.Write(c.getHL(), c.a); c.setHL(c.getHL() + 1); return 8 }
	m[0x32] = func(c *CPU) int { c.bus.Write(c.getHL(), c.a); c.setHL(c.getHL() - 1); return 8 }

	m[0x0A] = func(c *CPU) int { c.a = c.bus.Read(c.getBC()); return 8 }
	m[0x1A] = func(c *CPU) int { c.a = c.bus.Read(c.getDE()); return 8 }
	m[0x2A] = func(c *CPU) int { c.a = c.bus.Read(c.getHL()); c.setHL(c.getHL() + 1); return 8 }
	m[0x3A] = func(c *CPU) int { c.a = c.bus.Read(c.getHL()); c.setHL(c.getHL() - 1); return 8 }

	m[0x03] = func(c *CPU) int { c.setBC(c.getBC() + 1); return 8 }
	m[0x13] = func(c *CPU) int { c.setDE(c.getDE() + 1); return 8 }
	m[0x23] = func(c *CPU) int { c.setHL(c.getHL() + 1); return 8 }
	m[0x33] = func(c *CPU) int { c.sp++; return 8 }

	m[0x0B] = func(c *CPU) int { c.setBC(c.getBC() - 1); return 8 }
	m[0x1B] = func(c *CPU) int { c.setDE(c.getDE() - 1); return 8 }
	m[0x2B] = func(c *CPU) int { c.setHL(c.getHL() - 1); return 8 }
	m[0x3B] = func(c *CPU) int { c.sp--; return 8 }

	m[0x09] = func(c *CPU) int { c.addToHL(c.getBC()); return 8 }
	m[0x19] = func(c *CPU) int { c.addToHL(c.getDE()); return 8 }
	m[0x29] = func(c *CPU) int { c.addToHL(c.getHL()); return 8 }
	m[0x39] = func(c *CPU) int { c.addToHL(c.sp); return 8 }

	for _, reg := range []struct {
		opcode uint8
		get    func(c *CPU) uint8
		set    func(c *CPU, v uint8)
	}{
		{0x04, func(c *CPU) uint8 { return c.b }, func(c *CPU, v uint8) { c.b = v }},
		{0x0C, func(c *CPU) uint8 { return c.c }, func(c *CPU, v uint8) { c.c = v }},
		{0x14, func(c *CPU) uint8 { return c.d }, func(c *CPU, v uint8) { c.d = v }},
		{0x1C, func(c *CPU) uint8 { return c.e }, func(c *CPU, v uint8) { c.e = v }},
		{0x24, func(c *CPU) uint8 { return c.h }, func(c *CPU, v uint8) { c.h = v }},
		{0x2C, func(c *CPU) uint8 { return c.l }, func(c *CPU, v uint8) { c.l = v }},
		{0x3C, func(c *CPU) uint8 { return c.a }, func(c *CPU, v uint8) { c.a = v }},
	} {
		get, set := reg.get, reg.set
		m[reg.opcode] = func(c *CPU) int { set(c, c.inc8(get(c))); return 4 }
	}
	for _, reg := range []struct {
		opcode uint8
		get    func(c *CPU) uint8
		set    func(c *CPU, v uint8)
	}{
		{0x05, func(c *CPU) uint8 { return c.b }, func(c *CPU, v uint8) { c.b = v }},
		{0x0D, func(c *CPU) uint8 { return c.c }, func(c *CPU, v uint8) { c.c = v }},
		{0x15, func(c *CPU) uint8 { return c.d }, func(c *CPU, v uint8) { c.d = v }},
		{0x1D, func(c *CPU) uint8 { return c.e }, func(c *CPU, v uint8) { c.e = v }},
		{0x25, func(c *CPU) uint8 { return c.h }, func(c *CPU, v uint8) { c.h = v }},
		{0x2D, func(c *CPU) uint8 { return c.l }, func(c *CPU, v uint8) { c.l = v }},
		{0x3D, func(c *CPU) uint8 { return c.a }, func(c *CPU, v uint8) { c.a = v }},
	} {
		get, set := reg.get, reg.set
		m[reg.opcode] = func(c *CPU) int { set(c, c.dec8(get(c))); return 4 }
	}
	m[0x34] = func(c *CPU) int { c.bus.Write(c.getHL(), c.inc8(c.bus.Read(c.getHL()))); return 12 }
	m[0x35] = func(c *CPU) int { c.bus.Write(c.getHL(), c.dec8(c.bus.Read(c.getHL()))); return 12 }

	for _, reg := range []struct {
		opcode uint8
		set    func(c *CPU, v uint8)
	}{
		{0x06, func(c *CPU, v uint8) { c.b = v }},
		{0x0E, func(c *CPU, v uint8) { c.c = v }},
		{0x16, func(c *CPU, v uint8) { c.d = v }},
		{0x1E, func(c *CPU, v uint8) { c.e = v }},
		{0x26, func(c *CPU, v uint8) { c.h = v }},
		{0x2E, func(c *CPU, v uint8) { c.l = v }},
		{0x3E, func(c *CPU, v uint8) { c.a = v }},
	} {
		set := reg.set
		m[reg.opcode] = func(c *CPU) int { set(c, c.readImmediate()); return 8 }
	}
	m[0x36] = func(c *CPU) int { c.bus.Write(c.getHL(), c.readImmediate()); return 12 }

	m[0x07] = func(c *CPU) int { c.rotateA(rlcVal); return 4 }
	m[0x0F] = func(c *CPU) int { c.rotateA(rrcVal); return 4 }
	m[0x17] = func(c *CPU) int { c.rotateA(func(v uint8) (uint8, bool) { return rlVal(v, c.isSet(carryFlag)) }); return 4 }
	m[0x1F] = func(c *CPU) int { c.rotateA(func(v uint8) (uint8, bool) { return rrVal(v, c.isSet(carryFlag)) }); return 4 }

	m[0x08] = func(c *CPU) int {
		addr16 := c.readImmediateWord()
		c.bus.Write(addr16, byte(c.sp))
		c.bus.Write(addr16+1, byte(c.sp>>8))
		return 20
	}

	m[0x10] = func(c *CPU) int {
		c.readImmediate() // the trailing 0x00 of the two-byte STOP encoding
		c.stopped = true
		c.bus.SetDivFrozen(true)
		return 4
	}

	m[0x18] = func(c *CPU) int { return c.jr(true) }
	m[0x20] = func(c *CPU) int { return c.jr(c.condition(0)) }
	m[0x28] = func(c *CPU) int { return c.jr(c.condition(1)) }
	m[0x30] = func(c *CPU) int { return c.jr(c.condition(2)) }
	m[0x38] = func(c *CPU) int { return c.jr(c.condition(3)) }

	m[0xC2] = func(c *CPU) int { return c.jp(c.condition(0)) }
	m[0xCA] = func(c *CPU) int { return c.jp(c.condition(1)) }
	m[0xD2] = func(c *CPU) int { return c.jp(c.condition(2)) }
	m[0xDA] = func(c *CPU) int { return c.jp(c.condition(3)) }
	m[0xC3] = func(c *CPU) int { return c.jp(true) }
	m[0xE9] = func(c *CPU) int { c.pc = c.getHL(); return 4 }

	m[0xC4] = func(c *CPU) int { return c.call(c.condition(0)) }
	m[0xCC] = func(c *CPU) int { return c.call(c.condition(1)) }
	m[0xD4] = func(c *CPU) int { return c.call(c.condition(2)) }
	m[0xDC] = func(c *CPU) int { return c.call(c.condition(3)) }
	m[0xCD] = func(c *CPU) int { return c.call(true) }

	m[0xC0] = func(c *CPU) int { return c.ret(c.condition(0)) }
	m[0xC8] = func(c *CPU) int { return c.ret(c.condition(1)) }
	m[0xD0] = func(c *CPU) int { return c.ret(c.condition(2)) }
	m[0xD8] = func(c *CPU) int { return c.ret(c.condition(3)) }
	m[0xC9] = func(c *CPU) int { return c.retUnconditional() }
	m[0xD9] = func(c *CPU) int {
		cycles := c.retUnconditional()
		c.ime = true
		c.imeEnableDelay = 0
		return cycles
	}

	for i, opcode := range []uint8{0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF} {
		target := uint16(i) * 8
		m[opcode] = func(c *CPU) int { return c.rst(target) }
	}

	m[0xC1] = func(c *CPU) int { c.setBC(c.popWord()); return 12 }
	m[0xD1] = func(c *CPU) int { c.setDE(c.popWord()); return 12 }
	m[0xE1] = func(c *CPU) int { c.setHL(c.popWord()); return 12 }
	m[0xF1] = func(c *CPU) int { c.setAF(c.popWord()); return 12 }

	m[0xC5] = func(c *CPU) int { c.pushWord(c.getBC()); return 16 }
	m[0xD5] = func(c *CPU) int { c.pushWord(c.getDE()); return 16 }
	m[0xE5] = func(c *CPU) int { c.pushWord(c.getHL()); return 16 }
	m[0xF5] = func(c *CPU) int { c.pushWord(c.getAF()); return 16 }

	aluImmediate := []struct {
		opcode uint8
		op     func(c *CPU, v uint8)
	}{
		{0xC6, (*CPU).addToA}, {0xCE, (*CPU).adcToA}, {0xD6, (*CPU).subFromA}, {0xDE, (*CPU).sbcFromA},
		{0xE6, (*CPU).andWithA}, {0xEE, (*CPU).xorWithA}, {0xF6, (*CPU).orWithA}, {0xFE, (*CPU).cpWithA},
	}
	for _, entry := range aluImmediate {
		op := entry.op
		m[entry.opcode] = func(c *CPU) int { op(c, c.readImmediate()); return 8 }
	}

	m[0x27] = func(c *CPU) int { c.daa(); return 4 }
	m[0x2F] = func(c *CPU) int { c.cpl(); return 4 }
	m[0x37] = func(c *CPU) int { c.scf(); return 4 }
	m[0x3F] = func(c *CPU) int { c.ccf(); return 4 }

	m[0xF3] = func(c *CPU) int { c.ime = false; c.imeEnableDelay = 0; return 4 }
	m[0xFB] = func(c *CPU) int { c.imeEnableDelay = 2; return 4 }

	m[0xE0] = func(c *CPU) int { c.bus.Write(0xFF00+uint16(c.readImmediate()), c.a); return 12 }
	m[0xF0] = func(c *CPU) int { c.a = c.bus.Read(0xFF00 + uint16(c.readImmediate())); return 12 }
	m[0xE2] = func(c *CPU) int { c.bus.Write(0xFF00+uint16(c.c), c.a); return 8 }
	m[0xF2] = func(c *CPU) int { c.a = c.bus.Read(0xFF00 + uint16(c.c)); return 8 }
	m[0xEA] = func(c *CPU) int { c.bus.Write(c.readImmediateWord(), c.a); return 16 }
	m[0xFA] = func(c *CPU) int { c.a = c.bus.Read(c.readImmediateWord()); return 16 }

	m[0xE8] = func(c *CPU) int { c.sp = c.addSignedToSP(c.readSignedImmediate()); return 16 }
	m[0xF8] = func(c *CPU) int { c.setHL(c.addSignedToSP(c.readSignedImmediate())); return 12 }
	m[0xF9] = func(c *CPU) int { c.sp = c.getHL(); return 8 }

	for _, opcode := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		m[opcode] = illegal(opcode)
	}

	return m
}
