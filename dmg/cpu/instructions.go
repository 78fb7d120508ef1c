package cpu

import "github.com/ashryu/dmgcore/dmg/bit"

// --- stack helpers ---

func (c *CPU) pushWord(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

func (c *CPU) popWord() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

// --- 8-bit ALU, operating on and writing back to the accumulator ---

func (c *CPU) addToA(value uint8) {
	result := uint16(c.a) + uint16(value)
	c.setFlags(uint8(result) == 0, false, (c.a&0xF)+(value&0xF) > 0xF, result > 0xFF)
	c.a = uint8(result)
}

func (c *CPU) adcToA(value uint8) {
	carry := c.flagBit(carryFlag)
	result := uint16(c.a) + uint16(value) + uint16(carry)
	halfCarry := (c.a&0xF)+(value&0xF)+carry > 0xF
	c.setFlags(uint8(result) == 0, false, halfCarry, result > 0xFF)
	c.a = uint8(result)
}

func (c *CPU) subFromA(value uint8) {
	result := int16(c.a) - int16(value)
	halfCarry := int16(c.a&0xF)-int16(value&0xF) < 0
	c.setFlags(uint8(result) == 0, true, halfCarry, result < 0)
	c.a = uint8(result)
}

func (c *CPU) sbcFromA(value uint8) {
	carry := c.flagBit(carryFlag)
	result := int16(c.a) - int16(value) - int16(carry)
	halfCarry := int16(c.a&0xF)-int16(value&0xF)-int16(carry) < 0
	c.setFlags(uint8(result) == 0, true, halfCarry, result < 0)
	c.a = uint8(result)
}

func (c *CPU) andWithA(value uint8) {
	c.a &= value
	c.setFlags(c.a == 0, false, true, false)
}

func (c *CPU) xorWithA(value uint8) {
	c.a ^= value
	c.setFlags(c.a == 0, false, false, false)
}

func (c *CPU) orWithA(value uint8) {
	c.a |= value
	c.setFlags(c.a == 0, false, false, false)
}

// cpWithA compares value against A without modifying A.
func (c *CPU) cpWithA(value uint8) {
	result := int16(c.a) - int16(value)
	halfCarry := int16(c.a&0xF)-int16(value&0xF) < 0
	c.setFlags(uint8(result) == 0, true, halfCarry, result < 0)
}

// --- 8-bit INC/DEC, flag rules depend on direction ---

func (c *CPU) inc8(value uint8) uint8 {
	result := value + 1
	c.setFlagIf(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagIf(halfCarryFlag, result&0x0F == 0x00)
	return result
}

func (c *CPU) dec8(value uint8) uint8 {
	c.setFlagIf(halfCarryFlag, value&0x0F == 0x00)
	result := value - 1
	c.setFlagIf(zeroFlag, result == 0)
	c.setFlag(subFlag)
	return result
}

// --- 16-bit arithmetic ---

func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	result := uint32(hl) + uint32(value)
	c.resetFlag(subFlag)
	c.setFlagIf(halfCarryFlag, (hl&0x0FFF)+(value&0x0FFF) > 0x0FFF)
	c.setFlagIf(carryFlag, result > 0xFFFF)
	c.setHL(uint16(result))
}

// addSignedToSP implements both ADD SP,n and LD HL,SP+n: it computes
// SP + signed offset and reports the flags as if the addition had been
// performed on the low byte of SP, per hardware behavior.
func (c *CPU) addSignedToSP(offset int8) uint16 {
	sp := c.sp
	result := uint32(int32(sp) + int32(offset))
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagIf(halfCarryFlag, (sp&0xF)+(uint16(offset)&0xF) > 0xF)
	c.setFlagIf(carryFlag, (sp&0xFF)+(uint16(offset)&0xFF) > 0xFF)
	return uint16(result)
}

// --- rotate/shift primitives, shared by A-register short forms and the CB block ---

func rlcVal(v uint8) (uint8, bool) {
	carry := v&0x80 != 0
	return (v << 1) | (v >> 7), carry
}

func rrcVal(v uint8) (uint8, bool) {
	carry := v&0x01 != 0
	return (v >> 1) | (v << 7), carry
}

func rlVal(v uint8, carryIn bool) (uint8, bool) {
	carryOut := v&0x80 != 0
	var ci uint8
	if carryIn {
		ci = 1
	}
	return (v << 1) | ci, carryOut
}

func rrVal(v uint8, carryIn bool) (uint8, bool) {
	carryOut := v&0x01 != 0
	var ci uint8
	if carryIn {
		ci = 0x80
	}
	return (v >> 1) | ci, carryOut
}

func slaVal(v uint8) (uint8, bool) {
	carry := v&0x80 != 0
	return v << 1, carry
}

func sraVal(v uint8) (uint8, bool) {
	carry := v&0x01 != 0
	return uint8(int8(v) >> 1), carry
}

func srlVal(v uint8) (uint8, bool) {
	carry := v&0x01 != 0
	return v >> 1, carry
}

func swapVal(v uint8) uint8 {
	return (v << 4) | (v >> 4)
}

// rotateA applies a rotate/shift primitive to A as one of the short
// opcodes (RLCA, RRCA, RLA, RRA): Z, N and H are always cleared.
func (c *CPU) rotateA(op func(uint8) (uint8, bool)) {
	result, carry := op(c.a)
	c.a = result
	c.setFlags(false, false, false, carry)
}

// rotateCB applies a rotate/shift/swap primitive as a CB-prefixed
// opcode: Z reflects the result, N and H are cleared.
func (c *CPU) rotateCB(value uint8, op func(uint8) (uint8, bool)) (uint8, bool) {
	result, carry := op(value)
	c.setFlags(result == 0, false, false, carry)
	return result, carry
}

func (c *CPU) swapCB(value uint8) uint8 {
	result := swapVal(value)
	c.setFlags(result == 0, false, false, false)
	return result
}

func (c *CPU) bitTest(index, value uint8) {
	c.setFlagIf(zeroFlag, !bit.IsSet(index, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// --- DAA and single-flag opcodes ---

func (c *CPU) daa() {
	correction := uint16(0)
	carry := false

	halfCarry := c.isSet(halfCarryFlag)
	wasSub := c.isSet(subFlag)
	hadCarry := c.isSet(carryFlag)

	if halfCarry || (!wasSub && c.a&0xF > 9) {
		correction |= 0x06
	}
	if hadCarry || (!wasSub && c.a > 0x99) {
		correction |= 0x60
		carry = true
	}

	if wasSub {
		c.a -= uint8(correction)
	} else {
		c.a += uint8(correction)
	}

	c.setFlagIf(zeroFlag, c.a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagIf(carryFlag, carry)
}

func (c *CPU) cpl() {
	c.a = ^c.a
	c.setFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

func (c *CPU) ccf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagIf(carryFlag, !c.isSet(carryFlag))
}

func (c *CPU) scf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlag(carryFlag)
}

// --- control flow ---

// condition evaluates one of the four branch conditions used by
// JR/JP/CALL/RET (NZ, Z, NC, C), indexed the same way the opcode
// encoding groups them.
func (c *CPU) condition(code uint8) bool {
	switch code {
	case 0:
		return !c.isSet(zeroFlag)
	case 1:
		return c.isSet(zeroFlag)
	case 2:
		return !c.isSet(carryFlag)
	case 3:
		return c.isSet(carryFlag)
	default:
		panic("cpu: invalid branch condition code")
	}
}

func (c *CPU) jr(taken bool) int {
	offset := c.readSignedImmediate()
	if !taken {
		return 8
	}
	c.pc = uint16(int32(c.pc) + int32(offset))
	return 12
}

func (c *CPU) jp(taken bool) int {
	target := c.readImmediateWord()
	if !taken {
		return 12
	}
	c.pc = target
	return 16
}

func (c *CPU) call(taken bool) int {
	target := c.readImmediateWord()
	if !taken {
		return 12
	}
	c.pushWord(c.pc)
	c.pc = target
	return 24
}

func (c *CPU) ret(taken bool) int {
	if !taken {
		return 8
	}
	c.pc = c.popWord()
	return 20
}

// retUnconditional is RET/RETI's own 16-cycle path: with no flag to
// check, it's one M-cycle cheaper than a conditional RET whose
// condition happened to be true.
func (c *CPU) retUnconditional() int {
	c.pc = c.popWord()
	return 16
}

func (c *CPU) rst(target uint16) int {
	c.pushWord(c.pc)
	c.pc = target
	return 16
}
