package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeMemory map[uint16]byte

func (f fakeMemory) Read(address uint16) byte { return f[address] }

func TestDisassembleAtDecodesZeroOperandInstructions(t *testing.T) {
	cases := map[byte]string{
		0x00: "NOP",
		0x76: "HALT",
		0xC9: "RET",
		0xD9: "RETI",
		0xF3: "DI",
		0xFB: "EI",
	}
	for opcode, want := range cases {
		mem := fakeMemory{0: opcode}
		line := DisassembleAt(0, mem)
		assert.Equal(t, want, line.Instruction)
		assert.Equal(t, 1, line.Length)
	}
}

func TestDisassembleAtDecodesRegisterToRegisterLoad(t *testing.T) {
	mem := fakeMemory{0: 0x7E} // LD A,(HL): dst=7 (A), src=6 ((HL))
	line := DisassembleAt(0, mem)
	assert.Equal(t, "LD A,(HL)", line.Instruction)
	assert.Equal(t, 1, line.Length)
}

func TestDisassembleAtDecodesALUAccumulatorOp(t *testing.T) {
	mem := fakeMemory{0: 0x85} // ADD A,L: op=0 (ADD), src=5 (L)
	line := DisassembleAt(0, mem)
	assert.Equal(t, "ADD A,L", line.Instruction)
}

func TestDisassembleAtDecodesImmediate8BitOperand(t *testing.T) {
	mem := fakeMemory{0: 0x3E, 1: 0x42} // LD A,0x42
	line := DisassembleAt(0, mem)
	assert.Equal(t, "LD A,0X42", line.Instruction)
	assert.Equal(t, 2, line.Length)
}

func TestDisassembleAtDecodesImmediate16BitOperand(t *testing.T) {
	mem := fakeMemory{0: 0x21, 1: 0x34, 2: 0x12} // LD HL,0x1234
	line := DisassembleAt(0, mem)
	assert.Equal(t, "LD HL,0X1234", line.Instruction)
	assert.Equal(t, 3, line.Length)
}

func TestDisassembleAtDecodesSignedRelativeJump(t *testing.T) {
	mem := fakeMemory{0: 0x18, 1: 0xFE} // JR -2
	line := DisassembleAt(0, mem)
	assert.Equal(t, "JR -2", line.Instruction)
}

func TestDisassembleAtDecodesRSTTarget(t *testing.T) {
	mem := fakeMemory{0: 0xEF} // RST 28H
	line := DisassembleAt(0, mem)
	assert.Equal(t, "RST 28H", line.Instruction)
}

func TestDisassembleAtDecodesIllegalOpcode(t *testing.T) {
	mem := fakeMemory{0: 0xED}
	line := DisassembleAt(0, mem)
	assert.Equal(t, "??", line.Instruction)
}

func TestDisassembleAtDecodesCBPrefixedBitTest(t *testing.T) {
	mem := fakeMemory{0: 0xCB, 1: 0x7C} // BIT 7,H
	line := DisassembleAt(0, mem)
	assert.Equal(t, "BIT 7,H", line.Instruction)
	assert.Equal(t, 2, line.Length)
}

func TestDisassembleAtDecodesCBPrefixedRotate(t *testing.T) {
	mem := fakeMemory{0: 0xCB, 1: 0x00} // RLC B
	line := DisassembleAt(0, mem)
	assert.Equal(t, "RLC B", line.Instruction)
}

func TestDisassembleAtHandlesTruncatedInstructionAtTopOfMemory(t *testing.T) {
	mem := fakeMemory{0xFFFF: 0x3E} // LD A,n with no operand byte available
	line := DisassembleAt(0xFFFF, mem)
	assert.Equal(t, "LD A,0X00", line.Instruction)
}

func TestDisassembleRangeStopsAtEndAddress(t *testing.T) {
	mem := fakeMemory{
		0: 0x00,                   // NOP (1 byte)
		1: 0x21, 2: 0x00, 3: 0x80, // LD HL,0x8000 (3 bytes)
		4: 0x76, // HALT (1 byte)
	}
	lines := DisassembleRange(0, 5, mem)
	assert.Len(t, lines, 3)
	assert.Equal(t, uint16(0), lines[0].Address)
	assert.Equal(t, uint16(1), lines[1].Address)
	assert.Equal(t, uint16(4), lines[2].Address)
}

func TestDisassembleAroundIncludesInstructionsBeforeAndAfterPC(t *testing.T) {
	mem := fakeMemory{
		0: 0x00, // NOP
		1: 0x00, // NOP
		2: 0x00, // NOP  <- currentPC
		3: 0x76, // HALT
	}
	lines := DisassembleAround(2, 2, 1, mem)
	assert.Equal(t, uint16(0), lines[0].Address)
	assert.Equal(t, uint16(2), lines[2].Address)
	assert.Equal(t, uint16(3), lines[3].Address)
}

func TestFormatDisassemblyLineMarksCurrentPC(t *testing.T) {
	line := Line{Address: 0x100, Instruction: "NOP", Length: 1}
	assert.Equal(t, "> 0x0100: NOP", FormatDisassemblyLine(line, true))
	assert.Equal(t, "  0x0100: NOP", FormatDisassemblyLine(line, false))
}
