// Package disasm renders the bytes a MemoryReader exposes as DMG
// assembly text, one instruction at a time, for a debugger's
// disassembly view.
package disasm

import (
	"fmt"
	"strings"

	"github.com/ashryu/dmgcore/dmg/bit"
)

// MemoryReader is the minimal interface disassembly needs to read
// opcode and operand bytes.
type MemoryReader interface {
	Read(address uint16) byte
}

// Line is one disassembled instruction.
type Line struct {
	Address     uint16
	Instruction string
	Length      int
}

// DisassembleAt disassembles the single instruction starting at pc.
func DisassembleAt(pc uint16, bus MemoryReader) Line {
	opcode := bus.Read(pc)

	if opcode == 0xCB {
		if pc == 0xFFFF {
			return Line{Address: pc, Instruction: "CB ??", Length: 2}
		}
		cbOpcode := bus.Read(pc + 1)
		entry := cbMnemonics[cbOpcode]
		return Line{Address: pc, Instruction: entry.text, Length: entry.length}
	}

	entry := primaryMnemonics[opcode]
	instruction := formatOperand(entry, pc, bus)
	return Line{Address: pc, Instruction: instruction, Length: entry.length}
}

func formatOperand(entry mnemonicEntry, pc uint16, bus MemoryReader) string {
	if !strings.Contains(entry.text, "%") {
		return entry.text
	}

	switch entry.length {
	case 2:
		if pc == 0xFFFF {
			return fmt.Sprintf(entry.text, 0)
		}
		operand := bus.Read(pc + 1)
		if strings.Contains(entry.text, "%d") {
			return fmt.Sprintf(entry.text, int8(operand))
		}
		return fmt.Sprintf(entry.text, operand)
	case 3:
		if pc >= 0xFFFE {
			return fmt.Sprintf(entry.text, 0)
		}
		nn := bit.Combine(bus.Read(pc+2), bus.Read(pc+1))
		return fmt.Sprintf(entry.text, nn)
	default:
		return entry.text
	}
}

// DisassembleRange disassembles consecutive instructions starting at
// start, stopping once an instruction would start at or past end.
func DisassembleRange(start, end uint16, bus MemoryReader) []Line {
	var lines []Line
	pc := start
	for pc < end {
		line := DisassembleAt(pc, bus)
		lines = append(lines, line)
		if uint32(pc)+uint32(line.Length) > 0xFFFF {
			break
		}
		pc += uint16(line.Length)
	}
	return lines
}

// DisassembleAround disassembles up to before instructions preceding
// currentPC plus the instruction at currentPC and up to after
// instructions following it. Since variable-length encoding makes
// stepping backwards ambiguous, it scans forward from progressively
// earlier candidate starting points until one lands exactly on
// currentPC.
func DisassembleAround(currentPC uint16, before, after int, bus MemoryReader) []Line {
	maxBackScan := before * 3
	startPC := currentPC
	precedingCount := 0

	for offset := maxBackScan; offset > 0; offset-- {
		if uint16(offset) > currentPC {
			continue
		}
		candidate := currentPC - uint16(offset)

		cursor := candidate
		count := 0
		for cursor < currentPC && count < before+1 {
			line := DisassembleAt(cursor, bus)
			cursor += uint16(line.Length)
			count++
		}
		if cursor == currentPC && count >= 1 {
			startPC = candidate
			precedingCount = count
			break
		}
	}

	lines := make([]Line, 0, precedingCount+1+after)
	pc := startPC
	for i := 0; i < precedingCount+1+after && pc <= 0xFFFF; i++ {
		line := DisassembleAt(pc, bus)
		lines = append(lines, line)
		if uint32(pc)+uint32(line.Length) > 0xFFFF {
			break
		}
		pc += uint16(line.Length)
	}
	return lines
}

// FormatDisassemblyLine renders line for display, marking it with an
// arrow if it's at the current program counter.
func FormatDisassemblyLine(line Line, isCurrentPC bool) string {
	marker := " "
	if isCurrentPC {
		marker = ">"
	}
	return fmt.Sprintf("%s 0x%04X: %s", marker, line.Address, line.Instruction)
}
