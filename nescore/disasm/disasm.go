package disasm

import (
	"fmt"
	"strings"

	"github.com/valerio/go-nescore/nescore/bit"
	"github.com/valerio/go-nescore/nescore/cpu"
)

// Reader reads memory without side effects. The bus' Peek satisfies it, so
// disassembling never clears a status flag or advances a controller.
type Reader interface {
	Peek(address uint16) byte
}

// Line is a single disassembled instruction.
type Line struct {
	Address  uint16
	Opcode   uint8
	Operands []byte
	Mnemonic string
	Mode     cpu.Mode
	Operand  string // formatted operand, e.g. "$C5F5" or "#$10"
	Illegal  bool
}

// Length is the number of bytes the instruction occupies.
func (l Line) Length() int {
	return 1 + len(l.Operands)
}

// Bytes returns the raw instruction bytes as hex, e.g. "4C F5 C5".
func (l Line) Bytes() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%02X", l.Opcode)
	for _, b := range l.Operands {
		fmt.Fprintf(&sb, " %02X", b)
	}
	return sb.String()
}

// Instruction returns mnemonic and operand, e.g. "JMP $C5F5".
func (l Line) Instruction() string {
	if l.Operand == "" {
		return l.Mnemonic
	}
	return l.Mnemonic + " " + l.Operand
}

func (l Line) String() string {
	return fmt.Sprintf("%04X  %-8s  %s", l.Address, l.Bytes(), l.Instruction())
}

// DisassembleAt disassembles the instruction at pc.
func DisassembleAt(pc uint16, r Reader) Line {
	opcode := r.Peek(pc)
	in := cpu.Describe(opcode)

	operands := make([]byte, in.Size-1)
	for i := range operands {
		operands[i] = r.Peek(pc + uint16(i) + 1)
	}

	return Line{
		Address:  pc,
		Opcode:   opcode,
		Operands: operands,
		Mnemonic: in.Mnemonic,
		Mode:     in.Mode,
		Operand:  formatOperand(pc, in.Mode, operands),
		Illegal:  in.Illegal,
	}
}

// DisassembleRange disassembles count instructions starting at pc, following
// the byte stream linearly (branches are not taken).
func DisassembleRange(pc uint16, count int, r Reader) []Line {
	lines := make([]Line, 0, count)
	for i := 0; i < count; i++ {
		line := DisassembleAt(pc, r)
		lines = append(lines, line)
		pc += uint16(line.Length())
	}
	return lines
}

func formatOperand(pc uint16, mode cpu.Mode, operands []byte) string {
	var word uint16
	if len(operands) == 2 {
		word = bit.Combine(operands[1], operands[0])
	}

	switch mode {
	case cpu.Implied:
		return ""
	case cpu.Accumulator:
		return "A"
	case cpu.Immediate:
		return fmt.Sprintf("#$%02X", operands[0])
	case cpu.ZeroPage:
		return fmt.Sprintf("$%02X", operands[0])
	case cpu.ZeroPageX:
		return fmt.Sprintf("$%02X,X", operands[0])
	case cpu.ZeroPageY:
		return fmt.Sprintf("$%02X,Y", operands[0])
	case cpu.Absolute:
		return fmt.Sprintf("$%04X", word)
	case cpu.AbsoluteX:
		return fmt.Sprintf("$%04X,X", word)
	case cpu.AbsoluteY:
		return fmt.Sprintf("$%04X,Y", word)
	case cpu.Indirect:
		return fmt.Sprintf("($%04X)", word)
	case cpu.IndexedIndirect:
		return fmt.Sprintf("($%02X,X)", operands[0])
	case cpu.IndirectIndexed:
		return fmt.Sprintf("($%02X),Y", operands[0])
	case cpu.Relative:
		target := uint16(int32(pc) + 2 + int32(int8(operands[0])))
		return fmt.Sprintf("$%04X", target)
	default:
		return ""
	}
}

// FormatDisassemblyLine formats a line for display, marking the current PC.
func FormatDisassemblyLine(line Line, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}
	return fmt.Sprintf("%s%04X: %-8s  %s", prefix, line.Address, line.Bytes(), line.Instruction())
}
