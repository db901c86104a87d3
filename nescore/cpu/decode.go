package cpu

// Mode is an addressing mode.
type Mode uint8

const (
	Implied Mode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
	Relative
	modeCount
)

var modeNames = [modeCount]string{
	Implied:         "imp",
	Accumulator:     "acc",
	Immediate:       "imm",
	ZeroPage:        "zp",
	ZeroPageX:       "zpx",
	ZeroPageY:       "zpy",
	Absolute:        "abs",
	AbsoluteX:       "absx",
	AbsoluteY:       "absy",
	Indirect:        "ind",
	IndexedIndirect: "indx",
	IndirectIndexed: "indy",
	Relative:        "rel",
}

func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return "?"
}

// Size is the encoded length in bytes of an instruction using the mode.
func (m Mode) Size() int {
	switch m {
	case Implied, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	default:
		return 2
	}
}

type class uint8

const (
	classJump class = iota
	classSpecial
	classBranch
	classImplied
	classCommon
)

// special instructions, selected by (opcode>>5)&3
const (
	specialBRK = iota
	specialIllegal
	specialRTI
	specialRTS
	specialJSR
)

// decoded is the result of classifying an opcode's bit fields.
type decoded struct {
	class   class
	index   uint8 // entry in the class' table
	mode    Mode
	illegal bool
}

// addressing modes of the common class, by opcode group (opcode&3) and the
// bbb field ((opcode>>2)&7). Slots owned by other classes are never looked up.
var groupModes = [4][8]Mode{
	{Immediate, ZeroPage, Implied, Absolute, Implied, ZeroPageX, Implied, AbsoluteX},
	{IndexedIndirect, ZeroPage, Immediate, Absolute, IndirectIndexed, ZeroPageX, AbsoluteY, AbsoluteX},
	{Immediate, ZeroPage, Accumulator, Absolute, Implied, ZeroPageX, Implied, AbsoluteX},
	{IndexedIndirect, ZeroPage, Immediate, Absolute, IndirectIndexed, ZeroPageX, AbsoluteY, AbsoluteX},
}

// decode classifies an opcode. The checks run in priority order, the first
// match wins.
func decode(opcode uint8) decoded {
	switch {
	case opcode&0xDF == 0x4C:
		if opcode&0x20 != 0 {
			return decoded{class: classJump, mode: Indirect}
		}
		return decoded{class: classJump, mode: Absolute}

	case opcode&0x9F == 0x00:
		if opcode == 0x20 {
			return decoded{class: classSpecial, index: specialJSR, mode: Absolute}
		}
		index := (opcode >> 5) & 0x03
		return decoded{class: classSpecial, index: index, mode: Implied, illegal: index == specialIllegal}

	case opcode&0x1F == 0x10:
		return decoded{class: classBranch, index: opcode >> 5, mode: Relative}

	case opcode&0x0D == 0x08:
		// x8 and xA: the high nibble picks the row, bit 1 the column
		index := opcode>>4 | (opcode&0x02)<<3
		op := &impliedOps[index]
		return decoded{class: classImplied, index: index, mode: op.mode, illegal: op.exec == nil}
	}

	group := opcode & 0x03
	slot := (opcode >> 2) & 0x07
	index := opcode>>5 | group<<3
	op := &commonOps[index]

	mode := groupModes[group][slot]
	if op.indexY {
		switch mode {
		case ZeroPageX:
			mode = ZeroPageY
		case AbsoluteX:
			mode = AbsoluteY
		}
	}

	return decoded{
		class:   classCommon,
		index:   index,
		mode:    mode,
		illegal: op.slots&(1<<slot) == 0,
	}
}

// Instruction describes an opcode for disassembly.
type Instruction struct {
	Opcode   uint8
	Mnemonic string
	Mode     Mode
	Size     int
	Illegal  bool
}

var specialNames = [...]string{
	specialBRK:     "BRK",
	specialIllegal: "???",
	specialRTI:     "RTI",
	specialRTS:     "RTS",
	specialJSR:     "JSR",
}

var branchNames = [8]string{"BPL", "BMI", "BVC", "BVS", "BCC", "BCS", "BNE", "BEQ"}

// Describe decodes an opcode the same way the CPU does, without executing it.
func Describe(opcode uint8) Instruction {
	d := decode(opcode)

	var name string
	switch d.class {
	case classJump:
		name = "JMP"
	case classSpecial:
		name = specialNames[d.index]
	case classBranch:
		name = branchNames[d.index]
	case classImplied:
		name = impliedOps[d.index].name
	case classCommon:
		name = commonOps[d.index].name
	}

	if d.illegal {
		name = "???"
	}

	return Instruction{
		Opcode:   opcode,
		Mnemonic: name,
		Mode:     d.mode,
		Size:     d.mode.Size(),
		Illegal:  d.illegal,
	}
}
