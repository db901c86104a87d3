package cpu

import "github.com/valerio/go-nescore/nescore/bit"

// commonOp is an operation of the common class. Exactly one of read, store
// and modify is set. slots has a bit set for every legal bbb field.
type commonOp struct {
	name   string
	slots  uint8
	indexY bool // X-indexed modes use Y instead
	read   func(c *CPU, value uint8)
	store  func(c *CPU) uint8
	modify func(c *CPU, value uint8) uint8
}

// commonOps is indexed by aaa | cc<<3.
var commonOps = [32]commonOp{
	// cc = 00
	{name: "???"},
	{name: "BIT", slots: 0x0A, read: (*CPU).bit},
	{name: "???"}, // JMP lives in the jump class
	{name: "???"},
	{name: "STY", slots: 0x2A, store: func(c *CPU) uint8 { return c.y }},
	{name: "LDY", slots: 0xAB, read: func(c *CPU, v uint8) { c.y = v; c.setZN(v) }},
	{name: "CPY", slots: 0x0B, read: func(c *CPU, v uint8) { c.compare(c.y, v) }},
	{name: "CPX", slots: 0x0B, read: func(c *CPU, v uint8) { c.compare(c.x, v) }},

	// cc = 01
	{name: "ORA", slots: 0xFF, read: func(c *CPU, v uint8) { c.a |= v; c.setZN(c.a) }},
	{name: "AND", slots: 0xFF, read: func(c *CPU, v uint8) { c.a &= v; c.setZN(c.a) }},
	{name: "EOR", slots: 0xFF, read: func(c *CPU, v uint8) { c.a ^= v; c.setZN(c.a) }},
	{name: "ADC", slots: 0xFF, read: (*CPU).adc},
	{name: "STA", slots: 0xFB, store: func(c *CPU) uint8 { return c.a }},
	{name: "LDA", slots: 0xFF, read: func(c *CPU, v uint8) { c.a = v; c.setZN(v) }},
	{name: "CMP", slots: 0xFF, read: func(c *CPU, v uint8) { c.compare(c.a, v) }},
	{name: "SBC", slots: 0xFF, read: func(c *CPU, v uint8) { c.adc(^v) }},

	// cc = 10
	{name: "ASL", slots: 0xAA, modify: (*CPU).asl},
	{name: "ROL", slots: 0xAA, modify: (*CPU).rol},
	{name: "LSR", slots: 0xAA, modify: (*CPU).lsr},
	{name: "ROR", slots: 0xAA, modify: (*CPU).ror},
	{name: "STX", slots: 0x2A, indexY: true, store: func(c *CPU) uint8 { return c.x }},
	{name: "LDX", slots: 0xAB, indexY: true, read: func(c *CPU, v uint8) { c.x = v; c.setZN(v) }},
	{name: "DEC", slots: 0xAA, modify: func(c *CPU, v uint8) uint8 { v--; c.setZN(v); return v }},
	{name: "INC", slots: 0xAA, modify: func(c *CPU, v uint8) uint8 { v++; c.setZN(v); return v }},

	// cc = 11 has no official operations
	{name: "???"}, {name: "???"}, {name: "???"}, {name: "???"},
	{name: "???"}, {name: "???"}, {name: "???"}, {name: "???"},
}

// impliedOp is an operation with no memory operand.
type impliedOp struct {
	name   string
	mode   Mode
	cycles int
	exec   func(c *CPU, bus Bus)
}

// impliedOps is indexed by the high nibble, plus 16 for the xA column.
var impliedOps = [32]impliedOp{
	// x8
	{"PHP", Implied, 3, func(c *CPU, bus Bus) { c.push(bus, c.p|uint8(breakFlag|unusedFlag)) }},
	{"CLC", Implied, 2, func(c *CPU, _ Bus) { c.resetFlag(carryFlag) }},
	{"PLP", Implied, 4, func(c *CPU, bus Bus) { c.setStatus(c.pull(bus)) }},
	{"SEC", Implied, 2, func(c *CPU, _ Bus) { c.setFlag(carryFlag) }},
	{"PHA", Implied, 3, func(c *CPU, bus Bus) { c.push(bus, c.a) }},
	{"CLI", Implied, 2, func(c *CPU, _ Bus) { c.resetFlag(interruptFlag) }},
	{"PLA", Implied, 4, func(c *CPU, bus Bus) { c.a = c.pull(bus); c.setZN(c.a) }},
	{"SEI", Implied, 2, func(c *CPU, _ Bus) { c.setFlag(interruptFlag) }},
	{"DEY", Implied, 2, func(c *CPU, _ Bus) { c.y--; c.setZN(c.y) }},
	{"TYA", Implied, 2, func(c *CPU, _ Bus) { c.a = c.y; c.setZN(c.a) }},
	{"TAY", Implied, 2, func(c *CPU, _ Bus) { c.y = c.a; c.setZN(c.y) }},
	{"CLV", Implied, 2, func(c *CPU, _ Bus) { c.resetFlag(overflowFlag) }},
	{"INY", Implied, 2, func(c *CPU, _ Bus) { c.y++; c.setZN(c.y) }},
	{"CLD", Implied, 2, func(c *CPU, _ Bus) { c.resetFlag(decimalFlag) }},
	{"INX", Implied, 2, func(c *CPU, _ Bus) { c.x++; c.setZN(c.x) }},
	{"SED", Implied, 2, func(c *CPU, _ Bus) { c.setFlag(decimalFlag) }},

	// xA
	{"ASL", Accumulator, 2, func(c *CPU, _ Bus) { c.a = c.asl(c.a) }},
	{"???", Implied, 2, nil},
	{"ROL", Accumulator, 2, func(c *CPU, _ Bus) { c.a = c.rol(c.a) }},
	{"???", Implied, 2, nil},
	{"LSR", Accumulator, 2, func(c *CPU, _ Bus) { c.a = c.lsr(c.a) }},
	{"???", Implied, 2, nil},
	{"ROR", Accumulator, 2, func(c *CPU, _ Bus) { c.a = c.ror(c.a) }},
	{"???", Implied, 2, nil},
	{"TXA", Implied, 2, func(c *CPU, _ Bus) { c.a = c.x; c.setZN(c.a) }},
	{"TXS", Implied, 2, func(c *CPU, _ Bus) { c.sp = c.x }},
	{"TAX", Implied, 2, func(c *CPU, _ Bus) { c.x = c.a; c.setZN(c.x) }},
	{"TSX", Implied, 2, func(c *CPU, _ Bus) { c.x = c.sp; c.setZN(c.x) }},
	{"DEX", Implied, 2, func(c *CPU, _ Bus) { c.x--; c.setZN(c.x) }},
	{"???", Implied, 2, nil},
	{"NOP", Implied, 2, func(c *CPU, _ Bus) {}},
	{"???", Implied, 2, nil},
}

// branch conditions, indexed by opcode>>5: flag to test and the value that
// takes the branch
var branchConditions = [8]struct {
	flag Flag
	set  bool
}{
	{negativeFlag, false},
	{negativeFlag, true},
	{overflowFlag, false},
	{overflowFlag, true},
	{carryFlag, false},
	{carryFlag, true},
	{zeroFlag, false},
	{zeroFlag, true},
}

// base cycle counts per addressing mode
var (
	readCycles = [modeCount]int{
		Immediate: 2, ZeroPage: 3, ZeroPageX: 4, ZeroPageY: 4,
		Absolute: 4, AbsoluteX: 4, AbsoluteY: 4,
		IndexedIndirect: 6, IndirectIndexed: 5,
	}
	storeCycles = [modeCount]int{
		ZeroPage: 3, ZeroPageX: 4, ZeroPageY: 4,
		Absolute: 4, AbsoluteX: 5, AbsoluteY: 5,
		IndexedIndirect: 6, IndirectIndexed: 6,
	}
	modifyCycles = [modeCount]int{
		ZeroPage: 5, ZeroPageX: 6, Absolute: 6, AbsoluteX: 7,
	}
)

func (c *CPU) adc(value uint8) {
	sum := uint16(c.a) + uint16(value) + uint16(c.flagToBit(carryFlag))
	result := uint8(sum)

	c.setFlagToCondition(carryFlag, sum > 0xFF)
	c.setFlagToCondition(overflowFlag, (c.a^result)&(value^result)&0x80 != 0)
	c.a = result
	c.setZN(result)
}

func (c *CPU) compare(register, value uint8) {
	c.setFlagToCondition(carryFlag, register >= value)
	c.setZN(register - value)
}

func (c *CPU) bit(value uint8) {
	c.setFlagToCondition(zeroFlag, c.a&value == 0)
	c.setFlagToCondition(overflowFlag, value&0x40 != 0)
	c.setFlagToCondition(negativeFlag, bit.IsSet(7, value))
}

func (c *CPU) asl(value uint8) uint8 {
	c.setFlagToCondition(carryFlag, bit.IsSet(7, value))
	value <<= 1
	c.setZN(value)
	return value
}

func (c *CPU) lsr(value uint8) uint8 {
	c.setFlagToCondition(carryFlag, bit.IsSet(0, value))
	value >>= 1
	c.setZN(value)
	return value
}

func (c *CPU) rol(value uint8) uint8 {
	carry := c.flagToBit(carryFlag)
	c.setFlagToCondition(carryFlag, bit.IsSet(7, value))
	value = value<<1 | carry
	c.setZN(value)
	return value
}

func (c *CPU) ror(value uint8) uint8 {
	carry := c.flagToBit(carryFlag) << 7
	c.setFlagToCondition(carryFlag, bit.IsSet(0, value))
	value = value>>1 | carry
	c.setZN(value)
	return value
}

// setStatus loads P from the stack: Break does not exist in the register and
// bit 5 always reads as set.
func (c *CPU) setStatus(value uint8) {
	c.p = value&^uint8(breakFlag) | uint8(unusedFlag)
}

func (c *CPU) push(bus Bus, value uint8) {
	bus.Write(stackPage|uint16(c.sp), value)
	c.sp--
}

func (c *CPU) pull(bus Bus) uint8 {
	c.sp++
	return bus.Read(stackPage | uint16(c.sp))
}

func (c *CPU) pushWord(bus Bus, value uint16) {
	c.push(bus, bit.High(value))
	c.push(bus, bit.Low(value))
}

func (c *CPU) pullWord(bus Bus) uint16 {
	low := c.pull(bus)
	high := c.pull(bus)
	return bit.Combine(high, low)
}
