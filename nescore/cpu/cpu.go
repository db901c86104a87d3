package cpu

import (
	"fmt"

	"github.com/valerio/go-nescore/nescore/addr"
	"github.com/valerio/go-nescore/nescore/bit"
)

// Bus is the CPU's view of the address space. Every method that touches
// memory receives it explicitly; the CPU keeps no reference to it.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Peeker is implemented by buses that can read without side effects. Tick
// uses it to size an instruction before running it.
type Peeker interface {
	Peek(address uint16) byte
}

// peekBus runs an instruction without touching the machine.
type peekBus struct {
	bus Peeker
}

func (b peekBus) Read(address uint16) byte { return b.bus.Peek(address) }
func (b peekBus) Write(uint16, byte)       {}

// entry is what the CPU does at an instruction boundary.
type entry uint8

const (
	entryInstruction entry = iota
	entryNMI
	entryIRQ
)

const stackPage = addr.StackPage

const (
	powerOnStatus   = 0x24
	powerOnSP       = 0xFD
	resetCycles     = 7
	interruptCycles = 7
)

// CPU is the 2A03's 6502 core (no decimal mode).
type CPU struct {
	a  uint8
	x  uint8
	y  uint8
	p  uint8
	sp uint8
	pc uint16

	cycles  uint64
	stall   int  // cycles left before the next instruction starts
	pending bool // the planned entry runs on the last stalled cycle
	planned entry

	nmiPending bool
	irqLine    bool
}

// New returns a CPU in its power-on state. Reset must be called with a bus
// before running to load PC from the reset vector.
func New() *CPU {
	return &CPU{
		p:  powerOnStatus,
		sp: powerOnSP,
	}
}

// Reset puts the CPU in its power-on state and jumps through the reset
// vector.
func (c *CPU) Reset(bus Bus) {
	c.a, c.x, c.y = 0, 0, 0
	c.p = powerOnStatus
	c.sp = powerOnSP
	c.pc = c.readWord(bus, addr.ResetVector)
	c.cycles = resetCycles
	c.stall = 0
	c.pending = false
	c.nmiPending = false
	c.irqLine = false
}

// Step runs a whole instruction, or enters a pending interrupt, and returns
// the cycles it took. The returned error is non-nil only for illegal opcodes,
// which are skipped as no-ops.
func (c *CPU) Step(bus Bus) (int, error) {
	cycles, err := c.step(bus)
	c.cycles += uint64(cycles)
	return cycles, err
}

func (c *CPU) step(bus Bus) (int, error) {
	return c.run(bus, c.next())
}

// next samples the interrupt lines and consumes a pending NMI.
func (c *CPU) next() entry {
	if c.nmiPending {
		c.nmiPending = false
		return entryNMI
	}
	if c.irqLine && !c.isSetFlag(interruptFlag) {
		return entryIRQ
	}
	return entryInstruction
}

func (c *CPU) run(bus Bus, e entry) (int, error) {
	switch e {
	case entryNMI:
		c.interrupt(bus, addr.NMIVector)
		return interruptCycles, nil
	case entryIRQ:
		c.interrupt(bus, addr.IRQVector)
		return interruptCycles, nil
	}

	pc := c.pc
	opcode := c.fetch(bus)
	return c.execute(bus, opcode, pc)
}

// Tick runs a single CPU cycle. On a bus that implements Peeker the
// instruction is sized on its first cycle and its bus accesses happen on its
// last one, so a load racing a PPU flag sees the flag as of that cycle.
// Other buses get every access on the first cycle. Interrupts are sampled
// only at instruction boundaries.
func (c *CPU) Tick(bus Bus) error {
	c.cycles++

	if c.stall > 0 {
		c.stall--
		if c.stall > 0 || !c.pending {
			return nil
		}
		c.pending = false
		_, err := c.run(bus, c.planned)
		return err
	}

	e := c.next()
	peeker, ok := bus.(Peeker)
	if !ok {
		cycles, err := c.run(bus, e)
		c.stall = cycles - 1
		return err
	}

	shadow := *c
	cycles, _ := shadow.run(peekBus{peeker}, e)
	c.stall = cycles - 1
	c.planned = e
	c.pending = true
	return nil
}

// Idle burns one cycle without touching the bus, used while DMA owns it.
func (c *CPU) Idle() {
	c.cycles++
}

// AtBoundary reports whether the next Tick starts a new instruction.
func (c *CPU) AtBoundary() bool {
	return c.stall == 0
}

// Cycles returns the number of cycles elapsed since power-on, including the
// reset sequence.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// TriggerNMI latches a non-maskable interrupt, taken before the next
// instruction.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// SetIRQ drives the level-sensitive IRQ line.
func (c *CPU) SetIRQ(active bool) {
	c.irqLine = active
}

// Registers returns a snapshot of the registers.
func (c *CPU) Registers() Registers {
	return Registers{A: c.a, X: c.x, Y: c.y, P: c.p, SP: c.sp, PC: c.pc}
}

// SetRegisters overwrites the registers, e.g. to start a test ROM at a fixed
// address.
func (c *CPU) SetRegisters(r Registers) {
	c.a, c.x, c.y, c.p, c.sp, c.pc = r.A, r.X, r.Y, r.P, r.SP, r.PC
}

func (c *CPU) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X", c.a, c.x, c.y, c.p, c.sp, c.pc)
}

// interrupt pushes PC and P (Break clear) and jumps through vector.
func (c *CPU) interrupt(bus Bus, vector uint16) {
	c.pushWord(bus, c.pc)
	c.push(bus, bit.Set(5, bit.Clear(4, c.p)))
	c.setFlag(interruptFlag)
	c.pc = c.readWord(bus, vector)
}

func (c *CPU) fetch(bus Bus) uint8 {
	value := bus.Read(c.pc)
	c.pc++
	return value
}

func (c *CPU) fetchWord(bus Bus) uint16 {
	low := c.fetch(bus)
	high := c.fetch(bus)
	return bit.Combine(high, low)
}

func (c *CPU) readWord(bus Bus, address uint16) uint16 {
	low := bus.Read(address)
	high := bus.Read(address + 1)
	return bit.Combine(high, low)
}

// readZeroPageWord reads a pointer from the zero page, wrapping within it.
func readZeroPageWord(bus Bus, address uint8) uint16 {
	low := bus.Read(uint16(address))
	high := bus.Read(uint16(address + 1))
	return bit.Combine(high, low)
}

// operand fetches the operand bytes for mode and returns the effective
// address, and whether indexing crossed a page.
func (c *CPU) operand(bus Bus, mode Mode) (uint16, bool) {
	switch mode {
	case Immediate:
		address := c.pc
		c.pc++
		return address, false
	case ZeroPage:
		return uint16(c.fetch(bus)), false
	case ZeroPageX:
		return uint16(c.fetch(bus) + c.x), false
	case ZeroPageY:
		return uint16(c.fetch(bus) + c.y), false
	case Absolute:
		return c.fetchWord(bus), false
	case AbsoluteX:
		base := c.fetchWord(bus)
		address := base + uint16(c.x)
		return address, bit.PageCrossed(base, address)
	case AbsoluteY:
		base := c.fetchWord(bus)
		address := base + uint16(c.y)
		return address, bit.PageCrossed(base, address)
	case IndexedIndirect:
		return readZeroPageWord(bus, c.fetch(bus)+c.x), false
	case IndirectIndexed:
		base := readZeroPageWord(bus, c.fetch(bus))
		address := base + uint16(c.y)
		return address, bit.PageCrossed(base, address)
	default:
		panic(fmt.Sprintf("no memory operand for mode %s", mode))
	}
}

// execute runs an already fetched opcode. pc is the opcode's address.
func (c *CPU) execute(bus Bus, opcode uint8, pc uint16) (int, error) {
	d := decode(opcode)

	if d.illegal {
		c.pc += uint16(d.mode.Size() - 1)
		return 2, &IllegalOpcodeError{Opcode: opcode, PC: pc}
	}

	switch d.class {
	case classJump:
		return c.jump(bus, d.mode), nil
	case classSpecial:
		return c.special(bus, d.index), nil
	case classBranch:
		return c.branch(bus, d.index), nil
	case classImplied:
		op := &impliedOps[d.index]
		op.exec(c, bus)
		return op.cycles, nil
	default:
		return c.common(bus, &commonOps[d.index], d.mode), nil
	}
}

func (c *CPU) jump(bus Bus, mode Mode) int {
	target := c.fetchWord(bus)
	if mode == Absolute {
		c.pc = target
		return 3
	}

	// the pointer's high byte is fetched without carrying into the page
	low := bus.Read(target)
	high := bus.Read(target&0xFF00 | uint16(uint8(target)+1))
	c.pc = bit.Combine(high, low)
	return 5
}

func (c *CPU) special(bus Bus, index uint8) int {
	switch index {
	case specialJSR:
		target := c.fetchWord(bus)
		c.pushWord(bus, c.pc-1)
		c.pc = target
		return 6
	case specialBRK:
		c.pc++ // padding byte
		c.pushWord(bus, c.pc)
		c.push(bus, c.p|uint8(breakFlag|unusedFlag))
		c.setFlag(interruptFlag)
		c.pc = c.readWord(bus, addr.IRQVector)
		return 7
	case specialRTI:
		c.setStatus(c.pull(bus))
		c.pc = c.pullWord(bus)
		return 6
	case specialRTS:
		c.pc = c.pullWord(bus) + 1
		return 6
	default:
		panic(fmt.Sprintf("unimplemented special instruction %d", index))
	}
}

func (c *CPU) branch(bus Bus, index uint8) int {
	offset := int8(c.fetch(bus))
	cond := branchConditions[index]
	if c.isSetFlag(cond.flag) != cond.set {
		return 2
	}

	target := uint16(int32(c.pc) + int32(offset))
	cycles := 3
	if bit.PageCrossed(c.pc, target) {
		cycles++
	}
	c.pc = target
	return cycles
}

func (c *CPU) common(bus Bus, op *commonOp, mode Mode) int {
	address, crossed := c.operand(bus, mode)

	switch {
	case op.read != nil:
		op.read(c, bus.Read(address))
		cycles := readCycles[mode]
		if crossed {
			cycles++
		}
		return cycles
	case op.store != nil:
		bus.Write(address, op.store(c))
		return storeCycles[mode]
	default:
		value := bus.Read(address)
		// read-modify-write writes the old value back before the result
		bus.Write(address, value)
		bus.Write(address, op.modify(c, value))
		return modifyCycles[mode]
	}
}
