package nescore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/valerio/go-nescore/nescore/addr"
	"github.com/valerio/go-nescore/nescore/cartridge"
	"github.com/valerio/go-nescore/nescore/cpu"
	"github.com/valerio/go-nescore/nescore/debug"
	"github.com/valerio/go-nescore/nescore/disasm"
	"github.com/valerio/go-nescore/nescore/input"
	"github.com/valerio/go-nescore/nescore/memory"
	"github.com/valerio/go-nescore/nescore/video"
)

// resetDots is the PPU time covered by the CPU's reset sequence.
const resetDots = 7 * dotsPerCycle

const dotsPerCycle = 3

// ErrNoBattery is returned when loading save data into a cartridge without
// battery-backed RAM.
var ErrNoBattery = errors.New("cartridge has no battery-backed RAM")

// Options tunes the console's error policy.
type Options struct {
	// HaltOnIllegal stops Run and RunUntilFrame at the first illegal opcode.
	// Otherwise illegal opcodes run as no-ops and are only logged.
	HaltOnIllegal bool
}

// Console wires CPU, bus, PPU, DMA and controllers together and keeps them
// in lockstep: every CPU cycle is followed by three PPU dots. All methods are
// safe for concurrent use; each driving call holds the console lock for its
// whole duration.
type Console struct {
	mu sync.Mutex

	cpu  *cpu.CPU
	bus  *memory.Bus
	opts Options

	reported map[uint8]bool
}

// New parses an iNES image and returns a console reset and ready to run.
func New(rom []byte, opts Options) (*Console, error) {
	mapper, err := cartridge.Load(rom)
	if err != nil {
		return nil, err
	}
	return NewWithMapper(mapper, opts), nil
}

// NewWithFile creates a console and loads the ROM file specified into it.
func NewWithFile(path string, opts Options) (*Console, error) {
	mapper, err := cartridge.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewWithMapper(mapper, opts), nil
}

// NewWithMapper creates a console around an already mapped cartridge.
func NewWithMapper(mapper cartridge.Mapper, opts Options) *Console {
	c := &Console{
		cpu:      cpu.New(),
		bus:      memory.New(mapper),
		opts:     opts,
		reported: make(map[uint8]bool),
	}
	c.reset()
	return c
}

// Reset presses the console's reset button.
func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Console) reset() {
	c.bus.Reset()
	c.cpu.Reset(c.bus)

	ppu := c.bus.PPU()
	for i := 0; i < resetDots; i++ {
		ppu.Step()
	}
}

// Tick runs a single CPU cycle followed by three PPU dots.
func (c *Console) Tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick()
}

func (c *Console) tick() error {
	var err error
	if c.bus.DMAActive() {
		c.bus.StepDMA()
		c.cpu.Idle()
	} else {
		err = c.cpu.Tick(c.bus)
	}

	ppu := c.bus.PPU()
	for i := 0; i < dotsPerCycle; i++ {
		ppu.Step()
		if ppu.PollNMI() {
			c.cpu.TriggerNMI()
		}
	}

	// the transfer starts once the writing instruction has finished
	if c.cpu.AtBoundary() {
		if page, ok := c.bus.TakeDMARequest(); ok {
			c.bus.StartDMA(page, c.cpu.Cycles())
		}
	}

	if err != nil {
		c.report(err)
	}
	return err
}

// Step runs one whole instruction, or an interrupt entry, plus any OAM
// transfer it triggered, and returns the CPU cycles taken.
func (c *Console) Step() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step()
}

func (c *Console) step() (int, error) {
	start := c.cpu.Cycles()

	var firstErr error
	for {
		if err := c.tick(); err != nil && firstErr == nil {
			firstErr = err
		}
		if c.cpu.AtBoundary() && !c.bus.DMAActive() {
			break
		}
	}

	return int(c.cpu.Cycles() - start), firstErr
}

// RunUntilFrame runs until the PPU starts a new frame. Illegal opcodes only
// stop it under Options.HaltOnIllegal.
func (c *Console) RunUntilFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runUntilFrame()
}

func (c *Console) runUntilFrame() error {
	ppu := c.bus.PPU()
	frame := ppu.FrameCount()

	for ppu.FrameCount() == frame {
		if err := c.tick(); err != nil && c.halts(err) {
			return err
		}
	}
	return nil
}

// Run emulates frames back to back until ctx is done or an illegal opcode
// halts it. The lock is released between frames.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.RunUntilFrame(); err != nil {
			return err
		}
	}
}

func (c *Console) halts(err error) bool {
	if errors.Is(err, cpu.ErrIllegalOpcode) {
		return c.opts.HaltOnIllegal
	}
	return true
}

// report logs an illegal opcode the first time it runs.
func (c *Console) report(err error) {
	var illegal *cpu.IllegalOpcodeError
	if !errors.As(err, &illegal) || c.reported[illegal.Opcode] {
		return
	}
	c.reported[illegal.Opcode] = true

	slog.Warn("Illegal opcode executed as NOP",
		"opcode", fmt.Sprintf("0x%02X", illegal.Opcode),
		"pc", fmt.Sprintf("0x%04X", illegal.PC))
}

// State returns a snapshot of the CPU and PPU registers.
func (c *Console) State() debug.ConsoleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Console) state() debug.ConsoleState {
	r := c.cpu.Registers()
	ppu := c.bus.PPU()
	scanline, dot := ppu.Position()
	scroll := ppu.Scroll()
	ctrl, mask := ppu.Control()
	banks := cartridge.BankLayout(c.bus.Mapper())

	return debug.ConsoleState{
		CPU: debug.CPUState{
			A: r.A, X: r.X, Y: r.Y, P: r.P, SP: r.SP, PC: r.PC,
			Cycles: c.cpu.Cycles(),
		},
		PPU: debug.PPUState{
			Scanline: scanline,
			Dot:      dot,
			Frame:    ppu.FrameCount(),
			Ctrl:     ctrl,
			Mask:     mask,
			Status:   ppu.PeekRegister(addr.PPUSTATUS),
			V:        scroll.V,
			T:        scroll.T,
			X:        scroll.X,
			W:        scroll.W,
		},
		LastAccess:   c.bus.LastAccess().String(),
		DMAActive:    c.bus.DMAActive(),
		DMARemaining: c.bus.DMARemaining(),
		Mapper: debug.MapperState{
			ID:        c.bus.Mapper().ID(),
			PRGBanks:  banks.PRG,
			CHRBank:   banks.CHR,
			Mirroring: banks.Mirroring.String(),
		},
	}
}

// Disassemble decodes the next n instructions from PC without running them.
func (c *Console) Disassemble(n int) []disasm.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return disasm.DisassembleRange(c.cpu.Registers().PC, n, c.bus)
}

// Trace formats the instruction at PC and the current state as a nestest
// log line.
func (c *Console) Trace() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state()
	line := disasm.DisassembleAt(s.CPU.PC, c.bus)
	return debug.FormatTrace(line, s.CPU, s.PPU)
}

// Frame returns the last completed frame. The buffer is reused two frames
// later, copy it to keep it.
func (c *Console) Frame() *video.FrameBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bus.PPU().Frame()
}

// FrameCount returns the number of frames since reset.
func (c *Console) FrameCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bus.PPU().FrameCount()
}

// Cycles returns the CPU cycles since power-on.
func (c *Console) Cycles() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cpu.Cycles()
}

// SetButtons sets the pressed buttons of a controller port. It implements
// input.PadSink.
func (c *Console) SetButtons(port int, buttons input.Buttons) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bus.Controller(port).SetButtons(buttons)
}

// OAM returns a copy of sprite memory.
func (c *Console) OAM() [256]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bus.PPU().OAM()
}

// Peek reads a CPU address without side effects.
func (c *Console) Peek(address uint16) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bus.Peek(address)
}

// BatteryRAM returns a copy of the battery-backed PRG RAM, nil if the
// cartridge has none.
func (c *Console) BatteryRAM() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	ram := cartridge.BatteryRAM(c.bus.Mapper())
	if ram == nil {
		return nil
	}
	return append([]byte(nil), ram...)
}

// LoadBatteryRAM restores save data written by BatteryRAM.
func (c *Console) LoadBatteryRAM(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ram := cartridge.BatteryRAM(c.bus.Mapper())
	if ram == nil {
		return ErrNoBattery
	}
	if len(data) != len(ram) {
		return fmt.Errorf("save data is %d bytes, cartridge has %d", len(data), len(ram))
	}
	copy(ram, data)
	return nil
}
