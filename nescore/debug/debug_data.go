package debug

import "fmt"

// CPUState contains all CPU register information for debugging
type CPUState struct {
	A  uint8
	X  uint8
	Y  uint8
	P  uint8
	SP uint8
	PC uint16

	Cycles uint64
}

// Flags renders P as NV-BDIZC, upper case for set bits.
func (s CPUState) Flags() string {
	const names = "NV-BDIZC"
	out := []byte("nv-bdizc")
	for i := range out {
		if s.P&(0x80>>i) != 0 {
			out[i] = names[i]
		}
	}
	return string(out)
}

func (s CPUState) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X", s.A, s.X, s.Y, s.P, s.SP, s.PC)
}

// PPUState is the PPU's timing position and scroll latch.
type PPUState struct {
	Scanline int
	Dot      int
	Frame    uint64
	Ctrl     uint8
	Mask     uint8
	Status   uint8

	V uint16
	T uint16
	X uint8
	W bool
}

// MapperState is the cartridge bank layout.
type MapperState struct {
	ID        uint16
	PRGBanks  [2]int
	CHRBank   int
	Mirroring string
}

// ConsoleState is a full debug snapshot.
type ConsoleState struct {
	CPU          CPUState
	PPU          PPUState
	LastAccess   string
	DMAActive    bool
	DMARemaining int
	Mapper       MapperState
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step"
	case DebuggerStepFrame:
		return "frame"
	default:
		return "unknown"
	}
}
