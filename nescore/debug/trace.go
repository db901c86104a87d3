package debug

import (
	"fmt"

	"github.com/valerio/go-nescore/nescore/disasm"
)

// FormatTrace renders one instruction in the nestest log layout:
//
//	C000  4C F5 C5  JMP $C5F5  A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7
//
// The line describes the state before the instruction runs.
func FormatTrace(line disasm.Line, cpu CPUState, ppu PPUState) string {
	return fmt.Sprintf("%s  A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		line.String(), cpu.A, cpu.X, cpu.Y, cpu.P, cpu.SP, ppu.Scanline, ppu.Dot, cpu.Cycles)
}
