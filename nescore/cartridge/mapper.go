package cartridge

import (
	"fmt"
	"log/slog"
)

// Mapper translates bus addresses into cartridge storage. Each implementation
// owns its Memory exclusively.
//
// PRG accesses cover CPU addresses 0x4020-0xFFFF. CHR accesses cover PPU
// addresses 0x0000-0x3EFF: pattern tables come from the cartridge, while
// nametables are folded into the caller's NametableRAM according to the
// mirroring the board selects.
type Mapper interface {
	ID() uint16
	LoadPRG(address uint16) byte
	StorePRG(address uint16, value byte)
	LoadCHR(address uint16, nt *NametableRAM) byte
	StoreCHR(address uint16, value byte, nt *NametableRAM)
	Memory() *Memory
}

// NewMapper returns the mapper selected by the cartridge header.
//
// The following mappers are implemented:
//   - 0 (NROM)
//   - 3 (CNROM)
//   - 225 (address-latched multicart)
func NewMapper(cart *Cartridge) (Mapper, error) {
	var m Mapper

	switch cart.Header.MapperID {
	case 0:
		m = NewNROM(cart.Memory)
	case 3:
		m = NewCNROM(cart.Memory)
	case 225:
		m = NewMapper225(cart.Memory)
	default:
		return nil, fmt.Errorf("%w: mapper id %d", ErrUnsupportedMapper, cart.Header.MapperID)
	}

	slog.Debug("Cartridge mapped",
		"mapper", cart.Header.MapperID,
		"prg_kb", len(cart.Memory.PRGROM)/1024,
		"chr_kb", len(cart.Memory.CHRROM)/1024,
		"mirroring", cart.Memory.Mirroring.String(),
		"battery", cart.Header.Battery)

	return m, nil
}

// BatteryRAM returns the battery-backed PRG RAM of a mapper, nil if the
// cartridge has none.
func BatteryRAM(m Mapper) []byte {
	return m.Memory().PRGNVRAM
}

// Banks is the bank layout a mapper currently presents, for debugging.
type Banks struct {
	PRG       [2]int // 16KB banks at 0x8000 and 0xC000
	CHR       int    // 8KB bank
	Mirroring Mirroring
}

// BankLayout reports the banks m has switched in.
func BankLayout(m Mapper) Banks {
	switch m := m.(type) {
	case *Mapper225:
		prgLow, prgHigh, chr := m.Banks()
		return Banks{PRG: [2]int{prgLow, prgHigh}, CHR: chr, Mirroring: m.Mirroring()}
	case *CNROM:
		return Banks{PRG: nromBanks(m.mem), CHR: m.Bank(), Mirroring: m.mem.Mirroring}
	default:
		return Banks{PRG: nromBanks(m.Memory()), Mirroring: m.Memory().Mirroring}
	}
}

// nromBanks is the fixed layout: a 16KB image appears twice.
func nromBanks(mem *Memory) [2]int {
	if len(mem.PRGROM) > prgBankSize {
		return [2]int{0, 1}
	}
	return [2]int{0, 0}
}
