package cartridge

import (
	"github.com/valerio/go-nescore/nescore/addr"
	"github.com/valerio/go-nescore/nescore/bit"
)

// Mapper225 is a bootleg multicart board with no bank registers: a write to
// 0x8000-0xFFFF latches the address itself, and the bank numbers are read
// straight out of its bits.
//
//	A~[1HMO PPPP PPCC CCCC]
//	H: high bank bit, shared by PRG and CHR
//	M: mirroring (0 vertical, 1 horizontal)
//	O: PRG mode (0 one 32KB bank, 1 the same 16KB bank twice)
//	P: 16KB PRG bank
//	C: 8KB CHR bank
//
// The board also carries four 4 bit registers at 0x5800-0x5FFF.
type Mapper225 struct {
	mem *Memory

	prgBanks [2]int
	chrBank  int
	mirror   Mirroring
	nibbles  [4]byte
}

// NewMapper225 creates a mapper in its power-on state: the first 32KB of PRG
// and the first CHR bank.
func NewMapper225(mem *Memory) *Mapper225 {
	m := &Mapper225{mem: mem, mirror: mem.Mirroring}
	m.latch(0x8000)
	m.mirror = mem.Mirroring
	return m
}

func (m *Mapper225) ID() uint16 { return 225 }

func (m *Mapper225) Memory() *Memory { return m.mem }

func (m *Mapper225) latch(address uint16) {
	high := int(bit.GetBitValue(6, bit.High(address)))
	prg := int(bit.ExtractBits(uint8(address>>6), 5, 0)) | high<<6

	if address&0x1000 != 0 {
		m.prgBanks = [2]int{prg, prg}
	} else {
		m.prgBanks = [2]int{prg &^ 1, prg | 1}
	}

	m.chrBank = int(bit.ExtractBits(bit.Low(address), 5, 0)) | high<<6

	if address&0x2000 != 0 {
		m.mirror = MirrorHorizontal
	} else {
		m.mirror = MirrorVertical
	}
}

func (m *Mapper225) LoadPRG(address uint16) byte {
	switch {
	case address >= addr.PRGROMStart:
		rom := m.mem.PRGROM
		window := int(address-addr.PRGROMStart) / prgBankSize
		offset := m.prgBanks[window]*prgBankSize + int(address)&(prgBankSize-1)
		return rom[offset%len(rom)]
	case address >= 0x5800 && address < 0x6000:
		return m.nibbles[address&3] & 0x0F
	default:
		return addr.OpenBus
	}
}

func (m *Mapper225) StorePRG(address uint16, value byte) {
	switch {
	case address >= addr.PRGROMStart:
		m.latch(address)
	case address >= 0x5800 && address < 0x6000:
		m.nibbles[address&3] = value & 0x0F
	}
}

func (m *Mapper225) LoadCHR(address uint16, nt *NametableRAM) byte {
	address &= 0x3FFF
	if address < 0x2000 {
		return m.mem.loadPattern(m.chrBank, address)
	}
	return m.mem.loadNametable(address, m.mirror, nt)
}

func (m *Mapper225) StoreCHR(address uint16, value byte, nt *NametableRAM) {
	address &= 0x3FFF
	if address < 0x2000 {
		m.mem.storePattern(m.chrBank, address, value)
		return
	}
	m.mem.storeNametable(address, value, m.mirror, nt)
}

// Banks returns the PRG banks mapped at 0x8000 and 0xC000 and the CHR bank.
func (m *Mapper225) Banks() (prgLow, prgHigh, chr int) {
	return m.prgBanks[0], m.prgBanks[1], m.chrBank
}

// Mirroring returns the mirroring selected by the last latched address.
func (m *Mapper225) Mirroring() Mirroring { return m.mirror }
