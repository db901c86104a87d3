package cartridge

import "github.com/valerio/go-nescore/nescore/addr"

// NROM (mapper 0) has no banking at all.
// - 16KB or 32KB PRG ROM at 0x8000-0xFFFF, a 16KB ROM appears twice
// - 8KB PRG RAM at 0x6000-0x7FFF, battery-backed on some boards
// - 8KB CHR ROM, or CHR RAM when the image carries none
type NROM struct {
	mem *Memory
}

// NewNROM creates a new NROM mapper
func NewNROM(mem *Memory) *NROM {
	return &NROM{mem: mem}
}

func (m *NROM) ID() uint16 { return 0 }

func (m *NROM) Memory() *Memory { return m.mem }

func (m *NROM) LoadPRG(address uint16) byte {
	switch {
	case address >= addr.PRGROMStart:
		rom := m.mem.PRGROM
		return rom[int(address)&(len(rom)-1)]
	case address >= addr.PRGRAMStart:
		ram := m.mem.prgRAM()
		if len(ram) == 0 {
			return addr.OpenBus
		}
		return ram[int(address-addr.PRGRAMStart)%len(ram)]
	default:
		return addr.OpenBus
	}
}

// StorePRG writes PRG RAM; ROM writes are dropped.
func (m *NROM) StorePRG(address uint16, value byte) {
	if address < addr.PRGRAMStart || address >= addr.PRGROMStart {
		return
	}
	ram := m.mem.prgRAM()
	if len(ram) == 0 {
		return
	}
	ram[int(address-addr.PRGRAMStart)%len(ram)] = value
}

func (m *NROM) LoadCHR(address uint16, nt *NametableRAM) byte {
	address &= 0x3FFF
	if address < 0x2000 {
		return m.mem.loadPattern(0, address)
	}
	return m.mem.loadNametable(address, m.mem.Mirroring, nt)
}

func (m *NROM) StoreCHR(address uint16, value byte, nt *NametableRAM) {
	address &= 0x3FFF
	if address < 0x2000 {
		m.mem.storePattern(0, address, value)
		return
	}
	m.mem.storeNametable(address, value, m.mem.Mirroring, nt)
}
