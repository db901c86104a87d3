package cartridge

// CNROM (mapper 3) keeps NROM's PRG layout and switches 8KB CHR banks.
// Any write to 0x8000-0xFFFF latches the bank number used by every
// following pattern table read.
type CNROM struct {
	NROM
	chrBank int
}

// NewCNROM creates a new CNROM mapper
func NewCNROM(mem *Memory) *CNROM {
	return &CNROM{NROM: NROM{mem: mem}}
}

func (m *CNROM) ID() uint16 { return 3 }

func (m *CNROM) StorePRG(address uint16, value byte) {
	if address < 0x8000 {
		m.NROM.StorePRG(address, value)
		return
	}

	banks := len(m.mem.chr()) / chrBankSize
	if banks == 0 {
		banks = 1
	}
	m.chrBank = int(value) % banks
}

func (m *CNROM) LoadCHR(address uint16, nt *NametableRAM) byte {
	address &= 0x3FFF
	if address < 0x2000 {
		return m.mem.loadPattern(m.chrBank, address)
	}
	return m.mem.loadNametable(address, m.mem.Mirroring, nt)
}

func (m *CNROM) StoreCHR(address uint16, value byte, nt *NametableRAM) {
	address &= 0x3FFF
	if address < 0x2000 {
		m.mem.storePattern(m.chrBank, address, value)
		return
	}
	m.mem.storeNametable(address, value, m.mem.Mirroring, nt)
}

// Bank returns the selected CHR bank.
func (m *CNROM) Bank() int { return m.chrBank }
