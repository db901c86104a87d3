package cartridge

// Mirroring is the nametable layout the cartridge wires the PPU's 2KB of
// internal VRAM into.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleLow
	MirrorSingleHigh
	MirrorFourScreen
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleLow:
		return "single-low"
	case MirrorSingleHigh:
		return "single-high"
	case MirrorFourScreen:
		return "four-screen"
	default:
		return "unknown"
	}
}

const (
	prgBankSize   = 0x4000
	chrBankSize   = 0x2000
	prgRAMSize    = 0x2000
	nametableSize = 0x400
)

// NametableRAM is the console's 2KB of nametable memory. It lives with the
// PPU, mappers only decide how the four logical tables fold into it.
type NametableRAM [0x800]byte

// Memory is the storage a cartridge brings with it. Sizes are fixed once the
// image is loaded; only the RAM regions change while the game runs.
type Memory struct {
	PRGROM   []byte
	PRGRAM   []byte
	PRGNVRAM []byte // battery-backed PRG RAM
	CHRROM   []byte
	CHRRAM   []byte
	CHRNVRAM []byte // battery-backed CHR RAM, never filled by an iNES 1.0 header

	Mirroring Mirroring

	// extra nametables for four-screen boards
	extraVRAM [0x800]byte
}

// prgRAM returns the PRG RAM that is present, battery-backed first.
func (m *Memory) prgRAM() []byte {
	if len(m.PRGNVRAM) > 0 {
		return m.PRGNVRAM
	}
	return m.PRGRAM
}

// chr returns the pattern table storage: ROM when present, RAM otherwise.
func (m *Memory) chr() []byte {
	switch {
	case len(m.CHRROM) > 0:
		return m.CHRROM
	case len(m.CHRNVRAM) > 0:
		return m.CHRNVRAM
	default:
		return m.CHRRAM
	}
}

func (m *Memory) chrWritable() bool {
	return len(m.CHRROM) == 0
}

// mirrorNametable folds a PPU address in 0x2000-0x3EFF into an offset inside
// the 2KB nametable RAM.
func mirrorNametable(mode Mirroring, address uint16) uint16 {
	index := (address - 0x2000) & 0x0FFF
	table := index / nametableSize
	offset := index % nametableSize

	switch mode {
	case MirrorHorizontal:
		table /= 2
	case MirrorVertical:
		table %= 2
	case MirrorSingleLow:
		table = 0
	case MirrorSingleHigh:
		table = 1
	}

	return table*nametableSize + offset
}

func (m *Memory) loadNametable(address uint16, mode Mirroring, nt *NametableRAM) byte {
	if mode == MirrorFourScreen {
		index := (address - 0x2000) & 0x0FFF
		if index < 0x800 {
			return nt[index]
		}
		return m.extraVRAM[index-0x800]
	}
	return nt[mirrorNametable(mode, address)]
}

func (m *Memory) storeNametable(address uint16, value byte, mode Mirroring, nt *NametableRAM) {
	if mode == MirrorFourScreen {
		index := (address - 0x2000) & 0x0FFF
		if index < 0x800 {
			nt[index] = value
		} else {
			m.extraVRAM[index-0x800] = value
		}
		return
	}
	nt[mirrorNametable(mode, address)] = value
}

// loadPattern reads the pattern tables using a fixed 8KB CHR bank.
func (m *Memory) loadPattern(bank int, address uint16) byte {
	chr := m.chr()
	if len(chr) == 0 {
		return 0
	}
	offset := (bank*chrBankSize + int(address&0x1FFF)) % len(chr)
	return chr[offset]
}

func (m *Memory) storePattern(bank int, address uint16, value byte) {
	if !m.chrWritable() {
		return
	}
	chr := m.chr()
	if len(chr) == 0 {
		return
	}
	offset := (bank*chrBankSize + int(address&0x1FFF)) % len(chr)
	chr[offset] = value
}
