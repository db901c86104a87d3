package ppu

// read returns a byte from the PPU address space. Pattern tables and
// nametables live on the cartridge side; palette RAM is internal.
func (p *PPU) read(address uint16) byte {
	address &= 0x3FFF
	if address >= 0x3F00 {
		return p.readPalette(address)
	}
	return p.chr.LoadCHR(address, &p.nametables)
}

func (p *PPU) write(address uint16, value byte) {
	address &= 0x3FFF
	if address >= 0x3F00 {
		p.palette[paletteIndex(address)] = value & 0x3F
		return
	}
	p.chr.StoreCHR(address, value, &p.nametables)
}

func (p *PPU) readPalette(address uint16) byte {
	value := p.palette[paletteIndex(address)]
	if p.mask&maskGrayscale != 0 {
		value &= 0x30
	}
	return value
}

// paletteIndex folds 0x3F00-0x3FFF into the 32 bytes of palette RAM.
// Entries 0x10/0x14/0x18/0x1C share storage with the background ones.
func paletteIndex(address uint16) uint16 {
	index := address & 0x1F
	if index >= 0x10 && index&0x03 == 0 {
		index -= 0x10
	}
	return index
}
