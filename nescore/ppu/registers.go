package ppu

// PPUCTRL bits
const (
	ctrlNametable       = 0x03
	ctrlIncrement32     = 0x04
	ctrlSpriteTable     = 0x08
	ctrlBackgroundTable = 0x10
	ctrlSpriteSize      = 0x20
	ctrlNMI             = 0x80
)

// PPUMASK bits
const (
	maskGrayscale      = 0x01
	maskLeftBackground = 0x02
	maskLeftSprites    = 0x04
	maskShowBackground = 0x08
	maskShowSprites    = 0x10
)

// PPUSTATUS bits
const (
	statusOverflow = 0x20
	statusZeroHit  = 0x40
	statusVBlank   = 0x80
)

// ReadRegister performs a CPU read of the register at address (mirrored
// every 8 bytes), with all of its side effects.
func (p *PPU) ReadRegister(address uint16) byte {
	switch address & 7 {
	case 2:
		value := p.status()
		p.vblank = false
		p.w = false
		p.updateNMI()
		p.latch = value | p.latch&0x1F
		return p.latch
	case 4:
		p.latch = p.oam[p.oamAddr]
		return p.latch
	case 7:
		p.latch = p.readData()
		return p.latch
	default:
		// write-only ports return whatever is left on the internal bus
		return p.latch
	}
}

// PeekRegister returns what a read would return, without side effects.
func (p *PPU) PeekRegister(address uint16) byte {
	switch address & 7 {
	case 2:
		return p.status() | p.latch&0x1F
	case 4:
		return p.oam[p.oamAddr]
	case 7:
		if p.v&0x3FFF >= 0x3F00 {
			return p.readPalette(p.v)
		}
		return p.buffer
	default:
		return p.latch
	}
}

// Control returns the last values written to PPUCTRL and PPUMASK.
func (p *PPU) Control() (ctrl, mask uint8) {
	return p.ctrl, p.mask
}

// WriteRegister performs a CPU write to the register at address (mirrored
// every 8 bytes). Writes to the read-only status port are dropped.
func (p *PPU) WriteRegister(address uint16, value byte) {
	p.latch = value

	switch address & 7 {
	case 0:
		p.ctrl = value
		p.t = p.t&0xF3FF | uint16(value&ctrlNametable)<<10
		p.updateNMI()
	case 1:
		p.mask = value
	case 2:
	case 3:
		p.oamAddr = value
	case 4:
		p.writeOAM(value)
	case 5:
		p.writeScroll(value)
	case 6:
		p.writeAddress(value)
	case 7:
		p.writeData(value)
	}
}

// WriteOAMDMA stores a byte coming from an OAM DMA transfer.
func (p *PPU) WriteOAMDMA(value byte) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

func (p *PPU) status() byte {
	var value byte
	if p.spriteOverflow {
		value |= statusOverflow
	}
	if p.spriteZeroHit {
		value |= statusZeroHit
	}
	if p.vblank {
		value |= statusVBlank
	}
	return value
}

// writeOAM is the single byte OAMDATA port. While the PPU is rendering it
// owns OAM, the write is lost and only the high bits of the address move.
func (p *PPU) writeOAM(value byte) {
	if p.renderingEnabled() && (p.scanline < postRenderLine || p.scanline == preRenderLine) {
		p.oamAddr += 4
		return
	}
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

func (p *PPU) writeScroll(value byte) {
	if !p.w {
		p.t = p.t&0xFFE0 | uint16(value)>>3
		p.x = value & 0x07
	} else {
		p.t = p.t&0x8FFF | uint16(value&0x07)<<12
		p.t = p.t&0xFC1F | uint16(value&0xF8)<<2
	}
	p.w = !p.w
}

func (p *PPU) writeAddress(value byte) {
	if !p.w {
		p.t = p.t&0x80FF | uint16(value&0x3F)<<8
	} else {
		p.t = p.t&0xFF00 | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) readData() byte {
	address := p.v & 0x3FFF
	var value byte

	if address >= 0x3F00 {
		// palette reads skip the buffer, which picks up the nametable
		// byte underneath instead
		value = p.readPalette(address)
		p.buffer = p.read(address - 0x1000)
	} else {
		value = p.buffer
		p.buffer = p.read(address)
	}

	p.incrementAddress()
	return value
}

func (p *PPU) writeData(value byte) {
	p.write(p.v, value)
	p.incrementAddress()
}

func (p *PPU) incrementAddress() {
	if p.ctrl&ctrlIncrement32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}
