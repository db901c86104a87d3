package ppu

import "github.com/valerio/go-nescore/nescore/bit"

// background holds the tile fetch latches and the shift register that feeds
// background pixels, 4 bits (2 attribute, 2 pattern) per pixel.
type background struct {
	nametable uint8
	attribute uint8
	low       uint8
	high      uint8
	tiles     uint64
}

// spriteLine holds the sprites selected for the line being drawn.
type spriteLine struct {
	count      int
	patterns   [8]uint32
	positions  [8]uint8
	priorities [8]uint8
	indexes    [8]uint8
}

// fetch runs one dot of the 8 dot background fetch cycle.
func (p *PPU) fetch() {
	p.bg.tiles <<= 4

	switch p.dot % 8 {
	case 1:
		p.bg.nametable = p.read(0x2000 | p.v&0x0FFF)
	case 3:
		address := 0x23C0 | p.v&0x0C00 | (p.v>>4)&0x38 | (p.v>>2)&0x07
		shift := (p.v>>4)&0x04 | p.v&0x02
		p.bg.attribute = (p.read(address) >> shift) & 0x03 << 2
	case 5:
		p.bg.low = p.read(p.backgroundTile())
	case 7:
		p.bg.high = p.read(p.backgroundTile() + 8)
	case 0:
		var data uint32
		for i := 0; i < 8; i++ {
			lo := bit.GetBitValue(7, p.bg.low)
			hi := bit.GetBitValue(7, p.bg.high) << 1
			p.bg.low <<= 1
			p.bg.high <<= 1
			data = data<<4 | uint32(p.bg.attribute|hi|lo)
		}
		p.bg.tiles |= uint64(data)
	}
}

func (p *PPU) backgroundTile() uint16 {
	var table uint16
	if p.ctrl&ctrlBackgroundTable != 0 {
		table = 0x1000
	}
	fineY := (p.v >> 12) & 0x07
	return table + uint16(p.bg.nametable)*16 + fineY
}

func (p *PPU) backgroundPixel() uint8 {
	if p.mask&maskShowBackground == 0 {
		return 0
	}
	data := uint32(p.bg.tiles>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0F)
}

func (p *PPU) spritePixel() (slot int, color uint8) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0
	}
	for i := 0; i < p.sprites.count; i++ {
		offset := p.dot - 1 - int(p.sprites.positions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		c := uint8(p.sprites.patterns[i]>>uint((7-offset)*4)) & 0x0F
		if c&0x03 == 0 {
			continue
		}
		return i, c
	}
	return 0, 0
}

// renderPixel resolves background/sprite priority for the current dot and
// stores the resulting palette index in the back buffer.
func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	var color uint8
	if p.renderingEnabled() {
		bg := p.backgroundPixel()
		slot, sprite := p.spritePixel()

		if x < 8 && p.mask&maskLeftBackground == 0 {
			bg = 0
		}
		if x < 8 && p.mask&maskLeftSprites == 0 {
			sprite = 0
		}

		opaqueBG := bg&0x03 != 0
		opaqueSprite := sprite&0x03 != 0

		switch {
		case !opaqueBG && !opaqueSprite:
			color = 0
		case !opaqueBG:
			color = sprite | 0x10
		case !opaqueSprite:
			color = bg
		default:
			if p.sprites.indexes[slot] == 0 && x < 255 {
				p.spriteZeroHit = true
			}
			if p.sprites.priorities[slot] == 0 {
				color = sprite | 0x10
			} else {
				color = bg
			}
		}
	} else if p.v&0x3FFF >= 0x3F00 {
		// with rendering off, pointing v into palette RAM shows that color
		color = uint8(p.v & 0x1F)
	}

	p.back.SetPixel(uint(x), uint(y), p.readPalette(0x3F00|uint16(color)))
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSpriteSize != 0 {
		return 16
	}
	return 8
}

// evaluateSprites picks the first 8 sprites that intersect the next line.
// OAM Y holds the sprite's top line minus one.
func (p *PPU) evaluateSprites() {
	height := p.spriteHeight()
	count := 0

	for i := 0; i < 64; i++ {
		y := p.oam[i*4]
		attributes := p.oam[i*4+2]
		x := p.oam[i*4+3]

		row := p.scanline - int(y)
		if row < 0 || row >= height {
			continue
		}

		if count < 8 {
			p.sprites.patterns[count] = p.spritePattern(i, row)
			p.sprites.positions[count] = x
			p.sprites.priorities[count] = (attributes >> 5) & 1
			p.sprites.indexes[count] = uint8(i)
		}
		count++
	}

	if count > 8 {
		count = 8
		p.spriteOverflow = true
	}
	p.sprites.count = count
}

// spritePattern fetches one row of a sprite as 8 packed 4 bit pixels.
func (p *PPU) spritePattern(i, row int) uint32 {
	tile := p.oam[i*4+1]
	attributes := p.oam[i*4+2]

	var address uint16
	if p.spriteHeight() == 8 {
		if bit.IsSet(7, attributes) {
			row = 7 - row
		}
		var table uint16
		if p.ctrl&ctrlSpriteTable != 0 {
			table = 0x1000
		}
		address = table + uint16(tile)*16 + uint16(row)
	} else {
		if bit.IsSet(7, attributes) {
			row = 15 - row
		}
		table := uint16(tile&1) * 0x1000
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		address = table + uint16(tile)*16 + uint16(row)
	}

	low := p.read(address)
	high := p.read(address + 8)
	palette := bit.ExtractBits(attributes, 1, 0) << 2

	var data uint32
	for i := 0; i < 8; i++ {
		var lo, hi uint8
		if bit.IsSet(6, attributes) {
			lo = bit.GetBitValue(0, low)
			hi = bit.GetBitValue(0, high) << 1
			low >>= 1
			high >>= 1
		} else {
			lo = bit.GetBitValue(7, low)
			hi = bit.GetBitValue(7, high) << 1
			low <<= 1
			high <<= 1
		}
		data = data<<4 | uint32(palette|hi|lo)
	}
	return data
}
