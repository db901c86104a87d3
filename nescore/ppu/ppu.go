package ppu

import (
	"github.com/valerio/go-nescore/nescore/cartridge"
	"github.com/valerio/go-nescore/nescore/video"
)

const (
	dotsPerLine     = 341
	linesPerFrame   = 262
	postRenderLine  = 240
	vblankStartLine = 241
	preRenderLine   = 261
)

// CHR is the cartridge side of the PPU address bus: pattern tables plus the
// nametable mirroring wiring.
type CHR interface {
	LoadCHR(address uint16, nt *cartridge.NametableRAM) byte
	StoreCHR(address uint16, value byte, nt *cartridge.NametableRAM)
}

// PPU is the 2C02 picture processor. It is advanced one dot at a time by
// Step and talks to the CPU only through the eight register ports.
type PPU struct {
	chr        CHR
	nametables cartridge.NametableRAM
	palette    [32]byte
	oam        [256]byte

	front *video.FrameBuffer
	back  *video.FrameBuffer

	scanline int
	dot      int
	frames   uint64
	oddFrame bool

	// loopy registers
	v uint16
	t uint16
	x uint8
	w bool

	ctrl    uint8
	mask    uint8
	oamAddr uint8
	latch   uint8 // last value written to any port
	buffer  uint8 // PPUDATA read buffer

	vblank         bool
	spriteZeroHit  bool
	spriteOverflow bool

	nmiLine    bool
	nmiPending bool

	bg      background
	sprites spriteLine
}

// New creates a PPU wired to the given cartridge CHR space.
func New(chr CHR) *PPU {
	p := &PPU{
		chr:   chr,
		front: video.NewScreenBuffer(),
		back:  video.NewScreenBuffer(),
	}
	p.Reset()
	return p
}

// Reset puts the PPU in its power-on state at the start of a frame.
// Nametable, palette and OAM contents are left alone.
func (p *PPU) Reset() {
	p.scanline = 0
	p.dot = 0
	p.frames = 0
	p.oddFrame = false
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.ctrl = 0
	p.mask = 0
	p.oamAddr = 0
	p.latch = 0
	p.buffer = 0
	p.vblank = false
	p.spriteZeroHit = false
	p.spriteOverflow = false
	p.nmiLine = false
	p.nmiPending = false
	p.bg = background{}
	p.sprites = spriteLine{}
}

// Step runs the current dot and moves to the next one.
func (p *PPU) Step() {
	rendering := p.renderingEnabled()
	visibleLine := p.scanline < postRenderLine
	preLine := p.scanline == preRenderLine
	renderLine := visibleLine || preLine

	visibleDot := p.dot >= 1 && p.dot <= 256
	prefetchDot := p.dot >= 321 && p.dot <= 336
	fetchDot := visibleDot || prefetchDot

	if visibleLine && visibleDot {
		p.renderPixel()
	}

	if rendering && renderLine {
		if fetchDot {
			p.fetch()
			if p.dot%8 == 0 {
				p.incrementX()
			}
		}

		switch {
		case p.dot == 256:
			p.incrementY()
		case p.dot == 257:
			p.copyX()
			if visibleLine {
				p.evaluateSprites()
			} else {
				p.sprites.count = 0
			}
		case preLine && p.dot >= 280 && p.dot <= 304:
			p.copyY()
		}
	}

	if p.dot == 1 {
		switch p.scanline {
		case vblankStartLine:
			p.front, p.back = p.back, p.front
			p.vblank = true
			p.updateNMI()
		case preRenderLine:
			p.vblank = false
			p.spriteZeroHit = false
			p.spriteOverflow = false
			p.updateNMI()
		}
	}

	p.advance(rendering)
}

// advance moves to the next dot. The pre-render line of odd frames is one dot
// shorter when rendering is on.
func (p *PPU) advance(rendering bool) {
	if rendering && p.oddFrame && p.scanline == preRenderLine && p.dot == dotsPerLine-2 {
		p.newFrame()
		return
	}

	p.dot++
	if p.dot < dotsPerLine {
		return
	}

	p.dot = 0
	p.scanline++
	if p.scanline == linesPerFrame {
		p.newFrame()
	}
}

func (p *PPU) newFrame() {
	p.scanline = 0
	p.dot = 0
	p.frames++
	p.oddFrame = !p.oddFrame
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBackground|maskShowSprites) != 0
}

// updateNMI tracks the NMI output line and latches its rising edge.
func (p *PPU) updateNMI() {
	line := p.vblank && p.ctrl&ctrlNMI != 0
	if line && !p.nmiLine {
		p.nmiPending = true
	}
	p.nmiLine = line
}

// PollNMI reports whether an NMI edge happened since the last call.
func (p *PPU) PollNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// Frame returns the last completed frame.
func (p *PPU) Frame() *video.FrameBuffer {
	return p.front
}

// FrameCount returns the number of frames started since reset.
func (p *PPU) FrameCount() uint64 {
	return p.frames
}

// Position returns the scanline and dot the next Step will run.
func (p *PPU) Position() (scanline, dot int) {
	return p.scanline, p.dot
}

// InVBlank reports whether the vblank status flag is set.
func (p *PPU) InVBlank() bool {
	return p.vblank
}

// OAM returns a copy of sprite memory.
func (p *PPU) OAM() [256]byte {
	return p.oam
}

// Palette returns a copy of palette RAM.
func (p *PPU) Palette() [32]byte {
	return p.palette
}
