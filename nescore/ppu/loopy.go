package ppu

// v and t share one layout:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
const (
	coarseXMask    = 0x001F
	coarseYMask    = 0x03E0
	nametableX     = 0x0400
	nametableY     = 0x0800
	fineYMask      = 0x7000
	horizontalBits = coarseXMask | nametableX
	verticalBits   = coarseYMask | nametableY | fineYMask
)

// Scroll is a snapshot of the loopy registers.
type Scroll struct {
	V uint16 // current VRAM address
	T uint16 // temporary VRAM address
	X uint8  // fine X
	W bool   // write toggle
}

// Scroll returns the current loopy registers.
func (p *PPU) Scroll() Scroll {
	return Scroll{V: p.v, T: p.t, X: p.x, W: p.w}
}

func (p *PPU) incrementX() {
	if p.v&coarseXMask == 31 {
		p.v &^= coarseXMask
		p.v ^= nametableX
	} else {
		p.v++
	}
}

// incrementY moves v down one pixel row. Coarse Y wraps after row 29 into the
// next vertical nametable; rows 30 and 31 hold attribute data, if v was
// pointed there it wraps at 31 without switching nametables.
func (p *PPU) incrementY() {
	if p.v&fineYMask != fineYMask {
		p.v += 0x1000
		return
	}

	p.v &^= fineYMask
	y := (p.v & coarseYMask) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= nametableY
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&^coarseYMask | y<<5
}

func (p *PPU) copyX() {
	p.v = p.v&^horizontalBits | p.t&horizontalBits
}

func (p *PPU) copyY() {
	p.v = p.v&^verticalBits | p.t&verticalBits
}
