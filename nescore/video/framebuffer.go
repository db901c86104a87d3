package video

const (
	// Width of the visible picture in pixels.
	Width = 256
	// Height of the visible picture in scanlines.
	Height = 240
)

// FrameBuffer holds one frame of 6 bit palette indices. Converting to colors
// is left to whoever presents the frame, see Palette.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint8
}

// NewFrameBuffer creates a frame buffer with the specified size.
func NewFrameBuffer(width, height uint) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		buffer: make([]uint8, width*height),
	}
}

// NewScreenBuffer creates a frame buffer the size of the visible picture.
func NewScreenBuffer() *FrameBuffer {
	return NewFrameBuffer(Width, Height)
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint8 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, index uint8) {
	fb.buffer[y*fb.width+x] = index & 0x3F
}

// GetRGBA returns the pixel at x, y as 0xRRGGBBAA.
func (fb *FrameBuffer) GetRGBA(x, y uint) uint32 {
	return Palette[fb.GetPixel(x, y)&0x3F].RGBA()
}

// ToSlice exposes the palette indices row by row.
func (fb *FrameBuffer) ToSlice() []uint8 {
	return fb.buffer
}

// ToRGBA converts the whole frame to 0xRRGGBBAA pixels.
func (fb *FrameBuffer) ToRGBA() []uint32 {
	out := make([]uint32, len(fb.buffer))
	for i, p := range fb.buffer {
		out[i] = Palette[p&0x3F].RGBA()
	}
	return out
}

// CopyFrom overwrites this buffer with the contents of other, which must
// have the same dimensions.
func (fb *FrameBuffer) CopyFrom(other *FrameBuffer) {
	copy(fb.buffer, other.buffer)
}

// Clear fills the buffer with a single palette index.
func (fb *FrameBuffer) Clear(index uint8) {
	for i := range fb.buffer {
		fb.buffer[i] = index & 0x3F
	}
}
