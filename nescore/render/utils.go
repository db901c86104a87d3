package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-nescore/nescore/video"
)

// shadeChars go from dark to bright, for terminals without color
var shadeChars = []rune{' ', '░', '▒', '▓', '█'}

const halfBlock = '▀'

// Luminance returns the perceived brightness of a color, 0-255.
func Luminance(c video.Color) uint8 {
	return uint8((299*uint32(c.R()) + 587*uint32(c.G()) + 114*uint32(c.B())) / 1000)
}

// ShadeRune picks a block character for a brightness.
func ShadeRune(luminance uint8) rune {
	return shadeChars[int(luminance)*len(shadeChars)/256]
}

// TermColor converts a palette index to a terminal color.
func TermColor(index uint8) tcell.Color {
	c := video.Palette[index&0x3F]
	return tcell.NewRGBColor(int32(c.R()), int32(c.G()), int32(c.B()))
}

// HalfBlock returns the cell showing two vertically stacked pixels: the upper
// half block drawn in the top color over the bottom color. Without color the
// pair is averaged into a shade character.
func HalfBlock(top, bottom uint8, color bool) (rune, tcell.Style) {
	if color {
		style := tcell.StyleDefault.Foreground(TermColor(top)).Background(TermColor(bottom))
		return halfBlock, style
	}

	l := (uint16(Luminance(video.Palette[top&0x3F])) + uint16(Luminance(video.Palette[bottom&0x3F]))) / 2
	return ShadeRune(uint8(l)), tcell.StyleDefault
}

// scaleFor returns the pixel step that fits the picture into cols x rows
// cells, each cell holding two pixel rows. Zero means nothing fits.
func scaleFor(cols, rows int) int {
	if cols <= 0 || rows <= 0 {
		return 0
	}
	step := ceilDiv(video.Width, cols)
	if s := ceilDiv(video.Height, 2*rows); s > step {
		step = s
	}
	return step
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
