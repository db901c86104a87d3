package debug

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nescore/nescore/disasm"
	"github.com/valerio/go-nescore/nescore/video"
)

type flatMemory [0x10000]byte

func (m *flatMemory) Peek(address uint16) byte {
	return m[address]
}

func TestFormatTrace(t *testing.T) {
	m := &flatMemory{}
	m[0xC000] = 0x4C
	m[0xC001] = 0xF5
	m[0xC002] = 0xC5

	line := disasm.DisassembleAt(0xC000, m)
	cpu := CPUState{P: 0x24, SP: 0xFD, PC: 0xC000, Cycles: 7}
	ppu := PPUState{Scanline: 0, Dot: 21}

	assert.Equal(t,
		"C000  4C F5 C5  JMP $C5F5  A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7",
		FormatTrace(line, cpu, ppu))
}

func TestCPUStateFlags(t *testing.T) {
	tests := []struct {
		p    uint8
		want string
	}{
		{0x24, "nv-bdIzc"},
		{0xFF, "NV-BDIZC"},
		{0x81, "Nv-bdizC"},
		{0x00, "nv-bdizc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CPUState{P: tt.p}.Flags())
	}
}

func TestCPUStateString(t *testing.T) {
	s := CPUState{A: 1, X: 2, Y: 3, P: 0x24, SP: 0xFD, PC: 0x8000}
	assert.Equal(t, "A:01 X:02 Y:03 P:24 SP:FD PC:8000", s.String())
}

func TestWriteFramePNG(t *testing.T) {
	frame := video.NewScreenBuffer()
	frame.Clear(0x0F)
	frame.SetPixel(10, 20, 0x30)

	var buf bytes.Buffer
	require.NoError(t, WriteFramePNG(&buf, frame))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, video.Width, img.Bounds().Dx())
	assert.Equal(t, video.Height, img.Bounds().Dy())

	r, g, b, _ := img.At(10, 20).RGBA()
	assert.Equal(t, uint32(0xFF), r>>8)
	assert.Equal(t, uint32(0xFE), g>>8)
	assert.Equal(t, uint32(0xFF), b>>8)

	r, g, b, _ = img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b})
}

func TestSaveFramePNGToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	frame := video.NewScreenBuffer()

	path, err := SaveFramePNGToDir(frame, "frame_0001", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "frame_0001_"))
	assert.Equal(t, ".png", filepath.Ext(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteStateGraph(t *testing.T) {
	state := &ConsoleState{
		CPU:        CPUState{PC: 0xC000, SP: 0xFD},
		LastAccess: "ppustatus",
	}

	var buf bytes.Buffer
	WriteStateGraph(&buf, state)

	assert.Contains(t, buf.String(), "digraph")
}
