package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nescore/nescore/debug"
	"github.com/valerio/go-nescore/nescore/input"
	"github.com/valerio/go-nescore/nescore/timing"
	"github.com/valerio/go-nescore/nescore/video"
)

type fakeEmulator struct {
	frame   *video.FrameBuffer
	frames  uint64
	steps   int
	resets  int
	buttons [2]input.Buttons
}

func (f *fakeEmulator) RunUntilFrame() error {
	f.frames++
	return nil
}

func (f *fakeEmulator) Step() (int, error) {
	f.steps++
	return 2, nil
}

func (f *fakeEmulator) Reset()                    { f.resets++ }
func (f *fakeEmulator) Frame() *video.FrameBuffer { return f.frame }
func (f *fakeEmulator) FrameCount() uint64        { return f.frames }

func (f *fakeEmulator) SetButtons(port int, buttons input.Buttons) {
	f.buttons[port] = buttons
}

func (f *fakeEmulator) State() debug.ConsoleState {
	return debug.ConsoleState{PPU: debug.PPUState{Frame: f.frames}}
}

func newTestRenderer(t *testing.T, cols, rows int) (*TerminalRenderer, *fakeEmulator, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)

	emu := &fakeEmulator{frame: video.NewScreenBuffer()}
	r := newTerminalRenderer(screen, emu, timing.NewNoOpLimiter())
	r.color = true
	return r, emu, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		cols, rows int
		want       int
	}{
		{256, 120, 1},
		{300, 200, 1},
		{128, 60, 2},
		{80, 24, 5},
		{0, 10, 0},
		{10, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scaleFor(tt.cols, tt.rows), "%dx%d", tt.cols, tt.rows)
	}
}

func TestHalfBlock(t *testing.T) {
	r, style := HalfBlock(0x30, 0x0F, true)
	assert.Equal(t, '▀', r)

	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0xFF, 0xFE, 0xFF), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), bg)

	r, _ = HalfBlock(0x0F, 0x0F, false)
	assert.Equal(t, ' ', r)
	r, _ = HalfBlock(0x30, 0x30, false)
	assert.Equal(t, '█', r)
}

func TestShadeRune(t *testing.T) {
	assert.Equal(t, ' ', ShadeRune(0))
	assert.Equal(t, '▒', ShadeRune(128))
	assert.Equal(t, '█', ShadeRune(255))
	assert.Equal(t, uint8(0xFE), Luminance(0xFFFEFF))
}

func TestDraw(t *testing.T) {
	r, emu, screen := newTestRenderer(t, 256, 121)
	emu.frame.Clear(0x0F)
	emu.frame.SetPixel(0, 0, 0x30)
	emu.frames = 42

	r.draw()

	mainc, _, style, _ := screen.GetContent(0, 0)
	assert.Equal(t, '▀', mainc)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, TermColor(0x30), fg)
	assert.Equal(t, TermColor(0x0F), bg)

	var status strings.Builder
	for x := 0; x < 12; x++ {
		c, _, _, _ := screen.GetContent(x, 120)
		status.WriteRune(c)
	}
	assert.Equal(t, "frame 42  A:", status.String())
}

func TestDrawTinyScreen(t *testing.T) {
	r, _, _ := newTestRenderer(t, 4, 1)
	assert.NotPanics(t, r.draw)
}

func TestPadKeysPressAndRelease(t *testing.T) {
	r, emu, _ := newTestRenderer(t, 80, 24)
	now := time.Unix(0, 0)
	r.now = func() time.Time { return now }

	r.handleEvent(key('z'))
	r.handleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	assert.True(t, emu.buttons[0].Pressed(input.ButtonA))
	assert.True(t, emu.buttons[0].Pressed(input.ButtonRight))

	// key repeat keeps the button down
	now = now.Add(100 * time.Millisecond)
	r.handleEvent(key('z'))
	now = now.Add(100 * time.Millisecond)
	r.releaseStaleKeys()
	assert.True(t, emu.buttons[0].Pressed(input.ButtonA))
	assert.False(t, emu.buttons[0].Pressed(input.ButtonRight))

	now = now.Add(time.Second)
	r.releaseStaleKeys()
	assert.Equal(t, input.Buttons(0), emu.buttons[0])
}

func TestSecondPortKeys(t *testing.T) {
	r, emu, _ := newTestRenderer(t, 80, 24)
	r.handleEvent(key('k'))
	assert.True(t, emu.buttons[1].Pressed(input.ButtonA))
	assert.Equal(t, input.Buttons(0), emu.buttons[0])
}

func TestEmulatorKeys(t *testing.T) {
	r, emu, _ := newTestRenderer(t, 80, 24)

	r.handleEvent(key('o'))
	assert.Equal(t, uint64(0), emu.frames, "stepping needs a pause first")

	r.handleEvent(key(' '))
	assert.True(t, r.paused)

	r.handleEvent(key('n'))
	assert.Equal(t, 1, emu.steps)

	r.handleEvent(key('r'))
	assert.Equal(t, 1, emu.resets)

	r.handleEvent(key('q'))
	assert.False(t, r.running)
}

func TestCtrlCQuits(t *testing.T) {
	r, _, _ := newTestRenderer(t, 80, 24)
	r.handleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	assert.False(t, r.running)
}
