package nescore

import (
	"github.com/valerio/go-nescore/nescore/debug"
	"github.com/valerio/go-nescore/nescore/input"
	"github.com/valerio/go-nescore/nescore/video"
)

// Emulator is the interface presenters drive.
type Emulator interface {
	RunUntilFrame() error
	Step() (int, error)
	Reset()
	Frame() *video.FrameBuffer
	FrameCount() uint64
	SetButtons(port int, buttons input.Buttons)
	State() debug.ConsoleState
}

var (
	_ Emulator      = (*Console)(nil)
	_ input.PadSink = (*Console)(nil)
)
