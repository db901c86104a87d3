package render

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-nescore/nescore"
	"github.com/valerio/go-nescore/nescore/debug"
	"github.com/valerio/go-nescore/nescore/input"
	"github.com/valerio/go-nescore/nescore/input/action"
	"github.com/valerio/go-nescore/nescore/input/event"
	"github.com/valerio/go-nescore/nescore/timing"
	"github.com/valerio/go-nescore/nescore/video"
)

const (
	// terminals report no key release, a pad button is let go once its key
	// stops repeating
	keyHoldTime = 150 * time.Millisecond
	statusRows  = 1
)

// TerminalRenderer presents frames in the terminal with half-block
// characters and feeds key presses to the controllers.
type TerminalRenderer struct {
	screen   tcell.Screen
	emulator nescore.Emulator
	manager  *input.Manager
	limiter  timing.Limiter

	events chan tcell.Event
	quit   chan struct{}

	running bool
	paused  bool
	color   bool
	err     error
	held    map[action.Action]time.Time
	now     func() time.Time
}

func NewTerminalRenderer(emu nescore.Emulator) (*TerminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	return newTerminalRenderer(screen, emu, timing.NewAdaptiveLimiter()), nil
}

func newTerminalRenderer(screen tcell.Screen, emu nescore.Emulator, limiter timing.Limiter) *TerminalRenderer {
	t := &TerminalRenderer{
		screen:   screen,
		emulator: emu,
		manager:  input.NewManager(emu),
		limiter:  limiter,
		events:   make(chan tcell.Event, 64),
		quit:     make(chan struct{}),
		running:  true,
		color:    screen.Colors() >= 8,
		held:     make(map[action.Action]time.Time),
		now:      time.Now,
	}
	t.registerActions()
	return t
}

func (t *TerminalRenderer) registerActions() {
	t.manager.On(action.EmulatorQuit, event.Press, func() {
		t.running = false
	})
	t.manager.On(action.EmulatorPauseToggle, event.Press, func() {
		t.paused = !t.paused
		t.limiter.Reset()
	})
	t.manager.On(action.EmulatorStepFrame, event.Press, func() {
		if t.paused {
			t.runFrame()
		}
	})
	t.manager.On(action.EmulatorStepInstruction, event.Press, func() {
		if t.paused {
			// illegal opcodes are already logged by the console
			_, _ = t.emulator.Step()
		}
	})
	t.manager.On(action.EmulatorReset, event.Press, func() {
		t.emulator.Reset()
	})
	t.manager.On(action.EmulatorSnapshot, event.Press, func() {
		debug.TakeSnapshot(t.emulator.Frame())
	})
}

// Run drives the emulator at NTSC speed until quit, a signal, or an
// emulation error.
func (t *TerminalRenderer) Run() error {
	defer func() {
		slog.Info("Finishing terminal")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.pollEvents()
	defer close(t.quit)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for t.running {
		select {
		case <-signals:
			slog.Info("Received signal to stop")
			return nil
		default:
		}

		t.drainEvents()
		t.releaseStaleKeys()

		if !t.paused {
			t.runFrame()
		}
		if t.err != nil {
			return t.err
		}

		t.draw()
		t.screen.Show()
		t.limiter.WaitForNextFrame()
	}

	return nil
}

func (t *TerminalRenderer) runFrame() {
	if err := t.emulator.RunUntilFrame(); err != nil {
		t.err = err
		t.running = false
	}
}

func (t *TerminalRenderer) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

func (t *TerminalRenderer) drainEvents() {
	for {
		select {
		case ev := <-t.events:
			t.handleEvent(ev)
		default:
			return
		}
	}
}

func (t *TerminalRenderer) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			t.running = false
			return
		}

		act, ok := input.GetDefaultMapping(keyName(ev))
		if !ok {
			return
		}

		if act.IsPad() {
			if _, held := t.held[act]; !held {
				t.manager.Trigger(act, event.Press)
			}
			t.held[act] = t.now()
			return
		}

		t.manager.Trigger(act, event.Press)
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

func (t *TerminalRenderer) releaseStaleKeys() {
	now := t.now()
	for act, at := range t.held {
		if now.Sub(at) > keyHoldTime {
			t.manager.Trigger(act, event.Release)
			delete(t.held, act)
		}
	}
}

// keyName maps a key event to the names used by input.DefaultKeyMap.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "Space"
		}
		return string(ev.Rune())
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyTab:
		return "Tab"
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyUp:
		return "Up"
	case tcell.KeyDown:
		return "Down"
	case tcell.KeyLeft:
		return "Left"
	case tcell.KeyRight:
		return "Right"
	case tcell.KeyF9:
		return "F9"
	default:
		return ""
	}
}

func (t *TerminalRenderer) draw() {
	frame := t.emulator.Frame()
	cols, rows := t.screen.Size()
	rows -= statusRows

	t.screen.Clear()

	step := scaleFor(cols, rows)
	if step > 0 {
		for cy := 0; cy < rows && cy*2*step < video.Height; cy++ {
			y := cy * 2 * step
			below := min(y+step, video.Height-1)
			for cx := 0; cx < cols && cx*step < video.Width; cx++ {
				x := uint(cx * step)
				r, style := HalfBlock(frame.GetPixel(x, uint(y)), frame.GetPixel(x, uint(below)), t.color)
				t.screen.SetContent(cx, cy, r, nil, style)
			}
		}
	}

	t.drawStatus(max(rows, 0))
}

func (t *TerminalRenderer) drawStatus(row int) {
	state := t.emulator.State()
	status := fmt.Sprintf("frame %d  %s", state.PPU.Frame, state.CPU)
	if t.paused {
		status += "  [paused]"
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range status {
		t.screen.SetContent(i, row, r, nil, style)
	}
}
