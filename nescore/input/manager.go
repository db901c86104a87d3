package input

import (
	"time"

	"github.com/valerio/go-nescore/nescore/input/action"
	"github.com/valerio/go-nescore/nescore/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// PadSink receives the button state of a controller port whenever it changes.
type PadSink interface {
	SetButtons(port int, buttons Buttons)
}

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	pads          PadSink
	state         [2]Buttons
	now           func() time.Time
}

func NewManager(pads PadSink) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		pads:          pads,
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	// Controller buttons go straight to the pad, games poll them every frame
	if port, button, ok := act.Pad(); ok {
		switch evt {
		case event.Press, event.Hold:
			m.setButton(port, Button(button), true)
		case event.Release:
			m.setButton(port, Button(button), false)
		}
		return
	}

	// Debounce Press and Release events
	if evt == event.Press || evt == event.Release {
		now := m.now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		if now.Sub(m.lastTriggered[act][evt]) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

// Buttons returns the state the manager last pushed for a port.
func (m *Manager) Buttons(port int) Buttons {
	return m.state[port&1]
}

func (m *Manager) setButton(port int, b Button, pressed bool) {
	port &= 1
	next := m.state[port].With(b, pressed)
	if next == m.state[port] {
		return
	}
	m.state[port] = next
	if m.pads != nil {
		m.pads.SetButtons(port, next)
	}
}
