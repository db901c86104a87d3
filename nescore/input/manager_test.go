package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-nescore/nescore/input/action"
	"github.com/valerio/go-nescore/nescore/input/event"
)

type recordingSink struct {
	calls []Buttons
	ports []int
}

func (r *recordingSink) SetButtons(port int, b Buttons) {
	r.ports = append(r.ports, port)
	r.calls = append(r.calls, b)
}

func TestManagerPads(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(sink)

	m.Trigger(action.P1ButtonA, event.Press)
	m.Trigger(action.P1ButtonA, event.Hold)
	m.Trigger(action.P2DPadRight, event.Press)
	m.Trigger(action.P1ButtonA, event.Release)

	assert.Equal(t, []int{0, 1, 0}, sink.ports, "repeated state is not pushed")
	assert.Equal(t, []Buttons{0x01, 0x80, 0x00}, sink.calls)
	assert.Equal(t, Buttons(0x80), m.Buttons(1))
}

func TestManagerCallbacks(t *testing.T) {
	m := NewManager(nil)
	clock := time.Unix(0, 0)
	m.now = func() time.Time { return clock }

	count := 0
	m.On(action.EmulatorPauseToggle, event.Press, func() { count++ })

	m.Trigger(action.EmulatorPauseToggle, event.Press)
	m.Trigger(action.EmulatorPauseToggle, event.Press)
	assert.Equal(t, 1, count, "second press is debounced")

	clock = clock.Add(debounceDuration)
	m.Trigger(action.EmulatorPauseToggle, event.Press)
	assert.Equal(t, 2, count)

	m.Trigger(action.EmulatorQuit, event.Press)
	assert.Equal(t, 2, count, "unbound actions are ignored")
}

func TestActionPad(t *testing.T) {
	port, button, ok := action.P2ButtonStart.Pad()
	assert.True(t, ok)
	assert.Equal(t, 1, port)
	assert.Equal(t, uint8(ButtonStart), button)

	_, _, ok = action.EmulatorQuit.Pad()
	assert.False(t, ok)
}
