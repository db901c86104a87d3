package input

import "github.com/valerio/go-nescore/nescore/bit"

// Button is the bit position of a button in the controller's shift register.
type Button uint8

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = [...]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return "?"
}

// Buttons is the pressed state of all 8 buttons, one bit per Button.
type Buttons uint8

// Pressed reports whether b is held.
func (s Buttons) Pressed(b Button) bool {
	return bit.IsSet(uint8(b), uint8(s))
}

// With returns the state with b pressed or released.
func (s Buttons) With(b Button, pressed bool) Buttons {
	return Buttons(bit.SetTo(uint8(b), uint8(s), pressed))
}

// Controller is a standard pad: an 8 bit parallel-in serial-out register
// loaded from the buttons while the strobe line is high.
type Controller struct {
	buttons Buttons
	shift   Buttons
	index   uint8
	strobe  bool
}

// SetButtons replaces the live button state.
func (c *Controller) SetButtons(b Buttons) {
	c.buttons = b
}

// Buttons returns the live button state.
func (c *Controller) Buttons() Buttons {
	return c.buttons
}

func (c *Controller) Press(b Button) {
	c.buttons = c.buttons.With(b, true)
}

func (c *Controller) Release(b Button) {
	c.buttons = c.buttons.With(b, false)
}

// Write drives the strobe line with bit 0 of value. The falling edge latches
// the buttons and restarts the shift sequence.
func (c *Controller) Write(value byte) {
	strobe := bit.IsSet(0, value)
	if c.strobe && !strobe {
		c.shift = c.buttons
		c.index = 0
	}
	c.strobe = strobe
}

// Read returns the next bit in bit 0. While the strobe is high it keeps
// returning the live state of A; after all 8 bits are out it returns 1.
func (c *Controller) Read() byte {
	if c.strobe {
		return byte(c.buttons & 1)
	}
	if c.index >= 8 {
		return 1
	}
	value := bit.GetBitValue(c.index, uint8(c.shift))
	c.index++
	return value
}

// Peek returns what the next Read would return without shifting.
func (c *Controller) Peek() byte {
	if c.strobe {
		return byte(c.buttons & 1)
	}
	if c.index >= 8 {
		return 1
	}
	return bit.GetBitValue(c.index, uint8(c.shift))
}

// Index returns how many bits have been shifted out since the last strobe.
func (c *Controller) Index() int {
	return int(c.index)
}
