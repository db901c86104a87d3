package input

import "github.com/valerio/go-nescore/nescore/input/action"

// DefaultKeyMap provides default key mappings that work across presenters.
var DefaultKeyMap = map[string]action.Action{
	// Controller 1
	"z":     action.P1ButtonA,
	"x":     action.P1ButtonB,
	"Enter": action.P1ButtonStart,
	"Shift": action.P1ButtonSelect,
	"Tab":   action.P1ButtonSelect,
	"Up":    action.P1DPadUp,
	"Down":  action.P1DPadDown,
	"Left":  action.P1DPadLeft,
	"Right": action.P1DPadRight,

	// Alternative arrow keys (WASD)
	"w": action.P1DPadUp,
	"s": action.P1DPadDown,
	"a": action.P1DPadLeft,
	"d": action.P1DPadRight,

	// Controller 2
	"k": action.P2ButtonA,
	"j": action.P2ButtonB,
	"u": action.P2ButtonSelect,
	"y": action.P2ButtonStart,
	"8": action.P2DPadUp,
	"5": action.P2DPadDown,
	"4": action.P2DPadLeft,
	"6": action.P2DPadRight,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"o":      action.EmulatorStepFrame,
	"i":      action.EmulatorStepInstruction,
	"n":      action.EmulatorStepInstruction,
	"r":      action.EmulatorReset,
	"F9":     action.EmulatorSnapshot,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
