package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Controller port 1
	P1ButtonA Action = iota
	P1ButtonB
	P1ButtonSelect
	P1ButtonStart
	P1DPadUp
	P1DPadDown
	P1DPadLeft
	P1DPadRight

	// Controller port 2
	P2ButtonA
	P2ButtonB
	P2ButtonSelect
	P2ButtonStart
	P2DPadUp
	P2DPadDown
	P2DPadLeft
	P2DPadRight

	// Emulator features
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorReset
	EmulatorQuit
)

// IsPad reports whether the action maps to a controller button.
func (a Action) IsPad() bool {
	return a >= P1ButtonA && a <= P2DPadRight
}

// Pad returns the controller port (0 or 1) and button index (0-7) of a pad
// action. ok is false for emulator actions.
func (a Action) Pad() (port int, button uint8, ok bool) {
	if !a.IsPad() {
		return 0, 0, false
	}
	return int(a-P1ButtonA) / 8, uint8(a-P1ButtonA) % 8, true
}
