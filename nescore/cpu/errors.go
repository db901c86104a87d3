package cpu

import (
	"errors"
	"fmt"
)

// ErrIllegalOpcode is wrapped by every IllegalOpcodeError.
var ErrIllegalOpcode = errors.New("illegal opcode")

// IllegalOpcodeError is returned when the CPU runs an opcode with no defined
// operation. The opcode has already been skipped as a no-op: PC moved past
// its operand bytes and no register was touched.
type IllegalOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

func (e *IllegalOpcodeError) Unwrap() error {
	return ErrIllegalOpcode
}
