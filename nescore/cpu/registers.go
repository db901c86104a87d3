package cpu

import "github.com/valerio/go-nescore/nescore/bit"

// Flag is one of the bits of the status register P.
type Flag uint8

const (
	carryFlag     Flag = 0x01
	zeroFlag      Flag = 0x02
	interruptFlag Flag = 0x04
	decimalFlag   Flag = 0x08
	breakFlag     Flag = 0x10
	unusedFlag    Flag = 0x20
	overflowFlag  Flag = 0x40
	negativeFlag  Flag = 0x80
)

// Registers is a snapshot of the programmer-visible CPU state.
type Registers struct {
	A  uint8
	X  uint8
	Y  uint8
	P  uint8
	SP uint8
	PC uint16
}

func (c *CPU) setFlag(flag Flag) {
	c.p |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.p &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.p&uint8(flag) != 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

// setZN updates Zero and Negative from a result byte.
func (c *CPU) setZN(value uint8) {
	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(negativeFlag, bit.IsSet(7, value))
}
