package dma

import "github.com/valerio/go-nescore/nescore/addr"

const transferCycles = 512

// Bus is the view of the CPU bus the controller drives while it owns it.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Controller copies a 256 byte page into OAM, one byte every two cycles.
// The CPU is halted for the whole transfer.
type Controller struct {
	page      uint8
	offset    uint16
	data      uint8
	remaining int
	elapsed   int
	dummy     bool
}

// Trigger arms a transfer from page XX00-XXFF. cpuCycles is the CPU cycle
// count at the time of the write; starting on an odd cycle costs one extra
// alignment cycle.
func (c *Controller) Trigger(page uint8, cpuCycles uint64) {
	c.page = page
	c.offset = 0
	c.data = 0
	c.elapsed = 0
	c.remaining = transferCycles
	c.dummy = cpuCycles%2 == 1
	if c.dummy {
		c.remaining++
	}
}

// Active reports whether a transfer is in progress.
func (c *Controller) Active() bool {
	return c.remaining > 0
}

// Remaining returns the number of cycles left in the transfer.
func (c *Controller) Remaining() int {
	return c.remaining
}

// Step runs one cycle of the transfer. Odd cycles read from the source page,
// even cycles write the byte in flight to OAMDATA. The controller stays
// active until the last write has landed.
func (c *Controller) Step(bus Bus) {
	if c.remaining == 0 {
		return
	}

	switch {
	case c.dummy:
		c.dummy = false
	case c.elapsed%2 == 0:
		c.data = bus.Read(uint16(c.page)<<8 | c.offset)
		c.offset++
		c.elapsed++
	default:
		bus.Write(addr.OAMDATA, c.data)
		c.elapsed++
	}
	c.remaining--
}
