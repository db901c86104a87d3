package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nescore/nescore/addr"
	"github.com/valerio/go-nescore/nescore/cartridge"
	"github.com/valerio/go-nescore/nescore/input"
)

func newTestBus() *Bus {
	mem := &cartridge.Memory{
		PRGROM: make([]byte, 0x8000),
		PRGRAM: make([]byte, 0x2000),
		CHRRAM: make([]byte, 0x2000),
	}
	for i := range mem.PRGROM {
		mem.PRGROM[i] = byte(i >> 8)
	}
	return New(cartridge.NewNROM(mem))
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus()

	access := b.Store(0x0000, 0x42)
	assert.Equal(t, addr.AccessRAM, access)

	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		value, access := b.Load(mirror)
		assert.Equal(t, byte(0x42), value, "0x%04X", mirror)
		assert.Equal(t, addr.AccessRAM, access)
	}

	b.Write(0x1FFF, 0x99)
	assert.Equal(t, byte(0x99), b.Read(0x07FF))
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus()

	for base := uint32(0x2000); base <= 0x3FF8; base += 8 {
		nametable := byte(base>>3) & 0x03

		access := b.Store(uint16(base), nametable)
		require.Equal(t, addr.AccessPPUCtrl, access, "0x%04X", base)
		require.Equal(t, uint16(nametable)<<10, b.PPU().Scroll().T&0x0C00, "0x%04X", base)

		_, access = b.Load(uint16(base) + 2)
		require.Equal(t, addr.AccessPPUStatus, access)
	}
}

func TestPPUAddressThroughBus(t *testing.T) {
	b := newTestBus()

	b.Write(0x2006, 0x23)
	b.Write(0x2006, 0xC0)
	b.Write(0x2007, 0x55)

	b.Write(0x3FFE, 0x23)
	b.Write(0x3FFE, 0xC0)
	b.Read(0x2007)
	value, access := b.Load(0x2007)

	assert.Equal(t, byte(0x55), value)
	assert.Equal(t, addr.AccessPPUData, access)
}

func TestOpenBus(t *testing.T) {
	tests := []struct {
		address uint16
		access  addr.Access
	}{
		{0x4000, addr.AccessAPU},
		{0x4013, addr.AccessAPU},
		{0x4015, addr.AccessAPU},
		{0x4014, addr.AccessOAMDMA},
		{0x4018, addr.AccessOpenBus},
		{0x401F, addr.AccessOpenBus},
	}

	b := newTestBus()
	for _, tt := range tests {
		value, access := b.Load(tt.address)
		assert.Equal(t, addr.OpenBus, value, "0x%04X", tt.address)
		assert.Equal(t, tt.access, access, "0x%04X", tt.address)
	}

	assert.Equal(t, addr.AccessAPU, b.Store(0x4017, 0x40), "0x4017 writes go to the frame counter")
}

func TestCartridgeSpace(t *testing.T) {
	b := newTestBus()

	value, access := b.Load(0x8000)
	assert.Equal(t, byte(0x00), value)
	assert.Equal(t, addr.AccessCartridge, access)
	assert.Equal(t, byte(0x7F), b.Read(0xFFFF))

	b.Write(0x6000, 0x12)
	assert.Equal(t, byte(0x12), b.Read(0x6000))

	value, access = b.Load(0x4020)
	assert.Equal(t, addr.OpenBus, value)
	assert.Equal(t, addr.AccessCartridge, access)
}

func TestControllers(t *testing.T) {
	b := newTestBus()
	b.Controller(0).SetButtons(input.Buttons(0).With(input.ButtonA, true))
	b.Controller(1).SetButtons(input.Buttons(0).With(input.ButtonB, true))

	assert.Equal(t, addr.AccessController1, b.Store(0x4016, 1))
	b.Store(0x4016, 0)

	assert.Equal(t, byte(0x41), b.Peek(0x4016))
	value, access := b.Load(0x4016)
	assert.Equal(t, byte(0x41), value)
	assert.Equal(t, addr.AccessController1, access)
	assert.Equal(t, byte(0x40), b.Read(0x4016))

	value, access = b.Load(0x4017)
	assert.Equal(t, byte(0x40), value)
	assert.Equal(t, addr.AccessController2, access)
	assert.Equal(t, byte(0x41), b.Read(0x4017))
}

func TestLastAccess(t *testing.T) {
	b := newTestBus()
	assert.Equal(t, addr.AccessNone, b.LastAccess())

	b.Read(0x2002)
	assert.Equal(t, addr.AccessPPUStatus, b.LastAccess())

	b.Write(0x0300, 1)
	assert.Equal(t, addr.AccessRAM, b.LastAccess())

	b.Peek(0x2002)
	assert.Equal(t, addr.AccessRAM, b.LastAccess(), "peek leaves the tag alone")
}

func TestDMARequest(t *testing.T) {
	b := newTestBus()

	_, ok := b.TakeDMARequest()
	assert.False(t, ok)

	assert.Equal(t, addr.AccessOAMDMA, b.Store(0x4014, 0x02))
	page, ok := b.TakeDMARequest()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x02), page)

	_, ok = b.TakeDMARequest()
	assert.False(t, ok, "request is consumed")
}

func TestDMATransfer(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 256; i++ {
		b.Write(0x0200+uint16(i), byte(i^0x5A))
	}
	b.Write(0x2003, 0x00)

	b.StartDMA(0x02, 0)
	cycles := 0
	for b.DMAActive() {
		b.StepDMA()
		cycles++
	}

	assert.Equal(t, 512, cycles)
	oam := b.PPU().OAM()
	for i := 0; i < 256; i++ {
		assert.Equal(t, byte(i^0x5A), oam[i], "oam[%d]", i)
	}
}

func TestDMATransferWhileRendering(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 256; i++ {
		b.Write(0x0200+uint16(i), byte(i)|1)
	}
	b.Write(0x2003, 0x00)
	b.Write(0x2001, 0x18)
	scanline, _ := b.PPU().Position()
	require.Equal(t, 0, scanline)

	b.StartDMA(0x02, 0)
	for b.DMAActive() {
		b.StepDMA()
	}

	oam := b.PPU().OAM()
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i)|1, oam[i], "oam[%d]", i)
	}
}

func TestDMAStartsAtOAMAddress(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 256; i++ {
		b.Write(0x0300+uint16(i), byte(i))
	}
	b.Write(0x2003, 0x10)

	b.StartDMA(0x03, 1)
	cycles := 0
	for b.DMAActive() {
		b.StepDMA()
		cycles++
	}

	assert.Equal(t, 513, cycles)
	oam := b.PPU().OAM()
	assert.Equal(t, byte(0x00), oam[0x10])
	assert.Equal(t, byte(0xEF), oam[0xFF])
	assert.Equal(t, byte(0xF0), oam[0x00], "wraps around OAM")
}

func TestReset(t *testing.T) {
	b := newTestBus()
	b.Write(0x0123, 0x77)
	b.Write(0x2000, 0x03)
	b.StartDMA(0x00, 0)

	b.Reset()

	assert.Equal(t, byte(0x77), b.Read(0x0123))
	assert.Equal(t, uint16(0), b.PPU().Scroll().T)
	assert.False(t, b.DMAActive())
}
