package memory

import (
	"github.com/valerio/go-nescore/nescore/addr"
	"github.com/valerio/go-nescore/nescore/cartridge"
	"github.com/valerio/go-nescore/nescore/dma"
	"github.com/valerio/go-nescore/nescore/input"
	"github.com/valerio/go-nescore/nescore/ppu"
)

type memRegion uint8

const (
	regionRAM memRegion = iota
	regionPPU
	regionIO
	regionCartridge
)

const ramSize = 0x800

// Bus is the CPU address space. It owns console RAM and the devices hanging
// off the bus, and routes every access by address range.
//
//	0x0000-0x1FFF  2KB RAM, mirrored every 0x800
//	0x2000-0x3FFF  PPU registers, mirrored every 8
//	0x4000-0x401F  APU and I/O (OAM DMA, controllers)
//	0x4020-0xFFFF  cartridge
type Bus struct {
	ram       [ramSize]byte
	regionMap [256]memRegion

	ppu    ppu.PPU
	dma    dma.Controller
	pads   [2]input.Controller
	mapper cartridge.Mapper

	lastAccess addr.Access

	dmaRequested bool
	dmaPage      uint8
}

// New creates a bus with the given cartridge inserted.
func New(mapper cartridge.Mapper) *Bus {
	b := &Bus{
		mapper: mapper,
		ppu:    *ppu.New(mapper),
	}
	initRegionMap(b)
	return b
}

func initRegionMap(b *Bus) {
	for i := 0x00; i <= 0x1F; i++ {
		b.regionMap[i] = regionRAM
	}
	for i := 0x20; i <= 0x3F; i++ {
		b.regionMap[i] = regionPPU
	}
	// 0x4020-0x40FF also belongs to the cartridge, see loadIO/storeIO
	b.regionMap[0x40] = regionIO
	for i := 0x41; i <= 0xFF; i++ {
		b.regionMap[i] = regionCartridge
	}
}

// Reset puts the bus devices in their reset state. RAM keeps its contents.
func (b *Bus) Reset() {
	b.ppu.Reset()
	b.dma = dma.Controller{}
	b.dmaRequested = false
	for i := range b.pads {
		b.pads[i].Write(0)
	}
	b.lastAccess = addr.AccessNone
}

// Load reads a byte with all of its side effects and reports what was
// touched.
func (b *Bus) Load(address uint16) (byte, addr.Access) {
	var value byte
	var access addr.Access

	switch b.regionMap[address>>8] {
	case regionRAM:
		value, access = b.ram[address&(ramSize-1)], addr.AccessRAM
	case regionPPU:
		value, access = b.ppu.ReadRegister(address), addr.PPURegister(address)
	case regionIO:
		value, access = b.loadIO(address)
	case regionCartridge:
		value, access = b.mapper.LoadPRG(address), addr.AccessCartridge
	}

	b.lastAccess = access
	return value, access
}

// Store writes a byte with all of its side effects and reports what was
// touched.
func (b *Bus) Store(address uint16, value byte) addr.Access {
	var access addr.Access

	switch b.regionMap[address>>8] {
	case regionRAM:
		b.ram[address&(ramSize-1)] = value
		access = addr.AccessRAM
	case regionPPU:
		access = addr.PPURegister(address)
		if access == addr.AccessOAMData && b.dma.Active() {
			b.ppu.WriteOAMDMA(value)
		} else {
			b.ppu.WriteRegister(address, value)
		}
	case regionIO:
		access = b.storeIO(address, value)
	case regionCartridge:
		b.mapper.StorePRG(address, value)
		access = addr.AccessCartridge
	}

	b.lastAccess = access
	return access
}

func (b *Bus) loadIO(address uint16) (byte, addr.Access) {
	switch {
	case address == addr.OAMDMA:
		return addr.OpenBus, addr.AccessOAMDMA
	case address == addr.JOY1:
		return addr.OpenBus | b.pads[0].Read(), addr.AccessController1
	case address == addr.JOY2:
		return addr.OpenBus | b.pads[1].Read(), addr.AccessController2
	case address <= 0x4017:
		return addr.OpenBus, addr.AccessAPU
	case address <= addr.IOEnd:
		return addr.OpenBus, addr.AccessOpenBus
	default:
		return b.mapper.LoadPRG(address), addr.AccessCartridge
	}
}

func (b *Bus) storeIO(address uint16, value byte) addr.Access {
	switch {
	case address == addr.OAMDMA:
		b.dmaRequested = true
		b.dmaPage = value
		return addr.AccessOAMDMA
	case address == addr.JOY1:
		// one strobe line feeds both ports
		b.pads[0].Write(value)
		b.pads[1].Write(value)
		return addr.AccessController1
	case address <= 0x4017:
		return addr.AccessAPU
	case address <= addr.IOEnd:
		return addr.AccessOpenBus
	default:
		b.mapper.StorePRG(address, value)
		return addr.AccessCartridge
	}
}

// Read is Load without the access tag.
func (b *Bus) Read(address uint16) byte {
	value, _ := b.Load(address)
	return value
}

// Write is Store without the access tag.
func (b *Bus) Write(address uint16, value byte) {
	b.Store(address, value)
}

// Peek returns the byte a read would return, without side effects on any
// device. Used by the disassembler and debug views.
func (b *Bus) Peek(address uint16) byte {
	switch b.regionMap[address>>8] {
	case regionRAM:
		return b.ram[address&(ramSize-1)]
	case regionPPU:
		return b.ppu.PeekRegister(address)
	case regionIO:
		switch {
		case address == addr.JOY1:
			return addr.OpenBus | b.pads[0].Peek()
		case address == addr.JOY2:
			return addr.OpenBus | b.pads[1].Peek()
		case address <= addr.IOEnd:
			return addr.OpenBus
		}
	}
	return b.mapper.LoadPRG(address)
}

// LastAccess returns the tag of the most recent Load or Store.
func (b *Bus) LastAccess() addr.Access {
	return b.lastAccess
}

// TakeDMARequest returns the page written to OAMDMA since the last call.
func (b *Bus) TakeDMARequest() (page uint8, ok bool) {
	if !b.dmaRequested {
		return 0, false
	}
	b.dmaRequested = false
	return b.dmaPage, true
}

// StartDMA arms an OAM transfer; cpuCycles decides the alignment cycle.
func (b *Bus) StartDMA(page uint8, cpuCycles uint64) {
	b.dma.Trigger(page, cpuCycles)
}

// DMAActive reports whether an OAM transfer owns the bus.
func (b *Bus) DMAActive() bool {
	return b.dma.Active()
}

// DMARemaining returns the cycles left in the active OAM transfer.
func (b *Bus) DMARemaining() int {
	return b.dma.Remaining()
}

// StepDMA runs one cycle of the active OAM transfer.
func (b *Bus) StepDMA() {
	b.dma.Step(b)
}

// PPU returns the picture processor attached to the bus.
func (b *Bus) PPU() *ppu.PPU {
	return &b.ppu
}

// Controller returns the pad plugged into port 0 or 1.
func (b *Bus) Controller(port int) *input.Controller {
	return &b.pads[port&1]
}

// Mapper returns the inserted cartridge.
func (b *Bus) Mapper() cartridge.Mapper {
	return b.mapper
}

// RAM returns a copy of console RAM.
func (b *Bus) RAM() [ramSize]byte {
	return b.ram
}
