package addr

// ppu registers, mirrored every 8 bytes across 0x2000-0x3FFF
const (
	// PPU control register (write only).
	PPUCTRL uint16 = 0x2000
	// PPU mask register (write only).
	PPUMASK uint16 = 0x2001
	// PPU status register (read only).
	PPUSTATUS uint16 = 0x2002
	// OAM address register (write only).
	OAMADDR uint16 = 0x2003
	// OAM data port.
	OAMDATA uint16 = 0x2004
	// Scroll position, written twice (write only).
	PPUSCROLL uint16 = 0x2005
	// VRAM address, written twice (write only).
	PPUADDR uint16 = 0x2006
	// VRAM data port.
	PPUDATA uint16 = 0x2007
)

// i/o registers
const (
	// OAMDMA triggers a 256 byte copy from page $XX00 into OAM.
	OAMDMA uint16 = 0x4014
	// JOY1 is the controller strobe (write) and port 1 data (read).
	JOY1 uint16 = 0x4016
	// JOY2 is port 2 data (read); writes go to the APU frame counter.
	JOY2 uint16 = 0x4017
)

// memory map boundaries
const (
	RAMEnd      uint16 = 0x1FFF
	PPUEnd      uint16 = 0x3FFF
	IOEnd       uint16 = 0x401F
	CartStart   uint16 = 0x4020
	PRGRAMStart uint16 = 0x6000
	PRGROMStart uint16 = 0x8000
)

// interrupt vectors
const (
	NMIVector   uint16 = 0xFFFA
	ResetVector uint16 = 0xFFFC
	IRQVector   uint16 = 0xFFFE
)

// StackPage is the fixed page the stack pointer offsets into.
const StackPage uint16 = 0x0100

// OpenBus is returned for addresses that no device drives.
const OpenBus uint8 = 0x40
