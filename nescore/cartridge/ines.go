package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

const (
	headerSize  = 16
	trainerSize = 512
)

var inesSignature = []byte{0x4E, 0x45, 0x53, 0x1A}

// flags6 bits
const (
	flagVertical   = 0x01
	flagBattery    = 0x02
	flagTrainer    = 0x04
	flagFourScreen = 0x08
)

var (
	// ErrMalformedROM is returned when an image can't be parsed as iNES.
	ErrMalformedROM = errors.New("malformed ROM")
	// ErrUnsupportedMapper is returned for mapper ids with no implementation.
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// Header holds the iNES fields the core understands.
type Header struct {
	PRGBanks   int // 16KB units
	CHRBanks   int // 8KB units
	MapperID   uint16
	Mirroring  Mirroring
	Battery    bool
	Trainer    bool
	FourScreen bool
	Extended   bool // NES 2.0 header, parsed as iNES 1.0
}

// Cartridge is a parsed image: header fields plus the memory it populates.
type Cartridge struct {
	Header  Header
	Trainer []byte
	Memory  *Memory
}

// ParseHeader decodes the 16 byte iNES header.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: file is %d bytes, shorter than the header", ErrMalformedROM, len(data))
	}
	if !bytes.Equal(data[0:4], inesSignature) {
		return Header{}, fmt.Errorf("%w: bad signature % X", ErrMalformedROM, data[0:4])
	}

	flags6, flags7 := data[6], data[7]
	h := Header{
		PRGBanks:   int(data[4]),
		CHRBanks:   int(data[5]),
		Battery:    flags6&flagBattery != 0,
		Trainer:    flags6&flagTrainer != 0,
		FourScreen: flags6&flagFourScreen != 0,
		Extended:   flags7&0x0C == 0x08,
	}

	if h.PRGBanks == 0 {
		return Header{}, fmt.Errorf("%w: PRG ROM size is zero", ErrMalformedROM)
	}

	switch {
	case h.FourScreen:
		h.Mirroring = MirrorFourScreen
	case flags6&flagVertical != 0:
		h.Mirroring = MirrorVertical
	default:
		h.Mirroring = MirrorHorizontal
	}

	if h.Extended {
		slog.Warn("NES 2.0 header detected, only iNES fields are used")
	}

	// Old dumping tools wrote their name into bytes 7-15, which makes the
	// high mapper nibble garbage.
	if !h.Extended && !allZero(data[12:16]) {
		slog.Warn("Header padding is not empty, ignoring mapper high nibble", "padding", fmt.Sprintf("% X", data[12:16]))
		flags7 = 0
	}

	h.MapperID = uint16(flags7&0xF0) | uint16(flags6>>4)
	return h, nil
}

// Parse decodes a complete iNES image and allocates cartridge memory.
func Parse(data []byte) (*Cartridge, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	prgSize := h.PRGBanks * prgBankSize
	chrSize := h.CHRBanks * chrBankSize
	want := headerSize + prgSize + chrSize
	if h.Trainer {
		want += trainerSize
	}
	if len(data) < want {
		return nil, fmt.Errorf("%w: truncated image, have %d bytes, header needs %d", ErrMalformedROM, len(data), want)
	}

	cart := &Cartridge{
		Header: h,
		Memory: &Memory{Mirroring: h.Mirroring},
	}

	offset := headerSize
	if h.Trainer {
		cart.Trainer = append([]byte(nil), data[offset:offset+trainerSize]...)
		offset += trainerSize
	}

	cart.Memory.PRGROM = append([]byte(nil), data[offset:offset+prgSize]...)
	offset += prgSize

	if chrSize > 0 {
		cart.Memory.CHRROM = append([]byte(nil), data[offset:offset+chrSize]...)
	} else {
		cart.Memory.CHRRAM = make([]byte, chrBankSize)
	}

	if h.Battery {
		cart.Memory.PRGNVRAM = make([]byte, prgRAMSize)
	} else {
		cart.Memory.PRGRAM = make([]byte, prgRAMSize)
	}

	// trainers are loaded at $7000
	if cart.Trainer != nil {
		copy(cart.Memory.prgRAM()[0x1000:], cart.Trainer)
	}

	return cart, nil
}

// Load parses an image and builds the mapper it asks for.
func Load(data []byte) (Mapper, error) {
	cart, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewMapper(cart)
}

// LoadFile reads and loads an iNES file from disk.
func LoadFile(path string) (Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded ROM file", "path", path, "bytes", len(data))
	return Load(data)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
