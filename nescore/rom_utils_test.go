package nescore

// buildROM assembles a 16KB NROM image. code maps CPU addresses in
// $C000-$FFFF to the bytes placed there; the bank is mirrored at $8000.
// Reset and IRQ point at $C000.
func buildROM(code map[uint16][]byte, nmi uint16, flags6 byte) []byte {
	prg := make([]byte, 0x4000)
	for at, bytes := range code {
		copy(prg[at-0xC000:], bytes)
	}
	prg[0x3FFA], prg[0x3FFB] = byte(nmi), byte(nmi>>8)
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0xC0
	prg[0x3FFE], prg[0x3FFF] = 0x00, 0xC0

	image := []byte{0x4E, 0x45, 0x53, 0x1A, 1, 1, flags6, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	image = append(image, prg...)
	return append(image, make([]byte, 0x2000)...)
}

func program(code ...byte) map[uint16][]byte {
	return map[uint16][]byte{0xC000: code}
}
