package cartridge

// buildImage assembles an iNES image where every PRG byte holds its 16KB bank
// number and every CHR byte holds its 8KB bank number plus 0x80.
func buildImage(prgBanks, chrBanks int, flags6, flags7 byte) []byte {
	data := []byte{0x4E, 0x45, 0x53, 0x1A, byte(prgBanks), byte(chrBanks), flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	for b := 0; b < prgBanks; b++ {
		for i := 0; i < prgBankSize; i++ {
			data = append(data, byte(b))
		}
	}
	for b := 0; b < chrBanks; b++ {
		for i := 0; i < chrBankSize; i++ {
			data = append(data, byte(0x80+b))
		}
	}
	return data
}

func mapperFlags(id uint16) (flags6, flags7 byte) {
	return byte(id&0x0F) << 4, byte(id & 0xF0)
}
