package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNROM(t *testing.T) {
	t.Run("16KB PRG is mirrored", func(t *testing.T) {
		m, err := Load(buildImage(1, 1, 0, 0))
		require.NoError(t, err)
		m.Memory().PRGROM[0x1234] = 0x42

		for a := uint16(0x8000); a < 0xC000; a += 0x111 {
			assert.Equal(t, m.LoadPRG(a), m.LoadPRG(a+0x4000), "0x%04X", a)
		}
		assert.Equal(t, byte(0x42), m.LoadPRG(0x9234))
		assert.Equal(t, byte(0x42), m.LoadPRG(0xD234))
	})

	t.Run("32KB PRG is linear", func(t *testing.T) {
		m, err := Load(buildImage(2, 1, 0, 0))
		require.NoError(t, err)

		assert.Equal(t, byte(0), m.LoadPRG(0x8000))
		assert.Equal(t, byte(1), m.LoadPRG(0xC000))
		assert.Equal(t, byte(1), m.LoadPRG(0xFFFF))
	})

	t.Run("ROM writes are ignored, RAM writes stick", func(t *testing.T) {
		m, err := Load(buildImage(1, 1, 0, 0))
		require.NoError(t, err)

		m.StorePRG(0x8000, 0xFF)
		assert.Equal(t, byte(0), m.LoadPRG(0x8000))

		m.StorePRG(0x6000, 0x11)
		m.StorePRG(0x7FFF, 0x22)
		assert.Equal(t, byte(0x11), m.LoadPRG(0x6000))
		assert.Equal(t, byte(0x22), m.LoadPRG(0x7FFF))
	})

	t.Run("expansion area is open bus", func(t *testing.T) {
		m, err := Load(buildImage(1, 1, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, byte(0x40), m.LoadPRG(0x5000))
	})

	t.Run("CHR ROM is read only, CHR RAM is writable", func(t *testing.T) {
		var nt NametableRAM

		rom, err := Load(buildImage(1, 1, 0, 0))
		require.NoError(t, err)
		rom.StoreCHR(0x0010, 0x55, &nt)
		assert.Equal(t, byte(0x80), rom.LoadCHR(0x0010, &nt))

		ram, err := Load(buildImage(1, 0, 0, 0))
		require.NoError(t, err)
		ram.StoreCHR(0x1FFF, 0x55, &nt)
		assert.Equal(t, byte(0x55), ram.LoadCHR(0x1FFF, &nt))
	})

	t.Run("nametables follow header mirroring", func(t *testing.T) {
		var nt NametableRAM
		m, err := Load(buildImage(1, 1, flagVertical, 0))
		require.NoError(t, err)

		m.StoreCHR(0x2005, 0x77, &nt)
		assert.Equal(t, byte(0x77), m.LoadCHR(0x2805, &nt))
		assert.Equal(t, byte(0x00), m.LoadCHR(0x2405, &nt))
		assert.Equal(t, byte(0x77), nt[0x005])
	})
}

func TestCNROM(t *testing.T) {
	f6, f7 := mapperFlags(3)
	m, err := Load(buildImage(2, 4, f6, f7))
	require.NoError(t, err)
	require.Equal(t, uint16(3), m.ID())

	var nt NametableRAM
	assert.Equal(t, byte(0x80), m.LoadCHR(0x0000, &nt))

	tests := []struct {
		value byte
		want  byte
	}{
		{1, 0x81},
		{3, 0x83},
		{0, 0x80},
		{6, 0x82}, // wraps on bank count
	}

	for _, tt := range tests {
		m.StorePRG(0x8000, tt.value)
		assert.Equal(t, tt.want, m.LoadCHR(0x1000, &nt), "bank %d", tt.value)
	}

	assert.Equal(t, byte(1), m.LoadPRG(0xC000), "PRG is unbanked")
}

func TestMapper225(t *testing.T) {
	f6, f7 := mapperFlags(225)
	data := buildImage(128, 128, f6, f7)

	newMapper := func(t *testing.T) *Mapper225 {
		m, err := Load(data)
		require.NoError(t, err)
		require.Equal(t, uint16(225), m.ID())
		return m.(*Mapper225)
	}

	t.Run("power on maps the first 32KB", func(t *testing.T) {
		m := newMapper(t)
		assert.Equal(t, byte(0), m.LoadPRG(0x8000))
		assert.Equal(t, byte(1), m.LoadPRG(0xC000))
	})

	tests := []struct {
		name    string
		address uint16
		prgLow  int
		prgHigh int
		chr     int
		mirror  Mirroring
	}{
		{"32KB mode rounds to even bank", 0x8000 | 3<<6 | 5, 2, 3, 5, MirrorVertical},
		{"16KB mode mirrors bank", 0x8000 | 0x1000 | 3<<6, 3, 3, 0, MirrorVertical},
		{"horizontal mirroring", 0x8000 | 0x2000, 0, 1, 0, MirrorHorizontal},
		{"high bit selects upper half", 0xC000 | 0x1000 | 1<<6 | 2, 65, 65, 66, MirrorVertical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMapper(t)
			m.StorePRG(tt.address, 0)

			prgLow, prgHigh, chr := m.Banks()
			assert.Equal(t, tt.prgLow, prgLow)
			assert.Equal(t, tt.prgHigh, prgHigh)
			assert.Equal(t, tt.chr, chr)
			assert.Equal(t, tt.mirror, m.Mirroring())

			var nt NametableRAM
			assert.Equal(t, byte(tt.prgLow), m.LoadPRG(0x8000))
			assert.Equal(t, byte(tt.prgHigh), m.LoadPRG(0xFFFF))
			assert.Equal(t, byte(0x80+tt.chr), m.LoadCHR(0x0000, &nt))
		})
	}

	t.Run("nibble registers", func(t *testing.T) {
		m := newMapper(t)
		m.StorePRG(0x5800, 0xAB)
		m.StorePRG(0x5803, 0x0C)

		assert.Equal(t, byte(0x0B), m.LoadPRG(0x5800))
		assert.Equal(t, byte(0x0B), m.LoadPRG(0x5FFC), "mirrored every 4 bytes")
		assert.Equal(t, byte(0x0C), m.LoadPRG(0x5803))
		assert.Equal(t, byte(0x40), m.LoadPRG(0x6000), "no PRG RAM")
	})
}

func TestBatteryRAM(t *testing.T) {
	m, err := Load(buildImage(1, 1, flagBattery, 0))
	require.NoError(t, err)

	m.StorePRG(0x6000, 0x99)
	ram := BatteryRAM(m)
	require.Len(t, ram, prgRAMSize)
	assert.Equal(t, byte(0x99), ram[0])

	plain, err := Load(buildImage(1, 1, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, BatteryRAM(plain))
}

func TestBankLayout(t *testing.T) {
	f6, f7 := mapperFlags(3)
	cnrom, err := Load(buildImage(2, 4, f6|flagVertical, f7))
	require.NoError(t, err)
	cnrom.StorePRG(0x8000, 2)

	f6, f7 = mapperFlags(225)
	multicart, err := Load(buildImage(128, 128, f6, f7))
	require.NoError(t, err)
	multicart.StorePRG(0x8000|0x2000|0x1000|5<<6|9, 0)

	nrom, err := Load(buildImage(1, 1, 0, 0))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mapper Mapper
		want   Banks
	}{
		{"NROM 16KB", nrom, Banks{PRG: [2]int{0, 0}, Mirroring: MirrorHorizontal}},
		{"CNROM", cnrom, Banks{PRG: [2]int{0, 1}, CHR: 2, Mirroring: MirrorVertical}},
		{"225", multicart, Banks{PRG: [2]int{5, 5}, CHR: 9, Mirroring: MirrorHorizontal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BankLayout(tt.mapper))
		})
	}
}
