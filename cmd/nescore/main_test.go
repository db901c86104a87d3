package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-nescore/nescore"
)

// testROM is an NROM image that turns rendering on and writes to VRAM in a
// loop. flags6 0x02 adds battery RAM.
func testROM(flags6 byte) []byte {
	prg := make([]byte, 0x4000)
	copy(prg, []byte{
		0xA9, 0x1E,       // LDA #$1E
		0x8D, 0x01, 0x20, // STA $2001
		0xE8,             // INX
		0x8E, 0x07, 0x20, // STX $2007
		0x8E, 0x00, 0x60, // STX $6000
		0x4C, 0x05, 0xC0, // JMP $C005
	})
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0xC0

	image := []byte{0x4E, 0x45, 0x53, 0x1A, 1, 1, flags6, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	image = append(image, prg...)
	return append(image, make([]byte, 0x2000)...)
}

func newTestConsole(t *testing.T, flags6 byte) *nescore.Console {
	t.Helper()
	c, err := nescore.New(testROM(flags6), nescore.Options{})
	require.NoError(t, err)
	return c
}

func TestRunHeadlessSnapshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	c := newTestConsole(t, 0)

	err := runHeadless(c, headlessConfig{
		Frames:           4,
		SnapshotInterval: 2,
		SnapshotDir:      dir,
		ROMName:          "loop",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), c.FrameCount())

	for _, name := range []string{"loop_frame_2.png", "loop_frame_4.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestPrintTrace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTrace(&buf, newTestConsole(t, 0), 3, false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "C000  A9 1E     LDA #$1E  A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "C002  8D 01 20  STA $2001"))
	assert.True(t, strings.HasPrefix(lines[2], "C005  E8        INX"))
}

func TestPrintDisassembly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printDisassembly(&buf, newTestConsole(t, 0), 2))
	assert.Equal(t, "C000  A9 1E     LDA #$1E\nC002  8D 01 20  STA $2001\n", buf.String())
}

func TestBatteryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")

	c := newTestConsole(t, 0x02)
	require.NoError(t, loadBattery(c, path), "a missing file is not an error")
	require.NoError(t, c.RunUntilFrame())
	require.NoError(t, saveBattery(c, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 0x2000)
	assert.Equal(t, c.BatteryRAM(), data)

	fresh := newTestConsole(t, 0x02)
	require.NoError(t, loadBattery(fresh, path))
	assert.Equal(t, data[0], fresh.Peek(0x6000))
}

func TestBatteryIgnoredWithoutBattery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")
	c := newTestConsole(t, 0)

	require.NoError(t, saveBattery(c, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.dot")
	require.NoError(t, writeInspect(newTestConsole(t, 0), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("", true))
	assert.NoError(t, setupLogging("info", false))
	assert.Error(t, setupLogging("loud", false))
}
