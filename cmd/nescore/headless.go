package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valerio/go-nescore/nescore"
	"github.com/valerio/go-nescore/nescore/cpu"
	"github.com/valerio/go-nescore/nescore/debug"
)

// headlessConfig holds configuration for batch runs
type headlessConfig struct {
	Frames           int
	SnapshotInterval int    // Save snapshot every N frames
	SnapshotDir      string // Directory to save snapshots
	ROMName          string // ROM name for snapshot filenames
}

func runHeadless(emu nescore.Emulator, cfg headlessConfig) error {
	if cfg.SnapshotInterval > 0 {
		if cfg.SnapshotDir == "" {
			tempDir, err := os.MkdirTemp("", "nescore-snapshots-*")
			if err != nil {
				return fmt.Errorf("failed to create snapshot directory: %w", err)
			}
			cfg.SnapshotDir = tempDir
		} else if err := os.MkdirAll(cfg.SnapshotDir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	slog.Info("Running headless mode",
		"frames", cfg.Frames,
		"snapshot_interval", cfg.SnapshotInterval,
		"snapshot_dir", cfg.SnapshotDir)

	for i := 0; i < cfg.Frames; i++ {
		if err := emu.RunUntilFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}

		if cfg.SnapshotInterval > 0 && (i+1)%cfg.SnapshotInterval == 0 {
			path := filepath.Join(cfg.SnapshotDir, fmt.Sprintf("%s_frame_%d.png", cfg.ROMName, i+1))
			if _, err := debug.SaveFramePNG(emu.Frame(), path); err != nil {
				slog.Error("Failed to save snapshot", "frame", i+1, "path", path, "error", err)
			}
		}

		if i%60 == 0 {
			slog.Debug("Frame progress", "completed", i+1, "total", cfg.Frames)
		}
	}

	slog.Info("Headless execution completed", "frames", cfg.Frames, "state", emu.State().CPU.String())
	return nil
}

func printTrace(w io.Writer, console *nescore.Console, n int, strict bool) error {
	for i := 0; i < n; i++ {
		if _, err := fmt.Fprintln(w, console.Trace()); err != nil {
			return err
		}
		if _, err := console.Step(); err != nil {
			if strict || !errors.Is(err, cpu.ErrIllegalOpcode) {
				return err
			}
		}
	}
	return nil
}

func printDisassembly(w io.Writer, console *nescore.Console, n int) error {
	for _, line := range console.Disassemble(n) {
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

func loadBattery(console *nescore.Console, path string) error {
	if console.BatteryRAM() == nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Battery file missing, starting with empty save RAM", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read battery file: %w", err)
	}

	if err := console.LoadBatteryRAM(data); err != nil {
		return fmt.Errorf("failed to load battery file %s: %w", path, err)
	}
	slog.Info("Loaded battery RAM", "path", path, "bytes", len(data))
	return nil
}

func saveBattery(console *nescore.Console, path string) error {
	data := console.BatteryRAM()
	if data == nil {
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	slog.Info("Saved battery RAM", "path", path)
	return nil
}

func writeInspect(console *nescore.Console, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	state := console.State()
	debug.WriteStateGraph(f, &state)
	slog.Info("State graph written", "path", path)
	return nil
}
