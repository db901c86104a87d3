package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-nescore/nescore"
	"github.com/valerio/go-nescore/nescore/render"
)

func main() {
	app := cli.NewApp()
	app.Name = "nescore"
	app.Description = "A cycle-stepped NES emulator core"
	app.Usage = "nescore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the iNES ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a terminal interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.IntFlag{
			Name:  "trace",
			Usage: "Print a nestest style trace of the first N instructions and exit",
		},
		cli.IntFlag{
			Name:  "disasm",
			Usage: "Disassemble N instructions from the reset vector and exit",
		},
		cli.StringFlag{
			Name:  "inspect",
			Usage: "Write the console state as a Graphviz dot file when emulation stops",
		},
		cli.BoolFlag{
			Name:  "strict",
			Usage: "Stop at the first illegal opcode instead of skipping it",
		},
		cli.StringFlag{
			Name:  "save",
			Usage: "Battery RAM file (default: ROM path with a .sav extension)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error (default: debug headless, warn otherwise)",
		},
		cli.BoolFlag{
			Name:  "statsview",
			Usage: "Serve runtime statistics at http://" + statsviewAddr + statsviewPath,
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	headless := c.Bool("headless") || c.Int("trace") > 0 || c.Int("disasm") > 0
	if err := setupLogging(c.String("log-level"), headless); err != nil {
		return err
	}

	console, err := nescore.NewWithFile(romPath, nescore.Options{HaltOnIllegal: c.Bool("strict")})
	if err != nil {
		return err
	}

	savePath := c.String("save")
	if savePath == "" {
		savePath = strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".sav"
	}
	if err := loadBattery(console, savePath); err != nil {
		return err
	}
	defer func() {
		if err := saveBattery(console, savePath); err != nil {
			slog.Error("Failed to save battery RAM", "path", savePath, "error", err)
		}
	}()

	if inspect := c.String("inspect"); inspect != "" {
		defer func() {
			if err := writeInspect(console, inspect); err != nil {
				slog.Error("Failed to write state graph", "path", inspect, "error", err)
			}
		}()
	}

	switch {
	case c.Int("disasm") > 0:
		return printDisassembly(os.Stdout, console, c.Int("disasm"))
	case c.Int("trace") > 0:
		return printTrace(os.Stdout, console, c.Int("trace"), c.Bool("strict"))
	case c.Bool("headless"):
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}

		romName := filepath.Base(romPath)
		romName = strings.TrimSuffix(romName, filepath.Ext(romName))

		return runHeadless(console, headlessConfig{
			Frames:           frames,
			SnapshotInterval: c.Int("snapshot-interval"),
			SnapshotDir:      c.String("snapshot-dir"),
			ROMName:          romName,
		})
	default:
		if c.Bool("statsview") {
			launchStatsview(statsviewAddr)
		}

		renderer, err := render.NewTerminalRenderer(console)
		if err != nil {
			return err
		}
		return renderer.Run()
	}
}

func setupLogging(level string, headless bool) error {
	lvl := slog.LevelWarn
	if headless {
		lvl = slog.LevelDebug
	}
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", level, err)
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}
