// Command dmg runs the DMG core emulation engine against a ROM file,
// presenting it through a selectable backend. Grounded on go-jeebie's
// cmd/jeebie/main.go flag surface.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/ashryu/dmgcore/dmg"
	"github.com/ashryu/dmgcore/dmg/backend"
	"github.com/ashryu/dmgcore/dmg/backend/headless"
	"github.com/ashryu/dmgcore/dmg/backend/sdl2"
	"github.com/ashryu/dmgcore/dmg/backend/terminal"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmg"
	app.Description = "A Game Boy (DMG) core emulation engine"
	app.Usage = "dmg [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM file"},
		cli.StringFlag{Name: "backend", Value: "terminal", Usage: "backend to use: terminal, sdl2, headless"},
		cli.IntFlag{Name: "frames", Usage: "number of frames to run before exiting (0 = run indefinitely)"},
		cli.IntFlag{Name: "snapshot-interval", Usage: "save a PNG snapshot every N frames (0 = disabled)"},
		cli.StringFlag{Name: "snapshot-dir", Usage: "directory for PNG snapshots (default: a temp directory)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmg exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	machine, err := dmg.NewWithFile(romPath)
	if err != nil {
		return err
	}

	be, err := selectBackend(c, romPath)
	if err != nil {
		return err
	}

	return runLoop(machine, be, c.Int("frames"))
}

func selectBackend(c *cli.Context, romPath string) (backend.Backend, error) {
	switch c.String("backend") {
	case "headless":
		snapshotConfig, err := snapshotConfigFrom(c, romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(snapshotConfig), nil
	case "sdl2":
		return sdl2.New(), nil
	case "terminal":
		return terminal.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.String("backend"))
	}
}

func snapshotConfigFrom(c *cli.Context, romPath string) (headless.SnapshotConfig, error) {
	interval := c.Int("snapshot-interval")
	if interval <= 0 {
		return headless.SnapshotConfig{}, nil
	}

	dir := c.String("snapshot-dir")
	if dir == "" {
		tempDir, err := os.MkdirTemp("", "dmg-snapshots-*")
		if err != nil {
			return headless.SnapshotConfig{}, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		dir = tempDir
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return headless.SnapshotConfig{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	return headless.SnapshotConfig{Enabled: true, Interval: interval, Directory: dir, ROMName: romName}, nil
}

func runLoop(machine *dmg.Machine, be backend.Backend, maxFrames int) error {
	quit := false
	config := backend.Config{
		Title:        "dmg",
		InputManager: machine.Input,
		OnQuit:       func() { quit = true },
	}

	if err := be.Init(config); err != nil {
		return err
	}
	defer be.Cleanup()

	for !quit && (maxFrames <= 0 || int(machine.GetFrameCount()) < maxFrames) {
		if err := machine.RunUntilFrame(); err != nil {
			return err
		}
		if err := be.Update(machine.GetCurrentFrame()); err != nil {
			return err
		}
	}

	slog.Info("dmg exiting", "frames", machine.GetFrameCount(), "instructions", machine.GetInstructionCount())
	return nil
}
