// Package headless implements a no-display Backend for batch runs
// (cmd/dmg --backend headless): it renders nothing, optionally dumps a
// PNG snapshot every N frames, and never blocks on input.
package headless

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ashryu/dmgcore/dmg/backend"
	"github.com/ashryu/dmgcore/dmg/debug"
	"github.com/ashryu/dmgcore/dmg/video"
)

// SnapshotConfig controls the periodic PNG dump, grounded on
// go-jeebie's backend.SnapshotConfig.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int // save every N frames
	Directory string
	ROMName   string
}

// Backend is the headless Backend implementation.
type Backend struct {
	config     backend.Config
	snapshot   SnapshotConfig
	frameCount int
}

// New returns a headless backend that saves snapshots per snapshot's
// configuration (zero value disables snapshotting).
func New(snapshot SnapshotConfig) *Backend {
	return &Backend{snapshot: snapshot}
}

func (b *Backend) Init(config backend.Config) error {
	b.config = config
	slog.Info("headless backend initialized", "snapshots", b.snapshot.Enabled)
	return nil
}

// Update counts the frame and saves a snapshot if this frame lands on
// the configured interval.
func (b *Backend) Update(frame *video.FrameBuffer) error {
	b.frameCount++

	if b.snapshot.Enabled && b.frameCount%b.snapshot.Interval == 0 {
		name := fmt.Sprintf("%s_frame_%d.png", b.snapshot.ROMName, b.frameCount)
		path := filepath.Join(b.snapshot.Directory, name)
		if err := debug.SaveFramePNG(frame, path); err != nil {
			slog.Error("failed to save frame snapshot", "frame", b.frameCount, "error", err)
		} else {
			slog.Info("saved frame snapshot", "frame", b.frameCount, "path", path)
		}
	}

	return nil
}

func (b *Backend) Cleanup() error { return nil }

var _ backend.Backend = (*Backend)(nil)
