// Package backend defines the host-platform surface spec.md §6 names
// as external collaborators (frame sink, input collaborator) without
// specifying their implementation. Concrete backends render a
// completed frame and translate native events into the input
// package's action vocabulary.
package backend

import (
	"github.com/ashryu/dmgcore/dmg/input"
	"github.com/ashryu/dmgcore/dmg/video"
)

// Backend is a complete host platform: rendering plus input, bound to
// one InputManager shared with the running Machine.
type Backend interface {
	// Init configures the backend. Must be called once before Update.
	Init(config Config) error

	// Update renders frame and processes any pending platform events,
	// dispatching them through config.InputManager.
	Update(frame *video.FrameBuffer) error

	// Cleanup releases backend-owned resources.
	Cleanup() error
}

// Config holds the configuration every backend needs at Init time.
type Config struct {
	Title        string
	InputManager *input.Manager

	// OnQuit is invoked when the backend's platform requests shutdown
	// (window close, Ctrl-C, a Quit action) so the host's run loop can
	// exit cleanly.
	OnQuit func()
}
