//go:build !sdl2

package sdl2

import (
	"fmt"

	"github.com/ashryu/dmgcore/dmg/backend"
	"github.com/ashryu/dmgcore/dmg/video"
)

// Backend stubs out the SDL2 backend for default builds, which skip
// the cgo-dependent SDL2 bindings unless built with -tags sdl2.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Init(config backend.Config) error {
	return fmt.Errorf("sdl2: not available in this build; rebuild with -tags sdl2 and SDL2 installed")
}

func (b *Backend) Update(frame *video.FrameBuffer) error {
	return fmt.Errorf("sdl2: not available in this build")
}

func (b *Backend) Cleanup() error { return nil }

var _ backend.Backend = (*Backend)(nil)
