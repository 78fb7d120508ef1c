//go:build sdl2

// Package sdl2 implements a windowed Backend via SDL2 bindings.
// Building it requires the SDL2 development libraries installed and
// the "sdl2" build tag; see sdl2_stub.go for the default no-op build.
package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ashryu/dmgcore/dmg/backend"
	"github.com/ashryu/dmgcore/dmg/input"
	"github.com/ashryu/dmgcore/dmg/input/action"
	"github.com/ashryu/dmgcore/dmg/input/event"
	"github.com/ashryu/dmgcore/dmg/video"
)

const pixelScale = 3

// Backend renders the DMG framebuffer into an SDL2 window/texture and
// translates SDL2 keyboard events into the shared input manager,
// grounded on go-jeebie's backend.SDL2Backend.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	input  *input.Manager
	onQuit func()
}

func New() *Backend { return &Backend{} }

func (b *Backend) Init(config backend.Config) error {
	b.input = config.InputManager
	b.onQuit = config.OnQuit

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: failed to initialize: %w", err)
	}

	title := config.Title
	if title == "" {
		title = "dmg"
	}

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		video.Width*pixelScale, video.Height*pixelScale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: failed to create window: %w", err)
	}
	b.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: failed to create renderer: %w", err)
	}
	b.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, video.Width, video.Height)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: failed to create texture: %w", err)
	}
	b.texture = texture

	slog.Info("sdl2 backend initialized")
	return nil
}

func (b *Backend) Update(frame *video.FrameBuffer) error {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		b.handleEvent(ev)
	}

	b.renderFrame(frame)
	return nil
}

func (b *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		if b.onQuit != nil {
			b.onQuit()
		}
	case *sdl.KeyboardEvent:
		act, ok := actionForKey(e.Keysym.Sym)
		if !ok {
			return
		}
		evtType := event.Release
		if e.Type == sdl.KEYDOWN {
			evtType = event.Press
		}
		b.input.Dispatch(input.Event{Action: act, Type: evtType})
	}
}

func actionForKey(key sdl.Keycode) (action.Action, bool) {
	switch key {
	case sdl.K_RETURN:
		return action.ButtonStart, true
	case sdl.K_RSHIFT, sdl.K_LSHIFT:
		return action.ButtonSelect, true
	case sdl.K_z:
		return action.ButtonA, true
	case sdl.K_x:
		return action.ButtonB, true
	case sdl.K_UP:
		return action.DPadUp, true
	case sdl.K_DOWN:
		return action.DPadDown, true
	case sdl.K_LEFT:
		return action.DPadLeft, true
	case sdl.K_RIGHT:
		return action.DPadRight, true
	case sdl.K_ESCAPE:
		return action.Quit, true
	default:
		return 0, false
	}
}

func (b *Backend) renderFrame(frame *video.FrameBuffer) {
	pixels := frame.Pixels()
	rgba := make([]byte, video.Width*video.Height*4)
	for i, px := range pixels {
		r, g, bl, a := channelsFor(px)
		idx := i * 4
		rgba[idx] = a
		rgba[idx+1] = bl
		rgba[idx+2] = g
		rgba[idx+3] = r
	}

	b.texture.Update(nil, unsafe.Pointer(&rgba[0]), video.Width*4)
	b.renderer.Clear()
	b.renderer.Copy(b.texture, nil, nil)
	b.renderer.Present()
}

func channelsFor(pixel uint32) (r, g, bl, a byte) {
	switch video.GBColor(pixel) {
	case video.WhiteColor:
		return 0xFF, 0xFF, 0xFF, 0xFF
	case video.LightGreyColor:
		return 0x98, 0x98, 0x98, 0xFF
	case video.DarkGreyColor:
		return 0x4C, 0x4C, 0x4C, 0xFF
	default:
		return 0x00, 0x00, 0x00, 0xFF
	}
}

func (b *Backend) Cleanup() error {
	slog.Info("cleaning up sdl2 backend")
	if b.texture != nil {
		b.texture.Destroy()
	}
	if b.renderer != nil {
		b.renderer.Destroy()
	}
	if b.window != nil {
		b.window.Destroy()
	}
	sdl.Quit()
	return nil
}

var _ backend.Backend = (*Backend)(nil)
