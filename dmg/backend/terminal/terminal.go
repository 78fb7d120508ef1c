// Package terminal implements a Backend that renders the DMG's
// framebuffer as block characters in a tcell terminal screen and
// polls tcell key events into the shared input manager, grounded on
// go-jeebie's render.TerminalRenderer.
package terminal

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/ashryu/dmgcore/dmg/backend"
	"github.com/ashryu/dmgcore/dmg/input"
	"github.com/ashryu/dmgcore/dmg/input/action"
	"github.com/ashryu/dmgcore/dmg/input/event"
	"github.com/ashryu/dmgcore/dmg/video"
)

// scaleX stretches each DMG pixel horizontally so glyphs read closer
// to square in a typical terminal's character aspect ratio.
const scaleX = 2

var shadeChars = [4]rune{'█', '▓', '▒', '░'}

// Backend renders via tcell. Key presses are debounced by the shared
// input.Manager; tcell has no reliable key-up event for ordinary
// terminal input, so only Press events are ever dispatched here.
type Backend struct {
	screen tcell.Screen
	input  *input.Manager
	onQuit func()

	events chan tcell.Event
	done   chan struct{}
}

// New returns an uninitialized terminal backend; call Init before Update.
func New() *Backend { return &Backend{} }

func (b *Backend) Init(config backend.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("terminal: stdout is not a terminal; use the headless backend instead")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: failed to initialize: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: failed to initialize: %w", err)
	}

	b.screen = screen
	b.input = config.InputManager
	b.onQuit = config.OnQuit
	b.events = make(chan tcell.Event, 32)
	b.done = make(chan struct{})

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	go b.pollEvents()

	return nil
}

func (b *Backend) pollEvents() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

// Update drains any pending tcell events without blocking, then
// renders frame to the terminal.
func (b *Backend) Update(frame *video.FrameBuffer) error {
drain:
	for {
		select {
		case ev := <-b.events:
			b.handleEvent(ev)
		default:
			break drain
		}
	}

	b.render(frame)
	b.screen.Show()
	return nil
}

func (b *Backend) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		name := keyName(e)
		if name == "" {
			return
		}
		act, ok := input.LookupKey(name)
		if !ok {
			return
		}
		if act == action.Quit {
			if b.onQuit != nil {
				b.onQuit()
			}
			return
		}
		b.input.Dispatch(input.Event{Action: act, Type: event.Press})
	case *tcell.EventResize:
		b.screen.Sync()
	}
}

// keyName maps a tcell key event to the string names input.DefaultKeyMap
// uses, so both this backend and a future one can share the same
// lookup table instead of each hard-coding its own action bindings.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyUp:
		return "Up"
	case tcell.KeyDown:
		return "Down"
	case tcell.KeyLeft:
		return "Left"
	case tcell.KeyRight:
		return "Right"
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyF9:
		return "F9"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "Space"
		}
		return string(ev.Rune())
	default:
		return ""
	}
}

func (b *Backend) render(frame *video.FrameBuffer) {
	b.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for y := 0; y < video.Height; y++ {
		for x := 0; x < video.Width; x++ {
			char := shadeChars[shadeIndex(frame.GetPixel(x, y))]
			screenX := x * scaleX
			for sx := 0; sx < scaleX; sx++ {
				b.screen.SetContent(screenX+sx, y, char, nil, style)
			}
		}
	}
}

func shadeIndex(pixel uint32) int {
	switch video.GBColor(pixel) {
	case video.WhiteColor:
		return 3
	case video.LightGreyColor:
		return 2
	case video.DarkGreyColor:
		return 1
	default:
		return 0
	}
}

func (b *Backend) Cleanup() error {
	close(b.done)
	b.screen.Fini()
	return nil
}

var _ backend.Backend = (*Backend)(nil)
