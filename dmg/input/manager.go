package input

import (
	"github.com/ashryu/dmgcore/dmg/input/action"
	"github.com/ashryu/dmgcore/dmg/input/event"
	"github.com/ashryu/dmgcore/dmg/memory"
)

// Manager is the single dispatch point a backend feeds every decoded
// Event through: Game Boy button actions go straight to the Joypad's
// press/release lines, everything else (pause, step, snapshot, quit)
// runs whatever callbacks were registered for it with On.
type Manager struct {
	joypad   *memory.Joypad
	handlers map[action.Action]map[event.Type][]func()
	handler  *Handler
}

func NewManager(joypad *memory.Joypad) *Manager {
	return &Manager{
		joypad:   joypad,
		handlers: make(map[action.Action]map[event.Type][]func()),
		handler:  NewHandler(),
	}
}

// On registers callback to run whenever evt fires for act.
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Dispatch routes evt to the Joypad if it names a Game Boy button,
// otherwise to any callbacks registered for it. Press/Release events
// are debounced per-action before either happens.
func (m *Manager) Dispatch(evt Event) {
	if !m.handler.ProcessEvent(evt) {
		return
	}

	if key, ok := joypadKey(evt.Action); ok {
		switch evt.Type {
		case event.Press:
			m.joypad.Press(key)
		case event.Release:
			m.joypad.Release(key)
		}
		return
	}

	for _, callback := range m.handlers[evt.Action][evt.Type] {
		callback()
	}
}

func joypadKey(act action.Action) (memory.JoypadKey, bool) {
	switch act {
	case action.ButtonA:
		return memory.JoypadA, true
	case action.ButtonB:
		return memory.JoypadB, true
	case action.ButtonStart:
		return memory.JoypadStart, true
	case action.ButtonSelect:
		return memory.JoypadSelect, true
	case action.DPadUp:
		return memory.JoypadUp, true
	case action.DPadDown:
		return memory.JoypadDown, true
	case action.DPadLeft:
		return memory.JoypadLeft, true
	case action.DPadRight:
		return memory.JoypadRight, true
	default:
		return 0, false
	}
}
