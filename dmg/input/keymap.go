package input

import "github.com/ashryu/dmgcore/dmg/input/action"

// DefaultKeyMap provides default key-name-to-action mappings shared
// across backends; each backend translates its own native key codes
// to these names before looking them up here.
var DefaultKeyMap = map[string]action.Action{
	"z":     action.ButtonA,
	"x":     action.ButtonB,
	"Enter": action.ButtonStart,
	"Shift": action.ButtonSelect,
	"Up":    action.DPadUp,
	"Down":  action.DPadDown,
	"Left":  action.DPadLeft,
	"Right": action.DPadRight,

	"w": action.DPadUp,
	"s": action.DPadDown,
	"a": action.DPadLeft,
	"d": action.DPadRight,

	"Space":  action.DebugPauseToggle,
	"p":      action.DebugPauseToggle,
	"o":      action.DebugStepFrame,
	"i":      action.DebugStepInstruction,
	"F9":     action.DebugSnapshot,
	"Escape": action.Quit,
	"q":      action.Quit,
}

// LookupKey returns the default action bound to key, if any.
func LookupKey(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
