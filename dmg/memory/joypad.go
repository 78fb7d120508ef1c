package memory

import "github.com/ashryu/dmgcore/dmg/bit"

// JoypadKey is one of the eight DMG input lines.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// Joypad tracks button/d-pad state and resolves it against the P1
// register's selection bits. A 0 bit means pressed; 1 means released,
// matching the hardware's active-low encoding.
type Joypad struct {
	buttons uint8
	dpad    uint8
	line    uint8

	onTransition func()
}

func NewJoypad() *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F}
}

// Read returns P1 bits 0-3 resolved against the currently selected
// line(s); bits 6-7 always read back set, and bits 4-5 echo the last write.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | (j.line & 0x30)

	selectDpad := !bit.IsSet(4, j.line)
	selectButtons := !bit.IsSet(5, j.line)

	switch {
	case selectButtons && !selectDpad:
		result |= j.buttons & 0x0F
	case selectDpad && !selectButtons:
		result |= j.dpad & 0x0F
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// Write stores the selection bits (4-5); the rest of P1 is read-only.
func (j *Joypad) Write(value uint8) {
	j.line = value & 0x30
}

func (j *Joypad) Press(key JoypadKey) {
	before := j.buttons & j.dpad
	j.setKey(key, false)
	after := j.buttons & j.dpad
	if before&^after != 0 && j.onTransition != nil {
		j.onTransition()
	}
}

func (j *Joypad) Release(key JoypadKey) {
	j.setKey(key, true)
}

func (j *Joypad) setKey(key JoypadKey, released bool) {
	var group *uint8
	var index uint8

	switch key {
	case JoypadRight:
		group, index = &j.dpad, 0
	case JoypadLeft:
		group, index = &j.dpad, 1
	case JoypadUp:
		group, index = &j.dpad, 2
	case JoypadDown:
		group, index = &j.dpad, 3
	case JoypadA:
		group, index = &j.buttons, 0
	case JoypadB:
		group, index = &j.buttons, 1
	case JoypadSelect:
		group, index = &j.buttons, 2
	case JoypadStart:
		group, index = &j.buttons, 3
	default:
		return
	}

	if released {
		*group = bit.Set(index, *group)
	} else {
		*group = bit.Clear(index, *group)
	}
}

// OnTransition registers a callback fired whenever a Press newly pulls
// a line low (used to drive the joypad interrupt).
func (j *Joypad) OnTransition(fn func()) { j.onTransition = fn }
