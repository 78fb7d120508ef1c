package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoypadAllReleasedReadsAllOnes(t *testing.T) {
	j := NewJoypad()
	j.Write(0x10) // select buttons
	assert.Equal(t, byte(0xDF), j.Read())
}

func TestJoypadSelectButtonsReflectsPresses(t *testing.T) {
	j := NewJoypad()
	j.Write(0x10) // select buttons (bit 5 low)
	j.Press(JoypadA)
	j.Press(JoypadStart)
	assert.Equal(t, byte(0xD6), j.Read(), "A (bit0) and Start (bit3) read as 0")
}

func TestJoypadSelectDpadReflectsPresses(t *testing.T) {
	j := NewJoypad()
	j.Write(0x20) // select d-pad (bit 4 low)
	j.Press(JoypadUp)
	assert.Equal(t, byte(0xEB), j.Read())
}

func TestJoypadNoGroupSelectedReadsOnes(t *testing.T) {
	j := NewJoypad()
	j.Write(0x30)
	j.Press(JoypadA)
	assert.Equal(t, byte(0xFF), j.Read())
}

func TestJoypadBothGroupsSelectedIsAND(t *testing.T) {
	j := NewJoypad()
	j.Write(0x00) // both selected
	j.Press(JoypadA)
	// buttons now 0x0E, dpad still 0x0F -> AND is 0x0E
	assert.Equal(t, byte(0xCE), j.Read())
}

func TestJoypadReleaseClearsPressedBit(t *testing.T) {
	j := NewJoypad()
	j.Write(0x10)
	j.Press(JoypadB)
	j.Release(JoypadB)
	assert.Equal(t, byte(0xDF), j.Read())
}

func TestJoypadTransitionFiresOnlyOnPress(t *testing.T) {
	j := NewJoypad()
	fired := 0
	j.OnTransition(func() { fired++ })

	j.Press(JoypadDown)
	assert.Equal(t, 1, fired)

	j.Press(JoypadDown) // already pressed, no new transition
	assert.Equal(t, 1, fired)

	j.Release(JoypadDown)
	assert.Equal(t, 1, fired, "releasing never fires the interrupt transition")
}
