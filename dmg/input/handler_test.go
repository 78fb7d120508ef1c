package input

import (
	"testing"
	"time"

	"github.com/ashryu/dmgcore/dmg/input/action"
	"github.com/ashryu/dmgcore/dmg/input/event"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func TestHandlerDebouncesRapidPressOfSameAction(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := NewHandlerWithClock(clock)

	evt := Event{Action: action.DebugPauseToggle, Type: event.Press}
	assert.True(t, h.ProcessEvent(evt), "first press always passes")

	clock.now = clock.now.Add(100 * time.Millisecond)
	assert.False(t, h.ProcessEvent(evt), "rapid repeat within the window is debounced")

	clock.now = clock.now.Add(400 * time.Millisecond)
	assert.True(t, h.ProcessEvent(evt), "press after the window passes")
}

func TestHandlerDebouncesGameBoyButtonsToo(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := NewHandlerWithClock(clock)

	evt := Event{Action: action.ButtonA, Type: event.Press}
	assert.True(t, h.ProcessEvent(evt))
	clock.now = clock.now.Add(10 * time.Millisecond)
	assert.False(t, h.ProcessEvent(evt), "Press events still debounce regardless of which action")
}

func TestHandlerNeverDebouncesHoldEvents(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := NewHandlerWithClock(clock)

	evt := Event{Action: action.DebugPauseToggle, Type: event.Hold}
	for i := 0; i < 5; i++ {
		assert.True(t, h.ProcessEvent(evt), "Hold events always pass through")
	}
}

func TestHandlerDebouncesIndependentlyPerAction(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	h := NewHandlerWithClock(clock)

	evtA := Event{Action: action.DebugPauseToggle, Type: event.Press}
	evtB := Event{Action: action.DebugSnapshot, Type: event.Press}

	assert.True(t, h.ProcessEvent(evtA))
	assert.True(t, h.ProcessEvent(evtB))
	assert.False(t, h.ProcessEvent(evtA), "repeat of A is debounced")
	assert.False(t, h.ProcessEvent(evtB), "repeat of B is independently debounced")
}
