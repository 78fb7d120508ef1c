package input

import (
	"time"

	"github.com/ashryu/dmgcore/dmg/input/action"
	"github.com/ashryu/dmgcore/dmg/input/event"
)

// debounceDuration is the minimum spacing between repeated Press or
// Release events for the same action before a later one is dropped.
const debounceDuration = 300 * time.Millisecond

// Event is one reported input occurrence, independent of the backend
// (terminal, SDL2, headless) that produced it.
type Event struct {
	Action action.Action
	Type   event.Type
}

// Clock abstracts wall-clock time so tests can supply a fake instead
// of depending on the system clock, matching the same seam used for
// MBC3's real-time clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Handler debounces rapid-fire Press/Release events from a backend's
// key-repeat behavior; Hold events always pass through.
type Handler struct {
	clock          Clock
	lastActionTime map[action.Action]time.Time
}

func NewHandler() *Handler {
	return &Handler{clock: systemClock{}, lastActionTime: make(map[action.Action]time.Time)}
}

// NewHandlerWithClock is exposed so tests can inject a fake Clock
// instead of sleeping for real durations.
func NewHandlerWithClock(clock Clock) *Handler {
	return &Handler{clock: clock, lastActionTime: make(map[action.Action]time.Time)}
}

// ProcessEvent reports whether evt should be acted on, dropping it if
// it arrived within debounceDuration of the last Press/Release for the
// same action.
func (h *Handler) ProcessEvent(evt Event) bool {
	if evt.Type != event.Press && evt.Type != event.Release {
		return true
	}

	now := h.clock.Now()
	if last, ok := h.lastActionTime[evt.Action]; ok && now.Sub(last) < debounceDuration {
		return false
	}
	h.lastActionTime[evt.Action] = now
	return true
}
