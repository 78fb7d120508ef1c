// Package action enumerates the input actions a backend can report,
// independent of which physical key or button produced them.
package action

// Action is an input action a backend reports, independent of the
// physical key that produced it.
type Action int

const (
	ButtonA Action = iota
	ButtonB
	ButtonStart
	ButtonSelect
	DPadUp
	DPadDown
	DPadLeft
	DPadRight

	DebugPauseToggle
	DebugStepFrame
	DebugStepInstruction
	DebugSnapshot
	Quit
)
