package midictl

// ControllerType identifies the kind of control surface
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerFaderBox
)

// PadEvent is sent when a pad/button is pressed on a grid controller
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// CCEvent is sent for continuous controls (faders, knobs, crossfader)
type CCEvent struct {
	Controller uint8
	Value      uint8
}

// LEDUpdate is one pending LED change for batched feedback
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8
}

// Controller is the interface for MIDI control surfaces
type Controller interface {
	ID() string
	Type() ControllerType

	// Input events from the surface
	PadEvents() <-chan PadEvent
	CCEvents() <-chan CCEvent

	// LED feedback
	SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error
	SetLEDBatch(updates []LEDUpdate) error

	// Lifecycle
	Close() error
}

// Launchpad X LED channel modes (use as 'channel' parameter)
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)
