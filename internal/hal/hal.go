// Package hal defines the capability interfaces between the game engine and
// the physical exhibit. Concrete implementations live under internal/infra
// (GPIO, websocket panel, serial segment display); tests supply fakes.
package hal

import "time"

// NumSensors is the number of parking-sensor slots on the exhibit table.
const NumSensors = 4

// Button identifies one of the two player push-buttons.
type Button string

const (
	ButtonCharge    Button = "charge"
	ButtonDischarge Button = "discharge"
)

// Valid reports whether b names a real button.
func (b Button) Valid() bool {
	return b == ButtonCharge || b == ButtonDischarge
}

// Color is the state of a sensor indicator LED.
type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorOff   Color = "off"
)

// Inputs is the polled view of the exhibit's sensors and buttons.
// Implementations must be cheap to call at 100 Hz.
type Inputs interface {
	// SensorActive reports whether the sensor line index (0..3) is active.
	SensorActive(index int) bool
	// ButtonPressed reports whether the named button is currently held.
	ButtonPressed(b Button) bool
}

// Outputs is the set of fire-and-forget commands the engine issues.
// Implementations must never block the calling goroutine; anything slow
// (network, serial) has to be marshalled onto its own writer.
type Outputs interface {
	SetSensorIndicator(index int, c Color)
	SetButtonIllumination(b Button, on bool)
	SetActuator(on bool)
	DisplayScore(score int)
	DisplaySoC(level int)
	// ShutdownAll turns every output dark. Called on Idle entry and on
	// process termination.
	ShutdownAll()
}

// Clock abstracts wall time so the engine can be driven deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
