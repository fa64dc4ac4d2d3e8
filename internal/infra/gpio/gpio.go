// Package gpio binds the game to the Raspberry Pi header: parking sensors
// and push-buttons in, indicator LEDs, button lamps and the wind-turbine
// actuator out. On the Pi it uses periph.io; everywhere else a stub build
// lets the controller run against the simulator.
//
// All lines are active-low on the input side (sensors and buttons pull the
// line to ground).
package gpio

import "github.com/energiepark/moonshot/internal/hal"

// Config holds the BCM pin assignment of the exhibit wiring.
type Config struct {
	ButtonCharge    int
	ButtonDischarge int
	Sensors         [hal.NumSensors]int
	SensorRed       [hal.NumSensors]int
	SensorGreen     [hal.NumSensors]int
	LampCharge      int
	LampDischarge   int
	Actuator        int
}

// DefaultConfig matches the wiring loom of the exhibit table.
func DefaultConfig() Config {
	return Config{
		ButtonCharge:    2,
		ButtonDischarge: 3,
		Sensors:         [hal.NumSensors]int{4, 17, 27, 22},
		SensorRed:       [hal.NumSensors]int{5, 6, 13, 19},
		SensorGreen:     [hal.NumSensors]int{16, 20, 21, 26},
		LampCharge:      10,
		LampDischarge:   11,
		Actuator:        12,
	}
}
