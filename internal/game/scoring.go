// Package game contains the energy-game state machine and its scoring rules.
// This package is pure game logic: it touches the world only through the hal
// interfaces injected at construction and must not import any of the
// internal/infra adapters.
package game

import (
	"fmt"

	"github.com/energiepark/moonshot/internal/hal"
)

// Fixed game constants. The exhibit is not configurable beyond these.
const (
	NumSensors = hal.NumSensors
	SoCLevels  = 10
	MaxActions = 10
)

// Score awards by LED value and button.
const (
	scoreRedCharge      = 5
	scoreRedDischarge   = 100
	scoreGreenCharge    = 50
	scoreGreenDischarge = 5
)

// socIncrement is the SoC gain per sensor when charging.
var socIncrement = [NumSensors]int{2, 3, 4, 2}

// actionDeltas returns the score and SoC change for one accepted action,
// before the switch penalty. ledValue 0 is red, 1 is green.
func actionDeltas(sensor int, ledValue int, b hal.Button) (scoreDelta, socDelta int) {
	if sensor < 0 || sensor >= NumSensors {
		panic(fmt.Sprintf("game: sensor index out of range: %d", sensor))
	}
	if !b.Valid() {
		panic(fmt.Sprintf("game: invalid button: %q", b))
	}

	if ledValue == 0 { // red
		if b == hal.ButtonCharge {
			return scoreRedCharge, socIncrement[sensor]
		}
		return scoreRedDischarge, -1
	}
	// green
	if b == hal.ButtonCharge {
		return scoreGreenCharge, socIncrement[sensor]
	}
	return scoreGreenDischarge, 0
}

// clampSoC bounds a state-of-charge value to [0, SoCLevels].
func clampSoC(v int) int {
	if v < 0 {
		return 0
	}
	if v > SoCLevels {
		return SoCLevels
	}
	return v
}

// ledColor maps an LED value to the indicator color shown on the table.
func ledColor(v int) hal.Color {
	if v == 0 {
		return hal.ColorRed
	}
	return hal.ColorGreen
}
