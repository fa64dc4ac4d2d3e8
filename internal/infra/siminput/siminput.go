// Package siminput provides a software stand-in for the exhibit's sensors
// and buttons, driven from the panel page's simulator controls.
package siminput

import (
	"fmt"
	"sync"

	"github.com/energiepark/moonshot/internal/hal"
)

// Simulator implements hal.Inputs and the display package's InputSink. The
// engine polls it from its tick goroutine while websocket readers set state,
// hence the lock.
type Simulator struct {
	mu      sync.RWMutex
	sensors [hal.NumSensors]bool
	buttons map[hal.Button]bool
}

func NewSimulator() *Simulator {
	return &Simulator{
		buttons: map[hal.Button]bool{
			hal.ButtonCharge:    false,
			hal.ButtonDischarge: false,
		},
	}
}

// SetSensor flips a simulated sensor line.
func (s *Simulator) SetSensor(index int, active bool) {
	if index < 0 || index >= hal.NumSensors {
		panic(fmt.Sprintf("siminput: sensor index out of range: %d", index))
	}
	s.mu.Lock()
	s.sensors[index] = active
	s.mu.Unlock()
}

// SetButton flips a simulated button.
func (s *Simulator) SetButton(b hal.Button, pressed bool) {
	if !b.Valid() {
		panic(fmt.Sprintf("siminput: invalid button: %q", b))
	}
	s.mu.Lock()
	s.buttons[b] = pressed
	s.mu.Unlock()
}

func (s *Simulator) SensorActive(index int) bool {
	if index < 0 || index >= hal.NumSensors {
		panic(fmt.Sprintf("siminput: sensor index out of range: %d", index))
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sensors[index]
}

func (s *Simulator) ButtonPressed(b hal.Button) bool {
	if !b.Valid() {
		panic(fmt.Sprintf("siminput: invalid button: %q", b))
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buttons[b]
}
