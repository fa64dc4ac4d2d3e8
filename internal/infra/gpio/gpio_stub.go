//go:build !linux || (!arm && !arm64)

package gpio

import (
	"fmt"

	"github.com/energiepark/moonshot/internal/hal"
	"github.com/energiepark/moonshot/internal/platform/logger"
)

// Hardware is the desktop stand-in: sensors and buttons read inactive,
// output writes vanish. It exists so the controller binary builds and runs
// on a development machine; use the simulator binary for actual play.
type Hardware struct {
	logger *logger.Logger
}

// New returns the stub. The pin configuration is accepted and ignored.
func New(cfg Config, log *logger.Logger) (*Hardware, error) {
	log.Warn("GPIO stub build: sensors and buttons are inert on this platform")
	return &Hardware{logger: log}, nil
}

func (h *Hardware) SensorActive(index int) bool {
	if index < 0 || index >= hal.NumSensors {
		panic(fmt.Sprintf("gpio: sensor index out of range: %d", index))
	}
	return false
}

func (h *Hardware) ButtonPressed(b hal.Button) bool {
	if !b.Valid() {
		panic(fmt.Sprintf("gpio: invalid button: %q", b))
	}
	return false
}

func (h *Hardware) SetSensorIndicator(index int, c hal.Color) {
	if index < 0 || index >= hal.NumSensors {
		panic(fmt.Sprintf("gpio: sensor index out of range: %d", index))
	}
}

func (h *Hardware) SetButtonIllumination(b hal.Button, on bool) {
	if !b.Valid() {
		panic(fmt.Sprintf("gpio: invalid button: %q", b))
	}
}

func (h *Hardware) SetActuator(on bool) {}
func (h *Hardware) DisplayScore(s int)  {}
func (h *Hardware) DisplaySoC(l int)    {}
func (h *Hardware) ShutdownAll()        {}
