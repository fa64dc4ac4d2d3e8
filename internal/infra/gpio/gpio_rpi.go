//go:build linux && (arm || arm64)

package gpio

import (
	"fmt"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/energiepark/moonshot/internal/hal"
	"github.com/energiepark/moonshot/internal/platform/logger"
)

// Hardware implements hal.Inputs and hal.Outputs on the Pi header.
type Hardware struct {
	btnCharge    pgpio.PinIO
	btnDischarge pgpio.PinIO
	sensors      [hal.NumSensors]pgpio.PinIO
	sensorRed    [hal.NumSensors]pgpio.PinIO
	sensorGreen  [hal.NumSensors]pgpio.PinIO
	lampCharge   pgpio.PinIO
	lampDisch    pgpio.PinIO
	actuator     pgpio.PinIO
	logger       *logger.Logger
}

// New initialises the periph host and claims every pin of the wiring loom.
func New(cfg Config, log *logger.Logger) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise periph host: %w", err)
	}

	h := &Hardware{logger: log}

	var err error
	if h.btnCharge, err = inputPin(cfg.ButtonCharge); err != nil {
		return nil, err
	}
	if h.btnDischarge, err = inputPin(cfg.ButtonDischarge); err != nil {
		return nil, err
	}
	for i := 0; i < hal.NumSensors; i++ {
		if h.sensors[i], err = inputPin(cfg.Sensors[i]); err != nil {
			return nil, err
		}
		if h.sensorRed[i], err = outputPin(cfg.SensorRed[i]); err != nil {
			return nil, err
		}
		if h.sensorGreen[i], err = outputPin(cfg.SensorGreen[i]); err != nil {
			return nil, err
		}
	}
	if h.lampCharge, err = outputPin(cfg.LampCharge); err != nil {
		return nil, err
	}
	if h.lampDisch, err = outputPin(cfg.LampDischarge); err != nil {
		return nil, err
	}
	if h.actuator, err = outputPin(cfg.Actuator); err != nil {
		return nil, err
	}

	log.Info("GPIO hardware initialised (periph.io)")
	return h, nil
}

func inputPin(bcm int) (pgpio.PinIO, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", bcm))
	if p == nil {
		return nil, fmt.Errorf("no such GPIO pin: GPIO%d", bcm)
	}
	if err := p.In(pgpio.PullUp, pgpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure GPIO%d as input: %w", bcm, err)
	}
	return p, nil
}

func outputPin(bcm int) (pgpio.PinIO, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", bcm))
	if p == nil {
		return nil, fmt.Errorf("no such GPIO pin: GPIO%d", bcm)
	}
	if err := p.Out(pgpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure GPIO%d as output: %w", bcm, err)
	}
	return p, nil
}

// SensorActive reports an active-low sensor line.
func (h *Hardware) SensorActive(index int) bool {
	if index < 0 || index >= hal.NumSensors {
		panic(fmt.Sprintf("gpio: sensor index out of range: %d", index))
	}
	return h.sensors[index].Read() == pgpio.Low
}

// ButtonPressed reports an active-low button line.
func (h *Hardware) ButtonPressed(b hal.Button) bool {
	switch b {
	case hal.ButtonCharge:
		return h.btnCharge.Read() == pgpio.Low
	case hal.ButtonDischarge:
		return h.btnDischarge.Read() == pgpio.Low
	}
	panic(fmt.Sprintf("gpio: invalid button: %q", b))
}

// SetSensorIndicator drives the red/green pair for one sensor slot.
func (h *Hardware) SetSensorIndicator(index int, c hal.Color) {
	if index < 0 || index >= hal.NumSensors {
		panic(fmt.Sprintf("gpio: sensor index out of range: %d", index))
	}
	red, green := pgpio.Low, pgpio.Low
	switch c {
	case hal.ColorRed:
		red = pgpio.High
	case hal.ColorGreen:
		green = pgpio.High
	case hal.ColorOff:
	default:
		panic(fmt.Sprintf("gpio: invalid indicator color: %q", c))
	}
	if err := h.sensorRed[index].Out(red); err != nil {
		h.logger.Errorf("GPIO write failed (sensor %d red): %v", index, err)
	}
	if err := h.sensorGreen[index].Out(green); err != nil {
		h.logger.Errorf("GPIO write failed (sensor %d green): %v", index, err)
	}
}

func (h *Hardware) SetButtonIllumination(b hal.Button, on bool) {
	var pin pgpio.PinIO
	switch b {
	case hal.ButtonCharge:
		pin = h.lampCharge
	case hal.ButtonDischarge:
		pin = h.lampDisch
	default:
		panic(fmt.Sprintf("gpio: invalid button: %q", b))
	}
	if err := pin.Out(level(on)); err != nil {
		h.logger.Errorf("GPIO write failed (lamp %s): %v", b, err)
	}
}

func (h *Hardware) SetActuator(on bool) {
	if err := h.actuator.Out(level(on)); err != nil {
		h.logger.Errorf("GPIO write failed (actuator): %v", err)
	}
}

// DisplayScore is a no-op: the numeric displays hang off the serial line
// and the panel, not the header.
func (h *Hardware) DisplayScore(score int) {}

// DisplaySoC is a no-op, see DisplayScore.
func (h *Hardware) DisplaySoC(soc int) {}

// ShutdownAll drops every output line.
func (h *Hardware) ShutdownAll() {
	for i := 0; i < hal.NumSensors; i++ {
		h.SetSensorIndicator(i, hal.ColorOff)
	}
	h.SetButtonIllumination(hal.ButtonCharge, false)
	h.SetButtonIllumination(hal.ButtonDischarge, false)
	h.SetActuator(false)
}

func level(on bool) pgpio.Level {
	if on {
		return pgpio.High
	}
	return pgpio.Low
}
