package segment

import (
	"fmt"
	"io"

	"github.com/tarm/serial"

	"github.com/energiepark/moonshot/internal/hal"
	"github.com/energiepark/moonshot/internal/platform/logger"
)

// Display writes score/SoC frames to the serial display controller. It
// implements hal.Outputs; the lamp and actuator commands are no-ops because
// those lines are driven over GPIO, not serial.
//
// Frames are queued to a background writer so the engine tick never waits
// on the UART.
type Display struct {
	port   io.WriteCloser
	send   chan []byte
	done   chan struct{}
	logger *logger.Logger
}

// Open connects to the display controller on the given serial device.
func Open(device string, baud int, log *logger.Logger) (*Display, error) {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open display serial port %s: %w", device, err)
	}
	return newDisplay(port, log), nil
}

// newDisplay is split out so tests can supply an in-memory writer.
func newDisplay(port io.WriteCloser, log *logger.Logger) *Display {
	d := &Display{
		port:   port,
		send:   make(chan []byte, 32),
		done:   make(chan struct{}),
		logger: log,
	}
	go d.writeLoop()
	return d
}

func (d *Display) writeLoop() {
	defer close(d.done)
	for frame := range d.send {
		if _, err := d.port.Write(frame); err != nil {
			// The engine treats displays as infallible; log and continue.
			d.logger.Errorf("Segment display write failed: %v", err)
		}
	}
}

// enqueue hands a frame to the writer without blocking. A stuck UART only
// costs intermediate frames.
func (d *Display) enqueue(frame []byte) {
	select {
	case d.send <- frame:
	default:
		d.logger.Warn("Segment display queue full, dropping frame")
	}
}

func (d *Display) DisplayScore(score int) { d.enqueue(EncodeScore(score)) }
func (d *Display) DisplaySoC(level int)   { d.enqueue(EncodeBargraph(level)) }

func (d *Display) SetSensorIndicator(index int, c hal.Color)    {}
func (d *Display) SetButtonIllumination(b hal.Button, on bool)  {}
func (d *Display) SetActuator(on bool)                          {}

func (d *Display) ShutdownAll() { d.enqueue(EncodeClear()) }

// Close flushes the queue and releases the port.
func (d *Display) Close() error {
	close(d.send)
	<-d.done
	return d.port.Close()
}
