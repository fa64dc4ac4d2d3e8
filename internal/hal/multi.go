package hal

// MultiOutput fans every output command out to several sinks, so the GPIO
// LEDs, the browser panel and the segment display can all follow the game.
type MultiOutput struct {
	sinks []Outputs
}

// NewMultiOutput builds a fan-out over the given sinks. Nil sinks are
// skipped, which lets callers wire optional adapters unconditionally.
func NewMultiOutput(sinks ...Outputs) *MultiOutput {
	m := &MultiOutput{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiOutput) SetSensorIndicator(index int, c Color) {
	for _, s := range m.sinks {
		s.SetSensorIndicator(index, c)
	}
}

func (m *MultiOutput) SetButtonIllumination(b Button, on bool) {
	for _, s := range m.sinks {
		s.SetButtonIllumination(b, on)
	}
}

func (m *MultiOutput) SetActuator(on bool) {
	for _, s := range m.sinks {
		s.SetActuator(on)
	}
}

func (m *MultiOutput) DisplayScore(score int) {
	for _, s := range m.sinks {
		s.DisplayScore(score)
	}
}

func (m *MultiOutput) DisplaySoC(level int) {
	for _, s := range m.sinks {
		s.DisplaySoC(level)
	}
}

func (m *MultiOutput) ShutdownAll() {
	for _, s := range m.sinks {
		s.ShutdownAll()
	}
}
