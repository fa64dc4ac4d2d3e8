package display

import (
	"encoding/json"
	"sync"

	"github.com/energiepark/moonshot/internal/hal"
)

// panelState is the frame pushed to every connected panel page. It mirrors
// the physical table: battery bar, 4-digit score, per-sensor lamp colors and
// the LADEN/ENTLADEN highlights.
type panelState struct {
	Type     string                 `json:"type"` // always "panel_state"
	Score    int                    `json:"score"`
	SoC      int                    `json:"soc"`
	Sensors  [hal.NumSensors]string `json:"sensors"`
	Laden    bool                   `json:"laden"`
	Entladen bool                   `json:"entladen"`
	Actuator bool                   `json:"actuator"`
}

// PanelDisplay is a hal.Outputs sink that mirrors the game state onto the
// browser panel. Updates are marshalled onto the hub's broadcast loop, so
// the engine goroutine never touches a socket.
type PanelDisplay struct {
	hub *Hub

	mu    sync.Mutex
	state panelState
}

// NewPanelDisplay creates the panel sink. Pair it with the hub's Run loop.
func NewPanelDisplay(hub *Hub) *PanelDisplay {
	p := &PanelDisplay{hub: hub}
	p.state.Type = "panel_state"
	for i := range p.state.Sensors {
		p.state.Sensors[i] = string(hal.ColorOff)
	}
	return p
}

func (p *PanelDisplay) SetSensorIndicator(index int, c hal.Color) {
	p.update(func(s *panelState) { s.Sensors[index] = string(c) })
}

func (p *PanelDisplay) SetButtonIllumination(b hal.Button, on bool) {
	p.update(func(s *panelState) {
		if b == hal.ButtonCharge {
			s.Laden = on
		} else {
			s.Entladen = on
		}
	})
}

func (p *PanelDisplay) SetActuator(on bool) {
	p.update(func(s *panelState) { s.Actuator = on })
}

func (p *PanelDisplay) DisplayScore(score int) {
	p.update(func(s *panelState) { s.Score = score })
}

func (p *PanelDisplay) DisplaySoC(level int) {
	p.update(func(s *panelState) { s.SoC = level })
}

func (p *PanelDisplay) ShutdownAll() {
	p.update(func(s *panelState) {
		for i := range s.Sensors {
			s.Sensors[i] = string(hal.ColorOff)
		}
		s.Laden = false
		s.Entladen = false
		s.Actuator = false
	})
}

// Snapshot returns the current frame, for greeting newly connected clients.
func (p *PanelDisplay) Snapshot() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encodeLocked()
}

func (p *PanelDisplay) update(mutate func(*panelState)) {
	p.mu.Lock()
	mutate(&p.state)
	frame := p.encodeLocked()
	p.mu.Unlock()

	p.hub.Publish(frame)
}

func (p *PanelDisplay) encodeLocked() []byte {
	// Marshal of a plain struct cannot fail.
	frame, _ := json.Marshal(p.state)
	return frame
}
