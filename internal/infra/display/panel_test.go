package display

import (
	"encoding/json"
	"testing"

	"github.com/energiepark/moonshot/internal/hal"
	"github.com/energiepark/moonshot/internal/platform/logger"
)

func decodeState(t *testing.T, frame []byte) panelState {
	t.Helper()
	var st panelState
	if err := json.Unmarshal(frame, &st); err != nil {
		t.Fatalf("failed to decode panel frame: %v", err)
	}
	return st
}

func TestPanelTracksOutputs(t *testing.T) {
	hub := NewHub(logger.NewLogger(), nil)
	panel := NewPanelDisplay(hub)

	panel.DisplayScore(150)
	panel.DisplaySoC(6)
	panel.SetSensorIndicator(0, hal.ColorRed)
	panel.SetSensorIndicator(1, hal.ColorGreen)
	panel.SetButtonIllumination(hal.ButtonCharge, true)
	panel.SetActuator(true)

	st := decodeState(t, panel.Snapshot())
	if st.Type != "panel_state" {
		t.Errorf("frame type = %q, want panel_state", st.Type)
	}
	if st.Score != 150 || st.SoC != 6 {
		t.Errorf("score/soc = %d/%d, want 150/6", st.Score, st.SoC)
	}
	if st.Sensors[0] != "red" || st.Sensors[1] != "green" || st.Sensors[2] != "off" {
		t.Errorf("sensors = %v", st.Sensors)
	}
	if !st.Laden || st.Entladen {
		t.Errorf("laden/entladen = %v/%v, want true/false", st.Laden, st.Entladen)
	}
	if !st.Actuator {
		t.Error("actuator not reflected in frame")
	}
}

func TestPanelShutdownDarkensEverything(t *testing.T) {
	hub := NewHub(logger.NewLogger(), nil)
	panel := NewPanelDisplay(hub)

	panel.SetSensorIndicator(2, hal.ColorGreen)
	panel.SetButtonIllumination(hal.ButtonDischarge, true)
	panel.SetActuator(true)
	panel.ShutdownAll()

	st := decodeState(t, panel.Snapshot())
	for i, c := range st.Sensors {
		if c != "off" {
			t.Errorf("sensor %d = %q after shutdown, want off", i, c)
		}
	}
	if st.Laden || st.Entladen || st.Actuator {
		t.Errorf("lamps/actuator still on after shutdown: %+v", st)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	// Nobody is draining the hub; publishing far beyond the buffer size
	// must not wedge the caller.
	hub := NewHub(logger.NewLogger(), nil)
	panel := NewPanelDisplay(hub)

	for i := 0; i < broadcastBuffer*4; i++ {
		panel.DisplayScore(i)
	}

	st := decodeState(t, panel.Snapshot())
	if st.Score != broadcastBuffer*4-1 {
		t.Errorf("panel state lagged: score = %d, want %d", st.Score, broadcastBuffer*4-1)
	}
}
