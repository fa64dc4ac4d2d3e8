package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/energiepark/moonshot/internal/events"
	"github.com/energiepark/moonshot/internal/hal"
	"github.com/energiepark/moonshot/internal/platform/logger"
	"github.com/energiepark/moonshot/internal/platform/metrics"
)

// Timing rules. The cooldown and combo windows are game rules, the tick
// cadences only bound input latency.
const (
	SameSensorCooldown = 1 * time.Second
	ComboHold          = 3 * time.Second
	ActuatorPulse      = 200 * time.Millisecond

	playingTick = 10 * time.Millisecond // 100 Hz
	idleTick    = 20 * time.Millisecond // 50 Hz
)

// Phase is the engine's current state-machine phase.
type Phase int

const (
	// PhaseIdle waits for a button press; everything on the table is dark.
	PhaseIdle Phase = iota
	// PhaseIdleDebounce waits for both buttons to be released before the
	// round actually starts.
	PhaseIdleDebounce
	// PhasePlaying polls sensors and buttons for scoring actions.
	PhasePlaying
	// PhaseAwaitingRelease holds after an accepted action: the actuator
	// pulse runs out, then both buttons must be released. No combo
	// detection happens here; one physical press scores exactly once.
	PhaseAwaitingRelease
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseIdleDebounce:
		return "IDLE_DEBOUNCE"
	case PhasePlaying:
		return "PLAYING"
	case PhaseAwaitingRelease:
		return "AWAITING_RELEASE"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Engine is the game's finite-state machine. It exclusively owns the round
// state and the sensor LED assignments; everything it knows about the world
// comes through the injected hal interfaces, everything it does to the world
// goes out through them. A single goroutine drives it via Tick.
type Engine struct {
	in       hal.Inputs
	out      hal.Outputs
	clock    hal.Clock
	rng      *rand.Rand
	eventLog *events.EventLog
	logger   *logger.Logger

	phase   Phase
	round   int
	score   int
	soc     int
	actions int

	lastSensor   int // -1 when no action accepted yet this round
	lastActionAt [NumSensors]time.Time
	ledValues    [NumSensors]int

	comboSince  time.Time // zero while both buttons are not held
	pulseUntil  time.Time
	pulseDone   bool
	illuminated bool
}

// NewEngine wires the state machine to its collaborators. The RNG is
// injected so tests can replay LED assignments deterministically.
func NewEngine(in hal.Inputs, out hal.Outputs, clock hal.Clock, rng *rand.Rand, eventLog *events.EventLog, log *logger.Logger) *Engine {
	return &Engine{
		in:         in,
		out:        out,
		clock:      clock,
		rng:        rng,
		eventLog:   eventLog,
		logger:     log,
		phase:      PhaseIdle,
		lastSensor: -1,
	}
}

// Score returns the current score. It persists across rounds and is zeroed
// only by the combo reset.
func (e *Engine) Score() int { return e.score }

// SoC returns the current state-of-charge level.
func (e *Engine) SoC() int { return e.soc }

// Actions returns the number of accepted actions this round.
func (e *Engine) Actions() int { return e.actions }

// CurrentPhase returns the engine's state-machine phase.
func (e *Engine) CurrentPhase() Phase { return e.phase }

// Run drives the engine until ctx is cancelled. Cancellation at any tick
// boundary triggers the same dark/off sequence as a normal Idle entry
// before the loop exits.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("Game engine started, entering idle.")
	e.enterIdle()

	timer := time.NewTimer(e.tickInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return
		case <-timer.C:
			start := time.Now()
			e.Tick(e.clock.Now())
			metrics.Get().RecordTick(time.Since(start))
			timer.Reset(e.tickInterval())
		}
	}
}

// tickInterval returns the polling cadence for the current phase.
func (e *Engine) tickInterval() time.Duration {
	if e.phase == PhaseIdle || e.phase == PhaseIdleDebounce {
		return idleTick
	}
	return playingTick
}

// Tick advances the state machine by one poll of the inputs. The driver
// (Run, or a test) supplies the current time.
func (e *Engine) Tick(now time.Time) {
	switch e.phase {
	case PhaseIdle:
		e.tickIdle()
	case PhaseIdleDebounce:
		e.tickIdleDebounce(now)
	case PhasePlaying:
		e.tickPlaying(now)
	case PhaseAwaitingRelease:
		e.tickAwaitingRelease(now)
	}
}

func (e *Engine) tickIdle() {
	if e.buttonPressed(hal.ButtonCharge) || e.buttonPressed(hal.ButtonDischarge) {
		e.phase = PhaseIdleDebounce
	}
}

func (e *Engine) tickIdleDebounce(now time.Time) {
	if e.buttonPressed(hal.ButtonCharge) || e.buttonPressed(hal.ButtonDischarge) {
		return
	}
	e.startRound(now)
}

func (e *Engine) tickPlaying(now time.Time) {
	active := e.activeSensor()

	// Button lamps follow sensor activity.
	e.setIllumination(active >= 0)

	charge := e.buttonPressed(hal.ButtonCharge)
	discharge := e.buttonPressed(hal.ButtonDischarge)

	// Reset combo: both buttons held continuously for ComboHold. While both
	// are down no scoring happens; the combo check owns the tick.
	if charge && discharge {
		if e.comboSince.IsZero() {
			e.comboSince = now
		} else if now.Sub(e.comboSince) >= ComboHold {
			e.fullReset(now)
		}
		return
	}
	e.comboSince = time.Time{}

	if active >= 0 {
		if charge {
			e.handleAction(now, active, hal.ButtonCharge)
		} else if discharge {
			e.handleAction(now, active, hal.ButtonDischarge)
		}
	}

	// The tenth action finishes its pulse and release wait first; the
	// round-end transition happens in tickAwaitingRelease.
	if e.phase == PhasePlaying && e.actions >= MaxActions {
		e.endRound(now)
	}
}

func (e *Engine) tickAwaitingRelease(now time.Time) {
	// Actuator pulse first; LEDs get their fresh values only once the
	// pulse has run out, matching the original ordering on the table.
	if !e.pulseDone && !now.Before(e.pulseUntil) {
		e.out.SetActuator(false)
		e.randomiseLEDs()
		e.pulseDone = true
	}
	if !e.pulseDone {
		return
	}
	if e.buttonPressed(hal.ButtonCharge) || e.buttonPressed(hal.ButtonDischarge) {
		return
	}
	if e.actions >= MaxActions {
		e.endRound(now)
		return
	}
	e.phase = PhasePlaying
}

// handleAction applies one accepted sensor+button interaction: scoring,
// SoC bookkeeping and the ordered side effects.
func (e *Engine) handleAction(now time.Time, sensor int, b hal.Button) {
	// Same-sensor cooldown: repeated hits inside one second are no-ops.
	if !e.lastActionAt[sensor].IsZero() && now.Sub(e.lastActionAt[sensor]) < SameSensorCooldown {
		metrics.Get().RecordIgnoredAction()
		return
	}

	ledValue := e.ledValues[sensor]
	scoreDelta, socDelta := actionDeltas(sensor, ledValue, b)

	switchPenalty := e.lastSensor >= 0 && e.lastSensor != sensor
	if switchPenalty {
		socDelta--
	}

	e.score += scoreDelta
	e.soc = clampSoC(e.soc + socDelta)
	e.actions++
	e.lastSensor = sensor
	e.lastActionAt[sensor] = now

	e.out.DisplayScore(e.score)
	e.out.DisplaySoC(e.soc)

	// Actuator pulse and the release wait continue in PhaseAwaitingRelease.
	e.out.SetActuator(true)
	e.pulseUntil = now.Add(ActuatorPulse)
	e.pulseDone = false
	e.phase = PhaseAwaitingRelease

	metrics.Get().RecordAction()
	e.logger.Event(string(events.EventTypeActionScored),
		fmt.Sprintf("sensor=%d button=%s led=%d score=%d soc=%d actions=%d", sensor, b, ledValue, e.score, e.soc, e.actions))
	e.emit(events.EventTypeActionScored, now, events.ActionPayload{
		Sensor:        sensor,
		Button:        string(b),
		LEDValue:      ledValue,
		ScoreDelta:    scoreDelta,
		SoCDelta:      socDelta,
		SwitchPenalty: switchPenalty,
		Score:         e.score,
		SoC:           e.soc,
		Actions:       e.actions,
	})
}

// startRound resets the per-round state and enters Playing. The score is
// deliberately left alone; it survives until a combo reset.
func (e *Engine) startRound(now time.Time) {
	e.round++
	e.actions = 0
	e.soc = SoCLevels / 2
	e.lastSensor = -1
	e.lastActionAt = [NumSensors]time.Time{}
	e.comboSince = time.Time{}
	e.illuminated = false

	e.randomiseLEDs()
	e.out.DisplaySoC(e.soc)
	e.phase = PhasePlaying

	metrics.Get().RecordRoundStart()
	e.logger.Event(string(events.EventTypeRoundStart),
		fmt.Sprintf("round=%d soc=%d leds=%v", e.round, e.soc, e.ledValues))
	e.emit(events.EventTypeRoundStart, now, events.RoundStartPayload{
		SoC:       e.soc,
		LEDValues: e.ledValues,
	})
}

// endRound returns to Idle after the full action count; score is retained
// and stays on the display.
func (e *Engine) endRound(now time.Time) {
	metrics.Get().RecordRoundEnd()
	e.logger.Event(string(events.EventTypeRoundEnd),
		fmt.Sprintf("round=%d score=%d soc=%d", e.round, e.score, e.soc))
	e.emit(events.EventTypeRoundEnd, now, events.RoundEndPayload{
		Score:   e.score,
		SoC:     e.soc,
		Actions: e.actions,
	})
	e.enterIdle()
}

// fullReset is the 3-second both-buttons combo: score to zero, back to Idle.
func (e *Engine) fullReset(now time.Time) {
	e.score = 0
	metrics.Get().RecordFullReset()
	e.logger.Event(string(events.EventTypeFullReset),
		fmt.Sprintf("round=%d actions=%d", e.round, e.actions))
	e.emit(events.EventTypeFullReset, now, events.RoundEndPayload{
		Score:   e.score,
		SoC:     e.soc,
		Actions: e.actions,
	})
	e.enterIdle()
}

// enterIdle darkens the table and shows the last score.
func (e *Engine) enterIdle() {
	for i := 0; i < NumSensors; i++ {
		e.out.SetSensorIndicator(i, hal.ColorOff)
	}
	e.out.SetButtonIllumination(hal.ButtonCharge, false)
	e.out.SetButtonIllumination(hal.ButtonDischarge, false)
	e.out.SetActuator(false)
	e.out.DisplayScore(e.score)

	e.phase = PhaseIdle
	e.comboSince = time.Time{}
	e.illuminated = false
	e.pulseDone = true
}

// shutdown runs the idle/off sequence and releases the outputs. Termination
// is a normal path, not an error.
func (e *Engine) shutdown() {
	e.logger.Info("Game engine stopping, darkening outputs.")
	e.enterIdle()
	e.emit(events.EventTypeShutdown, e.clock.Now(), nil)
	e.out.ShutdownAll()
}

// activeSensor returns the index of the first active sensor, scanning 0..3,
// or -1 when none is active. Lowest index wins ties.
func (e *Engine) activeSensor() int {
	for i := 0; i < NumSensors; i++ {
		if e.in.SensorActive(i) {
			return i
		}
	}
	return -1
}

// randomiseLEDs assigns a fresh uniform 0/1 to every sensor LED and shows it.
func (e *Engine) randomiseLEDs() {
	for i := 0; i < NumSensors; i++ {
		e.ledValues[i] = e.rng.Intn(2)
		e.out.SetSensorIndicator(i, ledColor(e.ledValues[i]))
	}
}

// setIllumination drives both button lamps together, emitting only changes.
func (e *Engine) setIllumination(on bool) {
	if on == e.illuminated {
		return
	}
	e.illuminated = on
	e.out.SetButtonIllumination(hal.ButtonCharge, on)
	e.out.SetButtonIllumination(hal.ButtonDischarge, on)
}

func (e *Engine) buttonPressed(b hal.Button) bool {
	return e.in.ButtonPressed(b)
}

func (e *Engine) emit(t events.EventType, now time.Time, payload interface{}) {
	if e.eventLog == nil {
		return
	}
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: now,
		Type:      t,
		Round:     e.round,
		Payload:   payload,
	})
}
