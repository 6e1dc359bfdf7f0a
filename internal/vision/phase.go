package vision

import (
	"fmt"
	"time"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
)

// Phase is a step of the breathing cycle.
type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseHold   Phase = "hold"
	PhaseExhale Phase = "exhale"
	PhasePause  Phase = "pause"
)

// PhaseState is where the timer says the user should be.
type PhaseState struct {
	Phase         Phase   `json:"phase"`
	Progress      float64 `json:"progress"`
	CycleProgress float64 `json:"cycle_progress"`
	Cycle         int     `json:"cycle"`
	Remaining     int     `json:"remaining"`
	Instruction   string  `json:"instruction"`
}

// PhaseAt returns the expected phase elapsed into the exercise.
func PhaseAt(p breathing.Pattern, elapsed time.Duration) PhaseState {
	cycle := float64(p.CycleSeconds())
	if cycle <= 0 {
		return PhaseState{Phase: PhasePause, Progress: 1, Cycle: 1, Instruction: "PAUSE"}
	}

	secs := elapsed.Seconds()
	if secs < 0 {
		secs = 0
	}
	cycles := int(secs / cycle)
	t := secs - float64(cycles)*cycle

	inhale, hold, exhale, pause := float64(p.Inhale), float64(p.Hold), float64(p.Exhale), float64(p.Pause)
	state := PhaseState{Cycle: cycles + 1, CycleProgress: t / cycle}

	switch {
	case t < inhale:
		state.Phase = PhaseInhale
		state.Progress = t / inhale
		state.Remaining = int(inhale - t + 1)
		state.Instruction = fmt.Sprintf("INHALE through nose (%ds)", state.Remaining)
	case hold > 0 && t < inhale+hold:
		held := t - inhale
		state.Phase = PhaseHold
		state.Progress = held / hold
		state.Remaining = int(hold - held + 1)
		state.Instruction = fmt.Sprintf("HOLD your breath (%ds)", state.Remaining)
	case t < inhale+hold+exhale:
		out := t - inhale - hold
		state.Phase = PhaseExhale
		state.Progress = out / exhale
		state.Remaining = int(exhale - out + 1)
		state.Instruction = fmt.Sprintf("EXHALE through mouth (%ds)", state.Remaining)
	default:
		paused := t - inhale - hold - exhale
		state.Phase = PhasePause
		state.Progress = 1
		if pause > 0 {
			state.Progress = paused / pause
		}
		state.Remaining = int(pause - paused + 1)
		state.Instruction = fmt.Sprintf("PAUSE (%ds)", state.Remaining)
	}
	return state
}

// Feedback compares the expected phase with the one read from the body.
// Hold and pause both expect stillness.
func Feedback(expected, detected Phase) (string, bool) {
	switch {
	case expected == PhaseInhale && detected == PhaseInhale,
		expected == PhaseExhale && detected == PhaseExhale,
		(expected == PhaseHold || expected == PhasePause) && detected == PhaseHold:
		return "Good!", true
	case expected == PhaseInhale:
		return "Inhale now", false
	case expected == PhaseExhale:
		return "Exhale now", false
	case expected == PhaseHold:
		return "Hold steady", false
	default:
		return "Pause briefly", false
	}
}
