package vision

import "math"

const (
	trackerWindow   = 30
	trackerTrendLag = 10
	trendThreshold  = 0.002
)

// BreathTracker infers breathing from shoulder width: the chest widens the
// shoulders on an inhale and narrows them on an exhale.
type BreathTracker struct {
	widths []float64
}

// NewBreathTracker returns an empty tracker.
func NewBreathTracker() *BreathTracker {
	return &BreathTracker{widths: make([]float64, 0, trackerWindow)}
}

// Observe records a pose and returns the detected phase. ok is false while
// fewer than ten measurements are buffered or when pose is nil.
func (t *BreathTracker) Observe(pose *Pose) (Phase, bool) {
	if pose == nil {
		return "", false
	}

	width := math.Hypot(pose.RightShoulder.X-pose.LeftShoulder.X, pose.RightShoulder.Y-pose.LeftShoulder.Y)
	t.widths = append(t.widths, width)
	if len(t.widths) > trackerWindow {
		t.widths = t.widths[len(t.widths)-trackerWindow:]
	}
	if len(t.widths) < trackerTrendLag {
		return "", false
	}

	trend := t.widths[len(t.widths)-1] - t.widths[len(t.widths)-trackerTrendLag]
	switch {
	case trend > trendThreshold:
		return PhaseInhale, true
	case trend < -trendThreshold:
		return PhaseExhale, true
	default:
		return PhaseHold, true
	}
}

// Reset drops buffered measurements.
func (t *BreathTracker) Reset() {
	t.widths = t.widths[:0]
}
