package vision

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
)

// LoopConfig paces a camera loop.
type LoopConfig struct {
	// Interval is the pause between frames.
	Interval time.Duration
	// Duration caps the breathing exercise; zero means no cap.
	Duration time.Duration
	// DetectEvery runs face detection on every Nth frame of the emotion feed.
	DetectEvery int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (c LoopConfig) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c LoopConfig) interval() time.Duration {
	if c.Interval <= 0 {
		return time.Second / 15
	}
	return c.Interval
}

// Breathing runs the camera-guided breathing exercise. In guided mode only
// the timer drives the overlay; otherwise shoulder movement is tracked and
// the user gets live feedback.
type Breathing struct {
	device *Device
	pose   PoseDetector
	cfg    LoopConfig
	guided atomic.Bool
}

// NewBreathing builds the exercise loop. pose may be nil, which disables feedback.
func NewBreathing(device *Device, pose PoseDetector, cfg LoopConfig) *Breathing {
	return &Breathing{device: device, pose: pose, cfg: cfg}
}

// Guided reports the current mode.
func (b *Breathing) Guided() bool {
	return b.guided.Load()
}

// ToggleMode switches between guided and detected mode and returns the new
// guided value. Running streams pick up the change on their next frame.
func (b *Breathing) ToggleMode() bool {
	for {
		old := b.guided.Load()
		if b.guided.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Stream renders the exercise for pattern into sink until the duration cap
// is reached or ctx is done. ErrCameraBusy is returned before anything is
// written when another stream holds the camera.
func (b *Breathing) Stream(ctx context.Context, pattern breathing.Pattern, sink FrameSink) error {
	cam, release, err := b.device.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	tracker := NewBreathTracker()
	ticker := time.NewTicker(b.cfg.interval())
	defer ticker.Stop()

	start := b.cfg.now()
	for {
		frame, err := cam.Frame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		elapsed := b.cfg.now().Sub(start)
		state := PhaseAt(pattern, elapsed)
		img := canvas(frame)

		feedback, correct := "", true
		if !b.Guided() && b.pose != nil {
			pose, err := b.pose.DetectPose(ctx, img)
			if err != nil {
				logger.S().Debugw("pose detection failed", "error", err)
			} else if detected, ok := tracker.Observe(pose); ok {
				feedback, correct = Feedback(state.Phase, detected)
			}
		}

		renderBreathing(img, pattern, state, feedback, correct)
		if err := sink.WriteFrame(img); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}

		if b.cfg.Duration > 0 && elapsed >= b.cfg.Duration {
			return nil
		}

		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Guide emits the timer phase at the frame interval without using the
// camera, for clients that draw their own animation.
func (b *Breathing) Guide(ctx context.Context, pattern breathing.Pattern, emit func(PhaseState) error) error {
	ticker := time.NewTicker(b.cfg.interval())
	defer ticker.Stop()

	start := b.cfg.now()
	for {
		elapsed := b.cfg.now().Sub(start)
		if err := emit(PhaseAt(pattern, elapsed)); err != nil {
			return err
		}
		if b.cfg.Duration > 0 && elapsed >= b.cfg.Duration {
			return nil
		}

		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func renderBreathing(img *image.RGBA, pattern breathing.Pattern, state PhaseState, feedback string, correct bool) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	radius := 50
	switch state.Phase {
	case PhaseInhale:
		radius = int(50 + state.Progress*100)
	case PhaseHold:
		radius = 150
	case PhaseExhale:
		radius = int(150 - state.Progress*100)
	}
	strokeCircle(img, w/2, 100, radius, pattern.Color, 2)

	barY := h - 30
	fillRect(img, image.Rect(50, barY, w-50, barY+5), colorTrack)
	fillRect(img, image.Rect(50, barY, 50+int(float64(w-100)*state.CycleProgress), barY+5), pattern.Color)

	tw := textWidth(state.Instruction)
	tx := (w - tw) / 2
	fillRect(img, image.Rect(tx-10, 30, tx+tw+10, 60), colorWhite)
	drawText(img, tx, 50, state.Instruction, colorBlack)

	drawText(img, 20, 25, titleCase(pattern.ID)+" Breathing", colorWhite)
	drawText(img, w-150, 25, fmt.Sprintf("Cycle: %d", state.Cycle), colorWhite)

	if feedback != "" {
		c := colorGreen
		if !correct {
			c = colorRed
		}
		drawText(img, w/2-40, h-50, feedback, c)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
