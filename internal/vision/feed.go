package vision

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
)

// FeedLabels are the expressions the face detector scores.
var FeedLabels = []string{"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral"}

// EmotionFeed streams the camera with face boxes and emotion scores and
// keeps the latest dominant emotion for other callers.
type EmotionFeed struct {
	device *Device
	faces  FaceDetector
	cfg    LoopConfig

	mu         sync.RWMutex
	label      string
	confidence float64
}

// NewEmotionFeed builds the feed loop. faces may be nil, in which case the
// stream carries only the FPS counter.
func NewEmotionFeed(device *Device, faces FaceDetector, cfg LoopConfig) *EmotionFeed {
	if cfg.DetectEvery < 1 {
		cfg.DetectEvery = 1
	}
	return &EmotionFeed{device: device, faces: faces, cfg: cfg, label: "neutral"}
}

// Current returns the latest dominant emotion and its score.
func (f *EmotionFeed) Current() (string, float64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.label, f.confidence
}

func (f *EmotionFeed) setCurrent(label string, confidence float64) {
	f.mu.Lock()
	f.label = label
	f.confidence = confidence
	f.mu.Unlock()
}

// Stream renders the feed into sink until ctx is done.
func (f *EmotionFeed) Stream(ctx context.Context, sink FrameSink) error {
	cam, release, err := f.device.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	ticker := time.NewTicker(f.cfg.interval())
	defer ticker.Stop()

	var (
		faces      []Face
		detectErr  bool
		frameCount int
		fps        float64
		windowN    int
		windowT    = f.cfg.now()
	)

	for {
		frame, err := cam.Frame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		windowN++
		if since := f.cfg.now().Sub(windowT); since >= time.Second {
			fps = float64(windowN) / since.Seconds()
			windowN = 0
			windowT = f.cfg.now()
		}

		img := canvas(frame)
		if f.faces != nil && frameCount%f.cfg.DetectEvery == 0 {
			found, err := f.faces.DetectFaces(ctx, img)
			if err != nil {
				logger.S().Debugw("face detection failed", "error", err)
				detectErr = true
			} else {
				faces, detectErr = found, false
				if len(found) > 0 && found[0].Emotion != "" {
					f.setCurrent(found[0].Emotion, found[0].Scores[found[0].Emotion])
				}
			}
		}
		frameCount++

		renderFeed(img, faces, detectErr, fps)
		if err := sink.WriteFrame(img); err != nil {
			return fmt.Errorf("write frame: %w", err)
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

func renderFeed(img *image.RGBA, faces []Face, detectErr bool, fps float64) {
	for _, face := range faces {
		box := face.Box
		if detectErr {
			strokeRect(img, box, colorRed, 2)
			drawText(img, box.Min.X, box.Min.Y-10, "Error analyzing", colorRed)
			continue
		}

		strokeRect(img, box, colorGreen, 2)
		drawText(img, box.Min.X, box.Min.Y-10, fmt.Sprintf("%s: %.2f", face.Emotion, face.Scores[face.Emotion]), colorGreen)

		y := box.Max.Y + 15
		for _, label := range FeedLabels {
			score, ok := face.Scores[label]
			if !ok {
				continue
			}
			drawText(img, box.Min.X, y, fmt.Sprintf("%s: %.2f", label, score), colorBlue)
			y += 15
		}
	}

	drawText(img, 10, 30, fmt.Sprintf("FPS: %.1f", fps), colorRed)
}
