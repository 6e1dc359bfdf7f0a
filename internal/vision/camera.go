// Package vision produces the live camera streams: the guided breathing
// exercise and the facial emotion feed.
package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"
)

// ErrCameraBusy is returned when another stream already holds the camera.
var ErrCameraBusy = errors.New("camera is in use by another stream")

// Camera yields frames until closed.
type Camera interface {
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Opener opens the physical or remote camera.
type Opener func(ctx context.Context) (Camera, error)

// Device hands out the camera to one stream at a time.
type Device struct {
	mu   sync.Mutex
	busy bool
	open Opener
}

// NewDevice wraps an opener with exclusive access.
func NewDevice(open Opener) *Device {
	return &Device{open: open}
}

// Acquire opens the camera for the caller. The returned release func closes
// it and may be called more than once.
func (d *Device) Acquire(ctx context.Context) (Camera, func(), error) {
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return nil, nil, ErrCameraBusy
	}
	d.busy = true
	d.mu.Unlock()

	cam, err := d.open(ctx)
	if err != nil {
		d.setIdle()
		return nil, nil, fmt.Errorf("open camera: %w", err)
	}

	release := sync.OnceFunc(func() {
		cam.Close()
		d.setIdle()
	})
	return cam, release, nil
}

// Busy reports whether a stream currently holds the camera.
func (d *Device) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

func (d *Device) setIdle() {
	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()
}

// SyntheticCamera renders a moving test pattern. It stands in for a real
// camera in development and tests.
type SyntheticCamera struct {
	width, height int
	frame         int
}

// NewSyntheticCamera returns a w×h pattern generator.
func NewSyntheticCamera(width, height int) *SyntheticCamera {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &SyntheticCamera{width: width, height: height}
}

// Frame renders the next pattern frame.
func (c *SyntheticCamera) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	band := c.frame % c.width
	for y := 0; y < c.height; y++ {
		shade := uint8(40 + 60*y/c.height)
		for x := 0; x < c.width; x++ {
			px := color.RGBA{R: shade, G: shade, B: shade + 30, A: 255}
			if x >= band && x < band+8 {
				px = color.RGBA{R: 90, G: 90, B: 140, A: 255}
			}
			img.SetRGBA(x, y, px)
		}
	}
	c.frame += 4
	return img, nil
}

// Close is a no-op.
func (c *SyntheticCamera) Close() error { return nil }

// SnapshotCamera fetches a still image from an HTTP endpoint for every frame,
// as exposed by most IP cameras and webcam bridges.
type SnapshotCamera struct {
	url    string
	client *http.Client
}

// NewSnapshotCamera polls url. A nil client gets a 5s timeout client.
func NewSnapshotCamera(url string, client *http.Client) *SnapshotCamera {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &SnapshotCamera{url: url, client: client}
}

// Frame downloads and decodes one snapshot.
func (c *SnapshotCamera) Frame(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}

// Close releases idle connections.
func (c *SnapshotCamera) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
