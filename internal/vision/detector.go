package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"
	"time"
)

// Point is a landmark in normalized frame coordinates (0-1).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pose carries the landmarks breath tracking needs.
type Pose struct {
	LeftShoulder  Point `json:"left_shoulder"`
	RightShoulder Point `json:"right_shoulder"`
}

// Face is one detected face with its emotion scores (0-100).
type Face struct {
	Box     image.Rectangle
	Emotion string
	Scores  map[string]float64
}

// PoseDetector finds body landmarks. A nil pose means nobody is in frame.
type PoseDetector interface {
	DetectPose(ctx context.Context, img image.Image) (*Pose, error)
}

// FaceDetector finds faces and scores their expression.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]Face, error)
}

// RemoteDetector delegates detection to an HTTP service that accepts JPEG
// bodies on /pose and /emotion.
type RemoteDetector struct {
	baseURL string
	client  *http.Client
}

var (
	_ PoseDetector = (*RemoteDetector)(nil)
	_ FaceDetector = (*RemoteDetector)(nil)
)

// NewRemoteDetector targets baseURL. A nil client gets a 3s timeout client.
func NewRemoteDetector(baseURL string, client *http.Client) *RemoteDetector {
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	return &RemoteDetector{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type poseResponse struct {
	Landmarks *Pose `json:"landmarks"`
}

// DetectPose posts the frame to /pose.
func (d *RemoteDetector) DetectPose(ctx context.Context, img image.Image) (*Pose, error) {
	var out poseResponse
	if err := d.post(ctx, "/pose", img, &out); err != nil {
		return nil, err
	}
	return out.Landmarks, nil
}

type faceResponse struct {
	Faces []struct {
		Box     [4]int             `json:"box"`
		Emotion string             `json:"emotion"`
		Scores  map[string]float64 `json:"scores"`
	} `json:"faces"`
}

// DetectFaces posts the frame to /emotion. Boxes are [x, y, w, h] in pixels.
func (d *RemoteDetector) DetectFaces(ctx context.Context, img image.Image) ([]Face, error) {
	var out faceResponse
	if err := d.post(ctx, "/emotion", img, &out); err != nil {
		return nil, err
	}

	faces := make([]Face, 0, len(out.Faces))
	for _, f := range out.Faces {
		x, y, w, h := f.Box[0], f.Box[1], f.Box[2], f.Box[3]
		faces = append(faces, Face{
			Box:     image.Rect(x, y, x+w, y+h),
			Emotion: strings.ToLower(f.Emotion),
			Scores:  f.Scores,
		})
	}
	return faces, nil
}

func (d *RemoteDetector) post(ctx context.Context, path string, img image.Image, out any) error {
	var body bytes.Buffer
	if err := jpeg.Encode(&body, img, &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("detector %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("detector %s: decode response: %w", path, err)
	}
	return nil
}
