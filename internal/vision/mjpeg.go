package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
)

// FrameSink receives rendered frames.
type FrameSink interface {
	WriteFrame(img image.Image) error
}

// MJPEGWriter streams frames as multipart/x-mixed-replace with boundary
// "frame". Headers are sent with the first frame so callers can still answer
// with an error status before streaming starts.
type MJPEGWriter struct {
	w       http.ResponseWriter
	mw      *multipart.Writer
	quality int
	started bool
	buf     bytes.Buffer
}

// NewMJPEGWriter wraps w.
func NewMJPEGWriter(w http.ResponseWriter) *MJPEGWriter {
	mw := multipart.NewWriter(w)
	// "frame" is a valid boundary, SetBoundary cannot fail here.
	_ = mw.SetBoundary("frame")
	return &MJPEGWriter{w: w, mw: mw, quality: 80}
}

// Started reports whether any frame has been written.
func (m *MJPEGWriter) Started() bool {
	return m.started
}

// WriteFrame encodes img as JPEG and flushes it to the client.
func (m *MJPEGWriter) WriteFrame(img image.Image) error {
	m.buf.Reset()
	if err := jpeg.Encode(&m.buf, img, &jpeg.Options{Quality: m.quality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	if !m.started {
		m.w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+m.mw.Boundary())
		m.w.Header().Set("Cache-Control", "no-cache")
		m.w.WriteHeader(http.StatusOK)
		m.started = true
	}

	part, err := m.mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":   {"image/jpeg"},
		"Content-Length": {strconv.Itoa(m.buf.Len())},
	})
	if err != nil {
		return err
	}
	if _, err := part.Write(m.buf.Bytes()); err != nil {
		return err
	}

	if flusher, ok := m.w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
