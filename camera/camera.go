package camera

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
)

// ErrClosed is returned by Read once no more frames can be captured
var ErrClosed = errors.New("camera: closed")

// Backend names
const (
	BackendGocv      = "gocv"
	BackendGStreamer = "gstreamer"
)

// Frame is one captured image
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	TraceID   string // correlates a frame across debug log lines
	Image     *image.RGBA
}

// Source delivers frames. Read blocks until the next frame is available.
// The capture subpackage holds the cgo backends.
type Source interface {
	Read() (Frame, error)
	Close() error
}

// Config selects and configures the capture backend
type Config struct {
	Backend string
	Device  int    // index for gocv
	Path    string // v4l2 device path for gstreamer
	Width   int
	Height  int
	Mirror  bool // flip horizontally so the picture behaves like a mirror
}

// NewFrame stamps an image with sequence, time and trace id
func NewFrame(seq uint64, img *image.RGBA) Frame {
	return Frame{
		Seq:       seq,
		Timestamp: time.Now(),
		TraceID:   uuid.New().String(),
		Image:     img,
	}
}

// RGBAFromPacked copies tightly packed RGBA bytes into a new image
func RGBAFromPacked(data []byte, w, h int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(data) < len(img.Pix) {
		return nil, fmt.Errorf("camera: short frame: got %d bytes, want %d", len(data), len(img.Pix))
	}
	copy(img.Pix, data)
	return img, nil
}
