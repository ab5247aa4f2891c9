package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-drum/camera"
	"vision-drum/debug"
)

// GocvSource captures from a system video device through OpenCV
type GocvSource struct {
	capture *gocv.VideoCapture
	raw     gocv.Mat
	flipped gocv.Mat
	mirror  bool
	seq     uint64
}

// OpenGocv opens the video device at cfg.Device (0 is the default camera)
func OpenGocv(cfg camera.Config) (*GocvSource, error) {
	capture, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open camera %d: device not available", cfg.Device)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	debug.Log("camera", "gocv device %d opened", cfg.Device)

	return &GocvSource{
		capture: capture,
		raw:     gocv.NewMat(),
		flipped: gocv.NewMat(),
		mirror:  cfg.Mirror,
	}, nil
}

// Read grabs the next frame. Any read failure ends the stream.
func (s *GocvSource) Read() (camera.Frame, error) {
	if ok := s.capture.Read(&s.raw); !ok || s.raw.Empty() {
		return camera.Frame{}, camera.ErrClosed
	}

	src := s.raw
	if s.mirror {
		gocv.Flip(s.raw, &s.flipped, 1)
		src = s.flipped
	}
	// ToImage reads the BGR layout and returns RGBA
	img, err := src.ToImage()
	if err != nil {
		return camera.Frame{}, fmt.Errorf("convert frame: %w", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		return camera.Frame{}, fmt.Errorf("convert frame: unexpected image type %T", img)
	}

	s.seq++
	return camera.NewFrame(s.seq, rgba), nil
}

func (s *GocvSource) Close() error {
	s.raw.Close()
	s.flipped.Close()
	return s.capture.Close()
}
