package camera

import (
	"fmt"
	"strings"
)

const (
	defaultDevicePath = "/dev/video0"
	defaultWidth      = 640
	defaultHeight     = 480
)

// SinkName is the appsink element in a BuildPipeline launch line
const SinkName = "sink"

// BuildPipeline returns the launch line for a capture pipeline:
//
//	v4l2src → videoconvert → videoscale → [videoflip] → capsfilter(RGBA) → appsink
//
// The appsink keeps only the newest frame so a slow loop never falls behind.
func BuildPipeline(cfg Config) string {
	path := cfg.Path
	if path == "" {
		path = defaultDevicePath
	}
	w, h := FrameSize(cfg)

	parts := []string{
		fmt.Sprintf("v4l2src device=%s", path),
		"videoconvert",
		"videoscale",
	}
	if cfg.Mirror {
		parts = append(parts, "videoflip method=horizontal-flip")
	}
	parts = append(parts,
		fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d", w, h),
		fmt.Sprintf("appsink name=%s sync=false max-buffers=1 drop=true", SinkName),
	)
	return strings.Join(parts, " ! ")
}

// FrameSize returns the configured capture size, 640x480 when unset
func FrameSize(cfg Config) (int, int) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}
	return w, h
}
