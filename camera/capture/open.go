// Package capture holds the camera backends. Both need cgo (OpenCV and
// GStreamer), so they live apart from the frame types in package camera.
package capture

import (
	"fmt"

	"vision-drum/camera"
)

// Open starts capturing with the configured backend
func Open(cfg camera.Config) (camera.Source, error) {
	switch cfg.Backend {
	case "", camera.BackendGocv:
		return OpenGocv(cfg)
	case camera.BackendGStreamer:
		return OpenGst(cfg)
	default:
		return nil, fmt.Errorf("camera: unknown backend %q", cfg.Backend)
	}
}
