package capture

import (
	"fmt"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"vision-drum/camera"
	"vision-drum/debug"
)

// GstSource captures from a v4l2 device through a GStreamer pipeline
type GstSource struct {
	pipeline *gst.Pipeline
	sink     *app.Sink
	width    int
	height   int
	seq      uint64
}

// OpenGst builds the pipeline and sets it playing
func OpenGst(cfg camera.Config) (*GstSource, error) {
	// safe to call multiple times
	gst.Init(nil)

	launch := camera.BuildPipeline(cfg)
	pipeline, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	elem, err := pipeline.GetElementByName(camera.SinkName)
	if err != nil {
		return nil, fmt.Errorf("failed to find appsink: %w", err)
	}
	sink := app.SinkFromElement(elem)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return nil, fmt.Errorf("failed to start pipeline: %w", err)
	}
	debug.Log("camera", "gstreamer pipeline playing: %s", launch)

	w, h := camera.FrameSize(cfg)
	return &GstSource{pipeline: pipeline, sink: sink, width: w, height: h}, nil
}

// Read blocks on the appsink for the next sample
func (s *GstSource) Read() (camera.Frame, error) {
	sample := s.sink.PullSample()
	if sample == nil {
		// EOS or pipeline stopped
		return camera.Frame{}, camera.ErrClosed
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		return camera.Frame{}, camera.ErrClosed
	}

	mapInfo := buffer.Map(gst.MapRead)
	img, err := camera.RGBAFromPacked(mapInfo.Bytes(), s.width, s.height)
	buffer.Unmap()
	if err != nil {
		return camera.Frame{}, err
	}

	s.seq++
	return camera.NewFrame(s.seq, img), nil
}

func (s *GstSource) Close() error {
	if err := s.pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("failed to set pipeline to NULL: %w", err)
	}
	return nil
}
