package camera

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestBuildPipeline(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
		not  []string
	}{
		{
			name: "defaults",
			cfg:  Config{Backend: BackendGStreamer},
			want: []string{"v4l2src device=/dev/video0", "width=640,height=480", "appsink name=sink"},
			not:  []string{"videoflip"},
		},
		{
			name: "mirrored custom size",
			cfg:  Config{Path: "/dev/video2", Width: 1280, Height: 720, Mirror: true},
			want: []string{"device=/dev/video2", "videoflip method=horizontal-flip", "format=RGBA,width=1280,height=720"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPipeline(tt.cfg)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("pipeline %q missing %q", got, w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Errorf("pipeline %q should not contain %q", got, n)
				}
			}
		})
	}
}

func TestRGBAFromPacked(t *testing.T) {
	data := []byte{
		1, 2, 3, 255, 4, 5, 6, 255,
		7, 8, 9, 255, 10, 11, 12, 255,
	}
	img, err := RGBAFromPacked(data, 2, 2)
	if err != nil {
		t.Fatalf("RGBAFromPacked: %v", err)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{10, 11, 12, 255}) {
		t.Errorf("pixel (1,1) = %v", got)
	}

	if _, err := RGBAFromPacked(data[:8], 2, 2); err == nil {
		t.Error("expected error for short frame")
	}
}

func TestNewFrameStamps(t *testing.T) {
	f := NewFrame(7, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if f.Seq != 7 || f.TraceID == "" || f.Timestamp.IsZero() {
		t.Errorf("frame not stamped: %+v", f)
	}
}

func TestFrameSizeDefaults(t *testing.T) {
	if w, h := FrameSize(Config{Width: 1280}); w != 640 || h != 480 {
		t.Errorf("half-set size = %dx%d, want 640x480", w, h)
	}
	if w, h := FrameSize(Config{Width: 320, Height: 240}); w != 320 || h != 240 {
		t.Errorf("size = %dx%d, want 320x240", w, h)
	}
}
