package overlay

import (
	"image"
	"image/color"
	"testing"

	"vision-drum/sequencer"
	"vision-drum/tracker"
)

func newFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func baseSnapshot() sequencer.Snapshot {
	return sequencer.Snapshot{
		Column: 5,
		Tempo:  120,
		Labels: [sequencer.Rows]string{"Kick", "Snare", "Hi-hat"},
		Width:  640, Height: 480,
		CellW: 40, CellH: 160,
		PlayheadX: 101,
	}
}

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderNotesAndPlayhead(t *testing.T) {
	r := mustRenderer(t)
	img := newFrame()
	snap := baseSnapshot()
	snap.Grid.Toggle(1, 10)
	r.Render(img, snap)

	// centre of snare step 11
	if c := img.RGBAAt(420, 240); c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("active note = %v, want red", c)
	}
	// playhead line at x=101
	for _, x := range []int{100, 101} {
		if c := img.RGBAAt(x, 250); c.R < 200 || c.G < 200 || c.B < 200 {
			t.Errorf("playhead pixel %d = %v, want white", x, c)
		}
	}
	// column 5 is tinted yellow, column 12 untouched
	if c := img.RGBAAt(210, 300); c.R < 30 || c.G < 30 || c.B > 10 {
		t.Errorf("highlight = %v, want dim yellow", c)
	}
	if c := img.RGBAAt(490, 300); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("unhighlighted cell = %v, want black", c)
	}
}

func TestRenderFingertip(t *testing.T) {
	r := mustRenderer(t)

	img := newFrame()
	r.Render(img, baseSnapshot())
	if c := img.RGBAAt(3, 3); c.R > 100 || c.G > 100 {
		t.Errorf("cursor drawn before any hand: %v", c)
	}

	img = newFrame()
	snap := baseSnapshot()
	snap.Fingertip = image.Pt(500, 420)
	snap.HasFingertip = true
	r.Render(img, snap)
	if c := img.RGBAAt(500, 420); c != (color.RGBA{255, 255, 0, 255}) {
		t.Errorf("cursor = %v, want yellow", c)
	}
}

func TestRenderHand(t *testing.T) {
	r := mustRenderer(t)
	img := newFrame()

	var hand tracker.Hand
	for i := range hand.Landmarks {
		hand.Landmarks[i] = tracker.Landmark{X: 0.8, Y: 0.6}
	}
	hand.Landmarks[tracker.Wrist] = tracker.Landmark{X: 0.9, Y: 0.9}
	snap := baseSnapshot()
	snap.Hands = []tracker.Hand{hand}
	r.Render(img, snap)

	// wrist at (576, 432)
	if c := img.RGBAAt(576, 432); c.R < 200 || c.G > 50 {
		t.Errorf("landmark = %v, want red", c)
	}
}
