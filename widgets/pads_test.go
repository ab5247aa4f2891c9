package widgets

import (
	"strings"
	"testing"

	"vision-drum/midi"
)

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{
		{Title: "Keys", Keys: []KeyBinding{{"p", "toggle step"}, {"esc", "quit"}}},
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if lines[0] != "Keys" || !strings.HasPrefix(lines[1], "  p ") || !strings.HasSuffix(lines[2], "quit") {
		t.Errorf("unexpected help:\n%s", out)
	}
}

func TestPadPreviewShape(t *testing.T) {
	out := PadPreview([]midi.LEDUpdate{
		{Row: 7, Col: 0, Color: [3]uint8{255, 0, 0}},
		{Row: 9, Col: 0},  // ignored
		{Row: 0, Col: 12}, // ignored
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d rows, want 7", len(lines))
	}
	for i, l := range lines {
		if n := strings.Count(l, "■"); n != 8 {
			t.Errorf("row %d has %d pads, want 8", i, n)
		}
	}
}
