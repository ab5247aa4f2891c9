package midi

import "testing"

type fakeController struct {
	batches [][]LEDUpdate
}

func (c *fakeController) ID() string                 { return "fake" }
func (c *fakeController) Type() ControllerType       { return ControllerLaunchpad }
func (c *fakeController) PadEvents() <-chan PadEvent { return nil }
func (c *fakeController) Close() error               { return nil }

func (c *fakeController) SetLEDBatch(updates []LEDUpdate) error {
	c.batches = append(c.batches, updates)
	return nil
}

func TestGridLayoutRoundTrip(t *testing.T) {
	seen := make(map[[2]int]bool)
	for row := 0; row < 3; row++ {
		for step := 0; step < 16; step++ {
			pr, pc := PadForCell(row, step)
			if pr < 2 || pr > 7 || pc < 0 || pc > 7 {
				t.Fatalf("cell %d/%d mapped off the grid: %d,%d", row, step, pr, pc)
			}
			if seen[[2]int{pr, pc}] {
				t.Fatalf("pad %d,%d used twice", pr, pc)
			}
			seen[[2]int{pr, pc}] = true

			r, s, ok := CellForPad(pr, pc)
			if !ok || r != row || s != step {
				t.Errorf("CellForPad(%d, %d) = %d, %d, %v; want %d, %d", pr, pc, r, s, ok, row, step)
			}
		}
	}

	if pr, pc := PadForCell(0, 0); pr != 7 || pc != 0 {
		t.Errorf("kick step 1 on %d,%d, want 7,0", pr, pc)
	}
	if pr, pc := PadForCell(2, 15); pr != 2 || pc != 7 {
		t.Errorf("hi-hat step 16 on %d,%d, want 2,7", pr, pc)
	}
	for _, p := range [][2]int{{0, 0}, {1, 5}, {TopRow, 0}, {7, 8}} {
		if _, _, ok := CellForPad(p[0], p[1]); ok {
			t.Errorf("CellForPad(%d, %d) should not map to a cell", p[0], p[1])
		}
	}
}

func TestMirrorSendsOnlyChanges(t *testing.T) {
	m := NewMirror()
	if err := m.Flush([]LEDUpdate{{Row: 1, Col: 1}}); err != nil {
		t.Fatalf("Flush without controller: %v", err)
	}

	ctrl := &fakeController{}
	m.SetController(ctrl)

	red := [3]uint8{255, 0, 0}
	frame := []LEDUpdate{
		{Row: 7, Col: 0, Color: red},
		{Row: 7, Col: 1},
	}
	m.Flush(frame)
	if len(ctrl.batches) != 1 || len(ctrl.batches[0]) != 2 {
		t.Fatalf("first flush = %+v, want one batch of 2", ctrl.batches)
	}

	m.Flush(frame)
	if len(ctrl.batches) != 1 {
		t.Fatalf("unchanged frame sent a batch: %+v", ctrl.batches[1])
	}

	m.Flush([]LEDUpdate{{Row: 7, Col: 1, Color: red}})
	if len(ctrl.batches) != 2 {
		t.Fatalf("changed frame sent %d batches, want 2", len(ctrl.batches))
	}
	got := make(map[[2]int][3]uint8)
	for _, u := range ctrl.batches[1] {
		got[[2]int{u.Row, u.Col}] = u.Color
	}
	if len(got) != 2 || got[[2]int{7, 1}] != red || got[[2]int{7, 0}] != ([3]uint8{}) {
		t.Errorf("diff batch = %+v, want 7,1 red and 7,0 off", ctrl.batches[1])
	}

	m.SetController(ctrl)
	m.Flush([]LEDUpdate{{Row: 7, Col: 1, Color: red}})
	if len(ctrl.batches) != 3 {
		t.Error("reattaching should repaint")
	}
}
