package sequencer

import "testing"

func TestToggleTwiceRestores(t *testing.T) {
	var g Grid
	if !g.Toggle(1, 5) {
		t.Fatal("first toggle should turn the cell on")
	}
	if g.Toggle(1, 5) {
		t.Fatal("second toggle should turn the cell off")
	}
	if g != (Grid{}) {
		t.Errorf("grid not restored: %v", g)
	}
}

func TestToggleOutOfRange(t *testing.T) {
	var g Grid
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {Rows, 0}, {0, Steps}} {
		if g.Toggle(rc[0], rc[1]) {
			t.Errorf("Toggle(%d, %d) reported on", rc[0], rc[1])
		}
	}
	if g.Count() != 0 {
		t.Errorf("Count() = %d, want 0", g.Count())
	}
}

func TestClear(t *testing.T) {
	var g Grid
	g.Toggle(0, 0)
	g.Toggle(2, 15)
	if g.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", g.Count())
	}
	g.Clear()
	if g.Count() != 0 || g.Active(0, 0) {
		t.Errorf("grid not cleared")
	}
}

func TestCellAt(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		cellW, cellH int
		row, col     int
		ok           bool
	}{
		{"origin", 0, 0, 40, 160, 0, 0, true},
		{"middle", 320, 240, 40, 160, 1, 8, true},
		{"last cell", 639, 479, 40, 160, 2, 15, true},
		{"right edge clamps", 640, 100, 40, 160, 0, 15, true},
		{"below frame clamps", 10, 900, 40, 160, 2, 0, true},
		{"negative clamps", -30, -5, 40, 160, 0, 0, true},
		{"leftover strip", 645, 0, 40, 160, 0, 15, true},
		{"zero cell", 10, 10, 0, 160, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := CellAt(tt.x, tt.y, tt.cellW, tt.cellH)
			if ok != tt.ok || (ok && (row != tt.row || col != tt.col)) {
				t.Errorf("CellAt(%d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.x, tt.y, row, col, ok, tt.row, tt.col, tt.ok)
			}
		})
	}
}

func TestKits(t *testing.T) {
	gm := GetKit("gm")
	if gm.Notes != [Rows]uint8{36, 38, 42} {
		t.Errorf("gm notes = %v", gm.Notes)
	}
	if GetKit("nope").Name != gm.Name {
		t.Error("unknown kit should fall back to gm")
	}
	if GetKit("rd8").Notes[1] != 40 {
		t.Error("rd8 snare should be 40")
	}
	for _, name := range KitNames() {
		if _, ok := Kits[name]; !ok {
			t.Errorf("KitNames lists unknown kit %q", name)
		}
	}

	k := gm.WithNotes([Rows]uint8{0, 39, 200})
	if k.Notes != [Rows]uint8{36, 39, 42} {
		t.Errorf("WithNotes = %v", k.Notes)
	}
	if gm.Notes[1] != 38 {
		t.Error("WithNotes modified the original kit")
	}
}
