package theme

import (
	"strings"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if p.Name != "plasma" {
		t.Errorf("Name = %q, want plasma", p.Name)
	}
	if len(p.Colors) != 15 {
		t.Errorf("got %d colors, want 15", len(p.Colors))
	}
	if p.Colors[0] != (RGB{13, 8, 135}) {
		t.Errorf("first color = %v", p.Colors[0])
	}
}

func TestParseGPL(t *testing.T) {
	src := `GIMP Palette
Name: test
Columns: 2
# comment
  0   0   0	black
255 255 255	white
300   0   0	out of range
 12  34
`
	p, err := ParseGPL(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseGPL: %v", err)
	}
	if p.Name != "test" || len(p.Colors) != 2 {
		t.Fatalf("got %q with %d colors", p.Name, len(p.Colors))
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\nName: empty\n")); err == nil {
		t.Error("empty palette should fail")
	}
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	tests := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0, RGB{0, 0, 0}},
		{0.5, RGB{100, 50, 25}},
		{1, RGB{200, 100, 50}},
		{2, RGB{200, 100, 50}},
	}
	for _, tt := range tests {
		if got := p.Lookup(tt.norm); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.norm, got, tt.want)
		}
	}
}

func TestRowColors(t *testing.T) {
	th := New(nil)
	if th.Row(0) == th.Row(1) || th.Row(1) == th.Row(2) {
		t.Error("rows should have distinct colours")
	}
	if th.Row(3) != th.Row(0) {
		t.Error("row colours should wrap")
	}
	if got := Hex(RGB{255, 0, 16}); got != "#ff0010" {
		t.Errorf("Hex = %q", got)
	}
}
