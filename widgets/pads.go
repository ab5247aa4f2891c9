package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vision-drum/midi"
)

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderPadRow renders a row of colored pads with spacing
func RenderPadRow(colors [][3]uint8) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c))
	}
	return out.String()
}

// PadPreview renders the pad controller as the mirror would light it:
// the round buttons on top, then pad rows 7 down to 2.
func PadPreview(leds []midi.LEDUpdate) string {
	var grid [9][8][3]uint8
	for _, led := range leds {
		if led.Row < 0 || led.Row > 8 || led.Col < 0 || led.Col > 7 {
			continue
		}
		grid[led.Row][led.Col] = led.Color
	}

	var lines []string
	for row := 8; row >= 2; row-- {
		lines = append(lines, RenderPadRow(grid[row][:]))
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
