package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols used by the terminal grid
type Symbols struct {
	StepEmpty    rune // · off
	StepActive   rune // ● on
	StepPlayhead rune // ▶ playhead over an empty step
	StepHit      rune // ◆ playhead over an active step

	FingerEmpty  rune // ○ fingertip over an empty step
	FingerActive rune // ◉ fingertip over an active step
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:    '·',
			StepActive:   '●',
			StepPlayhead: '▶',
			StepHit:      '◆',

			FingerEmpty:  '○',
			FingerActive: '◉',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.2
	RoleAccent  = 0.5
	RoleCursor  = 0.6
	RoleSuccess = 1.0
)

// Row colours for kick, snare and hi-hat
var rowRoles = [3]float64{0.45, 0.7, 0.9}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Row returns the colour of a grid row; rows past the third wrap around
func (t *Theme) Row(row int) lipgloss.Color {
	return rgbToLipgloss(t.RowRGB(row))
}

// RowRGB is Row as raw RGB
func (t *Theme) RowRGB(row int) RGB {
	if row < 0 {
		row = -row
	}
	return t.Palette.Lookup(rowRoles[row%len(rowRoles)])
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(Hex(c))
}

// Hex formats a colour as #rrggbb
func Hex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
