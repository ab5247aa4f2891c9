// Package overlay draws the sequencer on top of camera frames.
package overlay

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"vision-drum/sequencer"
	"vision-drum/tracker"
)

// Sizes in pixels
const (
	NoteRadius     = 12
	CursorRadius   = 10
	LandmarkRadius = 4
	PlayheadWidth  = 2
	HighlightAlpha = 0.2
)

// Renderer draws a snapshot onto a frame in place
type Renderer struct {
	labelFace font.Face
	tempoFace font.Face
}

// NewRenderer loads the text faces
func NewRenderer() (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{
		labelFace: truetype.NewFace(f, &truetype.Options{Size: 22}),
		tempoFace: truetype.NewFace(f, &truetype.Options{Size: 18}),
	}, nil
}

// Render draws, in order: hand skeleton, playhead column highlight, cell
// borders, active notes, row labels, tempo, fingertip cursor, playhead line.
func (r *Renderer) Render(dst *image.RGBA, snap sequencer.Snapshot) {
	dc := gg.NewContextForRGBA(dst)
	w := float64(dst.Bounds().Dx())
	h := float64(dst.Bounds().Dy())
	cw, ch := float64(snap.CellW), float64(snap.CellH)

	for _, hand := range snap.Hands {
		drawHand(dc, hand, dst.Bounds().Dx(), dst.Bounds().Dy())
	}

	// active column
	dc.SetRGBA(1, 1, 0, HighlightAlpha)
	dc.DrawRectangle(float64(snap.Column)*cw, 0, cw, h)
	dc.Fill()

	// cells
	dc.SetLineWidth(1)
	for row := 0; row < sequencer.Rows; row++ {
		for col := 0; col < sequencer.Steps; col++ {
			x, y := float64(col)*cw, float64(row)*ch
			dc.SetRGB255(100, 100, 100)
			dc.DrawRectangle(x, y, cw, ch)
			dc.Stroke()

			if snap.Grid[row][col] {
				dc.SetRGB(1, 0, 0)
				dc.DrawCircle(x+cw/2, y+ch/2, NoteRadius)
				dc.Fill()
			}
		}
	}

	// labels
	dc.SetFontFace(r.labelFace)
	dc.SetRGB(1, 1, 1)
	for i, label := range snap.Labels {
		dc.DrawString(label, 10, float64(i)*ch+35)
	}
	dc.SetFontFace(r.tempoFace)
	dc.SetRGB(0, 1, 0)
	dc.DrawString(fmt.Sprintf("BPM: %d", snap.Tempo), w-120, 30)

	if snap.HasFingertip {
		dc.SetRGB(1, 1, 0)
		dc.DrawCircle(float64(snap.Fingertip.X), float64(snap.Fingertip.Y), CursorRadius)
		dc.Fill()
	}

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(PlayheadWidth)
	dc.DrawLine(snap.PlayheadX, 0, snap.PlayheadX, h)
	dc.Stroke()
}

func drawHand(dc *gg.Context, hand tracker.Hand, w, h int) {
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	for _, c := range tracker.Connections {
		a := hand.Landmarks[c[0]].Point(w, h)
		b := hand.Landmarks[c[1]].Point(w, h)
		dc.DrawLine(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
		dc.Stroke()
	}

	dc.SetRGB(1, 0, 0)
	for _, lm := range hand.Landmarks {
		p := lm.Point(w, h)
		dc.DrawCircle(float64(p.X), float64(p.Y), LandmarkRadius)
		dc.Fill()
	}
}
