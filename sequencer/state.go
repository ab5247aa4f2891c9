package sequencer

import (
	"image"

	"vision-drum/tracker"
)

// Snapshot is what one frame of the loop looks like to the outside:
// displays, the overlay and the pad mirror only ever see copies.
type Snapshot struct {
	Seq       uint64
	Grid      Grid
	Column    int
	PlayheadX float64
	Tempo     int
	Labels    [Rows]string

	Width, Height int
	CellW, CellH  int

	Fingertip    image.Point
	HasFingertip bool
	Hands        []tracker.Hand
}

// FingertipCell returns the cell under the fingertip, if one has been seen
func (s Snapshot) FingertipCell() (row, col int, ok bool) {
	if !s.HasFingertip {
		return 0, 0, false
	}
	return CellAt(s.Fingertip.X, s.Fingertip.Y, s.CellW, s.CellH)
}
