package midi

// Grid layout on an 8x8 pad controller. Each of the three sequencer rows
// takes two pad rows from the top: steps 0-7 on the upper one, 8-15 below.
const padCols = 8

// Round buttons along the top (pad row 8)
const (
	TopRow       = 8
	TempoDownCol = 0
	TempoUpCol   = 1
	SaveCol      = 6
	ClearCol     = 7
)

// PadForCell returns the pad position of a grid cell
func PadForCell(row, step int) (padRow, padCol int) {
	padRow = 7 - 2*row
	if step >= padCols {
		padRow--
	}
	return padRow, step % padCols
}

// CellForPad maps a pad press back to a grid cell. Pads outside the
// top six rows and the round buttons report ok=false.
func CellForPad(padRow, padCol int) (row, step int, ok bool) {
	if padRow < 2 || padRow > 7 || padCol < 0 || padCol >= padCols {
		return 0, 0, false
	}
	fromTop := 7 - padRow
	row = fromTop / 2
	step = padCol
	if fromTop%2 == 1 {
		step += padCols
	}
	return row, step, true
}
