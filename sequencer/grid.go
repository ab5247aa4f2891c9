package sequencer

// Grid dimensions: one row per instrument, one column per 16th-note step.
const (
	Rows  = 3
	Steps = 16
)

// Grid holds the on/off state of every cell.
type Grid [Rows][Steps]bool

func inGrid(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Steps
}

// Toggle flips a cell and returns its new value. Out-of-range cells are ignored.
func (g *Grid) Toggle(row, col int) bool {
	if !inGrid(row, col) {
		return false
	}
	g[row][col] = !g[row][col]
	return g[row][col]
}

// Active reports whether a cell is on
func (g *Grid) Active(row, col int) bool {
	if !inGrid(row, col) {
		return false
	}
	return g[row][col]
}

// Clear turns every cell off
func (g *Grid) Clear() {
	*g = Grid{}
}

// Count returns the number of active cells
func (g *Grid) Count() int {
	n := 0
	for r := range g {
		for c := range g[r] {
			if g[r][c] {
				n++
			}
		}
	}
	return n
}

// CellAt maps a pixel position to the cell under it. Positions past the last
// row or column land on the last one, positions before the first land on the first.
func CellAt(x, y, cellW, cellH int) (row, col int, ok bool) {
	if cellW <= 0 || cellH <= 0 {
		return 0, 0, false
	}
	col = clamp(x/cellW, 0, Steps-1)
	row = clamp(y/cellH, 0, Rows-1)
	return row, col, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
