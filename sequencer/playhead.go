package sequencer

import "math"

// Playhead is the moving marker, stored as a pixel offset into the frame.
type Playhead struct {
	X float64
}

// PixelsPerSecond is how far the playhead travels each second:
// beats per second * 4 steps per beat * width of a step.
func PixelsPerSecond(bpm float64, cellW int) float64 {
	return bpm / 60 * 4 * float64(cellW)
}

// Advance moves the playhead by dt seconds and wraps it at the frame width.
// There is no correction for frame jitter: a slow frame moves the playhead further.
func (p *Playhead) Advance(bpm float64, cellW, frameW int, dt float64) {
	if cellW <= 0 || frameW <= 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}
	p.X = math.Mod(p.X+PixelsPerSecond(bpm, cellW)*dt, float64(frameW))
	if p.X < 0 {
		p.X += float64(frameW)
	}
}

// Column returns the step under the playhead. When the frame width is not a
// multiple of Steps the strip past the last full cell belongs to the last step.
func (p *Playhead) Column(cellW int) int {
	if cellW <= 0 {
		return 0
	}
	return clamp(int(p.X/float64(cellW)), 0, Steps-1)
}
