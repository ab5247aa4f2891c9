package sequencer

import "vision-drum/midi"

// Trigger fires the notes of a column once, when the playhead enters it.
type Trigger struct {
	kit      Kit
	velocity uint8
	channel  uint8
	last     int // last column fired, -1 before the first frame
}

// NewTrigger creates a trigger for the given kit. channel is 0-based.
func NewTrigger(kit Kit, velocity, channel uint8) *Trigger {
	return &Trigger{
		kit:      kit,
		velocity: velocity,
		channel:  channel,
		last:     -1,
	}
}

// Check returns one Trigger event per active row when col differs from the
// previously seen column, and nothing while the playhead stays in one column.
// Columns skipped over by a slow frame are not fired.
func (t *Trigger) Check(col int, g *Grid) []midi.Event {
	if col == t.last {
		return nil
	}
	t.last = col

	var events []midi.Event
	for r := 0; r < Rows; r++ {
		if g.Active(r, col) {
			events = append(events, midi.Event{
				Type:     midi.Trigger,
				Channel:  t.channel,
				Note:     t.kit.Notes[r],
				Velocity: t.velocity,
			})
		}
	}
	return events
}

// Reset forgets the last column so the next Check fires
func (t *Trigger) Reset() {
	t.last = -1
}

// Last returns the last column seen (-1 if none)
func (t *Trigger) Last() int {
	return t.last
}
