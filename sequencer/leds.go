package sequencer

import "vision-drum/midi"

// Pad colours per row (kick, snare, hi-hat) plus controls
var (
	rowOn = [Rows][3]uint8{
		{234, 73, 116},  // pink
		{253, 157, 110}, // orange
		{120, 200, 255}, // blue
	}
	rowOff = [Rows][3]uint8{
		{50, 15, 30},
		{60, 35, 20},
		{20, 40, 60},
	}
	playheadColor = [3]uint8{255, 255, 255}
	fingerColor   = [3]uint8{255, 220, 0}
	tempoColor    = [3]uint8{148, 18, 126}
	clearColor    = [3]uint8{255, 0, 0}
	saveColor     = [3]uint8{0, 255, 0}
)

// RenderLEDs draws a snapshot onto the pad grid. The playhead column
// pulses white, the fingertip cell is yellow.
func RenderLEDs(s Snapshot) []midi.LEDUpdate {
	leds := make([]midi.LEDUpdate, 0, Rows*Steps+4)

	fRow, fCol, hasFinger := s.FingertipCell()
	for r := 0; r < Rows; r++ {
		for c := 0; c < Steps; c++ {
			color := rowOff[r]
			channel := midi.ChannelStatic
			switch {
			case c == s.Column:
				color = playheadColor
				channel = midi.ChannelPulse
			case hasFinger && r == fRow && c == fCol:
				color = fingerColor
			case s.Grid[r][c]:
				color = rowOn[r]
			}
			padRow, padCol := midi.PadForCell(r, c)
			leds = append(leds, midi.LEDUpdate{Row: padRow, Col: padCol, Color: color, Channel: channel})
		}
	}

	leds = append(leds,
		midi.LEDUpdate{Row: midi.TopRow, Col: midi.TempoDownCol, Color: tempoColor},
		midi.LEDUpdate{Row: midi.TopRow, Col: midi.TempoUpCol, Color: tempoColor},
		midi.LEDUpdate{Row: midi.TopRow, Col: midi.SaveCol, Color: saveColor},
		midi.LEDUpdate{Row: midi.TopRow, Col: midi.ClearCol, Color: clearColor},
	)
	return leds
}
