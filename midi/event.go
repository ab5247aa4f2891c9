package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	Trigger uint8 = 0xF0 // note on immediately followed by note off (drum hit)
)

// Event is a note the sequencer wants played
type Event struct {
	Type     uint8 // NoteOn, NoteOff, Trigger
	Channel  uint8 // 0-based MIDI channel
	Note     uint8
	Velocity uint8
}
