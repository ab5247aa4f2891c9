package sequencer

// Kit maps the three grid rows to MIDI notes
type Kit struct {
	Name   string
	Labels [Rows]string
	Notes  [Rows]uint8
}

var rowLabels = [Rows]string{"Kick", "Snare", "Hi-hat"}

// Kits contains the supported drum machine mappings for kick, snare and closed hat
var Kits = map[string]Kit{
	"gm": {
		Name:   "General MIDI",
		Labels: rowLabels,
		Notes:  [Rows]uint8{36, 38, 42},
	},
	"rd8": {
		Name:   "Behringer RD-8",
		Labels: rowLabels,
		Notes:  [Rows]uint8{36, 40, 42}, // RD-8 snare sits on 40
	},
	"tr8s": {
		Name:   "Roland TR-8S",
		Labels: rowLabels,
		Notes:  [Rows]uint8{36, 38, 42},
	},
	"er1": {
		Name:   "Korg ER-1",
		Labels: [Rows]string{"Perc 1", "Perc 2", "Hi-hat"},
		Notes:  [Rows]uint8{36, 38, 42},
	},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) Kit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// WithNotes returns a copy of the kit with non-zero overrides applied per row
func (k Kit) WithNotes(notes [Rows]uint8) Kit {
	for r, n := range notes {
		if n > 0 && n <= 127 {
			k.Notes[r] = n
		}
	}
	return k
}
