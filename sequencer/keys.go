package sequencer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Bindings names the key for each command. Names are single characters or
// one of esc, space, enter, tab.
type Bindings struct {
	Toggle    string
	Exit      string
	TempoUp   string
	TempoDown string
	Clear     string
	Save      string
}

// DefaultBindings are p to toggle, esc to quit, +/- for tempo, c to clear
// and s to save
func DefaultBindings() Bindings {
	return Bindings{
		Toggle:    "p",
		Exit:      "esc",
		TempoUp:   "+",
		TempoDown: "-",
		Clear:     "c",
		Save:      "s",
	}
}

var namedKeys = map[string]int{
	"esc":   27,
	"space": ' ',
	"enter": 13,
	"tab":   9,
}

// KeyCode converts a key name to the code a window toolkit reports
func KeyCode(name string) (int, error) {
	if code, ok := namedKeys[strings.ToLower(name)]; ok {
		return code, nil
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || size != len(name) || r > 0x7f {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return int(r), nil
}

// Keymap resolves key presses to commands, by code or by name
type Keymap struct {
	byCode map[int]Command
	byName map[string]Command
}

// NewKeymap validates the bindings. Two commands on one key is an error.
func NewKeymap(b Bindings) (*Keymap, error) {
	km := &Keymap{byCode: make(map[int]Command), byName: make(map[string]Command)}
	for _, kb := range []struct {
		name string
		cmd  Command
	}{
		{b.Toggle, CommandToggle},
		{b.Exit, CommandExit},
		{b.TempoUp, CommandTempoUp},
		{b.TempoDown, CommandTempoDown},
		{b.Clear, CommandClear},
		{b.Save, CommandSave},
	} {
		if kb.name == "" {
			continue
		}
		code, err := KeyCode(kb.name)
		if err != nil {
			return nil, err
		}
		if _, dup := km.byCode[code]; dup {
			return nil, fmt.Errorf("key %q bound twice", kb.name)
		}
		km.byCode[code] = kb.cmd
		km.byName[nameForCode(code)] = kb.cmd
	}
	return km, nil
}

func nameForCode(code int) string {
	for name, c := range namedKeys {
		if c == code {
			return name
		}
	}
	return string(rune(code))
}

// ForCode maps a key code (only the low byte is used) to a command
func (k *Keymap) ForCode(code int) Command {
	if code < 0 {
		return CommandNone
	}
	return k.byCode[code&0xff]
}

// ForName maps a key name such as "p" or "esc" to a command. Single
// characters match case-sensitively, like ForCode.
func (k *Keymap) ForName(name string) Command {
	if name == " " {
		name = "space"
	}
	if utf8.RuneCountInString(name) > 1 {
		name = strings.ToLower(name)
	}
	return k.byName[name]
}
