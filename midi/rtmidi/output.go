// Package rtmidi opens MIDI ports through the RtMidi driver. Importing it
// registers the driver that midi.DeviceManager scans.
package rtmidi

import (
	"errors"
	"fmt"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"vision-drum/debug"
	"vision-drum/midi"
)

// ErrNoPorts is returned when neither the virtual port nor any hardware port can be opened
var ErrNoPorts = errors.New("midi: no output port available")

// OutputConfig names the ports to try, in order
type OutputConfig struct {
	VirtualPort  string // created by us; DAWs see it as an input
	FallbackPort string // substring of an existing port name; empty means the first port
}

// Output sends drum hits to one MIDI port
type Output struct {
	name    string
	virtual bool
	drv     *rtmididrv.Driver
	send    func(msg gomidi.Message) error
}

// OpenOutput creates the virtual port, and when the platform cannot (Windows
// without a loopback driver) falls back to an existing port. The fallback is
// silent apart from the debug log.
func OpenOutput(cfg OutputConfig) (*Output, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	if cfg.VirtualPort != "" {
		out, err := drv.OpenVirtualOut(cfg.VirtualPort)
		if err == nil {
			var o *Output
			if o, err = openOutput(drv, out, cfg.VirtualPort, true); err == nil {
				return o, nil
			}
		}
		debug.Log("midi", "virtual port %q unavailable (%v), falling back", cfg.VirtualPort, err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}

	idx := pickPort(names, cfg.FallbackPort)
	if idx < 0 {
		drv.Close()
		return nil, ErrNoPorts
	}
	o, err := openOutput(drv, outs[idx], names[idx], false)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return o, nil
}

func openOutput(drv *rtmididrv.Driver, port drivers.Out, name string, virtual bool) (*Output, error) {
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open port %q: %w", name, err)
	}
	debug.Log("midi", "output %q open (virtual=%v)", name, virtual)
	return &Output{name: name, virtual: virtual, drv: drv, send: send}, nil
}

// pickPort returns the index of the first port containing want
// (case-insensitive), or the first port when want is empty or unmatched.
func pickPort(names []string, want string) int {
	if len(names) == 0 {
		return -1
	}
	if want != "" {
		want = strings.ToLower(want)
		for i, n := range names {
			if strings.Contains(strings.ToLower(n), want) {
				return i
			}
		}
		debug.Log("midi", "fallback port %q not found, using %q", want, names[0])
	}
	return 0
}

// Name returns the port name in use
func (o *Output) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

// Virtual reports whether the port was created by us
func (o *Output) Virtual() bool {
	return o != nil && o.virtual
}

// Send plays an event. A nil Output drops everything, which is how the
// sequencer keeps running when no port could be opened.
func (o *Output) Send(evt midi.Event) error {
	if o == nil || o.send == nil {
		return nil
	}
	switch evt.Type {
	case midi.NoteOn:
		return o.send(gomidi.NoteOn(evt.Channel, evt.Note, evt.Velocity))
	case midi.NoteOff:
		return o.send(gomidi.NoteOff(evt.Channel, evt.Note))
	case midi.Trigger:
		if err := o.send(gomidi.NoteOn(evt.Channel, evt.Note, evt.Velocity)); err != nil {
			return err
		}
		return o.send(gomidi.NoteOff(evt.Channel, evt.Note))
	default:
		return fmt.Errorf("midi: unknown event type 0x%02X", evt.Type)
	}
}

// Close releases the port and the driver
func (o *Output) Close() error {
	if o == nil || o.drv == nil {
		return nil
	}
	return o.drv.Close()
}
