package tui

import (
	"image"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"vision-drum/debug"
	"vision-drum/sequencer"
	"vision-drum/theme"
)

// Display runs the terminal UI alongside the loop. Frames are not shown,
// only the grid state.
type Display struct {
	prog *tea.Program
	cmds chan sequencer.Command
	done chan struct{}

	closeOnce sync.Once
	err       error
}

// NewDisplay starts the bubbletea program in the background
func NewDisplay(title string, th *theme.Theme, b sequencer.Bindings, keys *sequencer.Keymap, opts ...tea.ProgramOption) *Display {
	d := &Display{
		cmds: make(chan sequencer.Command, 16),
		done: make(chan struct{}),
	}
	m := NewModel(title, th, b, keys, d.cmds)
	d.prog = tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	go func() {
		defer close(d.done)
		if _, err := d.prog.Run(); err != nil {
			debug.Log("tui", "program exited: %v", err)
			d.err = err
		}
	}()
	return d
}

// Show hands the snapshot to the UI; the frame itself is ignored
func (d *Display) Show(frame *image.RGBA, snap sequencer.Snapshot) error {
	select {
	case <-d.done:
		return d.err
	default:
	}
	d.prog.Send(SnapshotMsg(snap))
	return nil
}

// Poll returns the next queued key command without blocking. Once the
// program has exited every poll is an exit.
func (d *Display) Poll() sequencer.Command {
	select {
	case cmd := <-d.cmds:
		return cmd
	default:
	}
	select {
	case <-d.done:
		return sequencer.CommandExit
	default:
		return sequencer.CommandNone
	}
}

// SetController shows or clears the connected controller name
func (d *Display) SetController(name string) {
	d.prog.Send(ControllerMsg{Name: name})
}

// Close stops the program and restores the terminal
func (d *Display) Close() error {
	d.closeOnce.Do(func() {
		d.prog.Quit()
		<-d.done
	})
	return d.err
}
