package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vision-drum/sequencer"
	"vision-drum/theme"
	"vision-drum/widgets"
)

// SnapshotMsg delivers a new frame's state to the model
type SnapshotMsg sequencer.Snapshot

// ControllerMsg reports a grid controller connecting (Name set) or going away
type ControllerMsg struct {
	Name string
}

type Model struct {
	Theme    *theme.Theme
	keys     *sequencer.Keymap
	bindings sequencer.Bindings
	title    string
	cmds     chan<- sequencer.Command

	snap       sequencer.Snapshot
	hasSnap    bool
	controller string
	quitting   bool
}

// NewModel builds a model that forwards key commands to cmds
func NewModel(title string, th *theme.Theme, b sequencer.Bindings, keys *sequencer.Keymap, cmds chan<- sequencer.Command) Model {
	return Model{
		Theme:    th,
		keys:     keys,
		bindings: b,
		title:    title,
		cmds:     cmds,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.keys.ForName(msg.String())
		if msg.String() == "ctrl+c" {
			cmd = sequencer.CommandExit
		}
		if cmd == sequencer.CommandNone {
			return m, nil
		}
		m.send(cmd)
		if cmd == sequencer.CommandExit {
			m.quitting = true
			return m, tea.Quit
		}

	case SnapshotMsg:
		m.snap = sequencer.Snapshot(msg)
		m.hasSnap = true

	case ControllerMsg:
		m.controller = msg.Name
	}

	return m, nil
}

// send never blocks the UI; the loop drains one command per frame
func (m Model) send(cmd sequencer.Command) {
	select {
	case m.cmds <- cmd:
	default:
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	status := ""
	if m.controller != "" {
		status = "  LP:" + m.controller
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %3dbpm  step:%02d%s", m.title, m.snap.Tempo, m.snap.Column+1, status))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	if !m.hasSnap {
		out.WriteString(dimStyle.Render("waiting for camera..."))
		out.WriteString("\n")
	} else {
		out.WriteString(m.gridView())
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.handStatus()))
		out.WriteString("\n")
		if m.controller != "" {
			out.WriteString("\n")
			out.WriteString(widgets.PadPreview(sequencer.RenderLEDs(m.snap)))
			out.WriteString("\n")
		}
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{{Keys: m.keyHelp()}})))
	return out.String()
}

func (m Model) gridView() string {
	sym := m.Theme.Symbols
	playStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
	fingerStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	fRow, fCol, hasFinger := m.snap.FingertipCell()

	var lines []string
	for r := 0; r < sequencer.Rows; r++ {
		rowStyle := lipgloss.NewStyle().Foreground(m.Theme.Row(r))

		var line strings.Builder
		line.WriteString(rowStyle.Render(fmt.Sprintf("%-7s", m.snap.Labels[r])))
		for c := 0; c < sequencer.Steps; c++ {
			if c%4 == 0 {
				line.WriteString(" ")
			}
			on := m.snap.Grid[r][c]
			switch {
			case hasFinger && r == fRow && c == fCol:
				ch := sym.FingerEmpty
				if on {
					ch = sym.FingerActive
				}
				line.WriteString(fingerStyle.Render(string(ch)))
			case c == m.snap.Column:
				ch := sym.StepPlayhead
				if on {
					ch = sym.StepHit
				}
				line.WriteString(playStyle.Render(string(ch)))
			case on:
				line.WriteString(rowStyle.Render(string(sym.StepActive)))
			default:
				line.WriteString(dimStyle.Render(string(sym.StepEmpty)))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) handStatus() string {
	if len(m.snap.Hands) == 0 {
		if m.snap.HasFingertip {
			return fmt.Sprintf("hand: lost  last fingertip %d,%d", m.snap.Fingertip.X, m.snap.Fingertip.Y)
		}
		return "hand: none"
	}
	row, col, _ := m.snap.FingertipCell()
	return fmt.Sprintf("hand: %s  fingertip %d,%d  %s step %d",
		m.snap.Hands[0].Handedness, m.snap.Fingertip.X, m.snap.Fingertip.Y, m.snap.Labels[row], col+1)
}

func (m Model) keyHelp() []widgets.KeyBinding {
	return []widgets.KeyBinding{
		{Key: m.bindings.Toggle, Desc: "toggle step under fingertip"},
		{Key: m.bindings.TempoUp + "/" + m.bindings.TempoDown, Desc: "tempo"},
		{Key: m.bindings.Clear, Desc: "clear pattern"},
		{Key: m.bindings.Save, Desc: "save pattern"},
		{Key: m.bindings.Exit, Desc: "quit"},
	}
}
