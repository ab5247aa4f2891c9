package sequencer

import (
	"context"
	"image"
	"time"

	"vision-drum/camera"
	"vision-drum/debug"
	"vision-drum/midi"
	"vision-drum/tracker"
)

// Command is a user action read from the display
type Command int

const (
	CommandNone Command = iota
	CommandToggle
	CommandExit
	CommandTempoUp
	CommandTempoDown
	CommandClear
	CommandSave
)

// Tempo limits and step for the tempo keys
const (
	MinTempo  = 20
	MaxTempo  = 300
	TempoStep = 5
)

// FrameSource blocks until the next camera frame
type FrameSource interface {
	Read() (camera.Frame, error)
}

// HandDetector finds hands in a frame
type HandDetector interface {
	Detect(ctx context.Context, img *image.RGBA) ([]tracker.Hand, error)
}

// Display shows a frame with the sequencer drawn over it and reports key presses
type Display interface {
	Show(frame *image.RGBA, snap Snapshot) error
	Poll() Command
}

// NoteSender plays drum hits
type NoteSender interface {
	Send(evt midi.Event) error
}

// Options configures a Loop
type Options struct {
	Tempo    int
	Kit      Kit
	Velocity uint8
	Channel  uint8 // 0-based

	// ToggleGrace lets a toggle use the last fingertip when the hand was
	// lost for at most this long. Zero only accepts a hand seen this frame.
	ToggleGrace time.Duration

	// PatternDir receives saved patterns; empty disables saving
	PatternDir string
}

// DefaultOptions returns 120 BPM, General MIDI kit, velocity 100 on channel 1
func DefaultOptions() Options {
	return Options{
		Tempo:       120,
		Kit:         GetKit(DefaultKit),
		Velocity:    100,
		ToggleGrace: 250 * time.Millisecond,
	}
}

// PadPress is a pad press on a grid controller, in pad coordinates
type PadPress struct {
	Row, Col int
}

// Loop owns all sequencer state and runs the capture → timing → trigger →
// tracking → draw cycle on one goroutine.
type Loop struct {
	opts     Options
	source   FrameSource
	detector HandDetector
	display  Display
	out      NoteSender
	mirror   *midi.Mirror
	now      func() time.Time

	grid     Grid
	playhead Playhead
	trigger  *Trigger
	tempo    int
	lastTime time.Time

	hands         []tracker.Hand
	fingertip     image.Point
	hasFingertip  bool
	fingertipSeen time.Time

	// presses from controller goroutines, applied between frames
	pads chan PadPress
}

// NewLoop wires a loop to its collaborators
func NewLoop(opts Options, source FrameSource, detector HandDetector, display Display, out NoteSender) *Loop {
	if detector == nil {
		detector = tracker.None{}
	}
	return &Loop{
		opts:     opts,
		source:   source,
		detector: detector,
		display:  display,
		out:      out,
		mirror:   midi.NewMirror(),
		now:      time.Now,
		trigger:  NewTrigger(opts.Kit, opts.Velocity, opts.Channel),
		tempo:    clamp(opts.Tempo, MinTempo, MaxTempo),
		pads:     make(chan PadPress, 32),
	}
}

// SetClock replaces the wall clock (tests)
func (l *Loop) SetClock(now func() time.Time) {
	l.now = now
}

// SetController attaches a grid controller (nil detaches). Safe to call
// from any goroutine.
func (l *Loop) SetController(c midi.Controller) {
	l.mirror.SetController(c)
}

// Grid returns a copy of the grid
func (l *Loop) Grid() Grid {
	return l.grid
}

// SetGrid replaces the grid
func (l *Loop) SetGrid(g Grid) {
	l.grid = g
}

// Restore loads a saved pattern's grid and tempo. A pattern that does not
// decode leaves the loop unchanged.
func (l *Loop) Restore(p Pattern) error {
	g, err := p.Grid()
	if err != nil {
		return err
	}
	l.grid = g
	if p.Tempo > 0 {
		l.SetTempo(p.Tempo)
	}
	return nil
}

// Tempo returns the current BPM
func (l *Loop) Tempo() int {
	return l.tempo
}

// HandlePad queues a controller pad press. Safe to call from any goroutine;
// it is applied on the next frame.
func (l *Loop) HandlePad(row, col int) {
	select {
	case l.pads <- PadPress{Row: row, Col: col}:
	default:
		debug.Log("loop", "pad queue full, dropped %d,%d", row, col)
	}
}

// Run processes frames until the camera stops, the user exits or ctx is
// done. A camera read failure ends the loop without an error.
func (l *Loop) Run(ctx context.Context) error {
	l.lastTime = l.now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := l.source.Read()
		if err != nil {
			debug.Log("loop", "camera read failed, stopping: %v", err)
			return nil
		}

		if l.Step(ctx, frame) {
			debug.Log("loop", "exit requested")
			return nil
		}
	}
}

// Step runs one iteration for an already captured frame and reports whether
// the user asked to exit.
func (l *Loop) Step(ctx context.Context, frame camera.Frame) bool {
	img := frame.Image
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cellW, cellH := w/Steps, h/Rows

	// 1. timing
	now := l.now()
	dt := now.Sub(l.lastTime).Seconds()
	l.lastTime = now
	l.playhead.Advance(float64(l.tempo), cellW, w, dt)
	col := l.playhead.Column(cellW)

	// 2. trigger
	for _, evt := range l.trigger.Check(col, &l.grid) {
		if err := l.out.Send(evt); err != nil {
			debug.LogEvery(100, "midi", "send note %d: %v", evt.Note, err)
		}
	}

	// 3. hand tracking and input
	hands, err := l.detector.Detect(ctx, img)
	if err != nil {
		debug.LogEvery(30, "tracker", "frame %d: %v", frame.Seq, err)
		hands = nil
	}
	l.hands = hands
	detected := len(hands) > 0
	if detected {
		l.fingertip = tracker.Fingertip(hands[0], w, h)
		l.hasFingertip = true
		l.fingertipSeen = now
	}

	exit := l.apply(l.display.Poll(), detected, now, cellW, cellH)
	l.drainPads()

	// 4. draw
	snap := l.snapshot(frame, col, cellW, cellH)
	if err := l.display.Show(img, snap); err != nil {
		debug.LogEvery(100, "display", "show frame %d: %v", frame.Seq, err)
	}
	if err := l.mirror.Flush(RenderLEDs(snap)); err != nil {
		debug.LogEvery(100, "led", "flush: %v", err)
	}

	return exit
}

// apply executes a display command and reports whether it was an exit
func (l *Loop) apply(cmd Command, detected bool, now time.Time, cellW, cellH int) bool {
	switch cmd {
	case CommandExit:
		return true
	case CommandToggle:
		l.toggleAtFingertip(detected, now, cellW, cellH)
	case CommandTempoUp:
		l.SetTempo(l.tempo + TempoStep)
	case CommandTempoDown:
		l.SetTempo(l.tempo - TempoStep)
	case CommandClear:
		l.grid.Clear()
	case CommandSave:
		l.save(now)
	}
	return false
}

func (l *Loop) toggleAtFingertip(detected bool, now time.Time, cellW, cellH int) {
	if !detected {
		if !l.hasFingertip || l.opts.ToggleGrace <= 0 || now.Sub(l.fingertipSeen) > l.opts.ToggleGrace {
			debug.Log("loop", "toggle ignored: no hand")
			return
		}
	}
	row, col, ok := CellAt(l.fingertip.X, l.fingertip.Y, cellW, cellH)
	if !ok {
		return
	}
	on := l.grid.Toggle(row, col)
	debug.Log("loop", "toggle %s step %d -> %v", l.opts.Kit.Labels[row], col+1, on)
}

// drainPads applies queued controller presses without blocking
func (l *Loop) drainPads() {
	for {
		select {
		case p := <-l.pads:
			l.applyPad(p)
		default:
			return
		}
	}
}

func (l *Loop) applyPad(p PadPress) {
	if p.Row == midi.TopRow {
		switch p.Col {
		case midi.TempoDownCol:
			l.SetTempo(l.tempo - TempoStep)
		case midi.TempoUpCol:
			l.SetTempo(l.tempo + TempoStep)
		case midi.ClearCol:
			l.grid.Clear()
		case midi.SaveCol:
			l.save(l.now())
		}
		return
	}
	if row, col, ok := midi.CellForPad(p.Row, p.Col); ok {
		on := l.grid.Toggle(row, col)
		debug.Log("loop", "pad toggle %s step %d -> %v", l.opts.Kit.Labels[row], col+1, on)
	}
}

func (l *Loop) save(now time.Time) {
	if l.opts.PatternDir == "" {
		return
	}
	name, err := SavePattern(l.opts.PatternDir, NewPattern(l.grid, l.tempo, l.opts.Kit.Name), now)
	if err != nil {
		debug.Log("loop", "save pattern: %v", err)
		return
	}
	debug.Log("loop", "saved pattern %s", name)
}

// SetTempo sets the BPM, clamped to MinTempo..MaxTempo
func (l *Loop) SetTempo(bpm int) {
	l.tempo = clamp(bpm, MinTempo, MaxTempo)
}

func (l *Loop) snapshot(frame camera.Frame, col, cellW, cellH int) Snapshot {
	b := frame.Image.Bounds()
	return Snapshot{
		Seq:          frame.Seq,
		Grid:         l.grid,
		Column:       col,
		PlayheadX:    l.playhead.X,
		Tempo:        l.tempo,
		Labels:       l.opts.Kit.Labels,
		Width:        b.Dx(),
		Height:       b.Dy(),
		CellW:        cellW,
		CellH:        cellH,
		Fingertip:    l.fingertip,
		HasFingertip: l.hasFingertip,
		Hands:        l.hands,
	}
}
