package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"vision-drum/camera"
	"vision-drum/camera/capture"
	"vision-drum/config"
	"vision-drum/debug"
	"vision-drum/display"
	"vision-drum/midi"
	"vision-drum/midi/rtmidi"
	"vision-drum/sequencer"
	"vision-drum/theme"
	"vision-drum/tracker"
	"vision-drum/tui"
)

func init() {
	// highgui windows must stay on the main thread
	runtime.LockOSThread()
}

// closableDisplay is a loop display that owns a window or terminal
type closableDisplay interface {
	sequencer.Display
	Close() error
}

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/vision-drum/config.yaml)")
	debugFlag := flag.Bool("debug", false, "write a debug log to ~/.config/vision-drum/debug.log")
	displayMode := flag.String("display", "", "window or tui (overrides the config)")
	flag.Parse()

	if err := run(*configPath, *debugFlag, *displayMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debugFlag bool, displayMode string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if displayMode != "" {
		cfg.Display.Mode = displayMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if debugFlag || cfg.Debug {
		if err := debug.Enable(""); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		}
		defer debug.Disable()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	keys, err := sequencer.NewKeymap(bindings(cfg.Keys))
	if err != nil {
		return fmt.Errorf("keys: %w", err)
	}

	if _, ok := sequencer.Kits[cfg.Kit]; !ok {
		debug.Log("main", "unknown kit %q, using %s", cfg.Kit, sequencer.DefaultKit)
	}
	kit := sequencer.GetKit(cfg.Kit).WithNotes(cfg.Notes())

	src, err := capture.Open(camera.Config{
		Backend: cfg.Camera.Backend,
		Device:  cfg.Camera.Device,
		Path:    cfg.Camera.Path,
		Width:   cfg.Camera.Width,
		Height:  cfg.Camera.Height,
		Mirror:  cfg.Camera.Mirror,
	})
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	defer src.Close()

	var detector tracker.Detector = tracker.None{}
	if cfg.Tracker.Command != "" {
		w, err := tracker.StartWorker(ctx, tracker.Config{
			Command:                cfg.Tracker.Command,
			Args:                   cfg.Tracker.Args,
			MaxHands:               cfg.Tracker.MaxHands,
			MinDetectionConfidence: cfg.Tracker.MinDetectionConfidence,
			MinTrackingConfidence:  cfg.Tracker.MinTrackingConfidence,
			Timeout:                cfg.Tracker.Timeout,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: hand tracking disabled: %v\n", err)
		} else {
			detector = w
		}
	}
	defer detector.Close()

	// No port at all still runs the sequencer; notes are dropped.
	out, err := rtmidi.OpenOutput(rtmidi.OutputConfig{
		VirtualPort:  cfg.MIDI.VirtualPort,
		FallbackPort: cfg.MIDI.FallbackPort,
	})
	if err != nil {
		debug.Log("main", "midi output: %v", err)
	}
	defer out.Close()

	disp, tuiDisp, err := openDisplay(cfg, keys)
	if err != nil {
		return err
	}
	defer disp.Close()

	patternDir := cfg.Patterns.Dir
	if patternDir == "" {
		if dir, err := sequencer.PatternsDir(); err == nil {
			patternDir = dir
		}
	}

	loop := sequencer.NewLoop(sequencer.Options{
		Tempo:       cfg.Tempo,
		Kit:         kit,
		Velocity:    uint8(cfg.MIDI.Velocity),
		Channel:     uint8(cfg.MIDI.Channel - 1),
		ToggleGrace: cfg.ToggleGrace,
		PatternDir:  patternDir,
	}, src, detector, disp, out)

	if cfg.Patterns.LoadLatest {
		loadLatest(loop, patternDir)
	}

	if cfg.Launchpad.Enabled {
		go watchControllers(ctx, loop, tuiDisp)
	}

	debug.Log("main", "running tempo=%d kit=%s output=%q display=%s", cfg.Tempo, kit.Name, out.Name(), cfg.Display.Mode)
	return loop.Run(ctx)
}

func openDisplay(cfg *config.Config, keys *sequencer.Keymap) (closableDisplay, *tui.Display, error) {
	if cfg.Display.Mode == config.DisplayTUI {
		var palette *theme.Palette
		if cfg.Display.Palette != "" {
			p, err := theme.LoadGPL(cfg.Display.Palette)
			if err != nil {
				return nil, nil, err
			}
			palette = p
		}
		d := tui.NewDisplay(cfg.Display.Title, theme.New(palette), bindings(cfg.Keys), keys)
		return d, d, nil
	}

	w, err := display.NewWindow(cfg.Display.Title, keys)
	if err != nil {
		return nil, nil, err
	}
	return w, nil, nil
}

// watchControllers attaches Launchpads to the loop as they come and go
func watchControllers(ctx context.Context, loop *sequencer.Loop, tuiDisp *tui.Display) {
	dm := midi.NewDeviceManager()
	go dm.Run(ctx)

	var current string
	for ev := range dm.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			current = ev.ID
			loop.SetController(ev.Controller)
			if tuiDisp != nil {
				tuiDisp.SetController(ev.ID)
			}
			go func(c midi.Controller) {
				for pad := range c.PadEvents() {
					loop.HandlePad(pad.Row, pad.Col)
				}
			}(ev.Controller)

		case midi.DeviceDisconnected:
			if ev.ID != current {
				continue
			}
			current = ""
			loop.SetController(nil)
			if tuiDisp != nil {
				tuiDisp.SetController("")
			}
		}
	}
}

func loadLatest(loop *sequencer.Loop, dir string) {
	p, ok, err := sequencer.LatestPattern(dir)
	if err != nil {
		debug.Log("main", "load pattern: %v", err)
		return
	}
	if !ok {
		return
	}
	if err := loop.Restore(p); err != nil {
		debug.Log("main", "skipping latest pattern: %v", err)
		return
	}
	g := loop.Grid()
	debug.Log("main", "loaded pattern: %d steps at %d bpm", g.Count(), loop.Tempo())
}

func bindings(k config.KeysConfig) sequencer.Bindings {
	return sequencer.Bindings{
		Toggle:    k.Toggle,
		Exit:      k.Exit,
		TempoUp:   k.TempoUp,
		TempoDown: k.TempoDown,
		Clear:     k.Clear,
		Save:      k.Save,
	}
}
