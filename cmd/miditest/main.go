package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"vision-drum/midi"
	"vision-drum/midi/rtmidi"
	"vision-drum/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "beat":
		beat(os.Args[2:])
	case "pads":
		pads()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  beat    - Play one bar through the sequencer output (-port, -bpm, -kit)")
	fmt.Println("  pads    - Print Launchpad pad presses as grid cells")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

// demoGrid is four-on-the-floor with backbeat snare and eighth hats
func demoGrid() sequencer.Grid {
	var g sequencer.Grid
	for step := 0; step < sequencer.Steps; step++ {
		if step%4 == 0 {
			g.Toggle(0, step)
		}
		if step%8 == 4 {
			g.Toggle(1, step)
		}
		if step%2 == 0 {
			g.Toggle(2, step)
		}
	}
	return g
}

func beat(args []string) {
	fs := flag.NewFlagSet("beat", flag.ExitOnError)
	virtual := fs.String("virtual", "Vision Drum", "virtual port name (empty to skip)")
	port := fs.String("port", "", "fallback output port (substring)")
	bpm := fs.Int("bpm", 120, "tempo")
	kitName := fs.String("kit", sequencer.DefaultKit, "drum kit")
	fs.Parse(args)

	out, err := rtmidi.OpenOutput(rtmidi.OutputConfig{VirtualPort: *virtual, FallbackPort: *port})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	fmt.Printf("Output: %s (virtual=%v)\n", out.Name(), out.Virtual())

	if out.Virtual() {
		// give the DAW a moment to see the new port
		time.Sleep(time.Second)
	}

	g := demoGrid()
	kit := sequencer.GetKit(*kitName)
	trig := sequencer.NewTrigger(kit, 100, 0)
	stepDur := time.Duration(float64(time.Minute) / float64(*bpm) / 4)

	for step := 0; step < sequencer.Steps; step++ {
		evts := trig.Check(step, &g)
		fmt.Printf("step %2d:", step+1)
		for _, e := range evts {
			fmt.Printf(" %d", e.Note)
			if err := out.Send(e); err != nil {
				fmt.Printf(" (error: %v)", err)
			}
		}
		fmt.Println()
		time.Sleep(stepDur)
	}
	fmt.Println("Done!")
}

func pads() {
	fmt.Println("Waiting for a Launchpad. Ctrl+C to exit.")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dm := midi.NewDeviceManager()
	go dm.Run(ctx)

	for ev := range dm.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] connected %s\n", time.Now().Format("15:04:05"), ev.ID)
			go func(c midi.Controller) {
				for p := range c.PadEvents() {
					if row, step, ok := midi.CellForPad(p.Row, p.Col); ok {
						fmt.Printf("  pad %d,%d -> row %d step %d\n", p.Row, p.Col, row, step+1)
					} else {
						fmt.Printf("  pad %d,%d (control)\n", p.Row, p.Col)
					}
				}
			}(ev.Controller)
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] disconnected %s\n", time.Now().Format("15:04:05"), ev.ID)
		}
	}
}
