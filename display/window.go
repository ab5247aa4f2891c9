// Package display shows annotated frames in a native window.
package display

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-drum/debug"
	"vision-drum/overlay"
	"vision-drum/sequencer"
)

// Window is an OpenCV highgui window. All calls must come from the
// goroutine that created it.
type Window struct {
	win      *gocv.Window
	renderer *overlay.Renderer
	keys     *sequencer.Keymap
	mat      gocv.Mat
	shown    bool
}

// NewWindow opens a resizable window with the given title
func NewWindow(title string, keys *sequencer.Keymap) (*Window, error) {
	r, err := overlay.NewRenderer()
	if err != nil {
		return nil, err
	}
	win := gocv.NewWindow(title)
	debug.Log("display", "window %q open", title)
	return &Window{win: win, renderer: r, keys: keys, mat: gocv.NewMat()}, nil
}

// Show draws the snapshot over the frame and displays it
func (w *Window) Show(frame *image.RGBA, snap sequencer.Snapshot) error {
	w.renderer.Render(frame, snap)

	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return fmt.Errorf("convert frame: %w", err)
	}
	w.mat.Close()
	w.mat = mat

	w.win.IMShow(w.mat)
	w.shown = true
	return nil
}

// Poll waits 1ms for a key. Closing the window counts as exit.
func (w *Window) Poll() sequencer.Command {
	key := w.win.WaitKey(1)
	if w.shown && !w.win.IsOpen() {
		return sequencer.CommandExit
	}
	return w.keys.ForCode(key)
}

// Close destroys the window
func (w *Window) Close() error {
	w.mat.Close()
	return w.win.Close()
}
