package tracker

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// fakeProcess plays the landmark worker on the other end of two pipes
type fakeProcess struct {
	configured chan request
	handle     func(req request) []response
}

func (f *fakeProcess) run(in io.Reader, out io.WriteCloser) {
	defer out.Close()
	dec := msgpack.NewDecoder(in)
	enc := msgpack.NewEncoder(out)
	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			return
		}
		if req.Type == "configure" {
			f.configured <- req
			continue
		}
		for _, resp := range f.handle(req) {
			if err := enc.Encode(&resp); err != nil {
				return
			}
		}
	}
}

func startFake(t *testing.T, cfg Config, handle func(req request) []response) (*Worker, *fakeProcess) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	f := &fakeProcess{configured: make(chan request, 1), handle: handle}
	go f.run(inR, outW)

	w, err := newWorker(cfg, inW, outR)
	if err != nil {
		t.Fatalf("newWorker: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, f
}

func testHand(tipX, tipY float64) handMessage {
	m := handMessage{Handedness: "Right", Score: 0.9}
	for i := 0; i < NumLandmarks; i++ {
		m.Landmarks = append(m.Landmarks, [3]float64{0.5, 0.5, 0})
	}
	m.Landmarks[IndexFingerTip] = [3]float64{tipX, tipY, -0.1}
	return m
}

func TestDetectReturnsHands(t *testing.T) {
	cfg := DefaultConfig()
	var gotPixels int
	w, f := startFake(t, cfg, func(req request) []response {
		gotPixels = len(req.Pixels)
		return []response{{ID: req.ID, Hands: []handMessage{testHand(0.25, 0.75)}}}
	})

	select {
	case c := <-f.configured:
		if c.MaxHands != 1 || c.MinDetectionConfidence != 0.7 || c.MinTrackingConfidence != 0.7 {
			t.Errorf("configure = %+v", c)
		}
	case <-time.After(time.Second):
		t.Fatal("worker was never configured")
	}

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	hands, err := w.Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if gotPixels != 64*48*3 {
		t.Errorf("worker got %d pixel bytes, want %d", gotPixels, 64*48*3)
	}
	if len(hands) != 1 {
		t.Fatalf("got %d hands, want 1", len(hands))
	}
	if hands[0].Handedness != "Right" {
		t.Errorf("handedness = %q", hands[0].Handedness)
	}
	if got := Fingertip(hands[0], 64, 48); got != (image.Point{X: 16, Y: 36}) {
		t.Errorf("fingertip = %v, want (16,36)", got)
	}
}

func TestDetectSkipsStaleResults(t *testing.T) {
	w, _ := startFake(t, DefaultConfig(), func(req request) []response {
		return []response{
			{ID: "earlier-request", Hands: []handMessage{testHand(0.9, 0.9)}},
			{ID: req.ID, Hands: []handMessage{testHand(0.1, 0.1)}},
		}
	})

	hands, err := w.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(hands) != 1 || hands[0].Landmarks[IndexFingerTip].X != 0.1 {
		t.Errorf("got %+v, want the hand answering this request", hands)
	}
	if w.stale.Load() != 1 {
		t.Errorf("stale = %d, want 1", w.stale.Load())
	}
}

func TestDetectDropsIncompleteHands(t *testing.T) {
	w, _ := startFake(t, DefaultConfig(), func(req request) []response {
		short := handMessage{Landmarks: [][3]float64{{0.1, 0.1, 0}}}
		return []response{{ID: req.ID, Hands: []handMessage{short}}}
	})

	hands, err := w.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(hands) != 0 {
		t.Errorf("got %d hands, want 0", len(hands))
	}
}

func TestDetectWorkerError(t *testing.T) {
	w, _ := startFake(t, DefaultConfig(), func(req request) []response {
		return []response{{ID: req.ID, Error: "bad frame"}}
	})

	_, err := w.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDetectTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	w, _ := startFake(t, cfg, func(req request) []response { return nil })

	_, err := w.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestDetectTimeoutCoversFrameWrite(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	go func() {
		var req request
		msgpack.NewDecoder(inR).Decode(&req) // configure, then never read again
	}()

	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	w, err := newWorker(cfg, inW, outR)
	if err != nil {
		t.Fatalf("newWorker: %v", err)
	}
	defer w.Close()
	defer outW.Close()

	done := make(chan error, 1)
	go func() {
		_, err := w.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 64, 48)))
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("err = %v, want ErrTimeout", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Detect blocked on a worker that stopped reading")
	}

	_, err = w.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 64, 48)))
	if !errors.Is(err, ErrWorkerExited) {
		t.Errorf("next frame err = %v, want ErrWorkerExited", err)
	}
}

func TestDetectCancelledDuringWrite(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	go func() {
		var req request
		msgpack.NewDecoder(inR).Decode(&req)
	}()

	w, err := newWorker(DefaultConfig(), inW, outR)
	if err != nil {
		t.Fatalf("newWorker: %v", err)
	}
	defer w.Close()
	defer outW.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := w.Detect(ctx, image.NewRGBA(image.Rect(0, 0, 64, 48))); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestDetectAfterWorkerExit(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	go func() {
		dec := msgpack.NewDecoder(inR)
		var req request
		dec.Decode(&req) // configure
		dec.Decode(&req) // first frame, then crash
		outW.Close()
		io.Copy(io.Discard, inR)
	}()

	w, err := newWorker(DefaultConfig(), inW, outR)
	if err != nil {
		t.Fatalf("newWorker: %v", err)
	}
	defer w.Close()

	_, err = w.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if !errors.Is(err, ErrWorkerExited) {
		t.Errorf("err = %v, want ErrWorkerExited", err)
	}
}

func TestPackRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{1, 2, 3, 255})
	img.Set(1, 0, color.RGBA{4, 5, 6, 255})
	img.Set(0, 1, color.RGBA{7, 8, 9, 255})
	img.Set(1, 1, color.RGBA{10, 11, 12, 255})

	got := PackRGB(img)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if string(got) != string(want) {
		t.Errorf("PackRGB = %v, want %v", got, want)
	}
}

func TestPackRGBSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 1, color.RGBA{1, 2, 3, 255})
	img.Set(3, 1, color.RGBA{4, 5, 6, 255})
	img.Set(2, 2, color.RGBA{7, 8, 9, 255})
	img.Set(3, 2, color.RGBA{10, 11, 12, 255})

	sub := img.SubImage(image.Rect(2, 1, 4, 3)).(*image.RGBA)
	got := PackRGB(sub)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if string(got) != string(want) {
		t.Errorf("PackRGB(sub) = %v, want %v", got, want)
	}
}

func TestNoneFindsNothing(t *testing.T) {
	hands, err := None{}.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err != nil || len(hands) != 0 {
		t.Errorf("None.Detect = %v, %v", hands, err)
	}
}
