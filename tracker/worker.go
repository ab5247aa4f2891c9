package tracker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"vision-drum/debug"
)

var (
	// ErrWorkerExited is returned once the landmark process has gone away
	ErrWorkerExited = errors.New("tracker: worker exited")
	// ErrTimeout is returned when the worker does not answer in time
	ErrTimeout = errors.New("tracker: detection timed out")
)

// Config describes the external hand-landmark process
type Config struct {
	Command                string
	Args                   []string
	MaxHands               int
	MinDetectionConfidence float64
	MinTrackingConfidence  float64
	Timeout                time.Duration
}

// DefaultConfig returns the settings the sequencer was tuned with
func DefaultConfig() Config {
	return Config{
		MaxHands:               1,
		MinDetectionConfidence: 0.7,
		MinTrackingConfidence:  0.7,
		Timeout:                500 * time.Millisecond,
	}
}

// Messages on the worker's stdin. "configure" is sent once at start,
// then one "detect" per frame.
type request struct {
	Type string `msgpack:"type"`
	ID   string `msgpack:"id,omitempty"`

	Width  int    `msgpack:"width,omitempty"`
	Height int    `msgpack:"height,omitempty"`
	Format string `msgpack:"format,omitempty"`
	Pixels []byte `msgpack:"pixels,omitempty"`

	MaxHands               int     `msgpack:"max_hands,omitempty"`
	MinDetectionConfidence float64 `msgpack:"min_detection_confidence,omitempty"`
	MinTrackingConfidence  float64 `msgpack:"min_tracking_confidence,omitempty"`
}

// Messages on the worker's stdout, one per detect request.
type response struct {
	ID    string        `msgpack:"id"`
	Hands []handMessage `msgpack:"hands"`
	Error string        `msgpack:"error,omitempty"`
}

type handMessage struct {
	Landmarks  [][3]float64 `msgpack:"landmarks"`
	Handedness string       `msgpack:"handedness"`
	Score      float64      `msgpack:"score"`
}

func (m handMessage) hand() (Hand, bool) {
	if len(m.Landmarks) < NumLandmarks {
		return Hand{}, false
	}
	h := Hand{Handedness: m.Handedness, Score: m.Score}
	for i := 0; i < NumLandmarks; i++ {
		p := m.Landmarks[i]
		h.Landmarks[i] = Landmark{X: p[0], Y: p[1], Z: p[2]}
	}
	return h, true
}

// Worker runs hand-landmark inference in a separate process. Frames go to
// its stdin and results come back on stdout, both msgpack encoded.
type Worker struct {
	cfg Config

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *msgpack.Encoder
	encMu  sync.Mutex
	dec    *msgpack.Decoder
	wg     sync.WaitGroup
	exited atomic.Bool

	results chan response

	// counters for the debug log
	requests atomic.Uint64
	stale    atomic.Uint64
}

// StartWorker spawns the landmark process and sends it the detection settings
func StartWorker(ctx context.Context, cfg Config) (*Worker, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("tracker: no worker command configured")
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cfg.Command, err)
	}
	debug.Log("tracker", "worker started pid=%d cmd=%s", cmd.Process.Pid, cfg.Command)

	w, err := newWorker(cfg, stdin, stdout)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}
	w.cmd = cmd

	w.wg.Add(1)
	go w.logStderr(stderr)

	return w, nil
}

// newWorker wires a worker to an already running process' pipes
func newWorker(cfg Config, stdin io.WriteCloser, stdout io.Reader) (*Worker, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	w := &Worker{
		cfg:     cfg,
		stdin:   stdin,
		enc:     msgpack.NewEncoder(stdin),
		dec:     msgpack.NewDecoder(bufio.NewReader(stdout)),
		results: make(chan response, 8),
	}

	w.wg.Add(1)
	go w.readResults()

	if err := w.send(&request{
		Type:                   "configure",
		MaxHands:               cfg.MaxHands,
		MinDetectionConfidence: cfg.MinDetectionConfidence,
		MinTrackingConfidence:  cfg.MinTrackingConfidence,
	}); err != nil {
		return nil, fmt.Errorf("configure worker: %w", err)
	}
	return w, nil
}

func (w *Worker) send(req *request) error {
	w.encMu.Lock()
	defer w.encMu.Unlock()
	return w.enc.Encode(req)
}

// Detect sends one frame and blocks until the matching result arrives.
// Results of earlier requests that timed out are discarded. The timeout
// covers writing the frame as well as waiting for the answer; a worker that
// stops reading its stdin is treated as exited.
func (w *Worker) Detect(ctx context.Context, img *image.RGBA) ([]Hand, error) {
	if w.exited.Load() {
		return nil, ErrWorkerExited
	}

	b := img.Bounds()
	id := uuid.NewString()
	req := &request{
		Type:   "detect",
		ID:     id,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: "rgb",
		Pixels: PackRGB(img),
	}
	w.requests.Add(1)

	timer := time.NewTimer(w.cfg.Timeout)
	defer timer.Stop()

	sent := make(chan error, 1)
	go func() { sent <- w.send(req) }()
	writing := sent

	for {
		select {
		case <-ctx.Done():
			w.abandonWrite(writing)
			return nil, ctx.Err()
		case <-timer.C:
			w.abandonWrite(writing)
			return nil, ErrTimeout
		case err := <-writing:
			if err != nil {
				return nil, fmt.Errorf("send frame: %w", err)
			}
			writing = nil
		case resp, ok := <-w.results:
			if !ok {
				return nil, ErrWorkerExited
			}
			if resp.ID != id {
				w.stale.Add(1)
				continue
			}
			if resp.Error != "" {
				return nil, fmt.Errorf("tracker: worker error: %s", resp.Error)
			}
			hands := make([]Hand, 0, len(resp.Hands))
			for _, m := range resp.Hands {
				if h, ok := m.hand(); ok {
					hands = append(hands, h)
				}
			}
			return hands, nil
		}
	}
}

// abandonWrite gives up on a frame still being written. The stream is left
// mid-message, so the worker is unusable until it is restarted.
func (w *Worker) abandonWrite(writing <-chan error) {
	if writing == nil {
		return
	}
	select {
	case err := <-writing:
		if err == nil {
			return
		}
	default:
	}
	w.exited.Store(true)
	debug.Log("tracker", "worker stopped reading frames, giving up on it")
}

// readResults decodes worker output until the stream ends
func (w *Worker) readResults() {
	defer w.wg.Done()
	defer close(w.results)

	for {
		var resp response
		if err := w.dec.Decode(&resp); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				debug.Log("tracker", "decode result: %v", err)
			}
			w.exited.Store(true)
			return
		}
		select {
		case w.results <- resp:
		default:
			// nobody is waiting and the buffer is full of stale results
			debug.LogEvery(50, "tracker", "dropping result id=%s", resp.ID)
		}
	}
}

// logStderr forwards worker log lines to the debug log, keeping their level
func (w *Worker) logStderr(r io.Reader) {
	defer w.wg.Done()
	log := debug.Logger().With("cat", "tracker-worker")

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "ERROR"), strings.Contains(line, "CRITICAL"):
			log.Error(line)
		case strings.Contains(line, "WARN"):
			log.Warn(line)
		default:
			log.Debug(line)
		}
	}
}

// Close stops the worker, killing it if it does not exit within 2s
func (w *Worker) Close() error {
	w.stdin.Close()
	debug.Log("tracker", "closing worker requests=%d stale=%d", w.requests.Load(), w.stale.Load())

	if w.cmd == nil {
		w.wg.Wait()
		return nil
	}

	done := make(chan error, 1)
	go func() {
		w.wg.Wait()
		done <- w.cmd.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		debug.Log("tracker", "worker did not exit, killing pid=%d", w.cmd.Process.Pid)
		w.cmd.Process.Kill()
		return <-done
	}
}

// PackRGB drops the alpha channel, producing tightly packed RGB rows
func PackRGB(img *image.RGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[off : off+w*4]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}
