package midi

import (
	"sync"

	"vision-drum/debug"
)

// Mirror keeps a controller's LEDs in step with rendered frames, sending
// only pads that changed since the last flush.
type Mirror struct {
	mu   sync.Mutex
	ctrl Controller
	prev map[[2]int]LEDUpdate
}

// NewMirror returns a mirror with no controller attached
func NewMirror() *Mirror {
	return &Mirror{prev: make(map[[2]int]LEDUpdate)}
}

// SetController swaps the controller; nil detaches it. The next flush
// repaints everything.
func (m *Mirror) SetController(c Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	debug.Log("led", "SetController, resetting diff state")
	m.ctrl = c
	m.prev = make(map[[2]int]LEDUpdate)
}

// Flush sends the difference between leds and the previous frame. Pads
// missing from leds are turned off.
func (m *Mirror) Flush(leds []LEDUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctrl == nil {
		return nil
	}

	next := make(map[[2]int]LEDUpdate, len(leds))
	var updates []LEDUpdate
	for _, led := range leds {
		key := [2]int{led.Row, led.Col}
		next[key] = led
		if prev, ok := m.prev[key]; !ok || prev != led {
			updates = append(updates, led)
		}
	}
	for key := range m.prev {
		if _, ok := next[key]; !ok {
			updates = append(updates, LEDUpdate{Row: key[0], Col: key[1]})
		}
	}
	m.prev = next

	if len(updates) == 0 {
		return nil
	}
	debug.LogEvery(30, "led", "flush batch=%d", len(updates))
	return m.ctrl.SetLEDBatch(updates)
}
