package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"vision-drum/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of Launchpads
type DeviceManager struct {
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
	scanTimeout time.Duration
}

// NewDeviceManager creates a new device manager. Ports come from the
// registered gomidi driver; import vision-drum/midi/rtmidi to get one.
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		scanTimeout: 3 * time.Second,
	}
}

// Events returns a channel of device connect/disconnect events.
// It is closed when Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Run polls for devices until ctx is done (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// portPair is a Launchpad input with its matching output (may be nil)
type portPair struct {
	in  drivers.In
	out drivers.Out
}

// matchLaunchpads finds Launchpad inputs and pairs each with the output of
// the same name. Values are {input index, output index or -1}.
func matchLaunchpads(inNames, outNames []string) map[string][2]int {
	found := make(map[string][2]int)
	for i, name := range inNames {
		if !isLaunchpad(name) {
			continue
		}
		out := -1
		for j, o := range outNames {
			if strings.EqualFold(o, name) {
				out = j
				break
			}
		}
		found[name] = [2]int{i, out}
	}
	return found
}

func (dm *DeviceManager) scan() {
	// Port listing can hang (CoreMIDI), so it runs with a timeout
	type portsResult struct {
		ins  []drivers.In
		outs []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	var ports portsResult
	select {
	case ports = <-ch:
	case <-time.After(dm.scanTimeout):
		debug.Log("devices", "port scan timed out, skipping")
		return
	}

	inNames := make([]string, len(ports.ins))
	for i, p := range ports.ins {
		inNames[i] = p.String()
	}
	outNames := make([]string, len(ports.outs))
	for i, p := range ports.outs {
		outNames[i] = p.String()
	}

	seen := make(map[string]portPair)
	for id, idx := range matchLaunchpads(inNames, outNames) {
		pair := portPair{in: ports.ins[idx[0]]}
		if idx[1] >= 0 {
			pair.out = ports.outs[idx[1]]
		}
		seen[id] = pair
	}

	for id, pair := range seen {
		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		lp, err := NewLaunchpadController(id, pair.in, pair.out)
		if err != nil {
			debug.Log("devices", "connect %s failed: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = lp
		dm.mu.Unlock()

		debug.Log("devices", "connected %s", id)
		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: lp, ID: id}
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	for id, c := range dm.controllers {
		if _, ok := seen[id]; ok {
			continue
		}
		c.Close()
		delete(dm.controllers, id)
		debug.Log("devices", "disconnected %s", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
