package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Display modes
const (
	DisplayWindow = "window"
	DisplayTUI    = "tui"
)

// Config is the main configuration structure
type Config struct {
	Tempo       int           `yaml:"tempo"`
	Kit         string        `yaml:"kit"`
	ToggleGrace time.Duration `yaml:"toggle_grace"`
	Debug       bool          `yaml:"debug"`

	MIDI      MIDIConfig      `yaml:"midi"`
	Camera    CameraConfig    `yaml:"camera"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Display   DisplayConfig   `yaml:"display"`
	Keys      KeysConfig      `yaml:"keys"`
	Launchpad LaunchpadConfig `yaml:"launchpad"`
	Patterns  PatternsConfig  `yaml:"patterns"`
}

// MIDIConfig picks the output port and note mapping
type MIDIConfig struct {
	VirtualPort  string `yaml:"virtual_port"`
	FallbackPort string `yaml:"fallback_port,omitempty"` // empty = first port
	Channel      int    `yaml:"channel"`                 // 1-16
	Velocity     int    `yaml:"velocity"`
	Notes        []int  `yaml:"notes,omitempty"` // kick, snare, hi-hat; 0 keeps the kit's note
}

// CameraConfig selects the capture backend
type CameraConfig struct {
	Backend string `yaml:"backend"` // gocv, gstreamer
	Device  int    `yaml:"device"`
	Path    string `yaml:"path,omitempty"` // gstreamer v4l2 device
	Width   int    `yaml:"width,omitempty"`
	Height  int    `yaml:"height,omitempty"`
	Mirror  bool   `yaml:"mirror"`
}

// TrackerConfig describes the hand-landmark worker
type TrackerConfig struct {
	Command                string        `yaml:"command"`
	Args                   []string      `yaml:"args,omitempty"`
	MaxHands               int           `yaml:"max_hands"`
	MinDetectionConfidence float64       `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64       `yaml:"min_tracking_confidence"`
	Timeout                time.Duration `yaml:"timeout"`
}

// DisplayConfig chooses between the camera window and the terminal UI
type DisplayConfig struct {
	Mode    string `yaml:"mode"`
	Title   string `yaml:"title"`
	Palette string `yaml:"palette,omitempty"` // GIMP .gpl file, empty = built-in
}

// KeysConfig names the key for each action
type KeysConfig struct {
	Toggle    string `yaml:"toggle"`
	Exit      string `yaml:"exit"`
	TempoUp   string `yaml:"tempo_up"`
	TempoDown string `yaml:"tempo_down"`
	Clear     string `yaml:"clear"`
	Save      string `yaml:"save"`
}

// LaunchpadConfig controls the pad controller mirror
type LaunchpadConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PatternsConfig controls pattern saves
type PatternsConfig struct {
	Dir        string `yaml:"dir,omitempty"` // empty = ~/.config/vision-drum/patterns
	LoadLatest bool   `yaml:"load_latest"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo:       120,
		Kit:         "gm",
		ToggleGrace: 250 * time.Millisecond,
		MIDI: MIDIConfig{
			VirtualPort: "Vision Drum",
			Channel:     1,
			Velocity:    100,
		},
		Camera: CameraConfig{
			Backend: "gocv",
			Mirror:  true,
		},
		Tracker: TrackerConfig{
			Command:                "vision-drum-hands",
			MaxHands:               1,
			MinDetectionConfidence: 0.7,
			MinTrackingConfidence:  0.7,
			Timeout:                500 * time.Millisecond,
		},
		Display: DisplayConfig{
			Mode:  DisplayWindow,
			Title: "Vision Drum Sequencer",
		},
		Keys: KeysConfig{
			Toggle:    "p",
			Exit:      "esc",
			TempoUp:   "+",
			TempoDown: "-",
			Clear:     "c",
			Save:      "s",
		},
		Launchpad: LaunchpadConfig{Enabled: true},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vision-drum"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from its default location, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to its default location
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config as YAML
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate clamps the tempo into 20..300 and rejects settings the
// sequencer cannot run with.
func (c *Config) Validate() error {
	c.Tempo = min(max(c.Tempo, 20), 300)

	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		return fmt.Errorf("midi.channel %d out of range 1-16", c.MIDI.Channel)
	}
	if c.MIDI.Velocity < 1 || c.MIDI.Velocity > 127 {
		return fmt.Errorf("midi.velocity %d out of range 1-127", c.MIDI.Velocity)
	}
	if len(c.MIDI.Notes) > 3 {
		return fmt.Errorf("midi.notes has %d entries, want at most 3", len(c.MIDI.Notes))
	}
	for _, n := range c.MIDI.Notes {
		if n < 0 || n > 127 {
			return fmt.Errorf("midi.notes: %d is not a MIDI note", n)
		}
	}

	switch c.Camera.Backend {
	case "gocv", "gstreamer":
	default:
		return fmt.Errorf("camera.backend %q: want gocv or gstreamer", c.Camera.Backend)
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		return fmt.Errorf("camera size %dx%d", c.Camera.Width, c.Camera.Height)
	}

	switch c.Display.Mode {
	case DisplayWindow, DisplayTUI:
	default:
		return fmt.Errorf("display.mode %q: want window or tui", c.Display.Mode)
	}

	if c.Tracker.MaxHands < 1 {
		return fmt.Errorf("tracker.max_hands must be at least 1")
	}
	for name, v := range map[string]float64{
		"min_detection_confidence": c.Tracker.MinDetectionConfidence,
		"min_tracking_confidence":  c.Tracker.MinTrackingConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("tracker.%s %v out of range 0-1", name, v)
		}
	}
	if c.ToggleGrace < 0 {
		return fmt.Errorf("toggle_grace must not be negative")
	}
	return nil
}

// Notes returns the per-row note overrides, 0 where the kit's note applies
func (c *Config) Notes() [3]uint8 {
	var out [3]uint8
	for i, n := range c.MIDI.Notes {
		if i < len(out) {
			out[i] = uint8(n)
		}
	}
	return out
}
