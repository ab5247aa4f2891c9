package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogDisabledWritesNothing(t *testing.T) {
	Disable()
	Log("test", "should not panic %d", 1)
	if Enabled() {
		t.Fatal("expected logging to be disabled")
	}
}

func TestEnableWritesCategoryAndMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Log("midi", "opened %s", "Vision Drum")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"Debug logging started", "opened Vision Drum", "cat=midi"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLogEveryThrottles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	for i := 0; i < 10; i++ {
		LogEvery(5, "frame", "tick")
	}
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "tick (every 5"); got != 2 {
		t.Errorf("got %d throttled lines, want 2", got)
	}
}
