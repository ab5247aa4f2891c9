package sequencer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02_15-04-05"

// Pattern is a saved grid. Rows are written as 16 characters, x for on
// and . for off, so files stay readable.
type Pattern struct {
	Tempo int          `json:"tempo"`
	Kit   string       `json:"kit"`
	Rows  [Rows]string `json:"rows"`
}

// SaveInfo represents a saved pattern file (for listing)
type SaveInfo struct {
	Filename  string
	Timestamp time.Time
}

// NewPattern captures the current grid
func NewPattern(g Grid, tempo int, kit string) Pattern {
	p := Pattern{Tempo: tempo, Kit: kit}
	for r := 0; r < Rows; r++ {
		var sb strings.Builder
		for c := 0; c < Steps; c++ {
			if g[r][c] {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('.')
			}
		}
		p.Rows[r] = sb.String()
	}
	return p
}

// Grid decodes the rows. Short rows leave the remaining steps off.
func (p Pattern) Grid() (Grid, error) {
	var g Grid
	for r, row := range p.Rows {
		if len(row) > Steps {
			return g, fmt.Errorf("row %d has %d steps, want %d", r, len(row), Steps)
		}
		for c, ch := range row {
			switch ch {
			case 'x', 'X':
				g[r][c] = true
			case '.', '-':
			default:
				return g, fmt.Errorf("row %d step %d: unexpected %q", r, c+1, ch)
			}
		}
	}
	return g, nil
}

// PatternsDir returns the default save directory
func PatternsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vision-drum", "patterns"), nil
}

// SavePattern writes p to a timestamped file in dir and returns its name
func SavePattern(dir string, p Pattern, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}

	name := now.Format(timestampLayout) + ".json"
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", err
	}
	return name, nil
}

// LoadPattern reads a pattern file
func LoadPattern(path string) (Pattern, error) {
	var p Pattern
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse pattern %s: %w", path, err)
	}
	if _, err := p.Grid(); err != nil {
		return p, fmt.Errorf("pattern %s: %w", path, err)
	}
	return p, nil
}

// ListPatterns returns timestamped saves in dir, newest first
func ListPatterns(dir string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ts, err := time.Parse(timestampLayout, strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Not a timestamped file, skip
			continue
		}
		saves = append(saves, SaveInfo{Filename: name, Timestamp: ts})
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}

// LatestPattern loads the newest save in dir. ok is false when there is none.
func LatestPattern(dir string) (p Pattern, ok bool, err error) {
	saves, err := ListPatterns(dir)
	if err != nil || len(saves) == 0 {
		return p, false, err
	}
	p, err = LoadPattern(filepath.Join(dir, saves[0].Filename))
	if err != nil {
		return p, false, err
	}
	return p, true, nil
}
