package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "20060102_150405"

// Namer derives destination paths of the form <dir>/screenshot_<YYYYMMDD_HHMMSS>.png.
//
// Two calls within the same second yield the same path and the later capture
// overwrites the earlier one, unless AvoidCollisions is set, in which case a
// numeric suffix is appended while the candidate already exists.
type Namer struct {
	Dir             string // empty means os.TempDir()
	Now             func() time.Time
	AvoidCollisions bool
}

// Next returns the absolute destination path for a capture taken now.
func (n *Namer) Next() (string, error) {
	dir := n.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	base := "screenshot_" + now().Format(timestampLayout)
	path := filepath.Join(dir, base+".png")
	if !n.AvoidCollisions {
		return path, nil
	}

	for i := 2; exists(path); i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, i))
	}
	return path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
