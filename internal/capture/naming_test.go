package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNamer_Format(t *testing.T) {
	dir := t.TempDir()
	n := &Namer{Dir: dir, Now: func() time.Time {
		return time.Date(2025, 3, 9, 7, 5, 3, 999, time.Local)
	}}

	got, err := n.Next()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "screenshot_20250309_070503.png")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNamer_DefaultsToTempDir(t *testing.T) {
	n := &Namer{Now: func() time.Time { return fixedTime }}
	got, err := n.Next()
	if err != nil {
		t.Fatal(err)
	}
	tmp, _ := filepath.Abs(os.TempDir())
	if filepath.Dir(got) != tmp {
		t.Errorf("dir = %q, want %q", filepath.Dir(got), tmp)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

func TestNamer_AvoidCollisions(t *testing.T) {
	dir := t.TempDir()
	n := &Namer{Dir: dir, Now: func() time.Time { return fixedTime }, AvoidCollisions: true}

	first, _ := n.Next()
	os.WriteFile(first, nil, 0o644)
	second, _ := n.Next()
	os.WriteFile(second, nil, 0o644)
	third, _ := n.Next()

	if filepath.Base(first) != "screenshot_20240101_120000.png" {
		t.Errorf("first = %q", first)
	}
	if filepath.Base(second) != "screenshot_20240101_120000_2.png" {
		t.Errorf("second = %q", second)
	}
	if filepath.Base(third) != "screenshot_20240101_120000_3.png" {
		t.Errorf("third = %q", third)
	}
}
