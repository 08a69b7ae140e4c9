package journal

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func record(id string, status protocol.CaptureStatus, at time.Time) *protocol.CaptureRecord {
	rec := &protocol.CaptureRecord{
		ID:         id,
		Tool:       "take_a_screenshot",
		Backend:    "native",
		Platform:   "linux",
		Status:     status,
		Message:    "msg " + id,
		Trigger:    protocol.TriggerMCP,
		CapturedAt: at,
		DurationMS: 42,
	}
	if status == protocol.CaptureOK {
		rec.Path = "/tmp/screenshot_" + id + ".png"
	}
	return rec
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)

	in := record("c-001", protocol.CaptureOK, base)
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get("c-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Path != in.Path || got.Status != protocol.CaptureOK || got.Message != in.Message {
		t.Errorf("got %+v", got)
	}
	if got.Trigger != protocol.TriggerMCP || got.DurationMS != 42 {
		t.Errorf("got trigger=%q duration=%d", got.Trigger, got.DurationMS)
	}
	if !got.CapturedAt.Equal(base) {
		t.Errorf("captured_at = %v, want %v", got.CapturedAt, base)
	}
}

func TestSave_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(record("dup", protocol.CaptureOK, base)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(record("dup", protocol.CaptureOK, base)); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestSave_RequiresID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(&protocol.CaptureRecord{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		s.Save(record(fmt.Sprintf("c-%d", i), protocol.CaptureOK, base.Add(time.Duration(i)*time.Second)))
	}

	recs, err := s.List(Filter{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].ID != "c-4" || recs[2].ID != "c-2" {
		t.Errorf("order = %s, %s, %s", recs[0].ID, recs[1].ID, recs[2].ID)
	}
}

func TestList_StatusFilters(t *testing.T) {
	s := newTestStore(t)
	s.Save(record("ok-1", protocol.CaptureOK, base))
	s.Save(record("ok-2", protocol.CaptureOK, base.Add(time.Second)))
	s.Save(record("bad-1", protocol.CaptureMissingDependency, base.Add(2*time.Second)))
	s.Save(record("bad-2", protocol.CaptureExternalFailure, base.Add(3*time.Second)))

	ok, _ := s.List(Filter{Status: "ok"})
	if len(ok) != 2 {
		t.Errorf("ok = %d", len(ok))
	}
	failed, _ := s.List(Filter{Status: StatusFailed})
	if len(failed) != 2 {
		t.Errorf("failed = %d", len(failed))
	}
	missing, _ := s.List(Filter{Status: string(protocol.CaptureMissingDependency)})
	if len(missing) != 1 || missing[0].ID != "bad-1" {
		t.Errorf("missing = %v", missing)
	}

	n, err := s.Count(Filter{Status: StatusFailed})
	if err != nil || n != 2 {
		t.Errorf("count = %d, %v", n, err)
	}
	total, _ := s.Count(Filter{})
	if total != 4 {
		t.Errorf("total = %d", total)
	}
}

func TestList_SinceAndTrigger(t *testing.T) {
	s := newTestStore(t)
	s.Save(record("old", protocol.CaptureOK, base))
	scheduled := record("sched", protocol.CaptureOK, base.Add(time.Minute))
	scheduled.Trigger = protocol.TriggerSchedule
	s.Save(scheduled)
	s.Save(record("new", protocol.CaptureOK, base.Add(2*time.Minute)))

	recent, _ := s.List(Filter{Since: base.Add(30 * time.Second)})
	if len(recent) != 2 {
		t.Errorf("since = %d", len(recent))
	}
	bySchedule, _ := s.List(Filter{Trigger: string(protocol.TriggerSchedule)})
	if len(bySchedule) != 1 || bySchedule[0].ID != "sched" {
		t.Errorf("trigger = %v", bySchedule)
	}
}
