package rebuild

import (
	"sync"
	"testing"
	"time"
)

func TestAddSourceRejectsDuplicateRegistration(t *testing.T) {
	s := NewScheduler(time.UTC, func(string) error { return nil })
	if err := s.AddSource("owner/repo/path.md", "0 */5 * * * *"); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if err := s.AddSource("owner/repo/path.md", "0 */5 * * * *"); err == nil {
		t.Fatal("expected error registering the same source twice")
	}
}

func TestAddSourceRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(time.UTC, func(string) error { return nil })
	if err := s.AddSource("owner/repo/path.md", "not a schedule"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestRemoveSourceUnregisters(t *testing.T) {
	s := NewScheduler(time.UTC, func(string) error { return nil })
	key := "owner/repo/path.md"
	if err := s.AddSource(key, "0 */5 * * * *"); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if !s.IsRegistered(key) {
		t.Fatal("expected source to be registered")
	}

	s.RemoveSource(key)
	if s.IsRegistered(key) {
		t.Error("expected source to be unregistered after RemoveSource")
	}
}

func TestScheduledSourcesListsEveryRegisteredKey(t *testing.T) {
	s := NewScheduler(time.UTC, func(string) error { return nil })
	keys := []string{"a/b/c.md", "d/e/f.md"}
	for _, k := range keys {
		if err := s.AddSource(k, "0 */5 * * * *"); err != nil {
			t.Fatalf("AddSource(%q) error = %v", k, err)
		}
	}

	got := s.ScheduledSources()
	if len(got) != len(keys) {
		t.Fatalf("ScheduledSources() = %v, want %d entries", got, len(keys))
	}
}

func TestNextRebuildReportsAFutureTime(t *testing.T) {
	s := NewScheduler(time.UTC, func(string) error { return nil })
	key := "owner/repo/path.md"
	if err := s.AddSource(key, "0 */5 * * * *"); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}

	next, err := s.NextRebuild(key)
	if err != nil {
		t.Fatalf("NextRebuild() error = %v", err)
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRebuild() = %v, want a time after now", next)
	}
}

func TestNextRebuildRejectsUnknownSource(t *testing.T) {
	s := NewScheduler(time.UTC, func(string) error { return nil })
	if _, err := s.NextRebuild("unknown"); err == nil {
		t.Fatal("expected error for an unregistered source")
	}
}

func TestUpdateScheduleReplacesTheEntry(t *testing.T) {
	s := NewScheduler(time.UTC, func(string) error { return nil })
	key := "owner/repo/path.md"
	if err := s.AddSource(key, "0 0 * * * *"); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if err := s.UpdateSchedule(key, "0 */5 * * * *"); err != nil {
		t.Fatalf("UpdateSchedule() error = %v", err)
	}
	if !s.IsRegistered(key) {
		t.Error("expected source to remain registered after UpdateSchedule")
	}
}

func TestSchedulerInvokesRebuildFuncOnTick(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	s := NewScheduler(time.UTC, func(key string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, key)
		return nil
	})

	if err := s.AddSource("owner/repo/path.md", "* * * * * *"); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}

	s.Start()
	defer s.Stop()

	time.Sleep(1500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) == 0 {
		t.Error("expected rebuild func to have been invoked at least once")
	}
}
