// Package rebuild schedules periodic re-fetch-and-rebuild of GitHub-hosted
// roadmap documents, invalidating each source's cached Roadline whenever a
// fetch turns up new content.
package rebuild

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RebuildFunc re-fetches and rebuilds the roadmap registered under
// sourceKey. A nil error means the rebuild ran (whether or not the
// content actually changed); callers distinguish "unchanged" via
// githubsource.IsNotModified on whatever error their implementation
// threads through, if they choose to surface it.
type RebuildFunc func(sourceKey string) error

// Scheduler runs RebuildFunc on a cron schedule for each registered
// source.
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	rebuild  RebuildFunc
	entries  map[string]cron.EntryID // sourceKey -> entryID
	mu       sync.RWMutex
}

// NewScheduler constructs a Scheduler that invokes rebuild on each
// source's schedule, in the given location.
func NewScheduler(location *time.Location, rebuild RebuildFunc) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location), cron.WithSeconds()),
		location: location,
		rebuild:  rebuild,
		entries:  make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler's background loop.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler, blocking until any in-flight rebuild
// completes.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// AddSource registers sourceKey to be rebuilt on the given cron schedule.
func (s *Scheduler) AddSource(sourceKey, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[sourceKey]; exists {
		return fmt.Errorf("rebuild: source %s is already registered", sourceKey)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("rebuild: invalid cron expression %s: %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		if err := s.rebuild(sourceKey); err != nil {
			fmt.Printf("rebuild: error rebuilding %s: %v\n", sourceKey, err)
		}
	})
	if err != nil {
		return fmt.Errorf("rebuild: failed to add cron job: %w", err)
	}

	s.entries[sourceKey] = entryID
	return nil
}

// RemoveSource unregisters sourceKey; it is a no-op if sourceKey was
// never registered.
func (s *Scheduler) RemoveSource(sourceKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.entries[sourceKey]; exists {
		s.cron.Remove(entryID)
		delete(s.entries, sourceKey)
	}
}

// ScheduledSources returns every currently registered source key.
func (s *Scheduler) ScheduledSources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// NextRebuild returns the next scheduled rebuild time for sourceKey.
func (s *Scheduler) NextRebuild(sourceKey string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entryID, exists := s.entries[sourceKey]
	if !exists {
		return nil, fmt.Errorf("rebuild: source %s is not registered", sourceKey)
	}

	entry := s.cron.Entry(entryID)
	if entry.ID == 0 {
		return nil, fmt.Errorf("rebuild: entry not found for source %s", sourceKey)
	}

	next := entry.Next
	return &next, nil
}

// IsRegistered reports whether sourceKey has an active schedule.
func (s *Scheduler) IsRegistered(sourceKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.entries[sourceKey]
	return exists
}

// UpdateSchedule replaces sourceKey's cron schedule.
func (s *Scheduler) UpdateSchedule(sourceKey, newSchedule string) error {
	s.mu.Lock()
	if entryID, exists := s.entries[sourceKey]; exists {
		s.cron.Remove(entryID)
		delete(s.entries, sourceKey)
	}
	s.mu.Unlock()

	return s.AddSource(sourceKey, newSchedule)
}
