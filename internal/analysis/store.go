package analysis

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Store keeps finished analysis results in memory until they expire.
// Persistence is out of scope for this service; a cron sweeper reclaims
// expired entries so long-running deployments do not grow unbounded.
type Store struct {
	mu      sync.RWMutex
	results map[uuid.UUID]*Result
	ttl     time.Duration

	cron   *cron.Cron
	logger *zap.Logger
}

// NewStore creates a store whose entries expire after ttl.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		results: make(map[uuid.UUID]*Result),
		ttl:     ttl,
		logger:  logger,
	}
}

// Put stores a result under its ID.
func (s *Store) Put(result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = result
}

// Get returns a result if present and not expired.
func (s *Store) Get(id uuid.UUID) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok || s.expired(result, time.Now()) {
		return nil, false
	}
	return result, true
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Sweep removes expired entries and returns how many were evicted.
func (s *Store) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, result := range s.results {
		if s.expired(result, now) {
			delete(s.results, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper schedules periodic eviction on the given cron spec
// (e.g. "@every 10m"). Call Stop to shut it down.
func (s *Store) StartSweeper(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		if n := s.Sweep(); n > 0 && s.logger != nil {
			s.logger.Info("Evicted expired analyses", zap.Int("count", n))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the sweeper if one is running.
func (s *Store) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Store) expired(result *Result, now time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	return now.Sub(result.CreatedAt) > s.ttl
}
