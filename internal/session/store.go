// Package session keeps the live map sessions of connected browsers in
// memory, keyed by the id stored in the session cookie.
package session

import (
	"context"
	"sync"
	"time"

	"amenitymap/internal/mapview"
	"amenitymap/pkg/logger"

	"github.com/google/uuid"
)

// Factory builds a new map session for id.
type Factory func(id string) *mapview.Session

type Store struct {
	mu       sync.Mutex
	sessions map[string]*mapview.Session
	factory  Factory
	ttl      time.Duration
	now      func() time.Time
	log      *logger.Logger
}

func NewStore(factory Factory, ttl time.Duration, log *logger.Logger) *Store {
	return &Store{
		sessions: make(map[string]*mapview.Session),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
}

// Get returns the session for id, creating a new one under a fresh id when
// id is empty, malformed or unknown. The returned bool reports creation.
func (s *Store) Get(id string) (*mapview.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := s.sessions[id]; ok {
			return sess, false
		}
	}

	id = uuid.NewString()
	sess := s.factory(id)
	s.sessions[id] = sess
	return sess, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes and forgets sessions idle for longer than the TTL.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*mapview.Session
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("expired idle sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}
