package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gametracker/pkg/view"
)

type Session struct {
	ID       string
	Shell    *view.Shell
	LastSeen time.Time
}

// Store owns one shell per browser session. Sessions idle for longer than
// ttl are closed by Sweep.
type Store struct {
	newShell func() *view.Shell
	ttl      time.Duration
	now      func() time.Time

	items map[string]*Session
	mu    sync.Mutex
}

func NewStore(ttl time.Duration, newShell func() *view.Shell) *Store {
	return &Store{
		newShell: newShell,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*Session),
	}
}

// Get returns the live session for id, or starts a new one when id is
// unknown or expired.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.items[id]; ok {
		if now.Sub(sess.LastSeen) < s.ttl {
			sess.LastSeen = now
			return sess
		}
		sess.Shell.Close()
		delete(s.items, id)
	}

	sess := &Session{
		ID:       uuid.NewString(),
		Shell:    s.newShell(),
		LastSeen: now,
	}
	s.items[sess.ID] = sess
	return sess
}

// Sweep closes every session idle for at least ttl and reports how many
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.items {
		if !sess.LastSeen.After(cutoff) {
			sess.Shell.Close()
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close closes every session.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.items {
		sess.Shell.Close()
		delete(s.items, id)
	}
}
