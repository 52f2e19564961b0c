package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/i474232898/skycast/internal/weather"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
)

// Board is what a presenter currently shows for one session.
type Board struct {
	ID string `json:"id"`
	// Sequence is the token of the most recently begun request.
	Sequence uint64 `json:"sequence"`
	// Applied is the token whose outcome is on display (0 = none yet).
	Applied   uint64          `json:"applied"`
	Outcome   weather.Outcome `json:"outcome"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// MemoryStore is a concurrency-safe set of session boards. Request tokens come
// from one monotonic counter, so a later request always has a larger token.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*Board
	seq  *atomic.Uint64

	// retention configuration
	maxSessions int           // max number of live sessions
	maxAge      time.Duration // sessions idle longer than this are dropped

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxSessions or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxSessions int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]*Board),
		seq:         atomic.NewUint64(0),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// Create opens an idle session and enforces retention.
func (s *MemoryStore) Create() Board {
	b := &Board{
		ID:        uuid.NewString(),
		Outcome:   weather.Outcome{State: weather.StateIdle},
		UpdatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[b.ID] = b
	s.pruneLocked(b.ID)
	return *b
}

// Get returns a copy of the session's board.
func (s *MemoryStore) Get(id string) (Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[id]
	if !ok || s.expired(b) {
		return Board{}, ErrNotFound
	}
	return *b, nil
}

// Begin marks a new request in flight for the session and returns its token.
// The previously displayed view, if any, stays visible while loading.
func (s *MemoryStore) Begin(id string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.data[id]
	if !ok || s.expired(b) {
		return 0, ErrNotFound
	}

	token := s.seq.Inc()
	b.Sequence = token
	b.Outcome = weather.Outcome{State: weather.StateInFlight, View: b.Outcome.View}
	b.UpdatedAt = s.now().UTC()
	return token, nil
}

// Complete applies outcome if token is still the session's newest request and
// reports whether it did. Outcomes of superseded requests are discarded.
// A failed outcome replaces the displayed view; it is never shown next to one.
func (s *MemoryStore) Complete(id string, token uint64, outcome weather.Outcome) (Board, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.data[id]
	if !ok {
		return Board{}, false, ErrNotFound
	}
	if token != b.Sequence {
		return *b, false, nil
	}

	b.Outcome = outcome
	b.Applied = token
	b.UpdatedAt = s.now().UTC()
	return *b, true, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) expired(b *Board) bool {
	return s.maxAge > 0 && s.now().Sub(b.UpdatedAt) > s.maxAge
}

// pruneLocked drops expired sessions, then the least recently updated ones
// until the count limit holds. keep is never dropped.
func (s *MemoryStore) pruneLocked(keep string) {
	// Enforce retention by age.
	if s.maxAge > 0 {
		for id, b := range s.data {
			if id != keep && s.expired(b) {
				delete(s.data, id)
			}
		}
	}

	// Enforce retention by count, oldest first.
	if s.maxSessions > 0 && len(s.data) > s.maxSessions {
		boards := make([]*Board, 0, len(s.data))
		for id, b := range s.data {
			if id != keep {
				boards = append(boards, b)
			}
		}
		sort.Slice(boards, func(i, j int) bool {
			return boards[i].UpdatedAt.Before(boards[j].UpdatedAt)
		})
		over := len(s.data) - s.maxSessions
		for _, b := range boards[:over] {
			delete(s.data, b.ID)
		}
	}
}
