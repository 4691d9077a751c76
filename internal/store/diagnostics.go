package store

import (
	"sync"
	"time"

	"github.com/i474232898/frost-dashboard/internal/frost"
)

// Entry is one diagnostic record.
type Entry struct {
	Timestamp time.Time  `json:"timestamp"`
	Flow      frost.Flow `json:"flow"`
	Level     string     `json:"level"`
	Message   string     `json:"message"`
}

// DiagnosticsStore is a concurrency-safe in-memory log of diagnostic entries
// with count and age retention.
type DiagnosticsStore struct {
	mu sync.RWMutex

	entries []Entry

	maxHistory int           // max number of entries kept
	maxAge     time.Duration // optional max age of entries

	now func() time.Time
}

// NewDiagnosticsStore creates a store with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewDiagnosticsStore(maxHistory int, maxAge time.Duration) *DiagnosticsStore {
	return &DiagnosticsStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Report implements frost.Reporter.
func (s *DiagnosticsStore) Report(flow frost.Flow, level, message string) {
	s.Save(Entry{
		Timestamp: s.now().UTC(),
		Flow:      flow,
		Level:     level,
		Message:   message,
	})
}

// Save appends an entry and enforces retention.
func (s *DiagnosticsStore) Save(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.entries) > s.maxHistory {
		over := len(s.entries) - s.maxHistory
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.entries); i++ {
			if !s.entries[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.entries = append([]Entry(nil), s.entries[i:]...)
		}
	}
}

// List returns the retained entries, newest first.
func (s *DiagnosticsStore) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

// Since returns entries recorded at or after t, newest first.
func (s *DiagnosticsStore) Since(t time.Time) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Entry{}
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if !e.Timestamp.Before(t) {
			result = append(result, e)
		}
	}
	return result
}
