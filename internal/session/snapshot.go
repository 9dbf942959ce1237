package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Slot holds the latest applied value for one data stream.
//
// Poll responses can land out of order when a slow request overlaps the next
// tick. Each request takes a sequence number at launch; Apply rejects any
// response whose sequence is not newer than the last applied one, so a stale
// response can never overwrite a fresher value.
type Slot[T any] struct {
	launchSeq atomic.Uint64

	mu         sync.RWMutex
	appliedSeq uint64
	value      T
	updatedAt  time.Time
	has        bool
}

// NextSeq reserves a sequence number for a request about to launch.
func (s *Slot[T]) NextSeq() uint64 {
	return s.launchSeq.Add(1)
}

// Apply stores value if seq is newer than the last applied sequence.
// It reports whether the value was applied.
func (s *Slot[T]) Apply(seq uint64, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.value = value
	s.updatedAt = time.Now()
	s.has = true
	return true
}

// Load returns the latest applied value, if any.
func (s *Slot[T]) Load() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.has
}

// UpdatedAt returns when the latest value was applied (zero if none).
func (s *Slot[T]) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
