// Package clock supplies the timestamp capability for todo records.
// Record timestamps are part of the data contract (created_at never
// exceeds a later updated_at), so the system clock is wrapped to be
// strictly increasing even if the wall clock steps backwards.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time for record timestamps.
type Clock interface {
	Now() time.Time
}

// System is a monotonic wrapper over time.Now with nanosecond
// resolution. Consecutive calls always return strictly increasing
// values.
type System struct {
	mu   sync.Mutex
	last time.Time
}

// NewSystem returns a System clock.
func NewSystem() *System {
	return &System{}
}

func (s *System) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return now
}
