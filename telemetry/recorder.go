package telemetry

import (
	"sync"
)

// Recorder keeps the most recent snapshots in a fixed ring
// Safe for one writer and many readers
type Recorder struct {
	mu    sync.RWMutex
	ring  []Snapshot
	head  int
	count int
}

// NewRecorder creates a recorder holding up to size snapshots
func NewRecorder(size int) *Recorder {
	if size < 1 {
		size = 1
	}
	return &Recorder{ring: make([]Snapshot, size)}
}

// Observe implements Observer
func (r *Recorder) Observe(s Snapshot) {
	r.mu.Lock()
	r.ring[r.head] = s
	r.head = (r.head + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}
	r.mu.Unlock()
}

// Latest returns the newest snapshot
func (r *Recorder) Latest() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return Snapshot{}, false
	}
	idx := (r.head - 1 + len(r.ring)) % len(r.ring)
	return r.ring[idx], true
}

// History returns held snapshots oldest first
func (r *Recorder) History() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Snapshot, 0, r.count)
	start := (r.head - r.count + len(r.ring)) % len(r.ring)
	for i := 0; i < r.count; i++ {
		out = append(out, r.ring[(start+i)%len(r.ring)])
	}
	return out
}

// Len returns the number of held snapshots
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Reset drops all history
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.head, r.count = 0, 0
	r.mu.Unlock()
}
