package monitor

import "sync"

// DefaultHistoryLen is the number of rate samples kept per direction
// (one minute at the default 2s interval).
const DefaultHistoryLen = 30

// RollingHistory is a fixed-capacity ring buffer of float64 samples.
// It starts full of zeros, so reads always return exactly Cap values.
type RollingHistory struct {
	mu   sync.RWMutex
	data []float64
	head int // next write position, which is also the oldest value
}

// NewRollingHistory creates a zero-filled history of the given capacity.
// A non-positive capacity uses DefaultHistoryLen.
func NewRollingHistory(capacity int) *RollingHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryLen
	}
	return &RollingHistory{data: make([]float64, capacity)}
}

// Push appends a value, evicting the oldest.
func (r *RollingHistory) Push(value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[r.head] = value
	r.head = (r.head + 1) % len(r.data)
}

// Values returns a copy of all values in chronological order (oldest first).
func (r *RollingHistory) Values() []float64 {
	return r.Last(r.Cap())
}

// Last returns a copy of the newest count values, oldest first.
// count is clamped to the capacity.
func (r *RollingHistory) Last(count int) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := len(r.data)
	if count <= 0 {
		return []float64{}
	}
	if count > size {
		count = size
	}

	result := make([]float64, count)
	start := (r.head - count + size) % size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%size]
	}
	return result
}

// Cap returns the fixed capacity.
func (r *RollingHistory) Cap() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
