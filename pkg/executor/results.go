package executor

import "sync"

// resultSet is the shared state of one run: the per-task partial results
// and the combined value written once by the barrier action. Each worker
// writes exactly one key, its own task id, so writes never contend on a
// key; the full-map snapshot happens only after all writers have arrived
// at the barrier.
type resultSet struct {
	partials map[int]float64

	combined    float64
	combinedSet bool

	mu sync.Mutex
}

// newResultSet creates a result set sized for the given cohort
func newResultSet(size int) *resultSet {
	return &resultSet{
		partials: make(map[int]float64, size),
	}
}

// Put records the partial result for a task
func (r *resultSet) Put(taskID int, partial float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partials[taskID] = partial
}

// Len returns the number of recorded partial results
func (r *resultSet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.partials)
}

// Snapshot returns a copy of all recorded partial results
func (r *resultSet) Snapshot() map[int]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[int]float64, len(r.partials))
	for id, partial := range r.partials {
		snapshot[id] = partial
	}
	return snapshot
}

// Combine sums all recorded partials, stores the total as the combined
// result, and returns the total with the contributor count
func (r *resultSet) Combine() (float64, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, partial := range r.partials {
		total += partial
	}
	r.combined = total
	r.combinedSet = true
	return total, len(r.partials)
}

// Combined returns the combined result and whether it has been written
func (r *resultSet) Combined() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.combined, r.combinedSet
}
