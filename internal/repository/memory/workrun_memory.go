package memory

import (
	"context"
	"sync"

	"obsdemo/internal/model"
	"obsdemo/internal/repository"
)

// DefaultCapacity bounds the in-memory history when no explicit capacity
// is configured.
const DefaultCapacity = 1000

// WorkRunMemory is an in-memory implementation of repository.WorkRunRepository
// for deployments without a database. It keeps the most recent runs up to a
// fixed capacity and is safe for concurrent use.
type WorkRunMemory struct {
	mu       sync.RWMutex
	runs     []model.WorkRun // newest first
	capacity int
}

// NewWorkRunMemory creates a bounded in-memory repository. A capacity of
// zero or less falls back to DefaultCapacity.
func NewWorkRunMemory(capacity int) *WorkRunMemory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &WorkRunMemory{capacity: capacity}
}

var _ repository.WorkRunRepository = (*WorkRunMemory)(nil)

// Create prepends the run, evicting the oldest record when at capacity.
func (r *WorkRunMemory) Create(_ context.Context, run *model.WorkRun) (*model.WorkRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *run
	r.runs = append([]model.WorkRun{stored}, r.runs...)
	if len(r.runs) > r.capacity {
		r.runs = r.runs[:r.capacity]
	}
	return &stored, nil
}

// List returns a page of runs, newest first. Total reflects the retained
// history, not all runs ever recorded.
func (r *WorkRunMemory) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.WorkRun], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.runs)
	start := pq.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	limit := pq.Limit
	if limit < 0 {
		limit = 0
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]model.WorkRun, end-start)
	copy(items, r.runs[start:end])

	return &repository.PageResult[model.WorkRun]{Items: items, Total: total}, nil
}
