package memory

import (
	"sync"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// CollectionRunRepository is an in-memory implementation of
// CollectionRunRepository
type CollectionRunRepository struct {
	mu   sync.RWMutex
	runs []*domain.CollectionRun
}

// NewCollectionRunRepository creates a new in-memory run repository
func NewCollectionRunRepository() *CollectionRunRepository {
	return &CollectionRunRepository{}
}

// Append inserts a new run record
func (r *CollectionRunRepository) Append(run *domain.CollectionRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	r.runs = append(r.runs, run)
	return nil
}

// GetRecent returns the most recent runs, newest first
func (r *CollectionRunRepository) GetRecent(limit int) ([]*domain.CollectionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}

	out := make([]*domain.CollectionRun, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}
