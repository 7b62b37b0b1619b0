package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// TrendRepository is an in-memory implementation of TrendRepository
type TrendRepository struct {
	mu   sync.RWMutex
	aggs map[string]*domain.TrendAggregate
}

// NewTrendRepository creates a new in-memory trend repository
func NewTrendRepository() *TrendRepository {
	return &TrendRepository{
		aggs: make(map[string]*domain.TrendAggregate),
	}
}

// GetByKey returns the aggregate for (keywordID, date, period), or nil
func (r *TrendRepository) GetByKey(keywordID string, date time.Time, period domain.TrendPeriod) (*domain.TrendAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.aggs[compositeKey(keywordID, date, period)], nil
}

// Upsert inserts or updates an aggregate by its composite key
func (r *TrendRepository) Upsert(agg *domain.TrendAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := compositeKey(agg.KeywordID, agg.Date, agg.Period)
	if existing, ok := r.aggs[key]; ok {
		existing.VideoCount = agg.VideoCount
		existing.TotalViews = agg.TotalViews
		existing.AvgViews = agg.AvgViews
		existing.TopVideoID = agg.TopVideoID
		return nil
	}

	if agg.ID == "" {
		agg.ID = uuid.NewString()
	}
	if agg.CreatedAt.IsZero() {
		agg.CreatedAt = time.Now()
	}
	r.aggs[key] = agg
	return nil
}

// Len returns the number of stored aggregates
func (r *TrendRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.aggs)
}

func compositeKey(keywordID string, date time.Time, period domain.TrendPeriod) string {
	return fmt.Sprintf("%s|%s|%s", keywordID, date.Format("2006-01-02"), period)
}
