package domain

import "time"

// TrendPeriod is the aggregation window of a trend row
type TrendPeriod string

const (
	// TrendPeriodDaily aggregates one local calendar day
	TrendPeriodDaily TrendPeriod = "daily"
)

// TrendAggregate is a derived per-keyword, per-day summary
type TrendAggregate struct {
	// ID is the unique identifier for the row
	ID string

	// KeywordID is the summarized keyword
	KeywordID string

	// Date is the aggregation day, truncated to local midnight
	Date time.Time

	// Period is the aggregation window
	Period TrendPeriod

	// VideoCount is the number of records collected that day
	VideoCount int

	// TotalViews is the sum of view counts
	TotalViews int64

	// AvgViews is TotalViews / VideoCount, rounded to the nearest integer
	AvgViews int64

	// TopVideoID is the record with the highest view count
	TopVideoID string

	// CreatedAt is the timestamp when the row was first created
	CreatedAt time.Time
}

// TrendRepository defines the interface for trend aggregate operations
type TrendRepository interface {
	// GetByKey returns the aggregate for (keywordID, date, period), or nil
	GetByKey(keywordID string, date time.Time, period TrendPeriod) (*TrendAggregate, error)

	// Upsert inserts the aggregate, or updates the counts and top video in
	// place when a row already exists for its (keyword, date, period) key.
	Upsert(agg *TrendAggregate) error
}
