package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// TrendRepository is a SQLite implementation of domain.TrendRepository.
type TrendRepository struct {
	db *sql.DB
}

// NewTrendRepository creates a new TrendRepository backed by SQLite.
func NewTrendRepository(db *sql.DB) *TrendRepository {
	return &TrendRepository{db: db}
}

// GetByKey returns the aggregate for (keywordID, date, period), or nil.
func (r *TrendRepository) GetByKey(keywordID string, date time.Time, period domain.TrendPeriod) (*domain.TrendAggregate, error) {
	row := r.db.QueryRow(`SELECT id, keyword_id, date, period, video_count, total_views,
		avg_views, top_video_id, created_at
		FROM trend_aggregates WHERE keyword_id = ? AND date = ? AND period = ?`,
		keywordID, dayKey(date), string(period))
	return scanTrend(row, date.Location())
}

// Upsert inserts the aggregate, or updates its counts and top video in
// place when a row already exists for the (keyword, date, period) key.
// created_at is preserved on update.
func (r *TrendRepository) Upsert(agg *domain.TrendAggregate) error {
	if agg.ID == "" {
		agg.ID = uuid.NewString()
	}
	if agg.CreatedAt.IsZero() {
		agg.CreatedAt = time.Now().UTC()
	}
	if agg.Period == "" {
		agg.Period = domain.TrendPeriodDaily
	}

	_, err := r.db.Exec(`INSERT INTO trend_aggregates
		(id, keyword_id, date, period, video_count, total_views, avg_views, top_video_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(keyword_id, date, period) DO UPDATE SET
			video_count = excluded.video_count,
			total_views = excluded.total_views,
			avg_views = excluded.avg_views,
			top_video_id = excluded.top_video_id`,
		agg.ID, agg.KeywordID, dayKey(agg.Date), string(agg.Period),
		agg.VideoCount, agg.TotalViews, agg.AvgViews, agg.TopVideoID, agg.CreatedAt.UTC())
	return err
}

func scanTrend(scanner interface {
	Scan(dest ...any) error
}, loc *time.Location) (*domain.TrendAggregate, error) {
	var agg domain.TrendAggregate
	var (
		date       string
		period     string
		topVideoID sql.NullString
	)

	if err := scanner.Scan(
		&agg.ID,
		&agg.KeywordID,
		&date,
		&period,
		&agg.VideoCount,
		&agg.TotalViews,
		&agg.AvgViews,
		&topVideoID,
		&agg.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if loc == nil {
		loc = time.Local
	}
	agg.Date = parseDayKey(date, loc)
	agg.Period = domain.TrendPeriod(period)
	if topVideoID.Valid {
		agg.TopVideoID = topVideoID.String
	}

	return &agg, nil
}
