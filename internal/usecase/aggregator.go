package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/logger"
)

// TrendAggregator recomputes per-keyword daily summaries from the videos
// collected during the current local calendar day.
type TrendAggregator struct {
	keywords domain.KeywordRepository
	videos   domain.VideoRepository
	trends   domain.TrendRepository
	now      func() time.Time
}

// NewTrendAggregator creates a new trend aggregator
func NewTrendAggregator(
	keywordRepo domain.KeywordRepository,
	videoRepo domain.VideoRepository,
	trendRepo domain.TrendRepository,
) *TrendAggregator {
	return &TrendAggregator{
		keywords: keywordRepo,
		videos:   videoRepo,
		trends:   trendRepo,
		now:      time.Now,
	}
}

// AggregateAll recomputes today's aggregate for every keyword. Aggregation
// is not gated by the active flag: a deactivated keyword's videos from
// earlier in the day still count. Per-keyword failures are logged and the
// pass continues.
func (a *TrendAggregator) AggregateAll(ctx context.Context) error {
	keywords, err := a.keywords.GetAll()
	if err != nil {
		return fmt.Errorf("load keywords: %w", err)
	}

	failures := 0
	for _, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.AggregateKeyword(ctx, keyword.ID); err != nil {
			logger.Error().Printf("aggregation failed for keyword %q: %v", keyword.Name, err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("aggregation failed for %d of %d keywords", failures, len(keywords))
	}
	return nil
}

// AggregateKeyword recomputes the current day's aggregate for one keyword.
// A day with no collected records gets no row at all; absence of activity
// is represented by absence of a row.
func (a *TrendAggregator) AggregateKeyword(_ context.Context, keywordID string) error {
	day := truncateToDay(a.now())
	from, to := day, day.AddDate(0, 0, 1)

	videos, err := a.videos.FindCollectedBetween(keywordID, from, to)
	if err != nil {
		return fmt.Errorf("load today's videos: %w", err)
	}
	if len(videos) == 0 {
		return nil
	}

	var totalViews int64
	top := videos[0]
	for _, video := range videos {
		totalViews += video.ViewCount
		// Strict greater-than keeps the first-encountered video on ties.
		if video.ViewCount > top.ViewCount {
			top = video
		}
	}

	agg := &domain.TrendAggregate{
		KeywordID:  keywordID,
		Date:       day,
		Period:     domain.TrendPeriodDaily,
		VideoCount: len(videos),
		TotalViews: totalViews,
		AvgViews:   int64(math.Round(float64(totalViews) / float64(len(videos)))),
		TopVideoID: top.ID,
	}

	return a.trends.Upsert(agg)
}

// truncateToDay snaps a timestamp to midnight in its own location.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
