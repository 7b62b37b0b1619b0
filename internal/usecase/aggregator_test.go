package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/repository/memory"
)

type aggregatorFixture struct {
	aggregator *TrendAggregator
	keywords   *memory.KeywordRepository
	videos     *memory.VideoRepository
	trends     *memory.TrendRepository
	now        time.Time
}

func newAggregatorFixture(t *testing.T) *aggregatorFixture {
	t.Helper()

	keywordRepo := memory.NewKeywordRepository()
	videoRepo := memory.NewVideoRepository()
	trendRepo := memory.NewTrendRepository()

	now := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	aggregator := NewTrendAggregator(keywordRepo, videoRepo, trendRepo)
	aggregator.now = func() time.Time { return now }

	return &aggregatorFixture{
		aggregator: aggregator,
		keywords:   keywordRepo,
		videos:     videoRepo,
		trends:     trendRepo,
		now:        now,
	}
}

func (f *aggregatorFixture) addVideo(t *testing.T, keywordID, externalID string, views int64, collectedAt time.Time) *domain.Video {
	t.Helper()
	video := &domain.Video{
		ExternalVideoID: externalID,
		KeywordID:       keywordID,
		Title:           "video " + externalID,
		ViewCount:       views,
		CollectedAt:     collectedAt,
	}
	require.NoError(t, f.videos.Upsert(video))
	return video
}

func TestAggregateKeywordComputesDailySummary(t *testing.T) {
	f := newAggregatorFixture(t)

	f.addVideo(t, "kw-1", "v1", 100, f.now)
	top := f.addVideo(t, "kw-1", "v2", 300, f.now)
	f.addVideo(t, "kw-1", "v3", 50, f.now)

	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))

	agg, err := f.trends.GetByKey("kw-1", f.now, domain.TrendPeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, agg)

	assert.Equal(t, 3, agg.VideoCount)
	assert.Equal(t, int64(450), agg.TotalViews)
	assert.Equal(t, int64(150), agg.AvgViews)
	assert.Equal(t, top.ID, agg.TopVideoID)
	assert.Equal(t, domain.TrendPeriodDaily, agg.Period)
}

func TestAggregateKeywordAverageRounds(t *testing.T) {
	f := newAggregatorFixture(t)

	// 10 + 11 = 21 over 2 videos: 10.5 rounds half away from zero to 11.
	f.addVideo(t, "kw-1", "v1", 10, f.now)
	f.addVideo(t, "kw-1", "v2", 11, f.now)

	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))

	agg, err := f.trends.GetByKey("kw-1", f.now, domain.TrendPeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, int64(11), agg.AvgViews)
}

func TestAggregateKeywordTieKeepsFirstEncountered(t *testing.T) {
	f := newAggregatorFixture(t)

	first := f.addVideo(t, "kw-1", "v1", 200, f.now)
	f.addVideo(t, "kw-1", "v2", 200, f.now)

	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))

	agg, err := f.trends.GetByKey("kw-1", f.now, domain.TrendPeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, first.ID, agg.TopVideoID)
}

func TestAggregateKeywordEmptyDayWritesNoRow(t *testing.T) {
	f := newAggregatorFixture(t)

	// Collected yesterday: outside today's window.
	f.addVideo(t, "kw-1", "v1", 100, f.now.AddDate(0, 0, -1))

	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))

	agg, err := f.trends.GetByKey("kw-1", f.now, domain.TrendPeriodDaily)
	require.NoError(t, err)
	assert.Nil(t, agg)
	assert.Equal(t, 0, f.trends.Len())
}

func TestAggregateKeywordIsIdempotent(t *testing.T) {
	f := newAggregatorFixture(t)

	f.addVideo(t, "kw-1", "v1", 100, f.now)
	f.addVideo(t, "kw-1", "v2", 300, f.now)

	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))
	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))

	assert.Equal(t, 1, f.trends.Len(), "re-aggregation updates in place")

	agg, err := f.trends.GetByKey("kw-1", f.now, domain.TrendPeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, 2, agg.VideoCount)
	assert.Equal(t, int64(400), agg.TotalViews)
}

func TestAggregateKeywordPicksUpNewVideos(t *testing.T) {
	f := newAggregatorFixture(t)

	f.addVideo(t, "kw-1", "v1", 100, f.now)
	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))

	f.addVideo(t, "kw-1", "v2", 500, f.now)
	require.NoError(t, f.aggregator.AggregateKeyword(context.Background(), "kw-1"))

	agg, err := f.trends.GetByKey("kw-1", f.now, domain.TrendPeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, 2, agg.VideoCount)
	assert.Equal(t, int64(600), agg.TotalViews)
}

func TestAggregateAllCoversInactiveKeywords(t *testing.T) {
	f := newAggregatorFixture(t)

	active := &domain.Keyword{Name: "active", IsActive: true}
	require.NoError(t, f.keywords.Save(active))
	dormant := &domain.Keyword{Name: "dormant", IsActive: false}
	require.NoError(t, f.keywords.Save(dormant))

	f.addVideo(t, active.ID, "v1", 100, f.now)
	// Collected earlier today, before the keyword was deactivated.
	f.addVideo(t, dormant.ID, "v2", 200, f.now.Add(-2*time.Hour))

	require.NoError(t, f.aggregator.AggregateAll(context.Background()))

	assert.Equal(t, 2, f.trends.Len(), "deactivation does not exclude the day's videos")
}

func TestAggregateAllStopsOnCancelledContext(t *testing.T) {
	f := newAggregatorFixture(t)

	keyword := &domain.Keyword{Name: "kw", IsActive: true}
	require.NoError(t, f.keywords.Save(keyword))
	f.addVideo(t, keyword.ID, "v1", 100, f.now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.aggregator.AggregateAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.trends.Len())
}
