package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube_trend_collector/internal/domain"
)

func TestTrendRepositoryUpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	keyword := seedKeyword(t, db, "lofi")
	repo := NewTrendRepository(db)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	agg := &domain.TrendAggregate{
		KeywordID:  keyword.ID,
		Date:       day,
		Period:     domain.TrendPeriodDaily,
		VideoCount: 3,
		TotalViews: 450,
		AvgViews:   150,
		TopVideoID: "video-1",
	}
	require.NoError(t, repo.Upsert(agg))
	require.NotEmpty(t, agg.ID)

	stored, err := repo.GetByKey(keyword.ID, day, domain.TrendPeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, agg.ID, stored.ID)
	assert.Equal(t, 3, stored.VideoCount)
	assert.Equal(t, int64(450), stored.TotalViews)
	assert.Equal(t, int64(150), stored.AvgViews)
	assert.Equal(t, "video-1", stored.TopVideoID)
	assert.True(t, day.Equal(stored.Date))
}

func TestTrendRepositoryGetMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrendRepository(db)

	agg, err := repo.GetByKey("kw", time.Now(), domain.TrendPeriodDaily)
	require.NoError(t, err)
	assert.Nil(t, agg)
}

func TestTrendRepositoryUpsertUpdatesInPlace(t *testing.T) {
	db := openTestDB(t)
	keyword := seedKeyword(t, db, "lofi")
	repo := NewTrendRepository(db)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	first := &domain.TrendAggregate{
		KeywordID:  keyword.ID,
		Date:       day,
		Period:     domain.TrendPeriodDaily,
		VideoCount: 1,
		TotalViews: 100,
		AvgViews:   100,
		TopVideoID: "video-1",
	}
	require.NoError(t, repo.Upsert(first))

	second := &domain.TrendAggregate{
		KeywordID:  keyword.ID,
		Date:       day.Add(5 * time.Hour), // same calendar day
		Period:     domain.TrendPeriodDaily,
		VideoCount: 4,
		TotalViews: 900,
		AvgViews:   225,
		TopVideoID: "video-3",
	}
	require.NoError(t, repo.Upsert(second))

	stored, err := repo.GetByKey(keyword.ID, day, domain.TrendPeriodDaily)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, first.ID, stored.ID, "the row identity is the composite key")
	assert.Equal(t, 4, stored.VideoCount)
	assert.Equal(t, int64(900), stored.TotalViews)
	assert.Equal(t, "video-3", stored.TopVideoID)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM trend_aggregates`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTrendRepositoryDistinctDaysAreDistinctRows(t *testing.T) {
	db := openTestDB(t)
	keyword := seedKeyword(t, db, "lofi")
	repo := NewTrendRepository(db)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(&domain.TrendAggregate{
			KeywordID:  keyword.ID,
			Date:       day.AddDate(0, 0, i),
			Period:     domain.TrendPeriodDaily,
			VideoCount: 1,
			TotalViews: 10,
			AvgViews:   10,
		}))
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM trend_aggregates`).Scan(&count))
	assert.Equal(t, 3, count)
}
