package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube_trend_collector/internal/domain"
)

func TestVideoRepositoryUpsertInsertsAndRefreshes(t *testing.T) {
	db := openTestDB(t)
	keyword := seedKeyword(t, db, "lofi")
	repo := NewVideoRepository(db)

	likes := int64(50)
	published := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	first := &domain.Video{
		ExternalVideoID: "abc123",
		KeywordID:       keyword.ID,
		Title:           "original title",
		URL:             "https://www.youtube.com/watch?v=abc123",
		Channel:         "Some Channel",
		ViewCount:       1000,
		LikeCount:       &likes,
		Duration:        "2:05",
		Thumbnail:       "https://i.ytimg.com/abc123.jpg",
		PublishedAt:     &published,
		CollectedAt:     time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(first))
	require.NotEmpty(t, first.ID)

	// Same upstream video seen again with refreshed counters.
	second := &domain.Video{
		ExternalVideoID: "abc123",
		KeywordID:       keyword.ID,
		Title:           "updated title",
		URL:             "https://example.com/should-not-replace",
		ViewCount:       2000,
		CollectedAt:     time.Date(2026, 8, 20, 16, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(second))

	stored, err := repo.GetByExternalID("abc123")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, first.ID, stored.ID, "identity survives the refresh")
	assert.Equal(t, "updated title", stored.Title)
	assert.Equal(t, int64(2000), stored.ViewCount)
	assert.Nil(t, stored.LikeCount, "like count refreshes even to absent")
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", stored.URL, "immutable fields keep first-seen values")
	assert.Equal(t, "Some Channel", stored.Channel)
	assert.Equal(t, "2:05", stored.Duration)
	require.NotNil(t, stored.PublishedAt)
	assert.True(t, published.Equal(*stored.PublishedAt))
	assert.True(t, second.CollectedAt.Equal(stored.CollectedAt.UTC()))
}

func TestVideoRepositoryGetMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewVideoRepository(db)

	video, err := repo.GetByExternalID("nope")
	require.NoError(t, err)
	assert.Nil(t, video)
}

func TestVideoRepositoryFindCollectedBetween(t *testing.T) {
	db := openTestDB(t)
	keyword := seedKeyword(t, db, "lofi")
	other := seedKeyword(t, db, "synthwave")
	repo := NewVideoRepository(db)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	add := func(externalID string, keywordID string, collectedAt time.Time) {
		require.NoError(t, repo.Upsert(&domain.Video{
			ExternalVideoID: externalID,
			KeywordID:       keywordID,
			Title:           externalID,
			CollectedAt:     collectedAt,
		}))
	}

	add("v-before", keyword.ID, day.Add(-time.Hour))
	add("v-early", keyword.ID, day.Add(2*time.Hour))
	add("v-late", keyword.ID, day.Add(20*time.Hour))
	add("v-boundary", keyword.ID, day.AddDate(0, 0, 1))
	add("v-other", other.ID, day.Add(3*time.Hour))

	videos, err := repo.FindCollectedBetween(keyword.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, videos, 2)

	// Oldest first, window half-open.
	assert.Equal(t, "v-early", videos[0].ExternalVideoID)
	assert.Equal(t, "v-late", videos[1].ExternalVideoID)
}
