package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube_trend_collector/internal/domain"
)

func TestKeywordRepositorySaveAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewKeywordRepository(db)

	keyword := &domain.Keyword{Name: "lofi beats", Category: "music", IsActive: true}
	require.NoError(t, repo.Save(keyword))
	require.NotEmpty(t, keyword.ID)
	require.False(t, keyword.CreatedAt.IsZero())

	byID, err := repo.GetByID(keyword.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "lofi beats", byID.Name)
	assert.Equal(t, "music", byID.Category)
	assert.True(t, byID.IsActive)

	byName, err := repo.GetByName("lofi beats")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, keyword.ID, byName.ID)
}

func TestKeywordRepositoryGetMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewKeywordRepository(db)

	keyword, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, keyword)

	keyword, err = repo.GetByName("nope")
	require.NoError(t, err)
	assert.Nil(t, keyword)
}

func TestKeywordRepositorySaveUpdatesExisting(t *testing.T) {
	db := openTestDB(t)
	repo := NewKeywordRepository(db)

	keyword := &domain.Keyword{Name: "lofi", Category: "music", IsActive: true}
	require.NoError(t, repo.Save(keyword))

	keyword.Category = "chill"
	keyword.IsActive = false
	require.NoError(t, repo.Save(keyword))

	reloaded, err := repo.GetByID(keyword.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, "chill", reloaded.Category)
	assert.False(t, reloaded.IsActive)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestKeywordRepositoryGetAllActive(t *testing.T) {
	db := openTestDB(t)
	repo := NewKeywordRepository(db)

	require.NoError(t, repo.Save(&domain.Keyword{Name: "active one", IsActive: true}))
	require.NoError(t, repo.Save(&domain.Keyword{Name: "dormant", IsActive: false}))
	require.NoError(t, repo.Save(&domain.Keyword{Name: "active two", IsActive: true}))

	active, err := repo.GetAllActive()
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, keyword := range active {
		assert.True(t, keyword.IsActive)
	}

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestKeywordRepositorySetActive(t *testing.T) {
	db := openTestDB(t)
	repo := NewKeywordRepository(db)

	keyword := &domain.Keyword{Name: "lofi", IsActive: true}
	require.NoError(t, repo.Save(keyword))

	require.NoError(t, repo.SetActive(keyword.ID, false))

	reloaded, err := repo.GetByID(keyword.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	err = repo.SetActive("missing-id", true)
	assert.ErrorIs(t, err, domain.ErrKeywordNotFound)
}
