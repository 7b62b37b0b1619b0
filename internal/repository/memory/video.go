package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// VideoRepository is an in-memory implementation of VideoRepository.
// Insertion order is preserved so first-encountered tie-breaks behave
// like the SQLite implementation.
type VideoRepository struct {
	mu     sync.RWMutex
	videos []*domain.Video
}

// NewVideoRepository creates a new in-memory video repository
func NewVideoRepository() *VideoRepository {
	return &VideoRepository{}
}

// GetByExternalID returns a video by its upstream ID
func (r *VideoRepository) GetByExternalID(externalID string) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, video := range r.videos {
		if video.ExternalVideoID == externalID {
			return video, nil
		}
	}
	return nil, nil
}

// Upsert inserts a video or refreshes the mutable fields of an existing
// record with the same external ID
func (r *VideoRepository) Upsert(video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if video.CollectedAt.IsZero() {
		video.CollectedAt = time.Now()
	}

	for _, existing := range r.videos {
		if existing.ExternalVideoID == video.ExternalVideoID {
			existing.Title = video.Title
			existing.ViewCount = video.ViewCount
			existing.LikeCount = video.LikeCount
			existing.CollectedAt = video.CollectedAt
			video.ID = existing.ID
			return nil
		}
	}

	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	r.videos = append(r.videos, video)
	return nil
}

// FindCollectedBetween returns a keyword's videos with collectedAt in
// [from, to), in insertion order
func (r *VideoRepository) FindCollectedBetween(keywordID string, from, to time.Time) ([]*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Video
	for _, video := range r.videos {
		if video.KeywordID != keywordID {
			continue
		}
		if video.CollectedAt.Before(from) || !video.CollectedAt.Before(to) {
			continue
		}
		out = append(out, video)
	}
	return out, nil
}
