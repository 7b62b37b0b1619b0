package domain

import "time"

// Video represents one collected trending-video record
type Video struct {
	// ID is the unique identifier for the record
	ID string

	// ExternalVideoID is the upstream video ID (upsert key)
	ExternalVideoID string

	// KeywordID is the owning keyword
	KeywordID string

	// Title is the video title
	Title string

	// URL is the canonical watch URL
	URL string

	// Channel is the publishing channel name
	Channel string

	// ViewCount is the view count observed at collection time
	ViewCount int64

	// LikeCount is the like count, when the upstream exposes it
	LikeCount *int64

	// Duration is the formatted video length (H:MM:SS or M:SS), empty when unknown
	Duration string

	// Thumbnail is the thumbnail URL, when available
	Thumbnail string

	// PublishedAt is the upload date, when the upstream exposes it
	PublishedAt *time.Time

	// CollectedAt is refreshed on every successful upsert
	CollectedAt time.Time
}

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	// GetByExternalID returns a video by its upstream ID, or nil when not found
	GetByExternalID(externalID string) (*Video, error)

	// Upsert inserts the video, or on an external-ID conflict updates
	// title, view count, like count and collected-at in place.
	Upsert(video *Video) error

	// FindCollectedBetween returns a keyword's videos with collectedAt in
	// [from, to), in collection order.
	FindCollectedBetween(keywordID string, from, to time.Time) ([]*Video, error)
}
