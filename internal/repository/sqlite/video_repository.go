package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// VideoRepository is a SQLite implementation of domain.VideoRepository.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new VideoRepository backed by SQLite.
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByExternalID returns a video by its upstream ID, or nil when not found.
func (r *VideoRepository) GetByExternalID(externalID string) (*domain.Video, error) {
	row := r.db.QueryRow(`SELECT id, external_video_id, keyword_id, title, url, channel,
		view_count, like_count, duration, thumbnail, published_at, collected_at
		FROM videos WHERE external_video_id = ?`, externalID)
	return scanVideo(row)
}

// Upsert inserts a video keyed by external_video_id. On conflict only the
// refreshable fields change: title, view count, like count and collected-at.
func (r *VideoRepository) Upsert(video *domain.Video) error {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if video.CollectedAt.IsZero() {
		video.CollectedAt = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO videos
		(id, external_video_id, keyword_id, title, url, channel, view_count, like_count,
			duration, thumbnail, published_at, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_video_id) DO UPDATE SET
			title = excluded.title,
			view_count = excluded.view_count,
			like_count = excluded.like_count,
			collected_at = excluded.collected_at`,
		video.ID, video.ExternalVideoID, video.KeywordID, video.Title, video.URL, video.Channel,
		video.ViewCount, nullableInt64(video.LikeCount), video.Duration, video.Thumbnail,
		nullableTime(video.PublishedAt), video.CollectedAt.UTC())
	return err
}

// FindCollectedBetween returns a keyword's videos with collected_at in
// [from, to), oldest first so first-encountered tie-breaks are stable.
func (r *VideoRepository) FindCollectedBetween(keywordID string, from, to time.Time) ([]*domain.Video, error) {
	rows, err := r.db.Query(`SELECT id, external_video_id, keyword_id, title, url, channel,
		view_count, like_count, duration, thumbnail, published_at, collected_at
		FROM videos WHERE keyword_id = ? AND collected_at >= ? AND collected_at < ?
		ORDER BY collected_at ASC, rowid ASC`, keywordID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	return videos, rows.Err()
}

func scanVideo(scanner interface {
	Scan(dest ...any) error
}) (*domain.Video, error) {
	var video domain.Video
	var (
		url       sql.NullString
		channel   sql.NullString
		likeCount sql.NullInt64
		duration  sql.NullString
		thumbnail sql.NullString
		published sql.NullTime
	)

	if err := scanner.Scan(
		&video.ID,
		&video.ExternalVideoID,
		&video.KeywordID,
		&video.Title,
		&url,
		&channel,
		&video.ViewCount,
		&likeCount,
		&duration,
		&thumbnail,
		&published,
		&video.CollectedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if url.Valid {
		video.URL = url.String
	}
	if channel.Valid {
		video.Channel = channel.String
	}
	if likeCount.Valid {
		likes := likeCount.Int64
		video.LikeCount = &likes
	}
	if duration.Valid {
		video.Duration = duration.String
	}
	if thumbnail.Valid {
		video.Thumbnail = thumbnail.String
	}
	if published.Valid {
		publishedAt := published.Time
		video.PublishedAt = &publishedAt
	}

	return &video, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
