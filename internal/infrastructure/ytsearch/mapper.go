package ytsearch

import (
	"fmt"
	"strconv"
	"time"

	"youtube_trend_collector/internal/domain"
)

const (
	fallbackTitle   = "Untitled"
	fallbackChannel = "Unknown Channel"
	watchURLFormat  = "https://www.youtube.com/watch?v=%s"
)

// MapVideo converts one decoded search record into a Video. Every field
// falls back to its default independently; a malformed field never fails
// the whole record.
func MapVideo(keywordID string, raw domain.RawVideo, collectedAt time.Time) *domain.Video {
	externalID := stringField(raw, "id")

	title := stringField(raw, "title")
	if title == "" {
		title = fallbackTitle
	}

	url := stringField(raw, "webpage_url")
	if url == "" && externalID != "" {
		url = fmt.Sprintf(watchURLFormat, externalID)
	}

	channel := stringField(raw, "channel")
	if channel == "" {
		channel = stringField(raw, "uploader")
	}
	if channel == "" {
		channel = fallbackChannel
	}

	video := &domain.Video{
		ExternalVideoID: externalID,
		KeywordID:       keywordID,
		Title:           title,
		URL:             url,
		Channel:         channel,
		ViewCount:       int64Field(raw, "view_count"),
		Duration:        formatDuration(int64Field(raw, "duration")),
		Thumbnail:       stringField(raw, "thumbnail"),
		PublishedAt:     parseUploadDate(stringField(raw, "upload_date")),
		CollectedAt:     collectedAt,
	}

	if likes, ok := numericField(raw, "like_count"); ok {
		video.LikeCount = &likes
	}

	return video
}

// stringField returns the field as a string, or "" when absent or not a string.
func stringField(raw domain.RawVideo, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

// int64Field returns the field as an int64, or 0 when absent or non-numeric.
func int64Field(raw domain.RawVideo, key string) int64 {
	n, _ := numericField(raw, key)
	return n
}

// numericField handles the shapes JSON decoding can produce for a number.
func numericField(raw domain.RawVideo, key string) (int64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

// formatDuration renders seconds as H:MM:SS when at least an hour, else
// M:SS. Zero or unknown durations render as the empty string.
func formatDuration(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// parseUploadDate parses yt-dlp's 8-digit YYYYMMDD upload date.
func parseUploadDate(s string) *time.Time {
	if len(s) != 8 {
		return nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil
	}
	return &t
}
