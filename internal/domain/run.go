package domain

import (
	"context"
	"time"
)

// RunStatus classifies the outcome of a full collection run
type RunStatus string

const (
	// RunStatusSuccess means videos were collected and no keyword failed
	RunStatusSuccess RunStatus = "success"

	// RunStatusPartial means at least one keyword failed but videos were collected
	RunStatusPartial RunStatus = "partial"

	// RunStatusFailed means no videos were collected at all
	RunStatusFailed RunStatus = "failed"
)

// CollectionRun is the persisted, append-only record of one full run
type CollectionRun struct {
	ID           string
	StartedAt    time.Time
	CompletedAt  time.Time
	KeywordCount int
	VideoCount   int
	Status       RunStatus
	Error        string
}

// KeywordCollectResult is the per-keyword outcome inside a run
type KeywordCollectResult struct {
	KeywordID       string `json:"keyword_id"`
	KeywordName     string `json:"keyword_name"`
	VideosCollected int    `json:"videos_collected"`

	// Inactive marks a zero-effect outcome for an inactive keyword
	Inactive bool `json:"inactive,omitempty"`

	// Error is set when the search invocation itself failed, or when the
	// keyword was inactive. It never aborts the surrounding run.
	Error string `json:"error,omitempty"`
}

// RunReport is the full run outcome handed to notifiers, including the
// per-keyword breakdown that the persisted CollectionRun row flattens.
type RunReport struct {
	StartedAt    time.Time               `json:"started_at"`
	CompletedAt  time.Time               `json:"completed_at"`
	KeywordCount int                     `json:"keyword_count"`
	TotalVideos  int                     `json:"total_videos"`
	Status       RunStatus               `json:"status"`
	Keywords     []*KeywordCollectResult `json:"keywords,omitempty"`
}

// CollectionRunRepository defines the interface for run record operations
type CollectionRunRepository interface {
	// Append inserts a new run record. Runs are never updated or deleted.
	Append(run *CollectionRun) error

	// GetRecent returns the most recent runs, newest first
	GetRecent(limit int) ([]*CollectionRun, error)
}

// RunNotifier receives the outcome of every full collection run. Delivery
// failures are logged by the caller and never alter the recorded run.
type RunNotifier interface {
	NotifyRunCompleted(ctx context.Context, report *RunReport) error
}
