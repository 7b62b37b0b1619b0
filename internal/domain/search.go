package domain

import "context"

// RawVideo is one decoded object from the search tool's NDJSON output.
// Fields are accessed defensively; the mapper applies per-field defaults.
type RawVideo map[string]any

// SearchOptions control one search invocation
type SearchOptions struct {
	// Keyword is the search term
	Keyword string

	// Limit bounds the number of requested results
	Limit int

	// MaxAgeDays bounds results to videos uploaded within the last N days.
	// Takes precedence over RecencyWindow when both are set.
	MaxAgeDays int

	// RecencyWindow is a named recency bucket ("today", "week", "month")
	RecencyWindow string
}

// VideoSearcher runs one search against the external tool and returns the
// full (or partial, see search outcome rules) record list.
type VideoSearcher interface {
	// Search spawns the tool and drains its output to completion
	Search(ctx context.Context, opts SearchOptions) ([]RawVideo, error)

	// Available reports whether the tool binary can be spawned at all
	Available() error
}
