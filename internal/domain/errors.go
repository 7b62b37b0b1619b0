package domain

import (
	"errors"
	"fmt"
)

// ErrToolNotInstalled means the search tool binary could not be found.
// This is a deployment precondition, not a transient fault: a full run
// aborts before touching any keyword.
var ErrToolNotInstalled = errors.New("search tool is not installed")

// ErrKeywordNotFound means the requested keyword does not exist
var ErrKeywordNotFound = errors.New("keyword not found")

// ToolExecutionError means the search tool exited nonzero without
// producing a single parseable record. Recoverable at keyword granularity.
type ToolExecutionError struct {
	ExitCode int
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("search tool exited with code %d and produced no records", e.ExitCode)
}
