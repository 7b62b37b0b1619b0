package domain

import "time"

// Keyword represents a tracked search keyword
type Keyword struct {
	// ID is the unique identifier for the keyword
	ID string

	// Name is the keyword text used for searches (unique, case-sensitive)
	Name string

	// Category is an optional grouping label
	Category string

	// IsActive indicates if collection runs for this keyword
	IsActive bool

	// CreatedAt is the timestamp when the keyword was created
	CreatedAt time.Time
}

// KeywordRepository defines the interface for keyword data operations
type KeywordRepository interface {
	// GetByID returns a keyword by its ID, or nil when not found
	GetByID(id string) (*Keyword, error)

	// GetByName returns a keyword by its exact name, or nil when not found
	GetByName(name string) (*Keyword, error)

	// GetAll returns all keywords
	GetAll() ([]*Keyword, error)

	// GetAllActive returns all active keywords
	GetAllActive() ([]*Keyword, error)

	// Save creates or updates a keyword
	Save(keyword *Keyword) error

	// SetActive toggles the active flag on a keyword
	SetActive(id string, active bool) error
}
