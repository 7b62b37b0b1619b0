package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// KeywordRepository is an in-memory implementation of KeywordRepository
type KeywordRepository struct {
	mu       sync.RWMutex
	keywords []*domain.Keyword
}

// NewKeywordRepository creates a new in-memory keyword repository
func NewKeywordRepository() *KeywordRepository {
	return &KeywordRepository{}
}

// GetByID returns a keyword by its ID
func (r *KeywordRepository) GetByID(id string) (*domain.Keyword, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, keyword := range r.keywords {
		if keyword.ID == id {
			return keyword, nil
		}
	}
	return nil, nil
}

// GetByName returns a keyword by its exact name
func (r *KeywordRepository) GetByName(name string) (*domain.Keyword, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, keyword := range r.keywords {
		if keyword.Name == name {
			return keyword, nil
		}
	}
	return nil, nil
}

// GetAll returns all keywords in insertion order
func (r *KeywordRepository) GetAll() ([]*domain.Keyword, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Keyword, len(r.keywords))
	copy(out, r.keywords)
	return out, nil
}

// GetAllActive returns all active keywords in insertion order
func (r *KeywordRepository) GetAllActive() ([]*domain.Keyword, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Keyword
	for _, keyword := range r.keywords {
		if keyword.IsActive {
			out = append(out, keyword)
		}
	}
	return out, nil
}

// Save creates or updates a keyword
func (r *KeywordRepository) Save(keyword *domain.Keyword) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if keyword.ID == "" {
		keyword.ID = uuid.NewString()
	}
	if keyword.CreatedAt.IsZero() {
		keyword.CreatedAt = time.Now()
	}

	for i, existing := range r.keywords {
		if existing.ID == keyword.ID {
			r.keywords[i] = keyword
			return nil
		}
	}
	r.keywords = append(r.keywords, keyword)
	return nil
}

// SetActive toggles the active flag on a keyword
func (r *KeywordRepository) SetActive(id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, keyword := range r.keywords {
		if keyword.ID == id {
			keyword.IsActive = active
			return nil
		}
	}
	return domain.ErrKeywordNotFound
}
