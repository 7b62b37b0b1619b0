package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// KeywordRepository is a SQLite implementation of domain.KeywordRepository.
type KeywordRepository struct {
	db *sql.DB
}

// NewKeywordRepository creates a new KeywordRepository backed by SQLite.
func NewKeywordRepository(db *sql.DB) *KeywordRepository {
	return &KeywordRepository{db: db}
}

// GetByID returns a keyword by ID, or nil when not found.
func (r *KeywordRepository) GetByID(id string) (*domain.Keyword, error) {
	row := r.db.QueryRow(`SELECT id, name, category, is_active, created_at
		FROM keywords WHERE id = ?`, id)
	return scanKeyword(row)
}

// GetByName returns a keyword by its exact name, or nil when not found.
func (r *KeywordRepository) GetByName(name string) (*domain.Keyword, error) {
	row := r.db.QueryRow(`SELECT id, name, category, is_active, created_at
		FROM keywords WHERE name = ?`, name)
	return scanKeyword(row)
}

// GetAll returns all keywords ordered by creation time.
func (r *KeywordRepository) GetAll() ([]*domain.Keyword, error) {
	return r.query(`SELECT id, name, category, is_active, created_at
		FROM keywords ORDER BY created_at ASC`)
}

// GetAllActive returns all active keywords ordered by creation time.
func (r *KeywordRepository) GetAllActive() ([]*domain.Keyword, error) {
	return r.query(`SELECT id, name, category, is_active, created_at
		FROM keywords WHERE is_active = 1 ORDER BY created_at ASC`)
}

// Save inserts or updates a keyword.
func (r *KeywordRepository) Save(keyword *domain.Keyword) error {
	if keyword.ID == "" {
		keyword.ID = uuid.NewString()
	}
	if keyword.CreatedAt.IsZero() {
		keyword.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`INSERT INTO keywords (id, name, category, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			is_active = excluded.is_active`,
		keyword.ID, keyword.Name, keyword.Category, boolToInt(keyword.IsActive), keyword.CreatedAt.UTC())
	return err
}

// SetActive toggles the active flag.
func (r *KeywordRepository) SetActive(id string, active bool) error {
	res, err := r.db.Exec(`UPDATE keywords SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrKeywordNotFound
	}
	return nil
}

func (r *KeywordRepository) query(q string) ([]*domain.Keyword, error) {
	rows, err := r.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []*domain.Keyword
	for rows.Next() {
		keyword, err := scanKeyword(rows)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, keyword)
	}

	return keywords, rows.Err()
}

func scanKeyword(scanner interface {
	Scan(dest ...any) error
}) (*domain.Keyword, error) {
	var keyword domain.Keyword
	var (
		category sql.NullString
		active   int
	)

	if err := scanner.Scan(
		&keyword.ID,
		&keyword.Name,
		&category,
		&active,
		&keyword.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if category.Valid {
		keyword.Category = category.String
	}
	keyword.IsActive = active != 0

	return &keyword, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
