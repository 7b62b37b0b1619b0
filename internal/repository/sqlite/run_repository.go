package sqlite

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"youtube_trend_collector/internal/domain"
)

// CollectionRunRepository is a SQLite implementation of
// domain.CollectionRunRepository. Run rows are append-only.
type CollectionRunRepository struct {
	db *sql.DB
}

// NewCollectionRunRepository creates a new run repository backed by SQLite.
func NewCollectionRunRepository(db *sql.DB) *CollectionRunRepository {
	return &CollectionRunRepository{db: db}
}

// Append inserts a new run record.
func (r *CollectionRunRepository) Append(run *domain.CollectionRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := r.db.Exec(`INSERT INTO collection_runs
		(id, started_at, completed_at, keyword_count, video_count, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.CompletedAt.UTC(),
		run.KeywordCount, run.VideoCount, string(run.Status), run.Error)
	return err
}

// GetRecent returns the most recent runs, newest first.
func (r *CollectionRunRepository) GetRecent(limit int) ([]*domain.CollectionRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`SELECT id, started_at, completed_at, keyword_count,
		video_count, status, error
		FROM collection_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.CollectionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanRun(scanner interface {
	Scan(dest ...any) error
}) (*domain.CollectionRun, error) {
	var run domain.CollectionRun
	var (
		status string
		runErr sql.NullString
	)

	if err := scanner.Scan(
		&run.ID,
		&run.StartedAt,
		&run.CompletedAt,
		&run.KeywordCount,
		&run.VideoCount,
		&status,
		&runErr,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	run.Status = domain.RunStatus(status)
	if runErr.Valid {
		run.Error = runErr.String
	}

	return &run, nil
}
