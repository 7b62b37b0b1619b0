package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube_trend_collector/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open("sqlite3:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedKeyword(t *testing.T, db *sql.DB, name string) *domain.Keyword {
	t.Helper()

	repo := NewKeywordRepository(db)
	keyword := &domain.Keyword{Name: name, IsActive: true}
	require.NoError(t, repo.Save(keyword))
	return keyword
}

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sqlite3:./trends.db", "file:trends.db?_pragma=busy_timeout(5000)"},
		{"sqlite:./trends.db", "file:trends.db?_pragma=busy_timeout(5000)"},
		{"trends.db", "file:trends.db?_pragma=busy_timeout(5000)"},
		{"sqlite3:/var/lib/trends.db", "file:/var/lib/trends.db?_pragma=busy_timeout(5000)"},
		{"file:trends.db?_pragma=busy_timeout(100)", "file:trends.db?_pragma=busy_timeout(100)"},
		{"", "file:trends.db?_pragma=busy_timeout(5000)"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, normalizeDSN(tt.in), "input %q", tt.in)
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	day := time.Date(2026, 8, 20, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-08-20", dayKey(day))

	parsed := parseDayKey("2026-08-20", time.UTC)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), parsed)

	assert.True(t, parseDayKey("garbage", time.UTC).IsZero())
}
