package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"orgroster/internal/logger"
	"orgroster/internal/retry"
)

// testPolicy keeps the retry budget of five attempts but waits only briefly
func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 5, Delay: 5 * time.Millisecond}
}

// newTestDB opens a file-backed database in a temp dir
func newTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.db")
	db, err := Open(Config{Path: path, Retry: testPolicy()}, logger.NewLogger(logger.TestConfig()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

// newTestRepos returns unit and member repositories with both tables created
func newTestRepos(t *testing.T) (*UnitRepository, *MemberRepository) {
	t.Helper()
	db, _ := newTestDB(t)
	ctx := context.Background()

	units := NewUnitRepository(db)
	members := NewMemberRepository(db)
	require.NoError(t, units.CreateTable(ctx))
	require.NoError(t, members.CreateTable(ctx))
	return units, members
}

// holdWriteLock opens a second handle on path and takes the write lock,
// returning a func that releases it
func holdWriteLock(t *testing.T, path string) func() {
	t.Helper()
	ctx := context.Background()

	other, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	conn, err := other.Conn(ctx)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "BEGIN IMMEDIATE")
	require.NoError(t, err)

	var once sync.Once
	release := func() {
		once.Do(func() {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
			conn.Close()
			other.Close()
		})
	}
	t.Cleanup(release)
	return release
}

// rawCount counts rows in table bypassing the repositories
func rawCount(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
