package sqlite

import (
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrAlreadyPersisted is returned by Save for an entity that already has an id
	ErrAlreadyPersisted = errors.New("entity already persisted")

	// ErrNilEntity is returned when a nil entity is passed to a write operation
	ErrNilEntity = errors.New("nil entity")
)

// IsLocked reports whether err is SQLite lock contention (SQLITE_BUSY or
// SQLITE_LOCKED), the only failure class worth retrying
func IsLocked(err error) bool {
	if err == nil {
		return false
	}

	var sqlErr *msqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
