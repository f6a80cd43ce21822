package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"orgroster/internal/logger"
	"orgroster/internal/retry"
)

// Config captures SQLite store configuration
type Config struct {
	// Path is the database file, or ":memory:"
	Path string

	// BusyTimeout is handed to PRAGMA busy_timeout. Zero makes lock
	// contention surface immediately so the retry policy handles it.
	BusyTimeout time.Duration

	// Retry governs how lock contention is retried. The zero value means
	// retry.DefaultPolicy().
	Retry retry.Policy
}

// DB wraps the shared database handle and runs every statement through the
// retry policy
type DB struct {
	db     *sql.DB
	policy retry.Policy
	log    logger.Logger
}

// Open opens (creating if needed) the SQLite database described by cfg
func Open(cfg Config, log logger.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := New(db, cfg.Retry, log)
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return d, nil
}

// New wraps an already opened handle. The pool is pinned to a single
// connection; the caller keeps ownership of the lifecycle through Close.
func New(db *sql.DB, policy retry.Policy, log logger.Logger) *DB {
	if policy.MaxAttempts == 0 {
		policy = retry.DefaultPolicy()
	}
	if log == nil {
		log = logger.Nop()
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return &DB{db: db, policy: policy, log: log}
}

func dsn(cfg Config) string {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, cfg.BusyTimeout.Milliseconds())
}

// Policy returns the retry policy applied to statements
func (d *DB) Policy() retry.Policy {
	return d.policy
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// withConn runs fn on a connection checked out for a single attempt. The
// connection goes back to the pool when the attempt ends, however it ends.
func (d *DB) withConn(ctx context.Context, op string, fn func(ctx context.Context, conn *sql.Conn) error) error {
	policy := d.policy
	policy.OnRetry = func(attempt int, err error) {
		d.log.Warn("database locked, retrying",
			"op", op,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"delay", policy.Delay,
			"error", err)
	}

	err := policy.Do(ctx, IsLocked, func(ctx context.Context) error {
		conn, err := d.db.Conn(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()
		return fn(ctx, conn)
	})
	if err != nil {
		return fmt.Errorf("sqlite: %s: %w", op, err)
	}
	return nil
}

// execRaw runs a literal statement
func (d *DB) execRaw(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := d.withConn(ctx, op, func(ctx context.Context, conn *sql.Conn) error {
		var err error
		res, err = conn.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

// exec builds and runs a squirrel statement
func (d *DB) exec(ctx context.Context, op string, stmt sq.Sqlizer) (sql.Result, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: build statement: %w", op, err)
	}
	return d.execRaw(ctx, op, query, args...)
}

// queryAll builds and runs a squirrel query, scanning every row with scan.
// A retried attempt starts from an empty result.
func queryAll[R any](ctx context.Context, d *DB, op string, stmt sq.Sqlizer, scan func(*sql.Rows) (R, error)) ([]R, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: build query: %w", op, err)
	}

	var out []R
	err = d.withConn(ctx, op, func(ctx context.Context, conn *sql.Conn) error {
		out = out[:0]
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			r, err := scan(rows)
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// tableExists reports whether a table with the given name exists
func (d *DB) tableExists(ctx context.Context, name string) (bool, error) {
	stmt := sq.Select("name").
		From("sqlite_master").
		Where(sq.Eq{"type": "table", "name": name})
	names, err := queryAll(ctx, d, "table exists", stmt, func(rows *sql.Rows) (string, error) {
		var n string
		err := rows.Scan(&n)
		return n, err
	})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}
