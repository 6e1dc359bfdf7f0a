package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
)

// timeLayout is the stored form of created_at, always UTC.
const timeLayout = "2006-01-02 15:04:05.000"

const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	entry_text TEXT NOT NULL,
	emotion TEXT,
	sentiment_score REAL,
	emotions_detected TEXT,
	created_at TEXT NOT NULL,
	prompt_used TEXT,
	is_favorite INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created
	ON journal_entries(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS journal_prompts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	prompt_text TEXT NOT NULL,
	emotion_category TEXT,
	usage_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS mood_tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id INTEGER NOT NULL REFERENCES journal_entries(id),
	tag TEXT NOT NULL
);
`

// SQLiteStore implements Store on top of modernc.org/sqlite. Every operation
// checks out its own connection so concurrent requests never share one.
type SQLiteStore struct {
	db          *sql.DB
	path        string
	busyTimeout time.Duration
	retry       RetryPolicy
	now         func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// Option customises a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock overrides the time source used for created_at and analytics windows.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRetryPolicy overrides the write retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *SQLiteStore) {
		s.retry = p
	}
}

// WithBusyTimeout sets how long SQLite itself waits on a lock before failing.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *SQLiteStore) {
		if d >= 0 {
			s.busyTimeout = d
		}
	}
}

// Open opens (creating if needed) the database at path, applies the schema
// and seeds the prompt table when it is empty.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		path:        path,
		busyTimeout: 30 * time.Second,
		retry:       DefaultRetryPolicy(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", dsn(path, s.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	db.SetConnMaxIdleTime(time.Minute)
	s.db = db

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func dsn(path string, busyTimeout time.Duration) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(wal)&_pragma=foreign_keys(1)",
		path, busyTimeout.Milliseconds())
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the underlying pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	return s.write(ctx, "migrate", func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}

		var count int
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_prompts`).Scan(&count); err != nil {
			return fmt.Errorf("count prompts: %w", err)
		}
		if count > 0 {
			return nil
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin seed: %w", err)
		}
		defer tx.Rollback()

		for _, p := range journal.Seed() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO journal_prompts (prompt_text, emotion_category) VALUES (?, ?)`,
				p.Text, p.Category); err != nil {
				return fmt.Errorf("seed prompt: %w", err)
			}
		}
		return tx.Commit()
	})
}

// read runs fn on a dedicated connection.
func (s *SQLiteStore) read(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// write runs fn on a dedicated connection and retries it while the database is locked.
func (s *SQLiteStore) write(ctx context.Context, op string, fn func(*sql.Conn) error) error {
	return s.retry.Do(ctx, func(attempt int) error {
		err := s.read(ctx, fn)
		if err != nil && IsBusy(err) {
			logger.S().Warnw("journal database busy",
				"op", op,
				"attempt", attempt,
				"maxAttempts", s.retry.MaxAttempts,
				"error", err)
		}
		return err
	})
}

func (s *SQLiteStore) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTimestamp(raw string) time.Time {
	t, err := time.ParseInLocation(timeLayout, raw, time.UTC)
	if err != nil {
		// rows written by other tools may lack milliseconds
		if t2, err2 := time.ParseInLocation(time.DateTime, raw, time.UTC); err2 == nil {
			return t2
		}
		return time.Time{}
	}
	return t
}
