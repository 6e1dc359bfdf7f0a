package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Tables lists the tables present in the database, for health checks.
func (s *SQLiteStore) Tables(ctx context.Context) ([]string, error) {
	var tables []string
	err := s.read(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			tables = append(tables, name)
		}
		return rows.Err()
	})
	return tables, err
}

// Check runs an integrity check and verifies the expected tables exist.
func (s *SQLiteStore) Check(ctx context.Context) error {
	var result string
	err := s.read(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result)
	})
	if err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	tables, err := s.Tables(ctx)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(tables))
	for _, t := range tables {
		have[t] = true
	}
	for _, want := range []string{"journal_entries", "journal_prompts", "mood_tags"} {
		if !have[want] {
			return fmt.Errorf("missing table %s", want)
		}
	}
	return nil
}

// Reset removes the database file together with its WAL and shared-memory
// files. The store using path must be closed first.
func Reset(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
