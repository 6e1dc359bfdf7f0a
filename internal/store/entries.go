package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
)

const (
	defaultListLimit = 10
	entryColumns     = `id, user_id, entry_text, emotion, sentiment_score, emotions_detected, created_at, prompt_used, is_favorite`
)

// SaveEntry inserts a journal entry stamped with the current UTC time.
func (s *SQLiteStore) SaveEntry(ctx context.Context, p SaveParams) (int64, error) {
	if strings.TrimSpace(p.OwnerID) == "" {
		return 0, ErrInvalidEntryOwner
	}
	if strings.TrimSpace(p.Text) == "" {
		return 0, ErrEmptyText
	}

	var detail sql.NullString
	if p.Detail != nil {
		raw, err := json.Marshal(p.Detail)
		if err != nil {
			return 0, fmt.Errorf("encode emotion detail: %w", err)
		}
		detail = sql.NullString{String: string(raw), Valid: true}
	}

	createdAt := s.timestamp()
	var id int64
	err := s.write(ctx, "save_entry", func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO journal_entries
				(user_id, entry_text, emotion, sentiment_score, emotions_detected, created_at, prompt_used)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.OwnerID, p.Text, nullString(p.Emotion), nullFloat(p.SentimentScore), detail, createdAt, nullString(p.PromptUsed))
		if err != nil {
			return fmt.Errorf("insert journal entry: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListEntries pages an owner's entries ordered newest first. limit <= 0 means 10.
func (s *SQLiteStore) ListEntries(ctx context.Context, ownerID string, limit, offset int) ([]journal.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries := make([]journal.Entry, 0, limit)
	err := s.read(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT `+entryColumns+` FROM journal_entries
			 WHERE user_id = ?
			 ORDER BY created_at DESC, id DESC
			 LIMIT ? OFFSET ?`,
			ownerID, limit, offset)
		if err != nil {
			return fmt.Errorf("query journal entries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetEntry loads one entry; entries of other owners are reported as ErrNotFound.
func (s *SQLiteStore) GetEntry(ctx context.Context, id int64, ownerID string) (*journal.Entry, error) {
	var entry *journal.Entry
	err := s.read(ctx, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			`SELECT `+entryColumns+` FROM journal_entries WHERE id = ? AND user_id = ?`,
			id, ownerID)
		var err error
		entry, err = scanEntry(row)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ToggleFavorite flips is_favorite in a single statement.
func (s *SQLiteStore) ToggleFavorite(ctx context.Context, id int64, ownerID string) (bool, error) {
	var favorite bool
	err := s.write(ctx, "toggle_favorite", func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx,
			`UPDATE journal_entries
			 SET is_favorite = CASE is_favorite WHEN 0 THEN 1 ELSE 0 END
			 WHERE id = ? AND user_id = ?
			 RETURNING is_favorite`,
			id, ownerID).Scan(&favorite)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return favorite, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*journal.Entry, error) {
	var (
		entry     journal.Entry
		emotion   sql.NullString
		sentiment sql.NullFloat64
		detail    sql.NullString
		createdAt string
		prompt    sql.NullString
	)
	if err := row.Scan(&entry.ID, &entry.OwnerID, &entry.Text, &emotion, &sentiment, &detail,
		&createdAt, &prompt, &entry.IsFavorite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan journal entry: %w", err)
	}

	if emotion.Valid {
		entry.Emotion = &emotion.String
	}
	if sentiment.Valid {
		entry.SentimentScore = &sentiment.Float64
	}
	if detail.Valid && detail.String != "" {
		var d journal.Detail
		if err := json.Unmarshal([]byte(detail.String), &d); err == nil {
			entry.Detail = &d
		}
	}
	if prompt.Valid {
		entry.PromptUsed = &prompt.String
	}
	entry.CreatedAt = parseTimestamp(createdAt)

	return &entry, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
