package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
)

// RandomPrompt selects a random prompt and increments its usage count in the
// same transaction.
func (s *SQLiteStore) RandomPrompt(ctx context.Context, category string) (journal.Prompt, error) {
	category = strings.ToLower(strings.TrimSpace(category))

	query := `SELECT id, prompt_text, COALESCE(emotion_category, ''), usage_count FROM journal_prompts`
	args := []any{}
	if category != "" {
		query += ` WHERE emotion_category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY RANDOM() LIMIT 1`

	var prompt journal.Prompt
	found := false
	err := s.write(ctx, "random_prompt", func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin prompt selection: %w", err)
		}
		defer tx.Rollback()

		err = tx.QueryRowContext(ctx, query, args...).
			Scan(&prompt.ID, &prompt.Text, &prompt.EmotionCategory, &prompt.UsageCount)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("select prompt: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE journal_prompts SET usage_count = usage_count + 1 WHERE id = ?`, prompt.ID); err != nil {
			return fmt.Errorf("count prompt usage: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return journal.Prompt{}, err
	}
	if !found {
		return journal.DefaultPrompt, nil
	}

	prompt.UsageCount++
	return prompt, nil
}

// ListPrompts returns stored prompts ordered by id.
func (s *SQLiteStore) ListPrompts(ctx context.Context, category string) ([]journal.Prompt, error) {
	category = strings.ToLower(strings.TrimSpace(category))

	query := `SELECT id, prompt_text, COALESCE(emotion_category, ''), usage_count FROM journal_prompts`
	args := []any{}
	if category != "" {
		query += ` WHERE emotion_category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	var prompts []journal.Prompt
	err := s.read(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query prompts: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var p journal.Prompt
			if err := rows.Scan(&p.ID, &p.Text, &p.EmotionCategory, &p.UsageCount); err != nil {
				return fmt.Errorf("scan prompt: %w", err)
			}
			prompts = append(prompts, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return prompts, nil
}
