package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
)

const topEmotionLimit = 5

// MoodAnalytics summarizes entries created on or after the start of the UTC
// day that lies days before today.
func (s *SQLiteStore) MoodAnalytics(ctx context.Context, ownerID string, days int) (*journal.MoodAnalytics, error) {
	if days < 0 {
		days = 0
	}
	cutoff := s.windowStart(days).Format(timeLayout)

	result := &journal.MoodAnalytics{
		MoodData:    []journal.DayMood{},
		TopEmotions: []journal.EmotionCount{},
	}

	err := s.read(ctx, func(conn *sql.Conn) error {
		if err := s.dailyMood(ctx, conn, ownerID, cutoff, result); err != nil {
			return err
		}
		if err := s.topEmotions(ctx, conn, ownerID, cutoff, result); err != nil {
			return err
		}
		return conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM journal_entries
			 WHERE user_id = ? AND created_at >= ? AND is_favorite = 1`,
			ownerID, cutoff).Scan(&result.FavoriteCount)
	})
	if err != nil {
		return nil, err
	}

	for _, day := range result.MoodData {
		result.EntryCount += day.EntryCount
	}
	return result, nil
}

func (s *SQLiteStore) windowStart(days int) time.Time {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -days)
}

func (s *SQLiteStore) dailyMood(ctx context.Context, conn *sql.Conn, ownerID, cutoff string, out *journal.MoodAnalytics) error {
	rows, err := conn.QueryContext(ctx,
		`SELECT date(created_at) AS day, AVG(sentiment_score), COUNT(*), GROUP_CONCAT(emotion)
		 FROM journal_entries
		 WHERE user_id = ? AND created_at >= ?
		 GROUP BY day
		 ORDER BY day`,
		ownerID, cutoff)
	if err != nil {
		return fmt.Errorf("query daily mood: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day      journal.DayMood
			avg      sql.NullFloat64
			emotions sql.NullString
		)
		if err := rows.Scan(&day.Date, &avg, &day.EntryCount, &emotions); err != nil {
			return fmt.Errorf("scan daily mood: %w", err)
		}
		if avg.Valid {
			v := avg.Float64
			day.AvgSentiment = &v
		}
		day.Emotions = []string{}
		if emotions.Valid && emotions.String != "" {
			day.Emotions = strings.Split(emotions.String, ",")
		}
		out.MoodData = append(out.MoodData, day)
	}
	return rows.Err()
}

func (s *SQLiteStore) topEmotions(ctx context.Context, conn *sql.Conn, ownerID, cutoff string, out *journal.MoodAnalytics) error {
	rows, err := conn.QueryContext(ctx,
		`SELECT emotion, COUNT(*) AS n
		 FROM journal_entries
		 WHERE user_id = ? AND created_at >= ? AND emotion IS NOT NULL
		 GROUP BY emotion
		 ORDER BY n DESC, emotion
		 LIMIT ?`,
		ownerID, cutoff, topEmotionLimit)
	if err != nil {
		return fmt.Errorf("query top emotions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ec journal.EmotionCount
		if err := rows.Scan(&ec.Emotion, &ec.Count); err != nil {
			return fmt.Errorf("scan top emotion: %w", err)
		}
		out.TopEmotions = append(out.TopEmotions, ec)
	}
	return rows.Err()
}
