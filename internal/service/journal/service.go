package journal

import (
	"context"
	"strings"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/store"
)

// ErrEmptyText is returned when an entry has no visible text.
var ErrEmptyText = store.ErrEmptyText

// DefaultAnalyticsDays is the window used when the caller does not pick one.
const DefaultAnalyticsDays = 30

// Detector classifies entry text. It must not fail.
type Detector interface {
	Detect(ctx context.Context, text string) chat.Detection
}

// SaveInput is a new entry as submitted by a visitor.
type SaveInput struct {
	OwnerID    string
	Text       string
	PromptUsed string
	Emotion    string
}

// SaveResult reports the stored id and the emotion attached to the entry.
type SaveResult struct {
	EntryID         int64    `json:"entry_id"`
	DetectedEmotion *string  `json:"detected_emotion"`
	SentimentScore  *float64 `json:"sentiment_score"`
}

// Service coordinates journal persistence with emotion detection.
type Service struct {
	store    store.Store
	detector Detector
}

// NewService wires the journal service.
func NewService(st store.Store, detector Detector) *Service {
	return &Service{store: st, detector: detector}
}

// Save stores an entry. When no emotion is supplied the text is classified
// and the confidence (0-10) becomes a 0-1 sentiment score.
func (s *Service) Save(ctx context.Context, in SaveInput) (SaveResult, error) {
	if strings.TrimSpace(in.Text) == "" {
		return SaveResult{}, ErrEmptyText
	}

	params := store.SaveParams{
		OwnerID: in.OwnerID,
		Text:    in.Text,
	}
	if prompt := strings.TrimSpace(in.PromptUsed); prompt != "" {
		params.PromptUsed = &prompt
	}

	if manual := strings.TrimSpace(in.Emotion); manual != "" {
		params.Emotion = &manual
	} else if s.detector != nil {
		detection := s.detector.Detect(ctx, in.Text)
		label := detection.Emotion
		sentiment := detection.Confidence / 10
		params.Emotion = &label
		params.SentimentScore = &sentiment
		params.Detail = &journal.Detail{
			Primary:     detection.Emotion,
			Confidence:  detection.Confidence,
			Explanation: detection.Explanation,
		}
	}

	id, err := s.store.SaveEntry(ctx, params)
	if err != nil {
		return SaveResult{}, err
	}

	logger.S().Infow("journal entry saved",
		"entryID", id,
		"owner", in.OwnerID,
		"chars", len(in.Text),
		"emotion", params.Emotion)

	return SaveResult{
		EntryID:         id,
		DetectedEmotion: params.Emotion,
		SentimentScore:  params.SentimentScore,
	}, nil
}

// Entries pages an owner's entries, newest first.
func (s *Service) Entries(ctx context.Context, ownerID string, limit, offset int) ([]journal.Entry, error) {
	return s.store.ListEntries(ctx, ownerID, limit, offset)
}

// Entry returns one of the owner's entries.
func (s *Service) Entry(ctx context.Context, id int64, ownerID string) (*journal.Entry, error) {
	return s.store.GetEntry(ctx, id, ownerID)
}

// ToggleFavorite flips the favorite flag of an owner's entry.
func (s *Service) ToggleFavorite(ctx context.Context, id int64, ownerID string) (bool, error) {
	return s.store.ToggleFavorite(ctx, id, ownerID)
}

// Prompt draws a writing prompt for the emotion category.
func (s *Service) Prompt(ctx context.Context, category string) (journal.Prompt, error) {
	return s.store.RandomPrompt(ctx, category)
}

// Analytics summarizes the owner's trailing days; days <= 0 means DefaultAnalyticsDays.
func (s *Service) Analytics(ctx context.Context, ownerID string, days int) (*journal.MoodAnalytics, error) {
	if days <= 0 {
		days = DefaultAnalyticsDays
	}
	return s.store.MoodAnalytics(ctx, ownerID, days)
}
