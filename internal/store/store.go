// Package store persists journal entries, writing prompts and mood analytics in SQLite.
package store

import (
	"context"
	"errors"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
)

var (
	ErrNotFound          = errors.New("journal entry not found")
	ErrEmptyText         = errors.New("journal entry text cannot be empty")
	ErrRetriesExhausted  = errors.New("database busy: retries exhausted")
	ErrInvalidEntryOwner = errors.New("journal entry owner is required")
)

// SaveParams holds the fields of a new journal entry. Nil pointers are stored as NULL.
type SaveParams struct {
	OwnerID        string
	Text           string
	Emotion        *string
	SentimentScore *float64
	Detail         *journal.Detail
	PromptUsed     *string
}

// Store defines the journal persistence interface.
type Store interface {
	// SaveEntry inserts an entry and returns its id. Lock contention is retried
	// with backoff and reported as ErrRetriesExhausted once attempts run out.
	SaveEntry(ctx context.Context, p SaveParams) (int64, error)

	// ListEntries returns an owner's entries newest first.
	ListEntries(ctx context.Context, ownerID string, limit, offset int) ([]journal.Entry, error)

	// GetEntry returns ErrNotFound unless the entry exists and belongs to ownerID.
	GetEntry(ctx context.Context, id int64, ownerID string) (*journal.Entry, error)

	// ToggleFavorite flips the favorite flag and returns the new value.
	ToggleFavorite(ctx context.Context, id int64, ownerID string) (bool, error)

	// RandomPrompt picks a prompt of the category (any category when empty)
	// and counts the pick. journal.DefaultPrompt is returned when nothing matches.
	RandomPrompt(ctx context.Context, category string) (journal.Prompt, error)

	// ListPrompts lists stored prompts of the category (all when empty).
	ListPrompts(ctx context.Context, category string) ([]journal.Prompt, error)

	// MoodAnalytics aggregates an owner's entries over the trailing days.
	MoodAnalytics(ctx context.Context, ownerID string, days int) (*journal.MoodAnalytics, error)

	// Close closes the store.
	Close() error
}
