package journal

import "time"

// Detail is the structured emotion detection stored alongside an entry.
type Detail struct {
	Primary     string  `json:"primary"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Entry is a persisted journal entry. Entries are never deleted; only
// IsFavorite changes after creation.
type Entry struct {
	ID             int64     `json:"id"`
	OwnerID        string    `json:"-"`
	Text           string    `json:"entry_text"`
	Emotion        *string   `json:"emotion"`
	SentimentScore *float64  `json:"sentiment_score"`
	Detail         *Detail   `json:"emotions_detected"`
	CreatedAt      time.Time `json:"created_at"`
	PromptUsed     *string   `json:"prompt_used"`
	IsFavorite     bool      `json:"is_favorite"`
}
