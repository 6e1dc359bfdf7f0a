package journal

// DayMood aggregates one calendar day (UTC) of entries.
type DayMood struct {
	Date         string   `json:"date"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	EntryCount   int      `json:"entry_count"`
	Emotions     []string `json:"emotions"`
}

// EmotionCount is one row of the most frequent emotions.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// MoodAnalytics summarizes an owner's entries over a trailing window.
type MoodAnalytics struct {
	MoodData      []DayMood      `json:"mood_data"`
	TopEmotions   []EmotionCount `json:"top_emotions"`
	FavoriteCount int            `json:"favorite_count"`
	EntryCount    int            `json:"entry_count"`
}
