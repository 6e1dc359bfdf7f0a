package journal

// Prompt is a writing prompt optionally tied to an emotion category.
type Prompt struct {
	ID              int64  `json:"id"`
	Text            string `json:"text"`
	EmotionCategory string `json:"emotion_category,omitempty"`
	UsageCount      int    `json:"usage_count"`
}

// DefaultPrompt is returned when no stored prompt matches a request.
var DefaultPrompt = Prompt{ID: 0, Text: "What's on your mind today?"}

// SeedPrompt is a catalog row inserted on first startup.
type SeedPrompt struct {
	Text     string
	Category string
}

// Seed provides the prompt catalog written into an empty database.
func Seed() []SeedPrompt {
	return []SeedPrompt{
		{"What made you smile today?", "neutral"},
		{"What are three things you're grateful for?", "neutral"},
		{"Describe a moment of peace you felt today.", "neutral"},
		{"What's something new you learned today?", "neutral"},
		{"What's something you're looking forward to?", "neutral"},

		{"What accomplishment are you proud of today?", "happy"},
		{"How did you spread joy to others today?", "happy"},
		{"What made today special?", "happy"},
		{"Describe a moment that made you laugh.", "happy"},
		{"What's the best thing that happened today?", "happy"},

		{"What's weighing on your mind today?", "sad"},
		{"What's one small comfort you can give yourself right now?", "sad"},
		{"What would help you feel better?", "sad"},
		{"Is there something you need to let go of?", "sad"},
		{"What's a tiny win you can celebrate even on a hard day?", "sad"},

		{"What are you worried about right now?", "anxious"},
		{"What helps you feel grounded when you're stressed?", "anxious"},
		{"What's one thing you can control right now?", "anxious"},
		{"What's a calming thought you can hold onto?", "anxious"},
		{"What would you tell a friend who's feeling this way?", "anxious"},

		{"What's frustrating you today?", "angry"},
		{"How can you channel this energy constructively?", "angry"},
		{"What boundaries might you need to set?", "angry"},
		{"What would help you let go of this anger?", "angry"},
		{"What's the real issue beneath the surface?", "angry"},
	}
}
