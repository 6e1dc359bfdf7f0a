package chat

// Conversation roles accepted in a transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single utterance in a coaching conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role may appear in a transcript.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}

// Detection is the outcome of classifying one piece of text.
type Detection struct {
	Emotion     string  `json:"emotion"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// EmotionRecord ties a detection to the user message it was computed from.
type EmotionRecord struct {
	Detection
	Message string `json:"message"`
}
