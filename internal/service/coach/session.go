// Package coach holds the per-visitor coaching conversation: transcript,
// emotion tracking and empathy-guided replies.
package coach

import (
	"context"
	"errors"
	"strings"
	"sync"

	analysis "github.com/zhouzirui/mindful-journal/backend/internal/analysis/emotion"
	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/ai"
)

// FallbackReply is returned whenever a reply cannot be generated.
const FallbackReply = "I'm here to listen. Would you like to share more about how you're feeling?"

// ErrInvalidRole is returned for turns that are neither user nor assistant.
var ErrInvalidRole = errors.New("role must be user or assistant")

// Detector classifies text into the emotion vocabulary. Detect must never fail.
type Detector interface {
	Classify(ctx context.Context, text string) (chat.Detection, error)
	Detect(ctx context.Context, text string) chat.Detection
}

// Session is one visitor's conversation. All methods are safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	detector   Detector
	generator  ai.Generator
	prompts    *ai.CoachPromptManager
	transcript []chat.Turn
	emotions   []chat.EmotionRecord
	current    string
}

// NewSession creates an empty session. generator may be nil, in which case
// replies come from the built-in openers.
func NewSession(detector Detector, generator ai.Generator) *Session {
	return &Session{
		detector:  detector,
		generator: generator,
		prompts:   ai.NewCoachPromptManager(),
		current:   string(analysis.Neutral),
	}
}

// Reset clears the transcript and emotion history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.transcript = nil
	s.emotions = nil
	s.current = string(analysis.Neutral)
}

// AppendTurn records a turn without generating a reply. User turns are
// classified; a failed classification leaves the current emotion as it was.
func (s *Session) AppendTurn(ctx context.Context, content, role string) error {
	if !chat.ValidRole(role) {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(ctx, content, role)
	return nil
}

func (s *Session) appendLocked(ctx context.Context, content, role string) {
	s.transcript = append(s.transcript, chat.Turn{Role: role, Content: content})
	if role != chat.RoleUser {
		return
	}

	detection, err := s.detector.Classify(ctx, content)
	if err != nil {
		logger.S().Warnw("emotion detection skipped", "error", err)
		return
	}

	s.current = detection.Emotion
	s.emotions = append(s.emotions, chat.EmotionRecord{Detection: detection, Message: content})
}

// DetectEmotion classifies text without touching the conversation.
func (s *Session) DetectEmotion(ctx context.Context, text string) chat.Detection {
	return s.detector.Detect(ctx, text)
}

// Respond records the user's message, generates an empathetic reply and
// records it. It never fails; FallbackReply stands in for any error.
func (s *Session) Respond(ctx context.Context, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLocked(ctx, text, chat.RoleUser)
	label := s.current

	reply := s.generateLocked(ctx, text, label)
	s.transcript = append(s.transcript, chat.Turn{Role: chat.RoleAssistant, Content: reply})
	return reply
}

func (s *Session) generateLocked(ctx context.Context, text, label string) string {
	if s.generator == nil {
		if openers := s.prompts.Template(label).Openers; len(openers) > 0 {
			return openers[len(s.emotions)%len(openers)]
		}
		return FallbackReply
	}

	history := s.transcript[:len(s.transcript)-1]
	reply, err := s.generator.Generate(ctx, ai.Request{
		System:  s.prompts.BuildSystemPrompt(label),
		History: history,
		Query:   s.prompts.BuildEmpathyQuery(text, label),
	})
	if err != nil {
		logger.S().Errorw("reply generation failed, use fallback", "emotion", label, "error", err)
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply
	}
	return reply
}

// Replay rebuilds the conversation from a client-held transcript. Turns with
// other roles are skipped.
func (s *Session) Replay(ctx context.Context, turns []chat.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	for _, turn := range turns {
		if !chat.ValidRole(turn.Role) {
			continue
		}
		s.appendLocked(ctx, turn.Content, turn.Role)
	}
}

// CurrentEmotion returns the most recently detected label.
func (s *Session) CurrentEmotion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Transcript returns a copy of the turns so far.
func (s *Session) Transcript() []chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chat.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// EmotionHistory returns a copy of the detections so far.
func (s *Session) EmotionHistory() []chat.EmotionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]chat.EmotionRecord, len(s.emotions))
	copy(out, s.emotions)
	return out
}
