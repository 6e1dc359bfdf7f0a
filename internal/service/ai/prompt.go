package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/mindful-journal/backend/internal/analysis/emotion"
)

// PromptTemplate holds the tone guidance for one emotion bucket.
type PromptTemplate struct {
	Tone     string
	Openers  []string
	Cautions []string
}

// CoachPromptManager builds the empathy-guided prompts used for replies.
type CoachPromptManager struct {
	templates map[emotion.Bucket]*PromptTemplate
}

// NewCoachPromptManager creates a prompt manager with the built-in templates.
func NewCoachPromptManager() *CoachPromptManager {
	pm := &CoachPromptManager{
		templates: make(map[emotion.Bucket]*PromptTemplate),
	}
	pm.loadDefaultTemplates()
	return pm
}

// Template returns the template for a label, falling back to the neutral one.
func (pm *CoachPromptManager) Template(label string) *PromptTemplate {
	if tpl, ok := pm.templates[emotion.Canonicalize(label)]; ok {
		return tpl
	}
	return pm.templates[emotion.BucketNeutral]
}

// BuildSystemPrompt returns the coach persona with tone guidance for label.
func (pm *CoachPromptManager) BuildSystemPrompt(label string) string {
	tpl := pm.Template(label)

	var builder strings.Builder
	builder.WriteString(coachSystemPrompt)
	builder.WriteString("\n\nTone for this reply: ")
	builder.WriteString(tpl.Tone)
	if len(tpl.Openers) > 0 {
		builder.WriteString("\nOpeners that fit this mood:\n- ")
		builder.WriteString(strings.Join(tpl.Openers, "\n- "))
	}
	if len(tpl.Cautions) > 0 {
		builder.WriteString("\nAvoid:\n- ")
		builder.WriteString(strings.Join(tpl.Cautions, "\n- "))
	}
	return builder.String()
}

// BuildEmpathyQuery wraps the user's message with the detected emotion.
func (pm *CoachPromptManager) BuildEmpathyQuery(message, label string) string {
	if strings.TrimSpace(label) == "" {
		label = string(emotion.Neutral)
	}
	return fmt.Sprintf(`The user appears to be feeling %s.

Respond in an empathetic way that acknowledges their feelings without explicitly labeling their emotion.
Be supportive, compassionate, and understanding.
Keep your response conversational and natural.
Avoid being judgmental or dismissive of their feelings.
Provide gentle guidance or support if appropriate.

User message: %q

Your empathetic response:`, label, message)
}

const coachSystemPrompt = `You are a warm, attentive life coach in a journaling app. You listen first, reflect what you hear, and offer small, practical next steps only when they help. You are not a therapist and you never diagnose. If someone mentions wanting to harm themselves, encourage them to contact local emergency services or a crisis line.`

func (pm *CoachPromptManager) loadDefaultTemplates() {
	pm.templates[emotion.BucketHappy] = &PromptTemplate{
		Tone: "light and encouraging, celebrate with them",
		Openers: []string{
			"That sounds wonderful! I'm glad to hear you're feeling happy.",
			"It's great that you're feeling positive. What's contributing to your happiness?",
		},
	}
	pm.templates[emotion.BucketSad] = &PromptTemplate{
		Tone: "gentle and patient, offer comfort before anything else",
		Openers: []string{
			"I'm sorry to hear you're feeling down. Would you like to talk more about what's troubling you?",
			"It sounds like you're going through a difficult time. Remember that it's okay to feel sad sometimes.",
		},
		Cautions: []string{"rushing to fix the problem", "forced positivity"},
	}
	pm.templates[emotion.BucketAngry] = &PromptTemplate{
		Tone: "steady and calm, validate the feeling and help them process it",
		Openers: []string{
			"I can understand why that would be frustrating. It's natural to feel angry in that situation.",
			"That sounds really challenging. How can I help you process these feelings?",
		},
		Cautions: []string{"telling them to calm down", "taking sides in a conflict you only heard one part of"},
	}
	pm.templates[emotion.BucketFear] = &PromptTemplate{
		Tone: "grounding and reassuring, slow the pace down",
		Openers: []string{
			"It sounds like you're feeling anxious. Taking slow, deep breaths might help in the moment.",
			"Anxiety can be really difficult to manage. What typically helps you when you're feeling this way?",
		},
		Cautions: []string{"listing worst cases", "long lists of advice"},
	}
	pm.templates[emotion.BucketSurprise] = &PromptTemplate{
		Tone: "curious and open, help them make sense of what happened",
	}
	pm.templates[emotion.BucketDisgust] = &PromptTemplate{
		Tone: "non-judgmental, acknowledge the reaction and what it says about their values",
	}
	pm.templates[emotion.BucketNeutral] = &PromptTemplate{
		Tone: "calm, clear and friendly",
		Openers: []string{
			"I'm here to listen and support you. How else can I help today?",
			"Thank you for sharing. I'm here to chat whenever you need.",
		},
	}
}
