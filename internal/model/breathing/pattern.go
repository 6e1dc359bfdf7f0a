package breathing

import "image/color"

// Exercise type identifiers.
const (
	Calm     = "calm"
	Energize = "energize"
	Focus    = "focus"
	Sleep    = "sleep"
	Stress   = "stress"
)

// Pattern is one breathing preset. Durations are in seconds.
type Pattern struct {
	ID          string     `json:"id"`
	Inhale      int        `json:"inhale"`
	Hold        int        `json:"hold"`
	Exhale      int        `json:"exhale"`
	Pause       int        `json:"pause"`
	Color       color.RGBA `json:"-"`
	Name        string     `json:"name"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Steps       []string   `json:"steps"`
	Benefits    []string   `json:"benefits"`
}

// CycleSeconds is the length of one full breath.
func (p Pattern) CycleSeconds() int {
	return p.Inhale + p.Hold + p.Exhale + p.Pause
}

// Instructions is the detail payload served for an exercise.
type Instructions struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Benefits    []string `json:"benefits"`
}

// Instructions returns the display instructions of p.
func (p Pattern) Instructions() Instructions {
	return Instructions{
		Name:        p.Name,
		Description: p.Description,
		Steps:       append([]string(nil), p.Steps...),
		Benefits:    append([]string(nil), p.Benefits...),
	}
}

// Seed provides the five built-in breathing presets.
func Seed() []Pattern {
	return []Pattern{
		{
			ID: Calm, Inhale: 4, Hold: 4, Exhale: 6, Pause: 2,
			Color:       color.RGBA{R: 0, G: 255, B: 0, A: 255},
			Name:        "Calm Breathing (4-4-6-2)",
			Summary:     "Deep breathing for relaxation and stress reduction",
			Description: "A relaxing breath pattern to reduce stress and anxiety",
			Steps: []string{
				"Inhale deeply through your nose for 4 seconds",
				"Hold your breath for 4 seconds",
				"Exhale slowly through your mouth for 6 seconds",
				"Pause for 2 seconds before the next breath",
			},
			Benefits: []string{
				"Reduces anxiety and stress",
				"Lowers blood pressure",
				"Promotes mental clarity",
				"Helps with emotional regulation",
			},
		},
		{
			ID: Energize, Inhale: 6, Hold: 0, Exhale: 2, Pause: 0,
			Color:       color.RGBA{R: 255, G: 165, B: 0, A: 255},
			Name:        "Energizing Breath (6-0-2-0)",
			Summary:     "Quick breathing pattern to boost energy",
			Description: "A stimulating breath pattern to increase energy and alertness",
			Steps: []string{
				"Inhale deeply and quickly through your nose for 6 seconds",
				"Exhale forcefully through your mouth for 2 seconds",
			},
			Benefits: []string{
				"Increases energy and alertness",
				"Improves focus and concentration",
				"Helps overcome afternoon fatigue",
				"Prepares the mind for challenging tasks",
			},
		},
		{
			ID: Focus, Inhale: 4, Hold: 7, Exhale: 8, Pause: 0,
			Color:       color.RGBA{R: 255, G: 0, B: 0, A: 255},
			Name:        "Focus Breath (4-7-8-0)",
			Summary:     "Balanced breathing to improve concentration",
			Description: "A balancing breath pattern to improve concentration and focus",
			Steps: []string{
				"Inhale through your nose for 4 seconds",
				"Hold your breath for 7 seconds",
				"Exhale completely through your mouth for 8 seconds",
			},
			Benefits: []string{
				"Improves concentration",
				"Reduces distractions",
				"Calms an overactive mind",
				"Increases oxygen to the brain",
			},
		},
		{
			ID: Sleep, Inhale: 4, Hold: 0, Exhale: 7, Pause: 0,
			Color:       color.RGBA{R: 128, G: 0, B: 128, A: 255},
			Name:        "Sleep Breath (4-0-7-0)",
			Summary:     "Extended exhale pattern to promote sleep",
			Description: "A relaxing breath pattern to promote sleep and relaxation",
			Steps: []string{
				"Inhale through your nose for 4 seconds",
				"Exhale slowly through your mouth for 7 seconds",
			},
			Benefits: []string{
				"Helps transition to sleep",
				"Reduces insomnia",
				"Calms the nervous system",
				"Releases physical tension",
			},
		},
		{
			ID: Stress, Inhale: 5, Hold: 0, Exhale: 5, Pause: 0,
			Color:       color.RGBA{R: 0, G: 255, B: 255, A: 255},
			Name:        "Stress Relief Breath (5-0-5-0)",
			Summary:     "Equal breathing pattern to manage acute stress",
			Description: "A balanced breath pattern to manage acute stress",
			Steps: []string{
				"Inhale through your nose for 5 seconds",
				"Exhale through your mouth for 5 seconds",
			},
			Benefits: []string{
				"Immediately reduces stress response",
				"Balances the autonomic nervous system",
				"Improves heart rate variability",
				"Creates a sense of control during stressful situations",
			},
		},
	}
}
