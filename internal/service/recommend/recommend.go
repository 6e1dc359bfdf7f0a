// Package recommend maps detected emotions to content suggestions and
// breathing exercises.
package recommend

import (
	"strings"

	"github.com/zhouzirui/mindful-journal/backend/internal/analysis/emotion"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
)

// Bundle is the content suggested for a mood.
type Bundle struct {
	Song     string `json:"song"`
	Movie    string `json:"movie"`
	Activity string `json:"activity"`
}

var bundles = map[emotion.Bucket]Bundle{
	emotion.BucketHappy: {
		Song:     "https://open.spotify.com/playlist/37i9dQZF1DXdPec7aLTmlC",
		Movie:    "https://www.netflix.com/browse/genre/6548",
		Activity: "Call a friend or go outside for a walk!",
	},
	emotion.BucketSad: {
		Song:     "https://open.spotify.com/playlist/37i9dQZF1DX3rxVfibe1L0",
		Movie:    "https://www.netflix.com/browse/genre/6384",
		Activity: "Try journaling or listening to a calming podcast.",
	},
	emotion.BucketAngry: {
		Song:     "https://open.spotify.com/playlist/37i9dQZF1DWUvHZA1zLcjW",
		Movie:    "https://www.netflix.com/browse/genre/10683",
		Activity: "Try a short breathing exercise or meditation.",
	},
	emotion.BucketSurprise: {
		Song:     "https://open.spotify.com/playlist/37i9dQZF1DX3LyU0mhqC2v",
		Movie:    "https://www.netflix.com/browse/genre/43040",
		Activity: "Explore a new hobby or trivia game online.",
	},
	emotion.BucketNeutral: {
		Song:     "https://open.spotify.com/playlist/37i9dQZF1DX4sWSpwq3LiO",
		Movie:    "https://www.netflix.com/browse/genre/34399",
		Activity: "Take a break, do some stretches or grab a tea.",
	},
	emotion.BucketFear: {
		Song:     "https://open.spotify.com/playlist/37i9dQZF1DWZqd5JICZI0u",
		Movie:    "https://www.netflix.com/browse/genre/81427741",
		Activity: "Practice grounding techniques or yoga.",
	},
	emotion.BucketDisgust: {
		Song:     "https://open.spotify.com/playlist/37i9dQZF1DX3YSRoSdA634",
		Movie:    "https://www.netflix.com/browse/genre/10375",
		Activity: "Vent in a journal or clean up your space.",
	},
}

// Recommend returns the bundle for label. Unknown labels get the neutral bundle.
func Recommend(label string) Bundle {
	if bundle, ok := bundles[emotion.Canonicalize(label)]; ok {
		return bundle
	}
	return bundles[emotion.BucketNeutral]
}

var breathingByLabel = map[emotion.Label]string{
	emotion.Happy:        breathing.Focus,
	emotion.Sad:          breathing.Calm,
	emotion.Angry:        breathing.Calm,
	emotion.Anxious:      breathing.Stress,
	emotion.Frustrated:   breathing.Stress,
	emotion.Confused:     breathing.Focus,
	emotion.Hopeful:      breathing.Energize,
	emotion.Grateful:     breathing.Calm,
	emotion.Lonely:       breathing.Sleep,
	emotion.Overwhelmed:  breathing.Calm,
	emotion.Excited:      breathing.Focus,
	emotion.Calm:         breathing.Calm,
	emotion.Nervous:      breathing.Stress,
	emotion.Proud:        breathing.Energize,
	emotion.Disappointed: breathing.Calm,
	emotion.Neutral:      breathing.Focus,
	emotion.Worried:      breathing.Stress,
	emotion.Stressed:     breathing.Stress,
	emotion.Relaxed:      breathing.Calm,
	emotion.Content:      breathing.Focus,
}

// BreathingPattern returns the exercise id suited to label, focus when unknown.
func BreathingPattern(label string) string {
	if id, ok := breathingByLabel[emotion.Label(strings.ToLower(strings.TrimSpace(label)))]; ok {
		return id
	}
	return breathing.Focus
}
