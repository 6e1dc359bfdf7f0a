package emotion

import (
	"strings"
)

// Label 表示对话与日记中使用的细粒度情绪标签。
type Label string

const (
	Happy        Label = "happy"
	Sad          Label = "sad"
	Angry        Label = "angry"
	Anxious      Label = "anxious"
	Frustrated   Label = "frustrated"
	Confused     Label = "confused"
	Hopeful      Label = "hopeful"
	Grateful     Label = "grateful"
	Lonely       Label = "lonely"
	Overwhelmed  Label = "overwhelmed"
	Excited      Label = "excited"
	Calm         Label = "calm"
	Nervous      Label = "nervous"
	Proud        Label = "proud"
	Disappointed Label = "disappointed"
	Neutral      Label = "neutral"
	Worried      Label = "worried"
	Stressed     Label = "stressed"
	Relaxed      Label = "relaxed"
	Content      Label = "content"
)

// Vocabulary lists the labels a classifier may answer with, in prompt order.
var Vocabulary = []Label{
	Happy, Sad, Angry, Anxious, Frustrated,
	Confused, Hopeful, Grateful, Lonely, Overwhelmed,
	Excited, Calm, Nervous, Proud, Disappointed,
	Neutral, Worried, Stressed, Relaxed, Content,
}

var vocabularySet = func() map[Label]struct{} {
	set := make(map[Label]struct{}, len(Vocabulary))
	for _, label := range Vocabulary {
		set[label] = struct{}{}
	}
	return set
}()

// Parse normalizes raw model output into a vocabulary label.
func Parse(raw string) (Label, bool) {
	label := Label(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := vocabularySet[label]; !ok {
		return "", false
	}
	return label, true
}

// Decision 给出启发式情绪识别结果。Confidence 取值 0~10。
type Decision struct {
	Emotion    Label
	Confidence float64
	Score      int
}

var keywordBuckets = map[Label][]string{
	Happy:        {"happy", "glad", "joy", "great day", "wonderful", "awesome", "smile", "laugh", "yay", "love it"},
	Sad:          {"sad", "down", "cry", "crying", "unhappy", "depressed", "heartbroken", "tears", "miserable", "blue"},
	Angry:        {"angry", "furious", "rage", "mad", "pissed", "hate", "outraged", "livid"},
	Anxious:      {"anxious", "anxiety", "panic", "on edge", "uneasy", "restless"},
	Frustrated:   {"frustrated", "annoyed", "irritated", "fed up", "stuck", "ugh"},
	Confused:     {"confused", "don't understand", "unsure", "lost", "puzzled", "no idea"},
	Hopeful:      {"hopeful", "hope", "looking forward", "optimistic", "better tomorrow"},
	Grateful:     {"grateful", "thankful", "thanks", "thank you", "appreciate", "blessed"},
	Lonely:       {"lonely", "alone", "isolated", "no one", "nobody", "left out"},
	Overwhelmed:  {"overwhelmed", "too much", "can't handle", "drowning", "swamped"},
	Excited:      {"excited", "can't wait", "thrilled", "pumped", "amazing", "wow"},
	Calm:         {"calm", "peaceful", "serene", "at peace", "still"},
	Nervous:      {"nervous", "butterflies", "jittery", "scared", "afraid"},
	Proud:        {"proud", "accomplished", "achieved", "nailed it", "did it"},
	Disappointed: {"disappointed", "let down", "letdown", "expected more", "failed"},
	Worried:      {"worried", "worry", "concerned", "what if", "afraid that"},
	Stressed:     {"stressed", "stress", "pressure", "deadline", "burned out", "burnt out", "exhausted"},
	Relaxed:      {"relaxed", "chill", "laid back", "rested", "unwind"},
	Content:      {"content", "satisfied", "fine", "okay", "alright", "good enough"},
}

const (
	keywordWeight      = 3
	exclamationWeight  = 2
	neutralConfidence  = 5
	baseConfidence     = 4
	maxConfidence      = 10
	confidencePerPoint = 0.5
)

// Analyze 根据关键词推断文本的情绪，供没有大模型时离线使用。
func Analyze(text string) Decision {
	result := scoreText(text)
	if result.Score == 0 {
		return Decision{Emotion: Neutral, Confidence: neutralConfidence, Score: 0}
	}

	confidence := baseConfidence + float64(result.Score)*confidencePerPoint
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return Decision{Emotion: result.Emotion, Confidence: confidence, Score: result.Score}
}

func scoreText(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{Emotion: Neutral}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if containsWord(normalized, word) {
				scores[label] += keywordWeight
			}
		}
	}

	if exclamations := strings.Count(text, "!"); exclamations > 0 {
		for _, label := range []Label{Happy, Excited, Angry} {
			if scores[label] > 0 {
				scores[label] += exclamations * exclamationWeight
			}
		}
	}

	bestLabel := Neutral
	bestScore := 0
	// 遍历固定顺序，保证同分时结果稳定。
	for _, label := range Vocabulary {
		if s := scores[label]; s > bestScore {
			bestScore = s
			bestLabel = label
		}
	}

	return Decision{Emotion: bestLabel, Score: bestScore}
}

// containsWord reports whether word occurs in text on word boundaries.
func containsWord(text, word string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)
		if (idx == 0 || !isLetter(text[idx-1])) && (end == len(text) || !isLetter(text[end])) {
			return true
		}
		start = idx + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || b == '\''
}
