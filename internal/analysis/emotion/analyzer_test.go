package emotion

import "testing"

func TestAnalyzeSadText(t *testing.T) {
	decision := Analyze("I feel so sad and lonely tonight, I keep crying")
	if decision.Emotion != Sad {
		t.Fatalf("expected sad emotion, got %s", decision.Emotion)
	}
	if decision.Confidence < 0 || decision.Confidence > 10 {
		t.Fatalf("confidence out of range: %f", decision.Confidence)
	}
}

func TestAnalyzeExclamationBoost(t *testing.T) {
	decision := Analyze("I got the job!!! I'm so excited, can't wait")
	if decision.Emotion != Excited {
		t.Fatalf("expected excited emotion, got %s", decision.Emotion)
	}
	if decision.Confidence <= neutralConfidence {
		t.Fatalf("expected boosted confidence, got %f", decision.Confidence)
	}
}

func TestAnalyzeNoKeywordsIsNeutral(t *testing.T) {
	decision := Analyze("The meeting moved to Thursday.")
	if decision.Emotion != Neutral || decision.Confidence != neutralConfidence {
		t.Fatalf("expected neutral/5, got %s/%f", decision.Emotion, decision.Confidence)
	}
}

func TestAnalyzeMatchesWholeWords(t *testing.T) {
	// "madness" must not count as "mad", "download" must not count as "down".
	decision := Analyze("download madness")
	if decision.Emotion != Neutral {
		t.Fatalf("expected neutral for partial matches, got %s", decision.Emotion)
	}
}

func TestAnalyzeAlwaysInVocabulary(t *testing.T) {
	inputs := []string{"", "Feeling okay today", "so stressed about the deadline", "thank you!"}
	for _, input := range inputs {
		if _, ok := Parse(string(Analyze(input).Emotion)); !ok {
			t.Fatalf("Analyze(%q) returned label outside vocabulary", input)
		}
	}
}

func TestParse(t *testing.T) {
	if label, ok := Parse("  Overwhelmed "); !ok || label != Overwhelmed {
		t.Fatalf("expected overwhelmed, got %q ok=%v", label, ok)
	}
	if _, ok := Parse("ecstatic"); ok {
		t.Fatal("expected unknown label to be rejected")
	}
}

func TestCanonicalizeCoversVocabulary(t *testing.T) {
	if len(Vocabulary) != 20 {
		t.Fatalf("expected 20 labels, got %d", len(Vocabulary))
	}
	for _, label := range Vocabulary {
		if _, ok := bucketByLabel[string(label)]; !ok {
			t.Fatalf("label %s has no bucket", label)
		}
	}
	if got := Canonicalize("Surprised"); got != BucketSurprise {
		t.Fatalf("expected surprise, got %s", got)
	}
	if got := Canonicalize("ecstatic"); got != BucketNeutral {
		t.Fatalf("expected neutral fallback, got %s", got)
	}
}
