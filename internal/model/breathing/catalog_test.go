package breathing

import "testing"

func TestSeedHasFivePresets(t *testing.T) {
	catalog := NewCatalog(Seed())
	for _, id := range []string{Calm, Energize, Focus, Sleep, Stress} {
		p, ok := catalog.FindByID(id)
		if !ok {
			t.Fatalf("preset %s missing", id)
		}
		if p.Inhale <= 0 || p.Exhale <= 0 {
			t.Fatalf("preset %s must inhale and exhale: %+v", id, p)
		}
		if len(p.Steps) == 0 || len(p.Benefits) == 0 {
			t.Fatalf("preset %s missing instructions", id)
		}
	}
	if len(catalog.Summaries()) != 5 {
		t.Fatalf("expected 5 summaries, got %d", len(catalog.Summaries()))
	}
}

func TestResolveFallsBackToFocus(t *testing.T) {
	catalog := NewCatalog(Seed())
	if got := catalog.Resolve("juggling"); got.ID != Focus {
		t.Fatalf("expected focus fallback, got %s", got.ID)
	}
	if got := catalog.Resolve(Sleep); got.CycleSeconds() != 11 {
		t.Fatalf("expected 11 second sleep cycle, got %d", got.CycleSeconds())
	}
}
