package chat_test

import (
	"errors"
	"testing"

	"github.com/zhouzirui/mindful-journal/backend/internal/service/coach"
	chat "github.com/zhouzirui/mindful-journal/backend/internal/service/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/emotion"
)

func newRegistry(t *testing.T, capacity int) *chat.Service {
	t.Helper()
	svc, err := chat.NewService(capacity, func() *coach.Session {
		return coach.NewSession(emotion.NewService(nil), nil)
	})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return svc
}

func TestServiceGetOrCreate(t *testing.T) {
	svc := newRegistry(t, 4)

	first, created, err := svc.GetOrCreate("a")
	if err != nil || !created {
		t.Fatalf("GetOrCreate: created=%v err=%v", created, err)
	}

	again, created, err := svc.GetOrCreate("a")
	if err != nil || created {
		t.Fatalf("second GetOrCreate: created=%v err=%v", created, err)
	}
	if again != first {
		t.Fatal("expected the same session instance")
	}

	got, err := svc.Get("a")
	if err != nil || got != first {
		t.Fatalf("Get err: %v", err)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := newRegistry(t, 4)

	if _, err := svc.Get("missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, _, err := svc.GetOrCreate(""); !errors.Is(err, chat.ErrSessionIDRequired) {
		t.Fatalf("expected ErrSessionIDRequired, got %v", err)
	}
}

func TestServiceEvictsLeastRecentlyUsed(t *testing.T) {
	svc := newRegistry(t, 2)

	svc.GetOrCreate("a")
	svc.GetOrCreate("b")
	// touching a makes b the eviction candidate
	if _, err := svc.Get("a"); err != nil {
		t.Fatalf("Get err: %v", err)
	}
	svc.GetOrCreate("c")

	if svc.Len() != 2 {
		t.Fatalf("expected 2 live sessions, got %d", svc.Len())
	}
	if _, err := svc.Get("b"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatal("expected b to be evicted")
	}
	if _, err := svc.Get("a"); err != nil {
		t.Fatal("expected a to survive")
	}
}

func TestNewServiceRejectsBadCapacity(t *testing.T) {
	if _, err := chat.NewService(0, func() *coach.Session { return nil }); err == nil {
		t.Fatal("expected error for zero capacity")
	}
}
