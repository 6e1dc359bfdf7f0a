package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zhouzirui/mindful-journal/backend/internal/config"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
	chatService "github.com/zhouzirui/mindful-journal/backend/internal/service/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/coach"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/emotion"
	journalService "github.com/zhouzirui/mindful-journal/backend/internal/service/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/store"
	"github.com/zhouzirui/mindful-journal/backend/internal/vision"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	detector := emotion.NewService(nil)
	sessions, err := chatService.NewService(16, func() *coach.Session {
		return coach.NewSession(detector, nil)
	})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	device := vision.NewDevice(func(context.Context) (vision.Camera, error) {
		return vision.NewSyntheticCamera(64, 48), nil
	})
	loop := vision.LoopConfig{Interval: time.Millisecond, Duration: time.Second}

	srv := httptest.NewServer(NewRouter(Deps{
		Session:  config.SessionConfig{CookieName: "session_id"},
		Sessions: sessions,
		Journal:  journalService.NewService(st, detector),
		Catalog:  breathing.NewCatalog(breathing.Seed()),
		Exercise: vision.NewBreathing(device, nil, loop),
		Feed:     vision.NewEmotionFeed(device, nil, loop),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar err: %v", err)
	}
	return &http.Client{Jar: jar}
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	return body
}

func TestJournalFlowAcrossSession(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/journal/entries")
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 before any session, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = client.Post(srv.URL+"/journal/save", "application/json",
		strings.NewReader(`{"entry_text":"Feeling okay today"}`))
	if err != nil {
		t.Fatalf("POST err: %v", err)
	}
	if body := decode(t, resp); body["status"] != "success" {
		t.Fatalf("save failed: %v", body)
	}

	resp, err = client.Get(srv.URL + "/journal/entries")
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	body := decode(t, resp)
	if entries := body["entries"].([]any); len(entries) != 1 {
		t.Fatalf("expected the saved entry, got %v", body)
	}

	// 另一个访客看不到
	other := newClient(t)
	other.Get(srv.URL + "/")
	resp, err = other.Get(srv.URL + "/journal/entries")
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if entries := decode(t, resp)["entries"].([]any); len(entries) != 0 {
		t.Fatalf("expected no entries for another visitor, got %d", len(entries))
	}
}

func TestChatThenHistory(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	resp, err := client.Post(srv.URL+"/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("POST err: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without a session, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = client.Post(srv.URL+"/chat", "application/json", strings.NewReader(`{"message":"I am so worried about tomorrow"}`))
	if err != nil {
		t.Fatalf("POST err: %v", err)
	}
	if body := decode(t, resp); body["emotion"] != "worried" {
		t.Fatalf("unexpected chat response %v", body)
	}

	resp, err = client.Get(srv.URL + "/history")
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	body := decode(t, resp)
	if len(body["history"].([]any)) != 2 || len(body["emotions"].([]any)) != 1 {
		t.Fatalf("unexpected history %v", body)
	}
}

func TestHealthzAndCORS(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatal("expected the origin to be echoed")
	}
	if body := decode(t, resp); body["status"] != "ok" {
		t.Fatalf("unexpected health %v", body)
	}
}

func TestPagesAndAPIShareJournalPrefix(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/journal")
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("expected the journal page, got %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp, err = client.Get(srv.URL + "/journal/prompt")
	if err != nil {
		t.Fatalf("GET err: %v", err)
	}
	if body := decode(t, resp); body["status"] != "success" {
		t.Fatalf("unexpected prompt response %v", body)
	}
}
