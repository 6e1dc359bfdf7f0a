package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mindful-journal/backend/internal/middleware"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/emotion"
	journalService "github.com/zhouzirui/mindful-journal/backend/internal/service/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	r := chi.NewRouter()
	New(journalService.NewService(st, emotion.NewService(nil))).
		RegisterRoutes(r, func(next http.Handler) http.Handler { return next })
	return r
}

func do(t *testing.T, r http.Handler, method, path, sessionID, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sessionID != "" {
		req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var decoded map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("%s %s: decode err: %v (%q)", method, path, err, rr.Body.String())
	}
	return rr, decoded
}

func TestSaveThenReadBack(t *testing.T) {
	r := newTestRouter(t)

	rr, body := do(t, r, http.MethodPost, "/journal/save", "owner-a",
		`{"entry_text":"Feeling okay today","prompt_used":"What made you smile today?"}`)
	if rr.Code != http.StatusOK || body["status"] != "success" {
		t.Fatalf("save: %d %v", rr.Code, body)
	}
	score, ok := body["sentiment_score"].(float64)
	if !ok || score < 0 || score > 1 {
		t.Fatalf("sentiment out of range: %v", body["sentiment_score"])
	}
	id := int64(body["entry_id"].(float64))
	detected := body["detected_emotion"]

	rr, body = do(t, r, http.MethodGet, "/journal/entry/"+itoa(id), "owner-a", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get entry: %d %v", rr.Code, body)
	}
	entry := body["entry"].(map[string]any)
	if entry["entry_text"] != "Feeling okay today" || entry["emotion"] != detected {
		t.Fatalf("unexpected entry %v", entry)
	}

	// 其他访客看不到该日记
	rr, body = do(t, r, http.MethodGet, "/journal/entry/"+itoa(id), "owner-b", "")
	if rr.Code != http.StatusNotFound || body["message"] != "Entry not found" {
		t.Fatalf("foreign owner: %d %v", rr.Code, body)
	}
}

func TestSaveValidation(t *testing.T) {
	r := newTestRouter(t)

	rr, body := do(t, r, http.MethodPost, "/journal/save", "owner-a", "")
	if rr.Code != http.StatusBadRequest || body["message"] != "No data received" {
		t.Fatalf("missing body: %d %v", rr.Code, body)
	}

	rr, body = do(t, r, http.MethodPost, "/journal/save", "owner-a", `{"entry_text":"   "}`)
	if rr.Code != http.StatusBadRequest || body["message"] != "Journal entry text cannot be empty" {
		t.Fatalf("empty text: %d %v", rr.Code, body)
	}
}

func TestOwnedRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/journal/entries"},
		{http.MethodGet, "/journal/entry/1"},
		{http.MethodPost, "/journal/favorite/1"},
		{http.MethodGet, "/journal/analytics"},
	} {
		rr, body := do(t, r, tc.method, tc.path, "", "")
		if rr.Code != http.StatusUnauthorized || body["message"] != "No active session" {
			t.Fatalf("%s %s: %d %v", tc.method, tc.path, rr.Code, body)
		}
	}
}

func TestFavoriteToggle(t *testing.T) {
	r := newTestRouter(t)
	_, body := do(t, r, http.MethodPost, "/journal/save", "owner-a", `{"entry_text":"Grateful for tea","emotion":"grateful"}`)
	id := itoa(int64(body["entry_id"].(float64)))

	if body["detected_emotion"] != "grateful" || body["sentiment_score"] != nil {
		t.Fatalf("manual emotion must skip detection: %v", body)
	}

	rr, body := do(t, r, http.MethodPost, "/journal/favorite/"+id, "owner-a", "")
	if rr.Code != http.StatusOK || body["message"] != "Favorite status toggled" || body["is_favorite"] != true {
		t.Fatalf("first toggle: %d %v", rr.Code, body)
	}
	_, body = do(t, r, http.MethodPost, "/journal/favorite/"+id, "owner-a", "")
	if body["is_favorite"] != false {
		t.Fatalf("second toggle must restore state: %v", body)
	}

	rr, body = do(t, r, http.MethodPost, "/journal/favorite/"+id, "owner-b", "")
	if rr.Code != http.StatusInternalServerError || body["message"] != "Failed to toggle favorite status" {
		t.Fatalf("foreign toggle: %d %v", rr.Code, body)
	}
}

func TestPromptAndAnalytics(t *testing.T) {
	r := newTestRouter(t)

	rr, body := do(t, r, http.MethodGet, "/journal/prompt?emotion=HAPPY", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("prompt: %d %v", rr.Code, body)
	}
	prompt := body["prompt"].(map[string]any)
	if prompt["text"] == "" || prompt["emotion_category"] != "happy" {
		t.Fatalf("unexpected prompt %v", prompt)
	}

	do(t, r, http.MethodPost, "/journal/save", "owner-a", `{"entry_text":"so happy","emotion":"happy"}`)
	do(t, r, http.MethodPost, "/journal/save", "owner-a", `{"entry_text":"so happy again","emotion":"happy"}`)

	rr, body = do(t, r, http.MethodGet, "/journal/analytics?days=abc", "owner-a", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("analytics: %d %v", rr.Code, body)
	}
	analytics := body["analytics"].(map[string]any)
	if analytics["entry_count"] != float64(2) {
		t.Fatalf("expected 2 entries, got %v", analytics)
	}
	top := analytics["top_emotions"].([]any)
	if len(top) != 1 || top[0].(map[string]any)["emotion"] != "happy" {
		t.Fatalf("unexpected top emotions %v", top)
	}
}

func TestEntriesPagination(t *testing.T) {
	r := newTestRouter(t)
	for i := 0; i < 3; i++ {
		do(t, r, http.MethodPost, "/journal/save", "owner-a", `{"entry_text":"entry","emotion":"calm"}`)
	}

	_, body := do(t, r, http.MethodGet, "/journal/entries?limit=2&offset=0", "owner-a", "")
	if got := len(body["entries"].([]any)); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
	_, body = do(t, r, http.MethodGet, "/journal/entries?limit=2&offset=2", "owner-a", "")
	if got := len(body["entries"].([]any)); got != 1 {
		t.Fatalf("expected 1 entry on the second page, got %d", got)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
