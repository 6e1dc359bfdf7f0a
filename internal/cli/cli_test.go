package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	st, err := store.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	defer st.Close()

	emotion := "calm"
	for _, text := range []string{"first", "second"} {
		if _, err := st.SaveEntry(context.Background(), store.SaveParams{OwnerID: "owner-a", Text: text, Emotion: &emotion}); err != nil {
			t.Fatalf("SaveEntry err: %v", err)
		}
	}
	return path
}

func TestEntriesJSON(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "--db", path, "entries", "--owner", "owner-a", "-n", "1")
	if err != nil {
		t.Fatalf("entries err: %v", err)
	}
	var entries []journal.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode err: %v (%q)", err, out)
	}
	if len(entries) != 1 || entries[0].Text != "second" {
		t.Fatalf("expected newest entry only, got %+v", entries)
	}
}

func TestEntriesRequiresOwner(t *testing.T) {
	if _, err := run(t, "--db", seedDB(t), "entries"); err == nil {
		t.Fatal("expected an error without --owner")
	}
}

func TestAnalyticsText(t *testing.T) {
	out, err := run(t, "--db", seedDB(t), "-f", "text", "analytics", "--owner", "owner-a", "--days", "7")
	if err != nil {
		t.Fatalf("analytics err: %v", err)
	}
	if !strings.HasPrefix(out, "2 entries, 0 favorites over 7 days") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPromptCountsUsage(t *testing.T) {
	path := seedDB(t)

	if _, err := run(t, "--db", path, "prompt", "-e", "angry"); err != nil {
		t.Fatalf("prompt err: %v", err)
	}
	out, err := run(t, "--db", path, "prompts", "-c", "angry")
	if err != nil {
		t.Fatalf("prompts err: %v", err)
	}
	var prompts []journal.Prompt
	if err := json.Unmarshal([]byte(out), &prompts); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	total := 0
	for _, p := range prompts {
		total += p.UsageCount
	}
	if len(prompts) != 5 || total != 1 {
		t.Fatalf("expected 5 angry prompts used once in total, got %d prompts, %d uses", len(prompts), total)
	}
}

func TestCheckAndReset(t *testing.T) {
	path := seedDB(t)

	out, err := run(t, "--db", path, "check")
	if err != nil || !strings.HasPrefix(out, "ok: ") {
		t.Fatalf("check: %q %v", out, err)
	}

	if _, err := run(t, "--db", path, "reset"); err == nil {
		t.Fatal("reset must require --yes")
	}
	if _, err := run(t, "--db", path, "reset", "--yes"); err != nil {
		t.Fatalf("reset err: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected database removed, stat err %v", err)
	}
}
