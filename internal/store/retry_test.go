package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"modernc.org/sqlite"
)

var errLocked = errors.New("database is locked (5) (SQLITE_BUSY)")

// instantTimer fires as soon as it is started and remembers each wait.
type instantTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Time{}
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

func recordingPolicy(timer *instantTimer) RetryPolicy {
	p := DefaultRetryPolicy()
	p.Timer = timer
	return p
}

func TestRetryPolicyDelayGrowsExponentially(t *testing.T) {
	p := DefaultRetryPolicy()
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond}
	for i, w := range want {
		if got := p.Delay(i + 1); got != w {
			t.Fatalf("attempt %d: expected %v, got %v", i+1, w, got)
		}
	}
}

func TestRetryPolicyRecoversAfterBusy(t *testing.T) {
	timer := &instantTimer{}
	p := recordingPolicy(timer)

	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		if calls < 3 {
			return errLocked
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 || len(timer.waits) != 2 {
		t.Fatalf("expected 3 calls and 2 sleeps, got %d calls %v", calls, timer.waits)
	}
}

func TestRetryPolicyExhaustion(t *testing.T) {
	timer := &instantTimer{}
	p := recordingPolicy(timer)

	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		return errLocked
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if !errors.Is(err, errLocked) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if calls != 5 {
		t.Fatalf("expected 5 attempts, got %d", calls)
	}
	if len(timer.waits) != 4 || timer.waits[3] != 800*time.Millisecond {
		t.Fatalf("unexpected waits %v", timer.waits)
	}
}

func TestRetryPolicyDoesNotRetryOtherErrors(t *testing.T) {
	timer := &instantTimer{}
	p := recordingPolicy(timer)
	boom := errors.New("constraint failed")

	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 || len(timer.waits) != 0 {
		t.Fatalf("expected a single attempt, got %d calls", calls)
	}
}

func TestRetryPolicyStopsOnCancelledContext(t *testing.T) {
	p := DefaultRetryPolicy()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := p.Do(ctx, func(int) error {
		calls++
		return errLocked
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrRetriesExhausted) || calls != 1 {
		t.Fatalf("expected a single attempt without exhaustion, got %d calls: %v", calls, err)
	}
}

func TestRetryPolicyPassesAttemptNumbers(t *testing.T) {
	p := recordingPolicy(&instantTimer{})
	p.MaxAttempts = 3

	var seen []int
	_ = p.Do(context.Background(), func(attempt int) error {
		seen = append(seen, attempt)
		return errLocked
	})
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("unexpected attempt numbers %v", seen)
	}
}

func TestRetryPolicyDelayIsCapped(t *testing.T) {
	p := DefaultRetryPolicy()
	p.BaseDelay = 10 * time.Second
	if got := p.Delay(4); got != maxRetryDelay {
		t.Fatalf("expected delay capped at %v, got %v", maxRetryDelay, got)
	}
}

func TestIsBusy(t *testing.T) {
	if !IsBusy(errLocked) {
		t.Fatal("expected lock message to be busy")
	}
	if IsBusy(errors.New("no such table")) || IsBusy(nil) {
		t.Fatal("unexpected busy classification")
	}
}

// lockDatabase holds an exclusive write lock on path until the returned func runs.
func lockDatabase(t *testing.T, path string) func() {
	t.Helper()
	ctx := context.Background()
	db, err := sql.Open("sqlite", dsn(path, 0))
	if err != nil {
		t.Fatalf("open locker: %v", err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		t.Fatalf("locker connection: %v", err)
	}
	if _, err := conn.ExecContext(ctx, "BEGIN EXCLUSIVE"); err != nil {
		conn.Close()
		db.Close()
		t.Fatalf("begin exclusive: %v", err)
	}
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		conn.ExecContext(ctx, "ROLLBACK")
		conn.Close()
		db.Close()
	}
	t.Cleanup(release)
	return release
}

func TestSaveEntryRetriesWhileDatabaseLocked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")
	timer := &instantTimer{}
	s, err := Open(ctx, path, WithBusyTimeout(0), WithRetryPolicy(recordingPolicy(timer)))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	release := lockDatabase(t, path)
	params := SaveParams{OwnerID: "owner-a", Text: "written while locked"}

	_, err = s.SaveEntry(ctx, params)
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		t.Fatalf("expected the driver error to stay wrapped, got %T: %v", err, err)
	}
	if !IsBusy(sqliteErr) {
		t.Fatalf("expected result code %d to count as busy", sqliteErr.Code())
	}
	if len(timer.waits) != 4 {
		t.Fatalf("expected 4 waits between 5 attempts, got %v", timer.waits)
	}

	release()
	id, err := s.SaveEntry(ctx, params)
	if err != nil {
		t.Fatalf("expected save to succeed after the lock is released, got %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected a positive id, got %d", id)
	}
}
