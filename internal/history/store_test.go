package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, run := range []string{"run-a", "run-b", "run-c"} {
		_, err := store.Append(ctx, Entry{
			RunID:           run,
			StartedAt:       base.Add(time.Duration(i) * time.Hour),
			FinishedAt:      base.Add(time.Duration(i)*time.Hour + time.Minute),
			Clips:           []string{"c.mp4", "a.mp4"},
			Audio:           "song.mp3",
			OutputPath:      "/out/" + run + ".mp4",
			DurationSeconds: 15.5,
			Reencoded:       i == 1,
		})
		if err != nil {
			t.Fatalf("Append %s: %v", run, err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-c" || entries[1].RunID != "run-b" {
		t.Fatalf("unexpected order: %s, %s", entries[0].RunID, entries[1].RunID)
	}
	if !entries[1].Reencoded || entries[0].Reencoded {
		t.Fatal("reencoded flag not round-tripped")
	}
	if !slices.Equal(entries[0].Clips, []string{"c.mp4", "a.mp4"}) {
		t.Fatalf("clip order lost: %v", entries[0].Clips)
	}
	if !entries[0].FinishedAt.Equal(base.Add(2*time.Hour + time.Minute)) {
		t.Fatalf("finished_at = %v", entries[0].FinishedAt)
	}

	all, err := store.Recent(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("Recent(0) = %d entries, %v", len(all), err)
	}
	count, err := store.Count(ctx)
	if err != nil || count != 3 {
		t.Fatalf("Count = %d, %v", count, err)
	}
}

func TestAppendRejectsDuplicateRunID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	entry := Entry{RunID: "dup", FinishedAt: time.Now(), Clips: []string{"a.mp4"}, Audio: "s.mp3", OutputPath: "o.mp4"}
	if _, err := store.Append(ctx, entry); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if _, err := store.Append(ctx, entry); err == nil {
		t.Fatal("expected unique constraint failure")
	}
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Append(context.Background(), Entry{RunID: "r1", FinishedAt: time.Now(), Audio: "s.mp3", OutputPath: "o.mp4"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	_ = store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Recent(context.Background(), 10)
	if err != nil || len(entries) != 1 || entries[0].RunID != "r1" {
		t.Fatalf("unexpected entries %+v, %v", entries, err)
	}
	if entries[0].Clips == nil || len(entries[0].Clips) != 0 {
		t.Fatalf("nil clips should round-trip as empty list, got %#v", entries[0].Clips)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	_, err = Open(path)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
