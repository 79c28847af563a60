package workflow

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"clipreel/internal/config"
	"clipreel/internal/faults"
	"clipreel/internal/history"
	"clipreel/internal/testsupport"
	"clipreel/internal/usage"
)

var fixedNow = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func newTestRunner(cfg *config.Config, fake *testsupport.FakeEngine) *Runner {
	ids := 0
	return NewRunner(cfg, fake, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithRand(rand.New(rand.NewPCG(1, 1))),
		WithRunIDs(func() string {
			ids++
			return "run-" + string(rune('0'+ids))
		}),
	)
}

func TestRunRecordsUsageAfterSuccess(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithClips("c.mp4", "a.mp4", "b.mp4"),
		testsupport.WithAudio("song.mp3"),
	)
	fake := testsupport.NewFakeEngine(15)
	runner := newTestRunner(cfg, fake)

	report, err := runner.Run(context.Background(), Request{Count: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !slices.Equal(report.Selection.Clips, []string{"a.mp4", "b.mp4"}) {
		t.Fatalf("selected %v, want [a.mp4 b.mp4]", report.Selection.Clips)
	}
	if report.Selection.Audio != "song.mp3" || report.Duration != 15 {
		t.Fatalf("unexpected report %+v", report)
	}
	wantOutput := filepath.Join(cfg.Paths.OutputDir, "viral-clip-26-02-03-04-05-06.mp4")
	if report.OutputPath != wantOutput {
		t.Fatalf("output = %s, want %s", report.OutputPath, wantOutput)
	}
	if _, err := os.Stat(wantOutput); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	store, err := usage.Load(cfg.State.UsageFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, id := range []string{"a.mp4", "b.mp4"} {
		rec := store.Get(id)
		if rec.UsageCount != 1 || rec.LastUsed == nil || !rec.LastUsed.Equal(fixedNow) {
			t.Fatalf("%s record = %+v", id, rec)
		}
	}
	if store.Has("c.mp4") {
		t.Fatal("unselected clip should not be recorded")
	}

	hist, err := history.Open(cfg.State.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer hist.Close()
	entries, err := hist.Recent(context.Background(), 5)
	if err != nil || len(entries) != 1 || entries[0].RunID != report.RunID {
		t.Fatalf("history entries %+v, %v", entries, err)
	}

	// The next run rotates to the clip that was skipped.
	second, err := runner.Run(context.Background(), Request{Count: 1, Output: filepath.Join(cfg.Paths.OutputDir, "second.mp4")})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !slices.Equal(second.Selection.Clips, []string{"c.mp4"}) {
		t.Fatalf("second run selected %v, want [c.mp4]", second.Selection.Clips)
	}
}

func TestRunEngineFailureLeavesUsageUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithClips("a.mp4", "b.mp4", "c.mp4"),
		testsupport.WithAudio("song.mp3"),
	)
	seed := usage.NewStore(nil).RecordUsed([]string{"b.mp4"}, fixedNow.Add(-time.Hour))
	if err := usage.Save(cfg.State.UsageFile, seed); err != nil {
		t.Fatalf("seed usage: %v", err)
	}
	before, err := os.ReadFile(cfg.State.UsageFile)
	if err != nil {
		t.Fatalf("read usage: %v", err)
	}

	fake := testsupport.NewFakeEngine(20)
	fake.MixErr = testsupport.EngineFailure("mix audio", "Invalid data found when processing input")
	runner := newTestRunner(cfg, fake)

	report, err := runner.Run(context.Background(), Request{Clips: []string{"c.mp4", "a.mp4"}})
	if !errors.Is(err, faults.ErrEngineFailure) {
		t.Fatalf("expected ErrEngineFailure, got %v", err)
	}
	if !slices.Equal(report.Selection.Clips, []string{"c.mp4", "a.mp4"}) {
		t.Fatalf("explicit order lost: %v", report.Selection.Clips)
	}
	if len(fake.Manifests) == 0 || !bytes.Contains([]byte(fake.Manifests[0]), []byte("c.mp4'\nfile '")) {
		t.Fatalf("manifest should list c.mp4 before a.mp4: %q", fake.Manifests)
	}

	after, err := os.ReadFile(cfg.State.UsageFile)
	if err != nil {
		t.Fatalf("read usage: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("usage file changed after failed run:\n%s\n---\n%s", before, after)
	}

	if entries, _ := os.ReadDir(cfg.Paths.OutputDir); len(entries) != 0 {
		t.Fatalf("output directory should be empty, found %d entries", len(entries))
	}
	if entries, _ := os.ReadDir(cfg.Paths.TempDir); len(entries) != 0 {
		t.Fatalf("temp directory should be empty, found %d entries", len(entries))
	}
	if _, err := os.Stat(cfg.State.HistoryDB); !os.IsNotExist(err) {
		t.Fatal("history must not be written for failed runs")
	}
}

func TestRunDryRunDoesNotRenderOrPersist(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithClips("a.mp4", "b.mp4"),
		testsupport.WithAudio("song.mp3"),
	)
	fake := testsupport.NewFakeEngine(10)
	report, err := newTestRunner(cfg, fake).Run(context.Background(), Request{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.DryRun || len(report.Selection.Clips) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !report.Selection.Clamped() || report.Selection.Requested != 7 {
		t.Fatalf("expected clamp from default count 7, got %+v", report.Selection)
	}
	if len(fake.Concats) != 0 || len(fake.Mixes) != 0 {
		t.Fatal("dry run must not call the engine")
	}
	if _, err := os.Stat(cfg.State.UsageFile); !os.IsNotExist(err) {
		t.Fatal("dry run must not write the usage file")
	}
}

func TestRunFailsWhenLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithClips("a.mp4"),
		testsupport.WithAudio("song.mp3"),
	)
	cfg.State.LockTimeoutSeconds = 0

	held := flock.New(LockPath(cfg.State.UsageFile))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: %v %v", ok, err)
	}
	defer held.Unlock()

	fake := testsupport.NewFakeEngine(10)
	_, err = newTestRunner(cfg, fake).Run(context.Background(), Request{})
	if !errors.Is(err, faults.ErrPersistence) {
		t.Fatalf("expected lock failure, got %v", err)
	}
	if len(fake.Concats) != 0 {
		t.Fatal("engine must not run without the lock")
	}
}

func TestRunConfigurationAndSelectionErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		req    Request
		want   error
	}{
		{"missing clips dir", func(c *config.Config) { c.Paths.ClipsDir = filepath.Join(c.Paths.ClipsDir, "absent") }, Request{}, faults.ErrConfiguration},
		{"unknown explicit clip", nil, Request{Clips: []string{"zzz.mp4"}}, faults.ErrUnknownClip},
		{"unknown audio", nil, Request{Audio: "nope.mp3"}, faults.ErrUnknownAudio},
		{"negative count", nil, Request{Count: -1}, faults.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t,
				testsupport.WithClips("a.mp4"),
				testsupport.WithAudio("song.mp3"),
			)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			fake := testsupport.NewFakeEngine(10)
			_, err := newTestRunner(cfg, fake).Run(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(fake.Concats) != 0 {
				t.Fatal("engine must not run")
			}
		})
	}
}

func TestRunNoAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithClips("a.mp4"))
	_, err := newTestRunner(cfg, testsupport.NewFakeEngine(1)).Run(context.Background(), Request{})
	if !errors.Is(err, faults.ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestRunSweepsStaleWorkspaces(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithClips("a.mp4"),
		testsupport.WithAudio("song.mp3"),
		testsupport.WithoutHistory(),
	)
	stale := filepath.Join(cfg.Paths.TempDir, "clipreel-old-123")
	if err := os.Mkdir(stale, 0o755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	if _, err := newTestRunner(cfg, testsupport.NewFakeEngine(5)).Run(context.Background(), Request{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale workspace should be removed")
	}
	if _, err := os.Stat(cfg.State.HistoryDB); !os.IsNotExist(err) {
		t.Fatal("history disabled but database created")
	}
}
