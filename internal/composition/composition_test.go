package composition

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipreel/internal/faults"
	"clipreel/internal/testsupport"
)

func TestFadeOut(t *testing.T) {
	tests := []struct {
		duration float64
		want     time.Duration
	}{
		{15, 1500 * time.Millisecond},
		{60, 2 * time.Second},
		{20, 2 * time.Second},
		{0, 0},
	}
	for _, tt := range tests {
		if got := FadeOut(tt.duration, 2*time.Second, 0.1); got != tt.want {
			t.Fatalf("FadeOut(%v) = %v, want %v", tt.duration, got, tt.want)
		}
	}
	if got := FadeOut(30, 0, 0.1); got != 0 {
		t.Fatalf("zero max should disable fade, got %v", got)
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2026, 7, 4, 18, 5, 9, 0, time.UTC)
	got := OutputPath("output", "viral-clip", "06-01-02-15-04-05", ".mp4", now)
	want := filepath.Join("output", "viral-clip-26-07-04-18-05-09.mp4")
	if got != want {
		t.Fatalf("OutputPath = %q, want %q", got, want)
	}
}

func TestPartialPath(t *testing.T) {
	got := partialPath("/out/reel.mp4", "abc")
	if got != "/out/.reel.abc.partial.mp4" {
		t.Fatalf("partialPath = %q", got)
	}
}

func TestWriteManifestQuotesPaths(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "concat.txt")
	clips := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "it's.mp4")}
	if err := WriteManifest(manifest, clips); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "file '" + clips[0] + "'\n" + "file '" + filepath.Join(dir, `it'\''s.mp4`) + "'\n"
	if string(data) != want {
		t.Fatalf("manifest:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteManifestReplacesStaleList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workspace")
	manifest := filepath.Join(dir, "concat.txt")
	clip := filepath.Join(dir, "b.mp4")

	if err := WriteManifest(manifest, []string{filepath.Join(dir, "a.mp4"), clip}); err != nil {
		t.Fatalf("first WriteManifest: %v", err)
	}
	if err := WriteManifest(manifest, []string{clip}); err != nil {
		t.Fatalf("second WriteManifest: %v", err)
	}

	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := "file '" + clip + "'\n"; string(data) != want {
		t.Fatalf("manifest = %q, want %q", data, want)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "concat.txt" {
		t.Fatalf("expected only concat.txt in workspace, got %v", entries)
	}
}

func newPipeline(t *testing.T, fake *testsupport.FakeEngine) (*Pipeline, string) {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), "tmp")
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		t.Fatal(err)
	}
	p := NewPipeline(fake, Settings{
		TempDir:      tmp,
		Volume:       0.8,
		FadeMax:      2 * time.Second,
		FadeFraction: 0.1,
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
	}, nil)
	return p, tmp
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected %s to be empty, found %v", dir, names)
	}
}

func TestRunSuccess(t *testing.T) {
	fake := testsupport.NewFakeEngine(15)
	p, tmp := newPipeline(t, fake)
	out := filepath.Join(t.TempDir(), "output", "reel.mp4")

	result, err := p.Run(context.Background(), Job{
		RunID:  "run1",
		Clips:  []string{"/clips/c.mp4", "/clips/a.mp4"},
		Audio:  "/audio/song.mp3",
		Output: out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Output != out || result.Duration != 15 || result.Reencoded {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Audio.FadeOut != 1500*time.Millisecond || result.Audio.Volume != 0.8 {
		t.Fatalf("unexpected audio params %+v", result.Audio)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	if len(fake.Manifests) != 1 || !strings.HasPrefix(fake.Manifests[0], "file '/clips/c.mp4'\nfile '/clips/a.mp4'") {
		t.Fatalf("manifest order wrong: %q", fake.Manifests)
	}
	if len(fake.Mixes) != 1 {
		t.Fatalf("expected one mix, got %d", len(fake.Mixes))
	}
	mix := fake.Mixes[0]
	if mix.Duration != 15 || mix.Audio != "/audio/song.mp3" || mix.LoopAudio {
		t.Fatalf("unexpected mix %+v", mix)
	}
	if filepath.Dir(mix.Output) != filepath.Dir(out) || !strings.Contains(filepath.Base(mix.Output), ".partial") {
		t.Fatalf("mix should target a partial file beside the output, got %s", mix.Output)
	}
	assertEmptyDir(t, tmp)
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil || len(entries) != 1 || entries[0].Name() != "reel.mp4" {
		t.Fatalf("output directory should hold only the final file: %v %v", entries, err)
	}
}

func TestRunFallsBackToReencode(t *testing.T) {
	fake := testsupport.NewFakeEngine(60)
	fake.ConcatErr = testsupport.EngineFailure("concat", "Non-monotonous DTS")
	p, tmp := newPipeline(t, fake)
	out := filepath.Join(t.TempDir(), "reel.mp4")

	result, err := p.Run(context.Background(), Job{RunID: "r", Clips: []string{"/c/a.mp4"}, Audio: "/a/s.mp3", Output: out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Reencoded {
		t.Fatal("expected Reencoded")
	}
	if len(fake.Concats) != 2 || fake.Concats[0].Reencode || !fake.Concats[1].Reencode {
		t.Fatalf("unexpected concat sequence %+v", fake.Concats)
	}
	if result.Audio.FadeOut != 2*time.Second {
		t.Fatalf("FadeOut = %v, want 2s", result.Audio.FadeOut)
	}
	assertEmptyDir(t, tmp)
}

func TestRunEngineFailuresCleanUp(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*testsupport.FakeEngine)
	}{
		{"concat and fallback fail", func(f *testsupport.FakeEngine) {
			f.ConcatErr = testsupport.EngineFailure("concat", "bad")
			f.ReencodeErr = testsupport.EngineFailure("concat re-encode", "worse")
		}},
		{"probe fails", func(f *testsupport.FakeEngine) {
			f.DurationErr = testsupport.EngineFailure("probe duration", "moov atom not found")
		}},
		{"mix fails", func(f *testsupport.FakeEngine) {
			f.MixErr = testsupport.EngineFailure("mix audio", "Invalid data found")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testsupport.NewFakeEngine(30)
			tt.setup(fake)
			p, tmp := newPipeline(t, fake)
			outDir := t.TempDir()
			out := filepath.Join(outDir, "reel.mp4")

			_, err := p.Run(context.Background(), Job{RunID: "r", Clips: []string{"/c/a.mp4"}, Audio: "/a/s.mp3", Output: out})
			if !errors.Is(err, faults.ErrEngineFailure) {
				t.Fatalf("expected ErrEngineFailure, got %v", err)
			}
			assertEmptyDir(t, tmp)
			assertEmptyDir(t, outDir)
		})
	}
}

func TestRunRejectsEmptyJob(t *testing.T) {
	p, _ := newPipeline(t, testsupport.NewFakeEngine(1))
	_, err := p.Run(context.Background(), Job{Audio: "a", Output: "o.mp4"})
	if !errors.Is(err, faults.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
