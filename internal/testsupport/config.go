package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipreel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The clip and audio libraries exist but are empty.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ClipsDir = filepath.Join(base, "clips")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.State.UsageFile = filepath.Join(base, "clip_usage.json")
	cfgVal.State.HistoryDB = filepath.Join(base, "history.db")

	for _, dir := range []string{cfgVal.Paths.ClipsDir, cfgVal.Paths.AudioDir, cfgVal.Paths.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithClips creates placeholder clip files with the given names.
func WithClips(names ...string) ConfigOption {
	return func(b *configBuilder) {
		WriteMediaFixtures(b.t, b.cfg.Paths.ClipsDir, names...)
	}
}

// WithAudio creates placeholder audio files with the given names.
func WithAudio(names ...string) ConfigOption {
	return func(b *configBuilder) {
		WriteMediaFixtures(b.t, b.cfg.Paths.AudioDir, names...)
	}
}

// WithoutHistory disables the SQLite run log.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.State.HistoryEnabled = false
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ClipsDir)
}
