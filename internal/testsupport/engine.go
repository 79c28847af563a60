package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"clipreel/internal/engine"
)

// FakeEngine records engine calls and writes placeholder outputs.
type FakeEngine struct {
	mu sync.Mutex

	// DurationSeconds is returned by Duration.
	DurationSeconds float64

	// ConcatErr fails stream-copy concat; ReencodeErr fails the fallback.
	ConcatErr   error
	ReencodeErr error
	DurationErr error
	MixErr      error

	Concats   []engine.ConcatRequest
	Mixes     []engine.MixRequest
	Manifests []string
}

// NewFakeEngine returns a fake reporting the given duration.
func NewFakeEngine(duration float64) *FakeEngine {
	return &FakeEngine{DurationSeconds: duration}
}

func (f *FakeEngine) Concat(_ context.Context, req engine.ConcatRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Concats = append(f.Concats, req)
	if data, err := os.ReadFile(req.Manifest); err == nil {
		f.Manifests = append(f.Manifests, string(data))
	}
	if req.Reencode && f.ReencodeErr != nil {
		return f.ReencodeErr
	}
	if !req.Reencode && f.ConcatErr != nil {
		return f.ConcatErr
	}
	return touch(req.Output)
}

func (f *FakeEngine) Duration(context.Context, string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DurationErr != nil {
		return 0, f.DurationErr
	}
	return f.DurationSeconds, nil
}

func (f *FakeEngine) Mix(_ context.Context, req engine.MixRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Mixes = append(f.Mixes, req)
	if f.MixErr != nil {
		// Leave a partial file behind the way an interrupted ffmpeg would.
		_ = touch(req.Output)
		return f.MixErr
	}
	return touch(req.Output)
}

// EngineFailure builds a failure the way the ffmpeg adapter reports one.
func EngineFailure(operation, stderr string) error {
	return &engine.Failure{Operation: operation, Stderr: stderr, Err: os.ErrInvalid}
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("media"), 0o644)
}
