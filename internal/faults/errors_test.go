package faults

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := Wrap(ErrPersistence, "save usage", "/tmp/x.json", fs.ErrPermission)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission cause, got %v", err)
	}
	want := "persistence error: save usage: /tmp/x.json: permission denied"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrUnknownClip, "", "  missing.mp4  ", nil)
	if !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("expected unknown clip marker")
	}
	if !strings.HasSuffix(err.Error(), ": missing.mp4") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(nil, "", "", nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failed") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("plain"), "unknown"},
		{Wrap(ErrEngineFailure, "concat", "", nil), "engine_failure"},
		{Wrap(ErrCorruptState, "load", "", errors.New("bad json")), "corrupt_state"},
		{Wrap(ErrNoAudio, "select audio", "", nil), "no_audio"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Fatalf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
