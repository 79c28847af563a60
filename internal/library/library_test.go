package library

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipreel/internal/faults"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.mp4", "a.MP4", "b.mp4", "notes.txt", ".hidden.mp4", "noext"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.mp4"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "b.mp4"), filepath.Join(dir, "d.mp4")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := Folder{Label: "Video", Dir: dir, Extensions: []string{".mp4"}}.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"a.MP4", "b.mp4", "c.mp4", "d.mp4"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Scan = %v, want %v", got, want)
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	got, err := Folder{Label: "Audio", Dir: t.TempDir(), Extensions: []string{".mp3"}}.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %v", got)
	}
}

func TestScanRejectsMissingAndNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clips")
	touch(t, file)

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"missing", filepath.Join(dir, "absent"), "Video folder '" + filepath.Join(dir, "absent") + "' does not exist"},
		{"file", file, "is not a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Folder{Label: "Video", Dir: tt.dir, Extensions: []string{".mp4"}}.Scan()
			if !errors.Is(err, faults.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestResolveNormalizesUnicode(t *testing.T) {
	nfd := "cafe\u0301.mp4"
	nfc := "caf\u00e9.mp4"
	available := []string{"a.mp4", nfd}

	got, ok := Resolve(available, nfc)
	if !ok || got != nfd {
		t.Fatalf("Resolve(%q) = %q, %v; want on-disk %q", nfc, got, ok, nfd)
	}
	if _, ok := Resolve(available, "zzz.mp4"); ok {
		t.Fatal("expected miss for unknown name")
	}
}

func TestPathsAreAbsolute(t *testing.T) {
	t.Chdir(t.TempDir())
	paths, err := Folder{Dir: "clips"}.Paths([]string{"a.mp4"})
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if !filepath.IsAbs(paths[0]) || filepath.Base(paths[0]) != "a.mp4" {
		t.Fatalf("unexpected path %q", paths[0])
	}
}
