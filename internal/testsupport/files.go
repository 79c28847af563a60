package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// fixtureBytes stands in for media content. Nothing decodes it; the library
// only looks at names, and the engine is faked or stubbed.
var fixtureBytes = []byte("clipreel fixture\n")

// WriteMediaFixtures creates placeholder media files named names inside dir
// and returns their paths in the same order.
func WriteMediaFixtures(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, fixtureBytes, 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}
