package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"clipreel/internal/faults"
)

// Folder describes one media directory.
type Folder struct {
	// Label names the folder in error messages ("Video", "Audio").
	Label      string
	Dir        string
	Extensions []string
}

// Scan returns the matching file names in ascending order. Hidden entries and
// subdirectories are skipped. A missing directory, or a path that is not a
// directory, is a configuration error.
func (f Folder) Scan() ([]string, error) {
	label := f.Label
	if label == "" {
		label = "Media"
	}
	info, err := os.Stat(f.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrConfiguration, "scan library", fmt.Sprintf("%s folder '%s' does not exist", label, f.Dir), nil)
		}
		return nil, faults.Wrap(faults.ErrConfiguration, "scan library", fmt.Sprintf("%s folder '%s'", label, f.Dir), err)
	}
	if !info.IsDir() {
		return nil, faults.Wrap(faults.ErrConfiguration, "scan library", fmt.Sprintf("%s folder '%s' is not a directory", label, f.Dir), nil)
	}

	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "scan library", fmt.Sprintf("read %s folder '%s'", strings.ToLower(label), f.Dir), err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !f.matches(name) {
			continue
		}
		if !isFile(filepath.Join(f.Dir, name), entry) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Path joins name onto the folder directory.
func (f Folder) Path(name string) string {
	return filepath.Join(f.Dir, name)
}

// Paths maps names onto absolute paths in order.
func (f Folder) Paths(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		abs, err := filepath.Abs(f.Path(name))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", name, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

func (f Folder) matches(name string) bool {
	fold := cases.Fold()
	ext := fold.String(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, want := range f.Extensions {
		if fold.String(want) == ext {
			return true
		}
	}
	return false
}

// isFile follows symlinks so linked clips are picked up.
func isFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Resolve finds name in available. An exact match wins; otherwise names are
// compared in Unicode NFC form and the on-disk spelling is returned.
func Resolve(available []string, name string) (string, bool) {
	if slices.Contains(available, name) {
		return name, true
	}
	want := norm.NFC.String(name)
	for _, candidate := range available {
		if norm.NFC.String(candidate) == want {
			return candidate, true
		}
	}
	return "", false
}

// Normalize returns the NFC form of name, used when comparing exclusion
// lists against the library.
func Normalize(name string) string {
	return norm.NFC.String(name)
}
