package usage

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"clipreel/internal/faults"
	"clipreel/internal/fileutil"
)

// Store maps clip identifiers to usage records. Store values are immutable
// from the caller's point of view: every mutating method returns a new Store
// and leaves the receiver untouched.
type Store struct {
	records map[string]Record
}

// NewStore builds a store from the provided records.
func NewStore(records map[string]Record) Store {
	cp := make(map[string]Record, len(records))
	for id, rec := range records {
		cp[id] = cloneRecord(rec)
	}
	return Store{records: cp}
}

// Get returns the record for id, or the zero Record when the clip has never
// been tracked.
func (s Store) Get(id string) Record {
	rec, ok := s.records[id]
	if !ok {
		return Record{}
	}
	return cloneRecord(rec)
}

// Has reports whether id has a persisted record.
func (s Store) Has(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Len returns the number of tracked clips.
func (s Store) Len() int {
	return len(s.records)
}

// IDs returns the tracked identifiers in ascending order.
func (s Store) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RecordUsed returns a copy of the store in which every identifier in ids has
// LastUsed set to now and UsageCount incremented once. Repeated identifiers
// within ids count once.
func (s Store) RecordUsed(ids []string, now time.Time) Store {
	next := s.clone()
	stamp := now.Round(0).UTC()
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rec := next.records[id]
		ts := stamp
		rec.LastUsed = &ts
		rec.UsageCount++
		next.records[id] = rec
	}
	return next
}

// Forget returns a copy of the store without the given identifiers.
func (s Store) Forget(ids []string) Store {
	next := s.clone()
	for _, id := range ids {
		delete(next.records, id)
	}
	return next
}

func (s Store) clone() Store {
	return NewStore(s.records)
}

func cloneRecord(rec Record) Record {
	if rec.LastUsed != nil {
		ts := *rec.LastUsed
		rec.LastUsed = &ts
	}
	return rec
}

// Load reads the usage file at path. A missing or empty file yields an empty
// store; anything unparseable is reported as corrupt state so the caller never
// overwrites history it could not read.
func Load(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStore(nil), nil
		}
		return Store{}, faults.Wrap(faults.ErrCorruptState, "read usage file", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewStore(nil), nil
	}

	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		return Store{}, faults.Wrap(faults.ErrCorruptState, "parse usage file", path, err)
	}
	if records == nil {
		return Store{}, faults.Wrap(faults.ErrCorruptState, "parse usage file", path+": expected a JSON object", nil)
	}
	return Store{records: records}, nil
}

// Save writes the store to path atomically. Keys are sorted and indented so
// successive saves diff cleanly.
func Save(path string, store Store) error {
	data, err := Marshal(store)
	if err != nil {
		return faults.Wrap(faults.ErrPersistence, "encode usage file", path, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return faults.Wrap(faults.ErrPersistence, "write usage file", path, err)
	}
	return nil
}

// Marshal renders the deterministic on-disk representation of store.
func Marshal(store Store) ([]byte, error) {
	records := store.records
	if records == nil {
		records = map[string]Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
