// Package store persists per-identity telemetry state: the exact raw
// payload, the structured record, and a shared aggregate document mapping
// every identity to its latest nested summary. Each identity has exactly
// one current record; an upsert fully replaces whatever was there before.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"resource-tracker/internal/model"
)

const (
	rawDirName    = "user_logs"
	recordDirName = "processed_data"
	aggregateFile = "analytics.json"
)

// Store is the durable record store. Per-identity raw/JSON writes are
// independent across identities; the shared aggregate document is guarded
// by an internal lock and kept in memory between rewrites so a full reload
// is never needed on the hot path.
type Store struct {
	rawDir    string
	recordDir string

	mu        sync.Mutex                // Guards aggregate map and its rewrite
	aggregate map[string]*model.Summary // identity_key → latest summary

	logger zerolog.Logger
}

// Open creates a Store rooted at baseDir, creating the layout and loading
// the aggregate document if one exists. A missing aggregate document is an
// empty dataset, not an error.
func Open(baseDir string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		rawDir:    filepath.Join(baseDir, rawDirName),
		recordDir: filepath.Join(baseDir, recordDirName),
		aggregate: make(map[string]*model.Summary),
		logger:    logger.With().Str("component", "store").Logger(),
	}

	for _, dir := range []string{s.rawDir, s.recordDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if err := s.loadAggregate(); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("base_dir", baseDir).
		Int("identities", len(s.aggregate)).
		Msg("store opened")

	return s, nil
}

// RecordDir returns the directory holding the structured record files.
// The export table lives alongside them.
func (s *Store) RecordDir() string {
	return s.recordDir
}

// loadAggregate reads the aggregate document from disk into memory.
func (s *Store) loadAggregate() error {
	data, err := os.ReadFile(s.aggregatePath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read aggregate document: %w", err)
	}
	if err := json.Unmarshal(data, &s.aggregate); err != nil {
		return fmt.Errorf("failed to parse aggregate document: %w", err)
	}
	return nil
}

// Upsert persists the raw payload and structured record for one identity,
// fully replacing any prior content, and folds the record's summary into
// the aggregate document. Raw and record land together or not at all: both
// are staged as temp files and only renamed into place once both writes
// succeeded.
func (s *Store) Upsert(key string, raw []byte, rec *model.ParsedRecord) error {
	rawPath := s.rawPath(key)
	recPath := s.recordPath(key)

	recData, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return &PersistError{Op: "record", Key: key, Err: err}
	}

	rawTmp, err := writeTemp(rawPath, raw)
	if err != nil {
		return &PersistError{Op: "raw", Key: key, Err: err}
	}
	recTmp, err := writeTemp(recPath, recData)
	if err != nil {
		os.Remove(rawTmp)
		return &PersistError{Op: "record", Key: key, Err: err}
	}

	// Both temps staged; commit via rename.
	if err := os.Rename(rawTmp, rawPath); err != nil {
		os.Remove(rawTmp)
		os.Remove(recTmp)
		return &PersistError{Op: "raw", Key: key, Err: err}
	}
	if err := os.Rename(recTmp, recPath); err != nil {
		os.Remove(recTmp)
		return &PersistError{Op: "record", Key: key, Err: err}
	}

	// Merge into the shared aggregate document under the lock. Concurrent
	// ingestions for different identities serialize here because the
	// document is rewritten in full.
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.aggregate[key]
	s.aggregate[key] = model.NewSummary(rec)
	if err := s.writeAggregateLocked(); err != nil {
		// Roll the map back so memory and disk stay consistent.
		if existed {
			s.aggregate[key] = prev
		} else {
			delete(s.aggregate, key)
		}
		return &PersistError{Op: "aggregate", Key: key, Err: err}
	}

	s.logger.Debug().Str("identity", key).Msg("record upserted")
	return nil
}

// writeAggregateLocked rewrites the aggregate document. Caller holds s.mu.
func (s *Store) writeAggregateLocked() error {
	data, err := json.MarshalIndent(s.aggregate, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.aggregatePath(), data)
}

// GetAll returns a snapshot of the identity→summary mapping. The snapshot
// is safe to read while ingestions continue.
func (s *Store) GetAll() map[string]*model.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]*model.Summary, len(s.aggregate))
	for key, summary := range s.aggregate {
		snapshot[key] = summary
	}
	return snapshot
}

// Keys returns all identity keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.aggregate))
	for key := range s.aggregate {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetOne returns the summary for one identity, or ErrNotFound.
func (s *Store) GetOne(key string) (*model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.aggregate[key]
	if !ok {
		return nil, ErrNotFound
	}
	return summary, nil
}

// FindBySerial returns the summary whose hardware serial matches, or
// ErrNotFound. Used by the device-logs dashboard endpoint.
func (s *Store) FindBySerial(serial string) (*model.Summary, error) {
	if serial == "" {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, summary := range s.aggregate {
		if summary.Hardware.Serial == serial {
			return summary, nil
		}
	}
	return nil, ErrNotFound
}

// RawBlob returns the exact raw payload last stored for one identity.
func (s *Store) RawBlob(key string) ([]byte, error) {
	data, err := os.ReadFile(s.rawPath(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

// Record returns the structured record last stored for one identity.
func (s *Store) Record(key string) (*model.ParsedRecord, error) {
	data, err := os.ReadFile(s.recordPath(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec model.ParsedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record for %q: %w", key, err)
	}
	return &rec, nil
}

func (s *Store) aggregatePath() string {
	return filepath.Join(s.recordDir, aggregateFile)
}

func (s *Store) rawPath(key string) string {
	return filepath.Join(s.rawDir, safeFilename(key)+".log")
}

func (s *Store) recordPath(key string) string {
	return filepath.Join(s.recordDir, safeFilename(key)+".json")
}

// safeFilename neutralizes path separators in identity keys, which derive
// from untrusted payload text.
func safeFilename(key string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", "\x00", "_")
	return replacer.Replace(key)
}

// writeTemp stages data in a temp file next to the target path and returns
// the temp file name.
func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// writeAtomic writes data via the write-temp-then-rename pattern so readers
// never observe a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
