package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"resource-tracker/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func testRecord(username, serial string) *model.ParsedRecord {
	return &model.ParsedRecord{
		Username:     username,
		Serial:       serial,
		ComputerName: "DESKTOP-X",
		TotalRAMGB:   model.Float(15.78),
		ReceivedAt:   time.Date(2025, 12, 5, 5, 21, 21, 0, time.UTC),
		IdentityKey:  username,
	}
}

func TestUpsert_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	raw := []byte("2025-12-05 05:21:21 - DESKTOP-X\nUsername: user001\n")
	rec := testRecord("user001", "SN-1")

	if err := s.Upsert("user001", raw, rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Raw blob must round-trip byte for byte.
	blob, err := s.RawBlob("user001")
	if err != nil {
		t.Fatalf("RawBlob() error = %v", err)
	}
	if !bytes.Equal(blob, raw) {
		t.Errorf("raw blob mismatch: got %q want %q", blob, raw)
	}

	// Structured record must match the parsed input.
	stored, err := s.Record("user001")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if stored.Username != "user001" || stored.Serial != "SN-1" {
		t.Errorf("stored record = %+v", stored)
	}

	// Aggregate must hold the summary.
	sum, err := s.GetOne("user001")
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	if sum.Username != "user001" || sum.ComputerName != "DESKTOP-X" {
		t.Errorf("summary = %+v", sum)
	}
}

func TestUpsert_OverwriteKeepsOneEntry(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert("user001", []byte("first"), testRecord("user001", "SN-1")); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	second := testRecord("user001", "SN-2")
	if err := s.Upsert("user001", []byte("second"), second); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	if keys := s.Keys(); len(keys) != 1 {
		t.Fatalf("Keys() = %v, want exactly one entry", keys)
	}

	blob, err := s.RawBlob("user001")
	if err != nil {
		t.Fatalf("RawBlob() error = %v", err)
	}
	if string(blob) != "second" {
		t.Errorf("raw blob = %q, want second payload only", blob)
	}

	sum, err := s.GetOne("user001")
	if err != nil {
		t.Fatalf("GetOne() error = %v", err)
	}
	if sum.Hardware.Serial != "SN-2" {
		t.Errorf("serial = %q, want SN-2", sum.Hardware.Serial)
	}
}

func TestOpen_MissingAggregateIsEmpty(t *testing.T) {
	s := openTestStore(t)
	if got := len(s.GetAll()); got != 0 {
		t.Errorf("GetAll() size = %d, want 0", got)
	}
}

func TestOpen_ReloadsAggregate(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s1.Upsert("user001", []byte("raw"), testRecord("user001", "SN-1")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// A second store over the same directory sees the persisted aggregate.
	s2, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	sum, err := s2.GetOne("user001")
	if err != nil {
		t.Fatalf("GetOne() after reopen error = %v", err)
	}
	if sum.Username != "user001" {
		t.Errorf("summary after reopen = %+v", sum)
	}
}

func TestGetOne_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetOne("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetOne() error = %v, want ErrNotFound", err)
	}
}

func TestFindBySerial(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert("user001", []byte("raw"), testRecord("user001", "SN-42")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	sum, err := s.FindBySerial("SN-42")
	if err != nil {
		t.Fatalf("FindBySerial() error = %v", err)
	}
	if sum.Username != "user001" {
		t.Errorf("summary = %+v", sum)
	}

	if _, err := s.FindBySerial("SN-unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindBySerial() error = %v, want ErrNotFound", err)
	}
}

func TestUpsert_SanitizesKeyForFilenames(t *testing.T) {
	s := openTestStore(t)

	key := "../evil/key"
	if err := s.Upsert(key, []byte("raw"), testRecord(key, "")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// The file must land inside the store directories.
	matches, err := filepath.Glob(filepath.Join(s.rawDir, "*"))
	if err != nil {
		t.Fatalf("glob error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("raw dir entries = %v, want exactly one", matches)
	}

	// And the entry is still retrievable under its logical key.
	if _, err := s.RawBlob(key); err != nil {
		t.Errorf("RawBlob() error = %v", err)
	}
}

func TestGetAll_ReturnsSnapshotCopy(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert("user001", []byte("raw"), testRecord("user001", "SN-1")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	all := s.GetAll()
	delete(all, "user001")

	if _, err := s.GetOne("user001"); err != nil {
		t.Errorf("mutating GetAll result must not affect the store: %v", err)
	}
}
