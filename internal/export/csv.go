// Package export maintains the denormalized per-identity table used for
// bulk export. The table is a single CSV file with a fixed header row and
// exactly one row per identity ever ingested; each ingestion replaces or
// inserts the affected row and rewrites the file in full.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"resource-tracker/internal/model"
)

// DefaultFilename is the table's conventional filename inside the record
// directory.
const DefaultFilename = "all_users_data.csv"

// Columns is the fixed column order of the table.
var Columns = []string{
	"user_id", "username", "computer_name", "timestamp", "received_at",
	"client_ip", "latitude", "longitude", "manufacturer", "model",
	"serial", "cpu_name", "cpu_cores", "max_clock_speed",
	"total_ram_gb", "available_ram_mb", "total_storage_gb", "available_storage_gb",
}

// Exporter keeps one row per identity. Rows are held in an internal keyed
// map guarded by a lock: the full-file rewrite is the serialization point
// for concurrent ingestions, since a lost rewrite would drop another
// identity's update.
type Exporter struct {
	path string

	mu   sync.Mutex
	rows map[string][]string // identity_key → rendered row

	logger zerolog.Logger
}

// Open creates an Exporter backed by the CSV file at path, loading any rows
// an earlier run wrote. A missing file is an empty table.
func Open(path string, logger zerolog.Logger) (*Exporter, error) {
	e := &Exporter{
		path:   path,
		rows:   make(map[string][]string),
		logger: logger.With().Str("component", "exporter").Logger(),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := e.load(); err != nil {
		return nil, err
	}

	return e, nil
}

// load reads existing rows from disk into the keyed map.
func (e *Exporter) load() error {
	f, err := os.Open(e.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open export table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read export table: %w", err)
	}

	for i, row := range records {
		if i == 0 {
			continue // header
		}
		e.rows[row[0]] = row
	}
	return nil
}

// Sync replaces or inserts the row for one identity and rewrites the table.
func (e *Exporter) Sync(key string, rec *model.ParsedRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rows[key] = Row(key, rec)
	if err := e.writeLocked(); err != nil {
		return fmt.Errorf("failed to rewrite export table: %w", err)
	}

	e.logger.Debug().Str("identity", key).Int("rows", len(e.rows)).Msg("table row synced")
	return nil
}

// Rows returns all rows sorted by identity key, without the header.
func (e *Exporter) Rows() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortedRowsLocked()
}

func (e *Exporter) sortedRowsLocked() [][]string {
	keys := make([]string, 0, len(e.rows))
	for key := range e.rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, e.rows[key])
	}
	return rows
}

// writeLocked rewrites the whole table atomically. Caller holds e.mu.
func (e *Exporter) writeLocked() error {
	tmp, err := os.CreateTemp(filepath.Dir(e.path), filepath.Base(e.path)+".tmp-*")
	if err != nil {
		return err
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err == nil {
		err = w.WriteAll(e.sortedRowsLocked())
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), e.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Row renders one record into the fixed column order. Missing values render
// as empty strings; numeric fields that kept raw text render that text.
func Row(key string, rec *model.ParsedRecord) []string {
	return []string{
		key,
		rec.Username,
		rec.ComputerName,
		rec.Timestamp,
		formatTime(rec.ReceivedAt),
		rec.ClientIP,
		formatCoord(rec.Latitude),
		formatCoord(rec.Longitude),
		rec.Manufacturer,
		rec.Model,
		rec.Serial,
		rec.CPUName,
		rec.CPUCores.String(),
		rec.MaxClockSpeed,
		rec.TotalRAMGB.String(),
		rec.AvailableRAMMB.String(),
		rec.TotalStorageGB.String(),
		rec.AvailableStorageGB.String(),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
