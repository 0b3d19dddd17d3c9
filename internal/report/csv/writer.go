// Package csv provides CSV report generation for the resource tracker.
// It implements the report.ReportWriter interface, emitting the same
// denormalized table the exporter maintains.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"resource-tracker/internal/export"
	"resource-tracker/internal/model"
)

// Writer implements report.ReportWriter for CSV format.
type Writer struct{}

// NewWriter creates a new CSV report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "csv"
}

// Write generates a CSV report from the snapshot. Entries without a
// readable record fall back to the summary fields so no identity is
// silently dropped.
func (w *Writer) Write(snapshot *model.Snapshot, outputPath string) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".csv") {
		outputPath = outputPath + ".csv"
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(export.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range snapshot.Entries {
		rec := entry.Record
		if rec == nil {
			rec = recordFromSummary(entry.Summary)
		}
		if err := cw.Write(export.Row(entry.IdentityKey, rec)); err != nil {
			return fmt.Errorf("failed to write CSV row for %q: %w", entry.IdentityKey, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}

	return nil
}

// recordFromSummary builds a sparse record for entries whose record file
// could not be read.
func recordFromSummary(s *model.Summary) *model.ParsedRecord {
	if s == nil {
		return &model.ParsedRecord{}
	}
	return &model.ParsedRecord{
		Timestamp:          s.Timestamp,
		ComputerName:       s.ComputerName,
		Username:           s.Username,
		GPSLocation:        s.Location.GPS,
		Latitude:           s.Location.Latitude,
		Longitude:          s.Location.Longitude,
		Manufacturer:       s.Hardware.Manufacturer,
		Model:              s.Hardware.Model,
		Serial:             s.Hardware.Serial,
		CPUName:            s.CPU.Name,
		CPUCores:           s.CPU.Cores,
		MaxClockSpeed:      s.CPU.MaxClockSpeed,
		TotalRAMGB:         s.Memory.TotalRAMGB,
		AvailableRAMMB:     s.Memory.AvailableRAMMB,
		TotalStorageGB:     s.Storage.TotalGB,
		AvailableStorageGB: s.Storage.AvailableGB,
		ClientIP:           s.ClientIP,
	}
}
