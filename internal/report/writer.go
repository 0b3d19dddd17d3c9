// Package report provides report generation for stored device data.
// It defines the ReportWriter interface and provides implementations for
// different output formats including Excel and CSV.
package report

import (
	"resource-tracker/internal/model"
)

// ReportWriter defines the interface for generating usage reports.
// Implementations should be able to write a store snapshot to a file
// in their specific format (Excel, CSV, etc.).
type ReportWriter interface {
	// Write generates a report from the snapshot and saves it to the
	// specified output path. The path should include the file extension
	// appropriate for the format.
	//
	// Returns an error if the report generation or file writing fails.
	Write(snapshot *model.Snapshot, outputPath string) error

	// Format returns the format identifier for this writer.
	// Common values are "excel" and "csv".
	Format() string
}
