// Package parser turns raw free-text telemetry payloads into structured records.
package parser

import (
	"time"

	"resource-tracker/internal/model"
)

// Resolver derives the identity key that all persisted state for one
// device/user is filed under. Resolution is a pure function of the record
// except for the anonymous fallback, which stamps the current time so that
// devices with no stable identifier never merge with each other.
type Resolver struct {
	now func() time.Time
}

// NewResolver creates a Resolver using the wall clock for the anonymous
// fallback branch.
func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverWithClock creates a Resolver with an injected clock. Used in
// tests to make the fallback branch deterministic.
func NewResolverWithClock(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// Resolve returns the identity key for a parsed record. Priority order:
// username, then hardware serial, then computer name, each used only when
// non-empty. When no signal exists at all, a fresh "unknown_" key is minted
// from the current time.
func (r *Resolver) Resolve(rec *model.ParsedRecord) string {
	switch {
	case rec.Username != "":
		return rec.Username
	case rec.Serial != "":
		return "serial_" + rec.Serial
	case rec.ComputerName != "":
		return "pc_" + rec.ComputerName
	default:
		return "unknown_" + r.now().Format("20060102150405")
	}
}
