// Package ingest wires the parse, identity, persistence, and export steps
// into the single pipeline every ingestion path goes through.
package ingest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"resource-tracker/internal/export"
	"resource-tracker/internal/model"
	"resource-tracker/internal/parser"
	"resource-tracker/internal/store"
)

// Service processes raw payloads end to end: parse, resolve identity,
// persist, and sync the export row.
type Service struct {
	resolver *parser.Resolver
	store    *store.Store
	exporter *export.Exporter
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates an ingestion service over the given store and exporter.
func NewService(resolver *parser.Resolver, st *store.Store, exporter *export.Exporter, logger zerolog.Logger) *Service {
	return &Service{
		resolver: resolver,
		store:    st,
		exporter: exporter,
		logger:   logger.With().Str("component", "ingest").Logger(),
		now:      time.Now,
	}
}

// Ingest runs one payload through the pipeline and returns the stored
// record. Parsing never fails; persistence errors are returned as
// *store.PersistError.
func (s *Service) Ingest(raw []byte, clientIP string) (*model.ParsedRecord, error) {
	rec := parser.Parse(string(raw))
	rec.ClientIP = clientIP
	rec.ReceivedAt = s.now()

	key := s.resolver.Resolve(rec)
	rec.IdentityKey = key

	if err := s.store.Upsert(key, raw, rec); err != nil {
		s.logger.Error().Err(err).Str("identity", key).Msg("failed to persist payload")
		return nil, err
	}

	if err := s.exporter.Sync(key, rec); err != nil {
		// The store already holds the record; a failed table sync is
		// recoverable on the next ingestion, so report it without
		// discarding the stored entry.
		s.logger.Error().Err(err).Str("identity", key).Msg("failed to sync export row")
		return rec, fmt.Errorf("sync export row for %q: %w", key, err)
	}

	s.logger.Info().
		Str("identity", key).
		Str("client_ip", clientIP).
		Int("bytes", len(raw)).
		Msg("payload ingested")

	return rec, nil
}
