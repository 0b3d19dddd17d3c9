// Package analytics derives usage metrics and alerts from stored device summaries.
package analytics

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"resource-tracker/internal/model"
)

// Aggregator derives per-identity usage samples from stored summaries.
type Aggregator struct {
	logger zerolog.Logger
}

// NewAggregator creates an Aggregator with the given logger.
func NewAggregator(logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		logger: logger.With().Str("component", "aggregator").Logger(),
	}
}

// Samples converts a summary set into usage samples, ordered by identity key
// so downstream consumers see a stable sequence.
func (a *Aggregator) Samples(summaries map[string]*model.Summary) []model.UsageSample {
	keys := make([]string, 0, len(summaries))
	for k := range summaries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	samples := make([]model.UsageSample, 0, len(keys))
	for _, k := range keys {
		samples = append(samples, a.Sample(k, summaries[k]))
	}

	a.logger.Debug().Int("samples", len(samples)).Msg("usage samples derived")
	return samples
}

// Sample derives a single usage sample. Percentages are rounded to one
// decimal place and totals to two; a missing or zero total yields 0 usage
// rather than an error.
func (a *Aggregator) Sample(key string, s *model.Summary) model.UsageSample {
	sample := model.UsageSample{
		IdentityKey:  key,
		Username:     s.Username,
		ComputerName: s.ComputerName,
		LastUpdated:  s.LastUpdated,
	}
	if sample.Username == "" {
		sample.Username = key
	}
	if sample.ComputerName == "" {
		sample.ComputerName = "Unknown"
	}

	totalRAM := s.Memory.TotalRAMGB.Float64()
	availRAM := s.Memory.AvailableRAMMB.Float64()
	if totalRAM > 0 {
		// Total is reported in GB, available in MB.
		totalMB := totalRAM * 1024
		sample.RAMUsedPct = roundPct((totalMB - availRAM) / totalMB * 100)
	}
	sample.RAMTotalGB = roundTotal(totalRAM)

	totalStorage := s.Storage.TotalGB.Float64()
	availStorage := s.Storage.AvailableGB.Float64()
	if totalStorage > 0 {
		sample.StorageUsedPct = roundPct((totalStorage - availStorage) / totalStorage * 100)
	}
	sample.StorageTotalGB = roundTotal(totalStorage)

	return sample
}

// roundPct rounds to one decimal place and clamps to the valid 0-100 range.
func roundPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return math.Round(v*10) / 10
}

// roundTotal rounds a capacity value to two decimal places.
func roundTotal(v float64) float64 {
	return math.Round(v*100) / 100
}
