package analytics

import (
	"fmt"

	"resource-tracker/internal/model"
)

// Engine evaluates usage samples against alert thresholds. Evaluation is
// pure: the same samples and rules always produce the same alerts.
type Engine struct {
	rules *model.AlertRules
}

// NewEngine creates an Engine with the given rules. A nil rules value
// falls back to the built-in defaults.
func NewEngine(rules *model.AlertRules) *Engine {
	if rules == nil {
		rules = model.DefaultAlertRules()
	}
	return &Engine{rules: rules}
}

// Evaluate produces alerts for every sample, in sample order. Each sample
// contributes at most one RAM alert followed by at most one storage alert.
func (e *Engine) Evaluate(samples []model.UsageSample) []model.Alert {
	var alerts []model.Alert
	for _, s := range samples {
		if a, ok := e.evaluateRAM(s); ok {
			alerts = append(alerts, a)
		}
		if a, ok := e.evaluateStorage(s); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// evaluateRAM applies the memory rule chain. High usage wins over low
// utilization when both could match.
func (e *Engine) evaluateRAM(s model.UsageSample) (model.Alert, bool) {
	pct := s.RAMUsedPct

	switch {
	case pct > e.rules.RAM.HighUsage.Threshold:
		return model.Alert{
			Type:           model.AlertLevelDanger,
			Category:       model.AlertCategoryRAM,
			User:           alertUser(s),
			Message:        fmt.Sprintf("High RAM usage: %.1f%%", pct),
			Value:          pct,
			Threshold:      e.rules.RAM.HighUsage.Threshold,
			Recommendation: e.rules.RAM.HighUsage.Recommendation,
		}, true
	case pct < e.rules.RAM.LowUtilization.Threshold:
		return model.Alert{
			Type:           model.AlertLevelWarning,
			Category:       model.AlertCategoryRAM,
			User:           alertUser(s),
			Message:        fmt.Sprintf("Low RAM utilization: %.1f%%", pct),
			Value:          pct,
			Threshold:      e.rules.RAM.LowUtilization.Threshold,
			Recommendation: e.rules.RAM.LowUtilization.Recommendation,
		}, true
	}
	return model.Alert{}, false
}

// evaluateStorage applies the storage rule chain: critical, then high,
// then low utilization.
func (e *Engine) evaluateStorage(s model.UsageSample) (model.Alert, bool) {
	pct := s.StorageUsedPct

	switch {
	case pct > e.rules.Storage.CriticalUsage.Threshold:
		return model.Alert{
			Type:           model.AlertLevelDanger,
			Category:       model.AlertCategoryStorage,
			User:           alertUser(s),
			Message:        fmt.Sprintf("Critical storage usage: %.1f%%", pct),
			Value:          pct,
			Threshold:      e.rules.Storage.CriticalUsage.Threshold,
			Recommendation: e.rules.Storage.CriticalUsage.Recommendation,
		}, true
	case pct > e.rules.Storage.HighUsage.Threshold:
		return model.Alert{
			Type:           model.AlertLevelWarning,
			Category:       model.AlertCategoryStorage,
			User:           alertUser(s),
			Message:        fmt.Sprintf("High storage usage: %.1f%%", pct),
			Value:          pct,
			Threshold:      e.rules.Storage.HighUsage.Threshold,
			Recommendation: e.rules.Storage.HighUsage.Recommendation,
		}, true
	case pct < e.rules.Storage.LowUtilization.Threshold:
		return model.Alert{
			Type:           model.AlertLevelInfo,
			Category:       model.AlertCategoryStorage,
			User:           alertUser(s),
			Message:        fmt.Sprintf("Low storage utilization: %.1f%%", pct),
			Value:          pct,
			Threshold:      e.rules.Storage.LowUtilization.Threshold,
			Recommendation: e.rules.Storage.LowUtilization.Recommendation,
		}, true
	}
	return model.Alert{}, false
}

// alertUser picks the display name for an alert, falling back to the
// identity key for devices that never reported a username.
func alertUser(s model.UsageSample) string {
	if s.Username != "" {
		return s.Username
	}
	return s.IdentityKey
}
