package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-tracker/internal/model"
)

func usageSample(key string, ramPct, storagePct float64) model.UsageSample {
	return model.UsageSample{
		IdentityKey:    key,
		Username:       key,
		RAMUsedPct:     ramPct,
		StorageUsedPct: storagePct,
	}
}

func TestEvaluate_HighRAMUsage(t *testing.T) {
	engine := NewEngine(nil)

	alerts := engine.Evaluate([]model.UsageSample{usageSample("user001", 99.9, 50)})

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, model.AlertLevelDanger, a.Type)
	assert.Equal(t, model.AlertCategoryRAM, a.Category)
	assert.Equal(t, "user001", a.User)
	assert.Equal(t, "High RAM usage: 99.9%", a.Message)
	assert.Equal(t, 99.9, a.Value)
	assert.Equal(t, 85.0, a.Threshold)
	assert.NotEmpty(t, a.Recommendation)
}

func TestEvaluate_OneRAMAlertPerSample(t *testing.T) {
	engine := NewEngine(nil)

	// 90% is above the high-usage threshold; only the danger branch fires.
	alerts := engine.Evaluate([]model.UsageSample{usageSample("user001", 90, 50)})

	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertLevelDanger, alerts[0].Type)
	assert.Equal(t, model.AlertCategoryRAM, alerts[0].Category)
}

func TestEvaluate_RuleChains(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		name       string
		ramPct     float64
		storagePct float64
		wantLevel  model.AlertLevel
		wantCat    model.AlertCategory
		wantMsg    string
	}{
		{"ram high", 86, 50, model.AlertLevelDanger, model.AlertCategoryRAM, "High RAM usage: 86.0%"},
		{"ram low", 10, 50, model.AlertLevelWarning, model.AlertCategoryRAM, "Low RAM utilization: 10.0%"},
		{"storage critical", 50, 95, model.AlertLevelDanger, model.AlertCategoryStorage, "Critical storage usage: 95.0%"},
		{"storage high", 50, 80, model.AlertLevelWarning, model.AlertCategoryStorage, "High storage usage: 80.0%"},
		{"storage low", 50, 10, model.AlertLevelInfo, model.AlertCategoryStorage, "Low storage utilization: 10.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := engine.Evaluate([]model.UsageSample{usageSample("u", tt.ramPct, tt.storagePct)})
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.wantLevel, alerts[0].Type)
			assert.Equal(t, tt.wantCat, alerts[0].Category)
			assert.Equal(t, tt.wantMsg, alerts[0].Message)
		})
	}
}

func TestEvaluate_QuietSampleProducesNothing(t *testing.T) {
	engine := NewEngine(nil)

	alerts := engine.Evaluate([]model.UsageSample{usageSample("u", 50, 50)})
	assert.Empty(t, alerts)
}

func TestEvaluate_ZeroUsageFiresLowUtilization(t *testing.T) {
	engine := NewEngine(nil)

	// A device that never reported totals sits at 0% and is flagged as idle.
	alerts := engine.Evaluate([]model.UsageSample{usageSample("u", 0, 0)})

	require.Len(t, alerts, 2)
	assert.Equal(t, model.AlertCategoryRAM, alerts[0].Category)
	assert.Equal(t, model.AlertLevelWarning, alerts[0].Type)
	assert.Equal(t, model.AlertCategoryStorage, alerts[1].Category)
	assert.Equal(t, model.AlertLevelInfo, alerts[1].Type)
}

func TestEvaluate_RAMBeforeStoragePerSample(t *testing.T) {
	engine := NewEngine(nil)

	alerts := engine.Evaluate([]model.UsageSample{
		usageSample("a", 90, 95),
		usageSample("b", 10, 10),
	})

	require.Len(t, alerts, 4)
	assert.Equal(t, "a", alerts[0].User)
	assert.Equal(t, model.AlertCategoryRAM, alerts[0].Category)
	assert.Equal(t, "a", alerts[1].User)
	assert.Equal(t, model.AlertCategoryStorage, alerts[1].Category)
	assert.Equal(t, "b", alerts[2].User)
	assert.Equal(t, model.AlertCategoryRAM, alerts[2].Category)
	assert.Equal(t, "b", alerts[3].User)
	assert.Equal(t, model.AlertCategoryStorage, alerts[3].Category)
}

func TestEvaluate_CustomRules(t *testing.T) {
	rules := model.DefaultAlertRules()
	rules.RAM.HighUsage.Threshold = 50

	engine := NewEngine(rules)

	alerts := engine.Evaluate([]model.UsageSample{usageSample("u", 60, 50)})
	require.Len(t, alerts, 1)
	assert.Equal(t, "High RAM usage: 60.0%", alerts[0].Message)
	assert.Equal(t, 50.0, alerts[0].Threshold)
}

func TestEvaluate_FallsBackToIdentityKey(t *testing.T) {
	engine := NewEngine(nil)

	alerts := engine.Evaluate([]model.UsageSample{{IdentityKey: "serial_SN-1", RAMUsedPct: 90, StorageUsedPct: 50}})
	require.Len(t, alerts, 1)
	assert.Equal(t, "serial_SN-1", alerts[0].User)
}
