package report

import (
	"time"

	"resource-tracker/internal/analytics"
	"resource-tracker/internal/model"
	"resource-tracker/internal/store"
)

// BuildSnapshot assembles a point-in-time snapshot of the store for report
// generation. Entries whose record file cannot be read keep their summary
// and a nil record rather than failing the whole snapshot.
func BuildSnapshot(st *store.Store, agg *analytics.Aggregator, eng *analytics.Engine, version string) *model.Snapshot {
	summaries := st.GetAll()
	samples := agg.Samples(summaries)
	alerts := eng.Evaluate(samples)

	entries := make([]model.SnapshotEntry, 0, len(summaries))
	for _, key := range st.Keys() {
		rec, err := st.Record(key)
		if err != nil {
			rec = nil
		}
		entries = append(entries, model.SnapshotEntry{
			IdentityKey: key,
			Record:      rec,
			Summary:     summaries[key],
		})
	}

	return &model.Snapshot{
		GeneratedAt:  time.Now(),
		Version:      version,
		Entries:      entries,
		Samples:      samples,
		Alerts:       alerts,
		AlertSummary: model.NewAlertSummary(alerts),
	}
}
