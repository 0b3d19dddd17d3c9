package model

import "time"

// SnapshotEntry pairs an identity key with its stored record and summary.
type SnapshotEntry struct {
	IdentityKey string        `json:"identity_key"`
	Record      *ParsedRecord `json:"record,omitempty"`
	Summary     *Summary      `json:"summary"`
}

// Snapshot is a point-in-time view of the whole store, with derived usage
// and alerts, assembled for report generation.
type Snapshot struct {
	GeneratedAt  time.Time       `json:"generated_at"` // 报告生成时间
	Version      string          `json:"version,omitempty"`
	Entries      []SnapshotEntry `json:"entries"`
	Samples      []UsageSample   `json:"samples"`
	Alerts       []Alert         `json:"alerts"`
	AlertSummary *AlertSummary   `json:"alert_summary"`
}
