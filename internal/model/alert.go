// Package model provides data models for the resource tracker.
package model

// AlertLevel represents the severity level of an alert.
type AlertLevel string

const (
	AlertLevelDanger  AlertLevel = "danger"  // 严重
	AlertLevelWarning AlertLevel = "warning" // 警告
	AlertLevelInfo    AlertLevel = "info"    // 提示
)

// AlertCategory identifies the resource a threshold alert is about.
type AlertCategory string

const (
	AlertCategoryRAM     AlertCategory = "RAM"
	AlertCategoryStorage AlertCategory = "Storage"
)

// Alert represents one threshold violation derived from a usage sample.
// Alerts are computed on demand and never persisted.
type Alert struct {
	Type           AlertLevel    `json:"type"`
	Category       AlertCategory `json:"category"`
	User           string        `json:"user"`
	Message        string        `json:"message"`
	Value          float64       `json:"value"`
	Threshold      float64       `json:"threshold"`
	Recommendation string        `json:"recommendation"`
}

// IsDanger returns true if this alert is at danger level.
func (a *Alert) IsDanger() bool {
	return a.Type == AlertLevelDanger
}

// AlertSummary provides aggregated alert statistics.
type AlertSummary struct {
	TotalAlerts  int `json:"total_alerts"`  // 告警总数
	DangerCount  int `json:"danger_count"`  // 严重级别数量
	WarningCount int `json:"warning_count"` // 警告级别数量
	InfoCount    int `json:"info_count"`    // 提示级别数量
}

// NewAlertSummary creates a new AlertSummary from a list of alerts.
func NewAlertSummary(alerts []Alert) *AlertSummary {
	summary := &AlertSummary{}
	for _, alert := range alerts {
		summary.TotalAlerts++
		switch alert.Type {
		case AlertLevelDanger:
			summary.DangerCount++
		case AlertLevelWarning:
			summary.WarningCount++
		case AlertLevelInfo:
			summary.InfoCount++
		}
	}
	return summary
}
