// Package model provides data models for the resource tracker.
package model

import "time"

// UsageSample holds the derived RAM/storage utilization for one identity.
// Samples are computed on demand from the aggregate store and never persisted.
type UsageSample struct {
	IdentityKey    string    `json:"user_id"`
	Username       string    `json:"username"`
	ComputerName   string    `json:"computer_name"`
	RAMTotalGB     float64   `json:"ram_total_gb"`     // 保留两位小数
	RAMUsedPct     float64   `json:"ram_used_pct"`     // 保留一位小数
	StorageTotalGB float64   `json:"storage_total_gb"` // 保留两位小数
	StorageUsedPct float64   `json:"storage_used_pct"` // 保留一位小数
	LastUpdated    time.Time `json:"last_updated,omitzero"`
}
