// Package model provides data models for the resource tracker.
package model

import "time"

// LocationSummary groups the geographic fields of a summary.
type LocationSummary struct {
	GPS       string   `json:"gps,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HardwareSummary groups the chassis identification fields.
type HardwareSummary struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Serial       string `json:"serial,omitempty"`
}

// CPUSummary groups the processor fields.
type CPUSummary struct {
	Name          string  `json:"name,omitempty"`
	Cores         FlexInt `json:"cores,omitzero"`
	MaxClockSpeed string  `json:"max_clock_speed,omitempty"`
}

// MemorySummary groups the RAM figures.
type MemorySummary struct {
	TotalRAMGB     FlexFloat `json:"total_ram_gb,omitzero"`
	AvailableRAMMB FlexFloat `json:"available_ram_mb,omitzero"`
}

// StorageSummary groups the disk figures.
type StorageSummary struct {
	TotalGB     FlexFloat `json:"total_gb,omitzero"`
	AvailableGB FlexFloat `json:"available_gb,omitzero"`
}

// Summary is the nested per-identity document kept in the aggregate store.
// It is the dashboard-facing shape of a ParsedRecord.
type Summary struct {
	LastUpdated  time.Time       `json:"last_updated,omitzero"`
	Timestamp    string          `json:"timestamp,omitempty"`
	ComputerName string          `json:"computer_name,omitempty"`
	Username     string          `json:"username,omitempty"`
	Location     LocationSummary `json:"location"`
	Hardware     HardwareSummary `json:"hardware"`
	CPU          CPUSummary      `json:"cpu"`
	Memory       MemorySummary   `json:"memory"`
	Storage      StorageSummary  `json:"storage"`
	ClientIP     string          `json:"client_ip,omitempty"`
}

// NewSummary builds a Summary from a parsed record.
func NewSummary(rec *ParsedRecord) *Summary {
	if rec == nil {
		return &Summary{}
	}
	return &Summary{
		LastUpdated:  rec.ReceivedAt,
		Timestamp:    rec.Timestamp,
		ComputerName: rec.ComputerName,
		Username:     rec.Username,
		Location: LocationSummary{
			GPS:       rec.GPSLocation,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		},
		Hardware: HardwareSummary{
			Manufacturer: rec.Manufacturer,
			Model:        rec.Model,
			Serial:       rec.Serial,
		},
		CPU: CPUSummary{
			Name:          rec.CPUName,
			Cores:         rec.CPUCores,
			MaxClockSpeed: rec.MaxClockSpeed,
		},
		Memory: MemorySummary{
			TotalRAMGB:     rec.TotalRAMGB,
			AvailableRAMMB: rec.AvailableRAMMB,
		},
		Storage: StorageSummary{
			TotalGB:     rec.TotalStorageGB,
			AvailableGB: rec.AvailableStorageGB,
		},
		ClientIP: rec.ClientIP,
	}
}
