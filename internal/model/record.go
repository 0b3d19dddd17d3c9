// Package model provides data models for the resource tracker.
package model

import "time"

// ParsedRecord is the structured form of one raw telemetry payload.
// Every field except IdentityKey is optional: the parser fills what it can
// and leaves the rest at zero values. Numeric fields that fail extraction
// keep their original text via FlexFloat/FlexInt.
type ParsedRecord struct {
	Timestamp    string `json:"timestamp,omitempty"`     // 报告头时间戳
	ComputerName string `json:"computer_name,omitempty"` // 报告头主机名
	Username     string `json:"username,omitempty"`

	GPSLocation string   `json:"gps_location,omitempty"` // 原始 GPS 文本
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Serial       string `json:"serial,omitempty"`

	CPUName       string  `json:"cpu_name,omitempty"`
	CPUCores      FlexInt `json:"cpu_cores,omitzero"`
	MaxClockSpeed string  `json:"max_clock_speed,omitempty"`

	TotalRAMGB         FlexFloat `json:"total_ram_gb,omitzero"`
	AvailableRAMMB     FlexFloat `json:"available_ram_mb,omitzero"`
	TotalStorageGB     FlexFloat `json:"total_storage_gb,omitzero"`
	AvailableStorageGB FlexFloat `json:"available_storage_gb,omitzero"`

	ClientIP   string    `json:"client_ip,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitzero"`

	IdentityKey string `json:"identity_key,omitempty"`
}

// HasHardwareSignal reports whether the record carries any of the fields
// the identity resolver can key on.
func (r *ParsedRecord) HasHardwareSignal() bool {
	return r.Username != "" || r.Serial != "" || r.ComputerName != ""
}
