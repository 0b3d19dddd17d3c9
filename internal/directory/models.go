// Package directory reads the external device-management database. It is
// strictly read-only: the tracker never mutates the directory schema and
// degrades to empty results when the database is unavailable.
package directory

import "time"

// User is a row in the directory's user table.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:255" json:"name"`
	Email     string     `gorm:"size:255" json:"email"`
	Role      string     `gorm:"size:64" json:"role"`
	CreatedAt *time.Time `json:"created_at"`
}

// TableName keeps the directory's singular table naming.
func (User) TableName() string { return "user" }

// Device is a row in the directory's device table.
type Device struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:255" json:"name"`
	Serial    string     `gorm:"index;size:255" json:"serial"`
	Category  string     `gorm:"size:64" json:"category"`
	Status    string     `gorm:"size:64" json:"status"`
	Condition string     `gorm:"size:64" json:"condition"`
	Location  string     `gorm:"size:255" json:"location"`
	CreatedAt *time.Time `json:"created_at"`
}

// TableName keeps the directory's singular table naming.
func (Device) TableName() string { return "device" }

// Assignment links a device to a user. Status is one of pending, approved,
// rejected, returned.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index" json:"user_id"`
	DeviceID    uint       `gorm:"index" json:"device_id"`
	Status      string     `gorm:"index;size:32" json:"status"`
	Purpose     string     `gorm:"type:text" json:"purpose"`
	RequestedAt *time.Time `json:"requested_at"`
	AssignedAt  *time.Time `json:"assigned_at"`
}

// TableName keeps the directory's singular table naming.
func (Assignment) TableName() string { return "assignment" }

// AuditLog records user activity in the directory.
type AuditLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index" json:"user_id"`
	Action    string     `gorm:"size:255" json:"action"`
	Timestamp *time.Time `gorm:"index" json:"timestamp"`
}

// TableName keeps the directory's singular table naming.
func (AuditLog) TableName() string { return "audit_log" }

// UserCard is a user joined with activity stats for dashboard cards.
type UserCard struct {
	User
	DeviceCount  int        `json:"device_count"`
	LastActivity *time.Time `json:"last_activity"`
}

// UserDevice is a device joined with its assignment for one user.
type UserDevice struct {
	Device
	AssignmentStatus string     `json:"assignment_status"`
	Purpose          string     `json:"purpose"`
	RequestedAt      *time.Time `json:"requested_at"`
	AssignedAt       *time.Time `json:"assigned_at"`
}

// CountBucket is a generic label/count pair for distribution charts.
type CountBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
