package directory

import (
	"errors"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Store queries the external directory database. A Store with a nil db
// (directory disabled or unreachable) answers every query with empty
// results, matching how the dashboard should behave when the directory
// is offline.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// Open opens an existing directory database for querying without mutating
// its schema. Open failures are reported but yield a usable degraded Store.
func Open(path string, logger zerolog.Logger) *Store {
	log := logger.With().Str("component", "directory").Logger()

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("directory database unavailable, queries degrade to empty results")
		return &Store{logger: log}
	}

	return &Store{db: db, logger: log}
}

// Disabled returns a Store that answers every query with empty results.
func Disabled(logger zerolog.Logger) *Store {
	return &Store{logger: logger.With().Str("component", "directory").Logger()}
}

// Available reports whether the directory database could be opened.
func (s *Store) Available() bool {
	return s.db != nil
}

// ListUsers returns all users with their approved device count and most
// recent audit activity, ordered by name.
func (s *Store) ListUsers() []UserCard {
	if s.db == nil {
		return []UserCard{}
	}

	var users []UserCard
	err := s.db.
		Table("user AS u").
		Select(`u.id, u.name, u.email, u.role, u.created_at,
			COUNT(DISTINCT a.device_id) AS device_count,
			MAX(al.timestamp) AS last_activity`).
		Joins("LEFT JOIN assignment a ON u.id = a.user_id AND a.status = 'approved'").
		Joins("LEFT JOIN audit_log al ON u.id = al.user_id").
		Group("u.id, u.name, u.email, u.role, u.created_at").
		Order("u.name").
		Scan(&users).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return []UserCard{}
	}
	return users
}

// GetUser returns one user by ID, or nil when not found or the directory
// is unavailable.
func (s *Store) GetUser(id uint) *User {
	if s.db == nil {
		return nil
	}

	var user User
	err := s.db.First(&user, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().Err(err).Uint("user_id", id).Msg("failed to fetch user")
		}
		return nil
	}
	return &user
}

// UserDevices returns the devices assigned (approved or pending) to one
// user, most recently assigned first.
func (s *Store) UserDevices(userID uint) []UserDevice {
	if s.db == nil {
		return []UserDevice{}
	}

	var devices []UserDevice
	err := s.db.
		Table("device AS d").
		Select(`d.id, d.name, d.serial, d.category, d.status, d.condition,
			d.location, d.created_at,
			a.status AS assignment_status, a.assigned_at, a.purpose, a.requested_at`).
		Joins("JOIN assignment a ON d.id = a.device_id").
		Where("a.user_id = ? AND a.status IN ('approved', 'pending')", userID).
		Order("a.assigned_at DESC").
		Scan(&devices).Error
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("failed to fetch user devices")
		return []UserDevice{}
	}
	return devices
}

// DeviceByID returns one device by ID, or nil when not found.
func (s *Store) DeviceByID(id uint) *Device {
	if s.db == nil {
		return nil
	}

	var device Device
	err := s.db.First(&device, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().Err(err).Uint("device_id", id).Msg("failed to fetch device")
		}
		return nil
	}
	return &device
}

// DeviceBySerial returns one device by serial number, or nil when not found.
func (s *Store) DeviceBySerial(serial string) *Device {
	if s.db == nil {
		return nil
	}

	var device Device
	err := s.db.Where("serial = ?", serial).First(&device).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().Err(err).Str("serial", serial).Msg("failed to fetch device by serial")
		}
		return nil
	}
	return &device
}

// DevicesPerUser returns approved device counts per user, skipping users
// with no devices.
func (s *Store) DevicesPerUser() []CountBucket {
	if s.db == nil {
		return []CountBucket{}
	}

	var buckets []CountBucket
	err := s.db.
		Table("user AS u").
		Select("u.name AS label, COUNT(a.device_id) AS count").
		Joins("LEFT JOIN assignment a ON u.id = a.user_id AND a.status = 'approved'").
		Group("u.id, u.name").
		Having("count > 0").
		Scan(&buckets).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count devices per user")
		return []CountBucket{}
	}
	return buckets
}

// CategoryDistribution returns device counts per category.
func (s *Store) CategoryDistribution() []CountBucket {
	return s.distribution("category")
}

// StatusDistribution returns device counts per status.
func (s *Store) StatusDistribution() []CountBucket {
	return s.distribution("status")
}

func (s *Store) distribution(column string) []CountBucket {
	if s.db == nil {
		return []CountBucket{}
	}

	var buckets []CountBucket
	err := s.db.
		Table("device").
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Scan(&buckets).Error
	if err != nil {
		s.logger.Error().Err(err).Str("column", column).Msg("failed to compute distribution")
		return []CountBucket{}
	}
	return buckets
}
