package directory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedDirectory builds a throwaway directory database the way the device
// management system would have left it, then returns a Store opened on it.
func seedDirectory(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "directory.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Device{}, &Assignment{}, &AuditLog{}))

	now := time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC)
	earlier := now.Add(-24 * time.Hour)

	users := []User{
		{ID: 1, Name: "Alice", Email: "alice@example.com", Role: "admin"},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Role: "user"},
		{ID: 3, Name: "Carol", Email: "carol@example.com", Role: "user"},
	}
	devices := []Device{
		{ID: 1, Name: "Laptop-1", Serial: "SN-12345", Category: "laptop", Status: "assigned"},
		{ID: 2, Name: "Laptop-2", Serial: "SN-67890", Category: "laptop", Status: "available"},
		{ID: 3, Name: "Monitor-1", Serial: "SN-MON-1", Category: "monitor", Status: "assigned"},
		{ID: 4, Name: "NoSerial", Serial: "", Category: "misc", Status: "retired"},
	}
	assignments := []Assignment{
		{ID: 1, UserID: 1, DeviceID: 1, Status: "approved", AssignedAt: &earlier},
		{ID: 2, UserID: 1, DeviceID: 3, Status: "approved", AssignedAt: &now},
		{ID: 3, UserID: 2, DeviceID: 2, Status: "pending", RequestedAt: &now},
		{ID: 4, UserID: 2, DeviceID: 4, Status: "rejected"},
	}
	audits := []AuditLog{
		{ID: 1, UserID: 1, Action: "login", Timestamp: &earlier},
		{ID: 2, UserID: 1, Action: "request_device", Timestamp: &now},
	}

	require.NoError(t, db.Create(&users).Error)
	require.NoError(t, db.Create(&devices).Error)
	require.NoError(t, db.Create(&assignments).Error)
	require.NoError(t, db.Create(&audits).Error)

	store := Open(path, zerolog.Nop())
	require.True(t, store.Available())
	return store
}

func TestListUsers(t *testing.T) {
	store := seedDirectory(t)

	users := store.ListUsers()
	require.Len(t, users, 3)

	// Ordered by name
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
	assert.Equal(t, "Carol", users[2].Name)

	// Only approved assignments count
	assert.Equal(t, 2, users[0].DeviceCount)
	assert.Equal(t, 0, users[1].DeviceCount)
	assert.Equal(t, 0, users[2].DeviceCount)

	// Latest audit activity for Alice, none for the others
	require.NotNil(t, users[0].LastActivity)
	assert.Nil(t, users[1].LastActivity)
}

func TestGetUser(t *testing.T) {
	store := seedDirectory(t)

	user := store.GetUser(1)
	require.NotNil(t, user)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "admin", user.Role)

	assert.Nil(t, store.GetUser(999))
}

func TestUserDevices(t *testing.T) {
	store := seedDirectory(t)

	// Alice: two approved assignments, most recently assigned first
	devices := store.UserDevices(1)
	require.Len(t, devices, 2)
	assert.Equal(t, "Monitor-1", devices[0].Name)
	assert.Equal(t, "Laptop-1", devices[1].Name)
	assert.Equal(t, "approved", devices[0].AssignmentStatus)

	// Bob: pending counts, rejected does not
	devices = store.UserDevices(2)
	require.Len(t, devices, 1)
	assert.Equal(t, "Laptop-2", devices[0].Name)
	assert.Equal(t, "pending", devices[0].AssignmentStatus)
}

func TestDeviceByID(t *testing.T) {
	store := seedDirectory(t)

	device := store.DeviceByID(1)
	require.NotNil(t, device)
	assert.Equal(t, "SN-12345", device.Serial)

	assert.Nil(t, store.DeviceByID(999))
}

func TestDeviceBySerial(t *testing.T) {
	store := seedDirectory(t)

	device := store.DeviceBySerial("SN-67890")
	require.NotNil(t, device)
	assert.Equal(t, "Laptop-2", device.Name)

	assert.Nil(t, store.DeviceBySerial("SN-NOPE"))
}

func TestDevicesPerUser(t *testing.T) {
	store := seedDirectory(t)

	buckets := store.DevicesPerUser()
	require.Len(t, buckets, 1)
	assert.Equal(t, "Alice", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Count)
}

func TestCategoryDistribution(t *testing.T) {
	store := seedDirectory(t)

	buckets := store.CategoryDistribution()
	counts := make(map[string]int, len(buckets))
	for _, b := range buckets {
		counts[b.Label] = b.Count
	}
	assert.Equal(t, 2, counts["laptop"])
	assert.Equal(t, 1, counts["monitor"])
	assert.Equal(t, 1, counts["misc"])
}

func TestStatusDistribution(t *testing.T) {
	store := seedDirectory(t)

	buckets := store.StatusDistribution()
	counts := make(map[string]int, len(buckets))
	for _, b := range buckets {
		counts[b.Label] = b.Count
	}
	assert.Equal(t, 2, counts["assigned"])
	assert.Equal(t, 1, counts["available"])
}

func TestDisabledStoreReturnsEmptyResults(t *testing.T) {
	store := Disabled(zerolog.Nop())

	assert.False(t, store.Available())
	assert.Empty(t, store.ListUsers())
	assert.Nil(t, store.GetUser(1))
	assert.Empty(t, store.UserDevices(1))
	assert.Nil(t, store.DeviceByID(1))
	assert.Nil(t, store.DeviceBySerial("SN-12345"))
	assert.Empty(t, store.DevicesPerUser())
	assert.Empty(t, store.CategoryDistribution())
	assert.Empty(t, store.StatusDistribution())
}

func TestOpen_UnreachableDatabaseDegrades(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "missing", "nested", "directory.db"), zerolog.Nop())

	// Queries degrade to empty results instead of failing
	assert.Empty(t, store.ListUsers())
	assert.Nil(t, store.GetUser(1))
}
