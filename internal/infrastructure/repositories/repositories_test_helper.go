package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createSavedAddressTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE saved_addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		address TEXT NOT NULL,
		provider TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE(user_id, address, provider)
	);`)
	mustExec(t, db, `CREATE INDEX idx_saved_addresses_user_id ON saved_addresses(user_id);`)
	mustExec(t, db, `CREATE INDEX idx_saved_addresses_address ON saved_addresses(address);`)
}
