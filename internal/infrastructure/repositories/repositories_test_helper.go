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
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
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
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'PARTICIPANT',
		bank_name TEXT,
		bank_account_number TEXT,
		bank_account_name TEXT,
		is_promoted BOOLEAN NOT NULL DEFAULT 0,
		current_stage TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createContestTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE contests (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		entry_fee_kobo INTEGER NOT NULL DEFAULT 0,
		first_prize_kobo INTEGER NOT NULL DEFAULT 0,
		second_prize_kobo INTEGER NOT NULL DEFAULT 0,
		third_prize_kobo INTEGER NOT NULL DEFAULT 0,
		stage TEXT NOT NULL DEFAULT 'submission',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		category TEXT,
		max_contestants INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createEntryTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		contest_id TEXT NOT NULL,
		fee_kobo INTEGER NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'unpaid',
		payment_reference TEXT UNIQUE,
		is_free BOOLEAN NOT NULL DEFAULT 0,
		winner_position INTEGER,
		is_promoted_forward BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(user_id, contest_id)
	);`)
	mustExec(t, db, `CREATE TABLE submissions (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		contest_id TEXT NOT NULL,
		blob_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
