package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database at path and initializes the schema.
// PRE: path is a writable file path or ":memory:"
// POST: Returned DB has foreign keys on and all tables created
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serialises writers, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS clinic (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		plan TEXT NOT NULL DEFAULT '',
		clinic_id TEXT REFERENCES clinic(id) ON DELETE SET NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS doctor (
		id TEXT PRIMARY KEY,
		clinic_id TEXT NOT NULL REFERENCES clinic(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		speciality TEXT NOT NULL,
		appointment_price_in_cents INTEGER NOT NULL,
		available_from_week_day INTEGER NOT NULL DEFAULT 1,
		available_to_week_day INTEGER NOT NULL DEFAULT 5,
		available_from_time TEXT NOT NULL DEFAULT '08:00',
		available_to_time TEXT NOT NULL DEFAULT '18:00',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_doctor_clinic ON doctor(clinic_id);

	CREATE TABLE IF NOT EXISTS patient (
		id TEXT PRIMARY KEY,
		clinic_id TEXT NOT NULL REFERENCES clinic(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL,
		sex TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_patient_clinic ON patient(clinic_id);

	CREATE TABLE IF NOT EXISTS appointment (
		id TEXT PRIMARY KEY,
		clinic_id TEXT NOT NULL REFERENCES clinic(id) ON DELETE CASCADE,
		patient_id TEXT NOT NULL REFERENCES patient(id) ON DELETE CASCADE,
		doctor_id TEXT NOT NULL REFERENCES doctor(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		appointment_price_in_cents INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_appointment_clinic_date ON appointment(clinic_id, date);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// TimeLayout is how timestamps are stored.
const TimeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime accepts the formats timestamps have been stored in.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
