package doctor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage"
	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
)

const selectColumns = `SELECT id, clinic_id, name, speciality, appointment_price_in_cents,
	available_from_week_day, available_to_week_day, available_from_time, available_to_time,
	notes, created_at, updated_at FROM doctor`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new DoctorStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Doctor of the given clinic.
// PRE: clinicID and id are non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found in that clinic
func (s *SQLiteStore) GetByID(ctx context.Context, clinicID, id string) (domain.Doctor, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE clinic_id = ? AND id = ?", clinicID, id)
	d, err := scanDoctor(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Doctor{}, fmt.Errorf("doctor not found: %w", err)
	}
	return d, err
}

// ListByClinic returns the clinic's doctors ordered by name.
func (s *SQLiteStore) ListByClinic(ctx context.Context, clinicID string) ([]domain.Doctor, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE clinic_id = ? ORDER BY name COLLATE NOCASE", clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// Save persists a Doctor to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); clinic_id and created_at never change
func (s *SQLiteStore) Save(ctx context.Context, d domain.Doctor) error {
	fields := []string{
		"id", "clinic_id", "name", "speciality", "appointment_price_in_cents",
		"available_from_week_day", "available_to_week_day", "available_from_time", "available_to_time",
		"notes", "created_at", "updated_at",
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	updates := []string{
		"name=excluded.name",
		"speciality=excluded.speciality",
		"appointment_price_in_cents=excluded.appointment_price_in_cents",
		"available_from_week_day=excluded.available_from_week_day",
		"available_to_week_day=excluded.available_to_week_day",
		"available_from_time=excluded.available_from_time",
		"available_to_time=excluded.available_to_time",
		"notes=excluded.notes",
		"updated_at=excluded.updated_at",
	}
	query := fmt.Sprintf(
		"INSERT INTO doctor (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s WHERE doctor.clinic_id = excluded.clinic_id",
		strings.Join(fields, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)
	_, err := s.db.ExecContext(ctx, query,
		d.ID,
		d.ClinicID,
		d.Name,
		d.Speciality,
		d.AppointmentPriceInCents,
		d.AvailableFromWeekDay,
		d.AvailableToWeekDay,
		d.AvailableFromTime,
		d.AvailableToTime,
		d.Notes,
		storage.FormatTime(d.CreatedAt),
		storage.FormatTime(d.UpdatedAt),
	)
	return err
}

// Delete removes a Doctor of the given clinic. Appointments cascade.
// POST: Returns an error wrapping sql.ErrNoRows if nothing was deleted
func (s *SQLiteStore) Delete(ctx context.Context, clinicID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM doctor WHERE clinic_id = ? AND id = ?", clinicID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("doctor not found: %w", sql.ErrNoRows)
	}
	return nil
}

// Count returns the number of doctors of a clinic.
func (s *SQLiteStore) Count(ctx context.Context, clinicID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM doctor WHERE clinic_id = ?", clinicID).Scan(&count)
	return count, err
}

// scanDoctor extracts a Doctor from a row scanner function.
func scanDoctor(scan func(dest ...any) error) (domain.Doctor, error) {
	var d domain.Doctor
	var createdAt, updatedAt string
	err := scan(
		&d.ID,
		&d.ClinicID,
		&d.Name,
		&d.Speciality,
		&d.AppointmentPriceInCents,
		&d.AvailableFromWeekDay,
		&d.AvailableToWeekDay,
		&d.AvailableFromTime,
		&d.AvailableToTime,
		&d.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Doctor{}, err
	}
	d.CreatedAt, _ = storage.ParseTime(createdAt)
	d.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return d, nil
}
