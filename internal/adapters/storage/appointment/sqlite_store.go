package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage"
	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AppointmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Appointment of the given clinic.
// PRE: clinicID and id are non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found in that clinic
func (s *SQLiteStore) GetByID(ctx context.Context, clinicID, id string) (domain.Appointment, error) {
	var a domain.Appointment
	var date, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT id, clinic_id, patient_id, doctor_id, date, time,
		appointment_price_in_cents, created_at, updated_at
		FROM appointment WHERE clinic_id = ? AND id = ?`, clinicID, id).Scan(
		&a.ID, &a.ClinicID, &a.PatientID, &a.DoctorID, &date, &a.Time,
		&a.AppointmentPriceInCents, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Appointment{}, fmt.Errorf("appointment not found: %w", err)
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	a.Date, _ = storage.ParseTime(date)
	a.CreatedAt, _ = storage.ParseTime(createdAt)
	a.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return a, nil
}

// List returns appointments with patient and doctor names, ordered by date and time.
// PRE: filter.ClinicID is non-empty
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]Row, error) {
	var qb strings.Builder
	args := []any{filter.ClinicID}
	qb.WriteString(`SELECT a.id, a.clinic_id, a.patient_id, a.doctor_id, a.date, a.time,
		a.appointment_price_in_cents, a.created_at, a.updated_at,
		p.name, p.email, d.name, d.speciality
		FROM appointment a
		JOIN patient p ON p.id = a.patient_id
		JOIN doctor d ON d.id = a.doctor_id
		WHERE a.clinic_id = ?`)

	if !filter.From.IsZero() {
		qb.WriteString(" AND a.date >= ?")
		args = append(args, filter.From.Format(domain.DateLayout))
	}
	if !filter.To.IsZero() {
		qb.WriteString(" AND a.date <= ?")
		args = append(args, filter.To.Format(domain.DateLayout))
	}
	if filter.DoctorID != "" {
		qb.WriteString(" AND a.doctor_id = ?")
		args = append(args, filter.DoctorID)
	}
	qb.WriteString(" ORDER BY a.date, a.time")
	if filter.Limit > 0 {
		qb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var r Row
		var date, createdAt, updatedAt string
		err := rows.Scan(
			&r.ID, &r.ClinicID, &r.PatientID, &r.DoctorID, &date, &r.Time,
			&r.AppointmentPriceInCents, &createdAt, &updatedAt,
			&r.PatientName, &r.PatientEmail, &r.DoctorName, &r.DoctorSpeciality,
		)
		if err != nil {
			return nil, err
		}
		r.Date, _ = storage.ParseTime(date)
		r.CreatedAt, _ = storage.ParseTime(createdAt)
		r.UpdatedAt, _ = storage.ParseTime(updatedAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Save persists an Appointment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); an update never moves it to another clinic
func (s *SQLiteStore) Save(ctx context.Context, a domain.Appointment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO appointment
		(id, clinic_id, patient_id, doctor_id, date, time, appointment_price_in_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			patient_id=excluded.patient_id,
			doctor_id=excluded.doctor_id,
			date=excluded.date,
			time=excluded.time,
			appointment_price_in_cents=excluded.appointment_price_in_cents,
			updated_at=excluded.updated_at
		WHERE appointment.clinic_id = excluded.clinic_id`,
		a.ID, a.ClinicID, a.PatientID, a.DoctorID, a.DateString(), a.Time, a.AppointmentPriceInCents,
		storage.FormatTime(a.CreatedAt), storage.FormatTime(a.UpdatedAt),
	)
	return err
}

// Delete removes an Appointment of the given clinic.
// POST: Returns an error wrapping sql.ErrNoRows if nothing was deleted
func (s *SQLiteStore) Delete(ctx context.Context, clinicID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM appointment WHERE clinic_id = ? AND id = ?", clinicID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("appointment not found: %w", sql.ErrNoRows)
	}
	return nil
}
