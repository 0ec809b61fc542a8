package patient

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage"
	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

const selectColumns = "SELECT id, clinic_id, name, email, phone_number, sex, created_at, updated_at FROM patient"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PatientStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Patient of the given clinic.
// PRE: clinicID and id are non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found in that clinic
func (s *SQLiteStore) GetByID(ctx context.Context, clinicID, id string) (domain.Patient, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE clinic_id = ? AND id = ?", clinicID, id)
	p, err := scanPatient(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Patient{}, fmt.Errorf("patient not found: %w", err)
	}
	return p, err
}

// ListByClinic returns the clinic's patients ordered by name.
func (s *SQLiteStore) ListByClinic(ctx context.Context, clinicID string) ([]domain.Patient, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE clinic_id = ? ORDER BY name COLLATE NOCASE", clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// Save persists a Patient to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); clinic_id and created_at never change
func (s *SQLiteStore) Save(ctx context.Context, p domain.Patient) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO patient (id, clinic_id, name, email, phone_number, sex, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			email=excluded.email,
			phone_number=excluded.phone_number,
			sex=excluded.sex,
			updated_at=excluded.updated_at
		WHERE patient.clinic_id = excluded.clinic_id`,
		p.ID, p.ClinicID, p.Name, p.Email, p.PhoneNumber, p.Sex,
		storage.FormatTime(p.CreatedAt), storage.FormatTime(p.UpdatedAt),
	)
	return err
}

// Delete removes a Patient of the given clinic. Appointments cascade.
// POST: Returns an error wrapping sql.ErrNoRows if nothing was deleted
func (s *SQLiteStore) Delete(ctx context.Context, clinicID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM patient WHERE clinic_id = ? AND id = ?", clinicID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("patient not found: %w", sql.ErrNoRows)
	}
	return nil
}

// Count returns the number of patients of a clinic.
func (s *SQLiteStore) Count(ctx context.Context, clinicID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patient WHERE clinic_id = ?", clinicID).Scan(&count)
	return count, err
}

func scanPatient(scan func(dest ...any) error) (domain.Patient, error) {
	var p domain.Patient
	var createdAt, updatedAt string
	if err := scan(&p.ID, &p.ClinicID, &p.Name, &p.Email, &p.PhoneNumber, &p.Sex, &createdAt, &updatedAt); err != nil {
		return domain.Patient{}, err
	}
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	p.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return p, nil
}
