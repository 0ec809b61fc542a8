package clinic

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage"
	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/clinic"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ClinicStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Clinic by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Clinic, error) {
	var c domain.Clinic
	var createdAt string
	err := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM clinic WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Clinic{}, fmt.Errorf("clinic not found: %w", err)
	}
	if err != nil {
		return domain.Clinic{}, err
	}
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	return c, nil
}

// Save persists a Clinic to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, c domain.Clinic) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clinic (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET name=excluded.name",
		c.ID, c.Name, storage.FormatTime(c.CreatedAt),
	)
	return err
}
