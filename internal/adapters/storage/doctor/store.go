package doctor

import (
	"context"

	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
)

// Store persists Doctor state. Every read and delete is scoped to a clinic.
type Store interface {
	GetByID(ctx context.Context, clinicID, id string) (domain.Doctor, error)
	ListByClinic(ctx context.Context, clinicID string) ([]domain.Doctor, error)
	Save(ctx context.Context, value domain.Doctor) error
	Delete(ctx context.Context, clinicID, id string) error
	Count(ctx context.Context, clinicID string) (int, error)
}
