package patient

import (
	"context"

	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

// Store persists Patient state. Every read and delete is scoped to a clinic.
type Store interface {
	GetByID(ctx context.Context, clinicID, id string) (domain.Patient, error)
	ListByClinic(ctx context.Context, clinicID string) ([]domain.Patient, error)
	Save(ctx context.Context, value domain.Patient) error
	Delete(ctx context.Context, clinicID, id string) error
	Count(ctx context.Context, clinicID string) (int, error)
}
