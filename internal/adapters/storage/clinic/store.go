package clinic

import (
	"context"

	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/clinic"
)

// Store persists Clinic state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Clinic, error)
	Save(ctx context.Context, value domain.Clinic) error
}
