package projections

import (
	"context"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
	domainDoctor "github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	domainPatient "github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

// AppointmentStore interface for appointment queries.
type AppointmentStore interface {
	List(ctx context.Context, filter appointment.ListFilter) ([]appointment.Row, error)
}

// DoctorStore interface for doctor queries.
type DoctorStore interface {
	ListByClinic(ctx context.Context, clinicID string) ([]domainDoctor.Doctor, error)
	Count(ctx context.Context, clinicID string) (int, error)
}

// PatientStore interface for patient queries.
type PatientStore interface {
	ListByClinic(ctx context.Context, clinicID string) ([]domainPatient.Patient, error)
	Count(ctx context.Context, clinicID string) (int, error)
}
