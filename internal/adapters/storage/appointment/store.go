package appointment

import (
	"context"
	"time"

	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
)

// Store persists Appointment state. Every read and delete is scoped to a clinic.
type Store interface {
	GetByID(ctx context.Context, clinicID, id string) (domain.Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]Row, error)
	Save(ctx context.Context, value domain.Appointment) error
	Delete(ctx context.Context, clinicID, id string) error
}

// ListFilter carries filtering parameters for List operations.
// Zero From/To leave that side of the date range open; both are inclusive days.
type ListFilter struct {
	ClinicID string
	From     time.Time
	To       time.Time
	DoctorID string
	Limit    int
}

// Row is an appointment joined with the names shown next to it.
type Row struct {
	domain.Appointment
	PatientName      string
	PatientEmail     string
	DoctorName       string
	DoctorSpeciality string
}
