package projections

import (
	"context"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
	domainDoctor "github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	domainPatient "github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

// mockAppointmentStore filters seeded rows by clinic and date range.
type mockAppointmentStore struct {
	rows    []appointment.Row
	filters []appointment.ListFilter
	err     error
}

// List returns the seeded rows that match filter.
// PRE: filter.ClinicID non-empty
// POST: Records the filter it was called with
func (m *mockAppointmentStore) List(_ context.Context, filter appointment.ListFilter) ([]appointment.Row, error) {
	m.filters = append(m.filters, filter)
	if m.err != nil {
		return nil, m.err
	}
	var out []appointment.Row
	for _, r := range m.rows {
		if r.ClinicID != filter.ClinicID {
			continue
		}
		if !filter.From.IsZero() && r.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && r.Date.After(filter.To) {
			continue
		}
		if filter.DoctorID != "" && r.DoctorID != filter.DoctorID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type mockDoctorStore struct {
	doctors []domainDoctor.Doctor
}

func (m *mockDoctorStore) ListByClinic(_ context.Context, clinicID string) ([]domainDoctor.Doctor, error) {
	var out []domainDoctor.Doctor
	for _, d := range m.doctors {
		if d.ClinicID == clinicID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDoctorStore) Count(ctx context.Context, clinicID string) (int, error) {
	ds, _ := m.ListByClinic(ctx, clinicID)
	return len(ds), nil
}

type mockPatientStore struct {
	patients []domainPatient.Patient
}

func (m *mockPatientStore) ListByClinic(_ context.Context, clinicID string) ([]domainPatient.Patient, error) {
	var out []domainPatient.Patient
	for _, p := range m.patients {
		if p.ClinicID == clinicID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPatientStore) Count(ctx context.Context, clinicID string) (int, error) {
	ps, _ := m.ListByClinic(ctx, clinicID)
	return len(ps), nil
}
