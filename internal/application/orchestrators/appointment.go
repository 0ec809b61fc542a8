package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	emailAdapter "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/email"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/clinic"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

// AppointmentStoreForUpsert defines the appointment store interface needed by the appointment orchestrators.
type AppointmentStoreForUpsert interface {
	GetByID(ctx context.Context, clinicID, id string) (appointment.Appointment, error)
	Save(ctx context.Context, a appointment.Appointment) error
	Delete(ctx context.Context, clinicID, id string) error
}

// PatientLookup loads a patient within a clinic.
type PatientLookup interface {
	GetByID(ctx context.Context, clinicID, id string) (patient.Patient, error)
}

// DoctorLookup loads a doctor within a clinic.
type DoctorLookup interface {
	GetByID(ctx context.Context, clinicID, id string) (doctor.Doctor, error)
}

// ClinicLookup loads a clinic.
type ClinicLookup interface {
	GetByID(ctx context.Context, id string) (clinic.Clinic, error)
}

// UpsertAppointmentInput carries input for UpsertAppointment. ID is empty on create.
type UpsertAppointmentInput struct {
	ClinicID                string
	ID                      string
	PatientID               string
	DoctorID                string
	AppointmentPriceInCents int64
	Date                    time.Time
	Time                    string
}

// AppointmentDeps holds dependencies for the appointment orchestrators.
// Sender may be nil, in which case no confirmation is sent.
type AppointmentDeps struct {
	AppointmentStore AppointmentStoreForUpsert
	PatientStore     PatientLookup
	DoctorStore      DoctorLookup
	ClinicStore      ClinicLookup
	Sender           emailAdapter.Sender
	GenerateID       func() string
	Now              func() time.Time
}

var (
	ErrPatientNotInClinic = errors.New("patient does not belong to this clinic")
	ErrDoctorNotInClinic  = errors.New("doctor does not belong to this clinic")
)

// ExecuteUpsertAppointment creates or updates an appointment of the clinic
// and emails a confirmation to the patient.
// PRE: ClinicID non-empty
// POST: Appointment saved; a failed confirmation is logged and does not fail the call
// INVARIANT: Patient and doctor belong to ClinicID
func ExecuteUpsertAppointment(ctx context.Context, input UpsertAppointmentInput, deps AppointmentDeps) (appointment.Appointment, error) {
	if input.ClinicID == "" {
		return appointment.Appointment{}, ErrNoClinic
	}
	now := deps.Now()

	a := appointment.Appointment{
		ID:                      input.ID,
		ClinicID:                input.ClinicID,
		PatientID:               input.PatientID,
		DoctorID:                input.DoctorID,
		Date:                    calendarDay(input.Date),
		Time:                    input.Time,
		AppointmentPriceInCents: input.AppointmentPriceInCents,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := a.Validate(); err != nil {
		return appointment.Appointment{}, err
	}

	if input.ID != "" {
		existing, err := deps.AppointmentStore.GetByID(ctx, input.ClinicID, input.ID)
		if err != nil {
			return appointment.Appointment{}, notFound("appointment", err)
		}
		a.CreatedAt = existing.CreatedAt
	} else {
		a.ID = deps.GenerateID()
	}

	p, err := deps.PatientStore.GetByID(ctx, input.ClinicID, input.PatientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appointment.Appointment{}, ErrPatientNotInClinic
		}
		return appointment.Appointment{}, err
	}
	d, err := deps.DoctorStore.GetByID(ctx, input.ClinicID, input.DoctorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appointment.Appointment{}, ErrDoctorNotInClinic
		}
		return appointment.Appointment{}, err
	}

	if err := deps.AppointmentStore.Save(ctx, a); err != nil {
		return appointment.Appointment{}, err
	}
	slog.Info("appointment_upserted", "clinic_id", a.ClinicID, "appointment_id", a.ID, "created", input.ID == "")

	sendConfirmation(ctx, deps, a, p, d)
	return a, nil
}

func sendConfirmation(ctx context.Context, deps AppointmentDeps, a appointment.Appointment, p patient.Patient, d doctor.Doctor) {
	if deps.Sender == nil || p.Email == "" {
		return
	}
	n := appointmentNotice{
		Heading:     "Your appointment has been scheduled.",
		PatientName: p.Name,
		DoctorName:  d.Name,
		Date:        a.Date,
		Time:        a.Time,
		PriceCents:  a.AppointmentPriceInCents,
	}
	if deps.ClinicStore != nil {
		if c, err := deps.ClinicStore.GetByID(ctx, a.ClinicID); err == nil {
			n.ClinicName = c.Name
		}
	}
	req, err := n.message(p.Email, SubjectConfirmation)
	if err == nil {
		_, err = deps.Sender.Send(ctx, req)
	}
	if err != nil {
		slog.Warn("email_send_failed", "kind", "confirmation", "appointment_id", a.ID, "error", err)
	}
}

// ExecuteDeleteAppointment removes an appointment of the clinic.
// POST: Returns ErrNotFound if the appointment is not in the clinic
func ExecuteDeleteAppointment(ctx context.Context, clinicID, id string, deps AppointmentDeps) error {
	if clinicID == "" {
		return ErrNoClinic
	}
	if err := deps.AppointmentStore.Delete(ctx, clinicID, id); err != nil {
		return notFound("appointment", err)
	}
	slog.Info("appointment_deleted", "clinic_id", clinicID, "appointment_id", id)
	return nil
}

// calendarDay drops the clock part of t, keeping its calendar date.
func calendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
