package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/subscription"
)

// DoctorStoreForUpsert defines the store interface needed by the doctor orchestrators.
type DoctorStoreForUpsert interface {
	GetByID(ctx context.Context, clinicID, id string) (doctor.Doctor, error)
	Save(ctx context.Context, d doctor.Doctor) error
	Delete(ctx context.Context, clinicID, id string) error
	Count(ctx context.Context, clinicID string) (int, error)
}

// UpsertDoctorInput carries input for UpsertDoctor. ID is empty on create.
// Plan is the caller's subscription plan and bounds how many doctors may exist.
type UpsertDoctorInput struct {
	ClinicID                string
	Plan                    string
	ID                      string
	Name                    string
	Speciality              string
	AppointmentPriceInCents int64
	AvailableFromWeekDay    int
	AvailableToWeekDay      int
	AvailableFromTime       string
	AvailableToTime         string
	Notes                   string
}

// DoctorDeps holds dependencies for the doctor orchestrators.
type DoctorDeps struct {
	DoctorStore DoctorStoreForUpsert
	GenerateID  func() string
	Now         func() time.Time
}

var ErrDoctorLimitReached = errors.New("your plan does not allow more doctors")

// ExecuteUpsertDoctor creates or updates a doctor of the clinic.
// PRE: ClinicID non-empty
// POST: Doctor saved; an update keeps CreatedAt
// INVARIANT: An update never moves a doctor to another clinic
func ExecuteUpsertDoctor(ctx context.Context, input UpsertDoctorInput, deps DoctorDeps) (doctor.Doctor, error) {
	if input.ClinicID == "" {
		return doctor.Doctor{}, ErrNoClinic
	}
	now := deps.Now()

	d := doctor.Doctor{
		ID:                      input.ID,
		ClinicID:                input.ClinicID,
		Name:                    strings.TrimSpace(input.Name),
		Speciality:              strings.TrimSpace(input.Speciality),
		AppointmentPriceInCents: input.AppointmentPriceInCents,
		AvailableFromWeekDay:    input.AvailableFromWeekDay,
		AvailableToWeekDay:      input.AvailableToWeekDay,
		AvailableFromTime:       input.AvailableFromTime,
		AvailableToTime:         input.AvailableToTime,
		Notes:                   strings.TrimSpace(input.Notes),
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if input.ID != "" {
		existing, err := deps.DoctorStore.GetByID(ctx, input.ClinicID, input.ID)
		if err != nil {
			return doctor.Doctor{}, notFound("doctor", err)
		}
		d.CreatedAt = existing.CreatedAt
	} else {
		d.ID = deps.GenerateID()
	}

	if err := d.Validate(); err != nil {
		return doctor.Doctor{}, err
	}

	if input.ID == "" && input.Plan != "" {
		plan, err := subscription.Lookup(input.Plan)
		if err != nil {
			return doctor.Doctor{}, err
		}
		n, err := deps.DoctorStore.Count(ctx, input.ClinicID)
		if err != nil {
			return doctor.Doctor{}, err
		}
		if !plan.AllowsDoctors(n + 1) {
			return doctor.Doctor{}, ErrDoctorLimitReached
		}
	}

	if err := deps.DoctorStore.Save(ctx, d); err != nil {
		return doctor.Doctor{}, err
	}
	slog.Info("doctor_upserted", "clinic_id", d.ClinicID, "doctor_id", d.ID, "created", input.ID == "")
	return d, nil
}

// ExecuteDeleteDoctor removes a doctor of the clinic together with its appointments.
// POST: Returns ErrNotFound if the doctor is not in the clinic
func ExecuteDeleteDoctor(ctx context.Context, clinicID, id string, deps DoctorDeps) error {
	if clinicID == "" {
		return ErrNoClinic
	}
	if err := deps.DoctorStore.Delete(ctx, clinicID, id); err != nil {
		return notFound("doctor", err)
	}
	slog.Info("doctor_deleted", "clinic_id", clinicID, "doctor_id", id)
	return nil
}
