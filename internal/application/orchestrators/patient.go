package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

// PatientStoreForUpsert defines the store interface needed by the patient orchestrators.
type PatientStoreForUpsert interface {
	GetByID(ctx context.Context, clinicID, id string) (patient.Patient, error)
	Save(ctx context.Context, p patient.Patient) error
	Delete(ctx context.Context, clinicID, id string) error
}

// UpsertPatientInput carries input for UpsertPatient. ID is empty on create.
type UpsertPatientInput struct {
	ClinicID    string
	ID          string
	Name        string
	Email       string
	PhoneNumber string
	Sex         string
}

// PatientDeps holds dependencies for the patient orchestrators.
type PatientDeps struct {
	PatientStore PatientStoreForUpsert
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteUpsertPatient creates or updates a patient of the clinic.
// PRE: ClinicID non-empty
// POST: Patient saved with a digits-only phone number
func ExecuteUpsertPatient(ctx context.Context, input UpsertPatientInput, deps PatientDeps) (patient.Patient, error) {
	if input.ClinicID == "" {
		return patient.Patient{}, ErrNoClinic
	}
	now := deps.Now()

	p := patient.Patient{
		ID:          input.ID,
		ClinicID:    input.ClinicID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		PhoneNumber: patient.NormalizePhone(input.PhoneNumber),
		Sex:         input.Sex,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.ID != "" {
		existing, err := deps.PatientStore.GetByID(ctx, input.ClinicID, input.ID)
		if err != nil {
			return patient.Patient{}, notFound("patient", err)
		}
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = deps.GenerateID()
	}

	if err := p.Validate(); err != nil {
		return patient.Patient{}, err
	}
	if err := deps.PatientStore.Save(ctx, p); err != nil {
		return patient.Patient{}, err
	}
	slog.Info("patient_upserted", "clinic_id", p.ClinicID, "patient_id", p.ID, "created", input.ID == "")
	return p, nil
}

// ExecuteDeletePatient removes a patient of the clinic together with its appointments.
func ExecuteDeletePatient(ctx context.Context, clinicID, id string, deps PatientDeps) error {
	if clinicID == "" {
		return ErrNoClinic
	}
	if err := deps.PatientStore.Delete(ctx, clinicID, id); err != nil {
		return notFound("patient", err)
	}
	slog.Info("patient_deleted", "clinic_id", clinicID, "patient_id", id)
	return nil
}
