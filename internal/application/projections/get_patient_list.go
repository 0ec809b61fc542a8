package projections

import (
	"context"

	domainPatient "github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

// PatientListItem is a patient with a formatted phone number.
type PatientListItem struct {
	domainPatient.Patient
	PhoneLabel string
}

// GetPatientListDeps holds dependencies for GetPatientList.
type GetPatientListDeps struct {
	PatientStore PatientStore
}

// QueryGetPatientList returns the clinic's patients.
func QueryGetPatientList(ctx context.Context, clinicID string, deps GetPatientListDeps) ([]PatientListItem, error) {
	patients, err := deps.PatientStore.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	items := make([]PatientListItem, 0, len(patients))
	for _, p := range patients {
		items = append(items, PatientListItem{Patient: p, PhoneLabel: FormatPhone(p.PhoneNumber)})
	}
	return items, nil
}

// FormatPhone renders 10 or 11 digits as "(11) 9999-9999" or "(11) 99999-9999".
// Other inputs are returned unchanged.
func FormatPhone(digits string) string {
	switch len(digits) {
	case 10:
		return "(" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
	case 11:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	default:
		return digits
	}
}
