package patient_test

import (
	"testing"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

// TestPatient_Validate tests validation of Patient.
func TestPatient_Validate(t *testing.T) {
	base := patient.Patient{
		ID:          "p1",
		ClinicID:    "c1",
		Name:        "Maria Silva",
		Email:       "maria@example.com",
		PhoneNumber: "11999999999",
		Sex:         patient.SexFemale,
	}

	tests := []struct {
		name    string
		mutate  func(p *patient.Patient)
		wantErr error
	}{
		{"valid", func(p *patient.Patient) {}, nil},
		{"email optional", func(p *patient.Patient) { p.Email = "" }, nil},
		{"ten digit phone", func(p *patient.Patient) { p.PhoneNumber = "1133334444" }, nil},
		{"missing clinic", func(p *patient.Patient) { p.ClinicID = "" }, patient.ErrEmptyClinicID},
		{"missing name", func(p *patient.Patient) { p.Name = "" }, patient.ErrEmptyName},
		{"bad email", func(p *patient.Patient) { p.Email = "maria" }, patient.ErrInvalidEmail},
		{"missing phone", func(p *patient.Patient) { p.PhoneNumber = "" }, patient.ErrEmptyPhone},
		{"short phone", func(p *patient.Patient) { p.PhoneNumber = "123" }, patient.ErrInvalidPhone},
		{"formatted phone", func(p *patient.Patient) { p.PhoneNumber = "(11)9999-9999" }, patient.ErrInvalidPhone},
		{"bad sex", func(p *patient.Patient) { p.Sex = "other" }, patient.ErrInvalidSex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if err := p.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := patient.NormalizePhone("(11) 99999-9999"); got != "11999999999" {
		t.Errorf("NormalizePhone = %q", got)
	}
}
