package doctor_test

import (
	"testing"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
)

func validDoctor() doctor.Doctor {
	return doctor.Doctor{
		ID:                      "d1",
		ClinicID:                "c1",
		Name:                    "Dr. Paulo Lima",
		Speciality:              "Cardiologia",
		AppointmentPriceInCents: 15000,
		AvailableFromWeekDay:    1,
		AvailableToWeekDay:      5,
		AvailableFromTime:       "08:00",
		AvailableToTime:         "18:00",
	}
}

// TestDoctor_Validate tests validation of Doctor.
func TestDoctor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *doctor.Doctor)
		wantErr error
	}{
		{"valid", func(d *doctor.Doctor) {}, nil},
		{"missing clinic", func(d *doctor.Doctor) { d.ClinicID = "" }, doctor.ErrEmptyClinicID},
		{"missing name", func(d *doctor.Doctor) { d.Name = " " }, doctor.ErrEmptyName},
		{"missing speciality", func(d *doctor.Doctor) { d.Speciality = "" }, doctor.ErrEmptySpeciality},
		{"price below one real", func(d *doctor.Doctor) { d.AppointmentPriceInCents = 99 }, doctor.ErrInvalidPrice},
		{"week day out of range", func(d *doctor.Doctor) { d.AvailableToWeekDay = 7 }, doctor.ErrInvalidWeekDay},
		{"bad time", func(d *doctor.Doctor) { d.AvailableFromTime = "8am" }, doctor.ErrInvalidTime},
		{"inverted window", func(d *doctor.Doctor) { d.AvailableFromTime = "19:00" }, doctor.ErrInvalidTimeWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDoctor()
			tt.mutate(&d)
			if err := d.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestDoctor_AvailableOn tests weekday windows, including ones that wrap the week.
func TestDoctor_AvailableOn(t *testing.T) {
	d := validDoctor()
	if !d.AvailableOn(time.Wednesday) {
		t.Error("expected Monday-Friday doctor to work on Wednesday")
	}
	if d.AvailableOn(time.Sunday) {
		t.Error("expected Monday-Friday doctor to be off on Sunday")
	}

	d.AvailableFromWeekDay = 5
	d.AvailableToWeekDay = 1
	for _, day := range []time.Weekday{time.Friday, time.Saturday, time.Sunday, time.Monday} {
		if !d.AvailableOn(day) {
			t.Errorf("expected Friday-Monday doctor to work on %s", day)
		}
	}
	if d.AvailableOn(time.Wednesday) {
		t.Error("expected Friday-Monday doctor to be off on Wednesday")
	}
}
