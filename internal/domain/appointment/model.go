package appointment

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for appointment dates.
const DateLayout = "2006-01-02"

// TimeSlots are the bookable start times, hourly from 08:00 to 22:00.
// No availability check is made against existing bookings.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
	"18:00", "19:00", "20:00", "21:00", "22:00",
}

// Domain errors
var (
	ErrEmptyClinicID  = errors.New("clinic ID cannot be empty")
	ErrEmptyPatientID = errors.New("patient is required")
	ErrEmptyDoctorID  = errors.New("doctor is required")
	ErrInvalidPrice   = errors.New("appointment price must be at least R$1,00")
	ErrEmptyDate      = errors.New("date is required")
	ErrInvalidTime    = errors.New("time must be one of the offered slots")
)

// Appointment is a booked visit of a patient to a doctor.
type Appointment struct {
	ID                      string
	ClinicID                string
	PatientID               string
	DoctorID                string
	Date                    time.Time // calendar day; clock part ignored
	Time                    string    // one of TimeSlots
	AppointmentPriceInCents int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Validate checks if the Appointment has valid data.
// PRE: Appointment struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.ClinicID) == "" {
		return ErrEmptyClinicID
	}
	if strings.TrimSpace(a.PatientID) == "" {
		return ErrEmptyPatientID
	}
	if strings.TrimSpace(a.DoctorID) == "" {
		return ErrEmptyDoctorID
	}
	if a.AppointmentPriceInCents < 100 {
		return ErrInvalidPrice
	}
	if a.Date.IsZero() {
		return ErrEmptyDate
	}
	if !IsTimeSlot(a.Time) {
		return ErrInvalidTime
	}
	return nil
}

// StartsAt combines Date and Time into a single instant in loc.
// PRE: Time is a valid slot
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		return time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// DateString returns the calendar day in DateLayout.
func (a *Appointment) DateString() string {
	if a.Date.IsZero() {
		return ""
	}
	return a.Date.Format(DateLayout)
}

// IsTimeSlot reports whether s is one of the offered slots.
func IsTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}
