package doctor

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength       = 120
	MaxSpecialityLength = 80
	MaxNotesLength      = 4000
)

// Domain errors
var (
	ErrEmptyClinicID     = errors.New("clinic ID cannot be empty")
	ErrEmptyName         = errors.New("doctor name cannot be empty")
	ErrNameTooLong       = errors.New("doctor name cannot exceed 120 characters")
	ErrEmptySpeciality   = errors.New("speciality cannot be empty")
	ErrSpecialityTooLong = errors.New("speciality cannot exceed 80 characters")
	ErrInvalidPrice      = errors.New("appointment price must be at least R$1,00")
	ErrInvalidWeekDay    = errors.New("available week days must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTime       = errors.New("available times must use HH:MM format")
	ErrInvalidTimeWindow = errors.New("available from time must be before available to time")
	ErrNotesTooLong      = errors.New("notes cannot exceed 4000 characters")
)

// Doctor is a practitioner of a clinic. Prices are integer cents.
type Doctor struct {
	ID                      string
	ClinicID                string
	Name                    string
	Speciality              string
	AppointmentPriceInCents int64
	AvailableFromWeekDay    int    // 0 = Sunday
	AvailableToWeekDay      int    // inclusive
	AvailableFromTime       string // HH:MM
	AvailableToTime         string // HH:MM
	Notes                   string // markdown
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Validate checks if the Doctor has valid data.
// PRE: Doctor struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Doctor) Validate() error {
	if strings.TrimSpace(d.ClinicID) == "" {
		return ErrEmptyClinicID
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(d.Speciality) == "" {
		return ErrEmptySpeciality
	}
	if len(d.Speciality) > MaxSpecialityLength {
		return ErrSpecialityTooLong
	}
	if d.AppointmentPriceInCents < 100 {
		return ErrInvalidPrice
	}
	if !validWeekDay(d.AvailableFromWeekDay) || !validWeekDay(d.AvailableToWeekDay) {
		return ErrInvalidWeekDay
	}
	from, err := time.Parse("15:04", d.AvailableFromTime)
	if err != nil {
		return ErrInvalidTime
	}
	to, err := time.Parse("15:04", d.AvailableToTime)
	if err != nil {
		return ErrInvalidTime
	}
	if !from.Before(to) {
		return ErrInvalidTimeWindow
	}
	if len(d.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// AvailableOn reports whether the doctor works on the given weekday.
// Windows may wrap around the week (e.g. Friday to Monday).
func (d *Doctor) AvailableOn(day time.Weekday) bool {
	w := int(day)
	if d.AvailableFromWeekDay <= d.AvailableToWeekDay {
		return w >= d.AvailableFromWeekDay && w <= d.AvailableToWeekDay
	}
	return w >= d.AvailableFromWeekDay || w <= d.AvailableToWeekDay
}

func validWeekDay(d int) bool {
	return d >= 0 && d <= 6
}
