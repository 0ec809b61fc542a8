package patient

import (
	"errors"
	"strings"
	"time"
)

// Sex values
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 120
	MaxEmailLength = 254
	MaxPhoneLength = 20
)

// Domain errors
var (
	ErrEmptyClinicID = errors.New("clinic ID cannot be empty")
	ErrEmptyName     = errors.New("patient name cannot be empty")
	ErrNameTooLong   = errors.New("patient name cannot exceed 120 characters")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmailTooLong  = errors.New("email cannot exceed 254 characters")
	ErrEmptyPhone    = errors.New("phone number cannot be empty")
	ErrInvalidPhone  = errors.New("phone number must contain 10 or 11 digits")
	ErrInvalidSex    = errors.New("sex must be male or female")
)

// Patient is a person seen by a clinic.
type Patient struct {
	ID          string
	ClinicID    string
	Name        string
	Email       string
	PhoneNumber string // digits only
	Sex         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks if the Patient has valid data.
// PRE: Patient struct is populated, PhoneNumber normalised
// POST: Returns nil if valid, error otherwise
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.ClinicID) == "" {
		return ErrEmptyClinicID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if p.Email != "" {
		if len(p.Email) > MaxEmailLength {
			return ErrEmailTooLong
		}
		if !strings.Contains(p.Email, "@") {
			return ErrInvalidEmail
		}
	}
	if p.PhoneNumber == "" {
		return ErrEmptyPhone
	}
	if n := len(p.PhoneNumber); n < 10 || n > 11 || NormalizePhone(p.PhoneNumber) != p.PhoneNumber {
		return ErrInvalidPhone
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return ErrInvalidSex
	}
	return nil
}

// NormalizePhone strips everything but digits, so "(11) 99999-9999"
// becomes "11999999999".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
