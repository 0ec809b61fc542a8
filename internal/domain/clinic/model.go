package clinic

import (
	"errors"
	"strings"
	"time"
)

// MaxNameLength bounds the clinic name.
const MaxNameLength = 120

// Domain errors
var (
	ErrEmptyName   = errors.New("clinic name cannot be empty")
	ErrNameTooLong = errors.New("clinic name cannot exceed 120 characters")
)

// Clinic is the tenant every doctor, patient and appointment belongs to.
type Clinic struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Validate checks if the Clinic has valid data.
// PRE: Clinic struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Clinic) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
