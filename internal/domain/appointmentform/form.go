// Package appointmentform models the create/edit appointment dialog as a
// reducer over a draft. It holds no UI state beyond the draft, the optional
// appointment being edited, the doctor catalogue used for price derivation,
// and whether a submission is in flight.
package appointmentform

import (
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
)

// Draft is the transient form content.
type Draft struct {
	PatientID    string
	DoctorID     string
	PriceInCents int64
	Date         time.Time // zero means unset
	Time         string
}

// State is the full form state.
type State struct {
	Draft    Draft
	Existing *appointment.Appointment // nil in create mode
	Doctors  []doctor.Doctor
	Pending  bool
}

// Action is a transition applied by Reduce.
type Action interface {
	apply(s State) State
}

// Open resets the form when the dialog becomes visible.
type Open struct {
	Existing *appointment.Appointment
}

// SelectPatient sets the patient.
type SelectPatient struct {
	PatientID string
}

// SelectDoctor sets the doctor and re-derives the price from the catalogue.
type SelectDoctor struct {
	DoctorID string
}

// SetPrice is a manual price edit, in cents.
type SetPrice struct {
	Cents int64
}

// SetDate picks a calendar day. Now is the moment the choice is made and
// decides which days are selectable.
type SetDate struct {
	Date time.Time
	Now  time.Time
}

// SetTime picks one of the offered slots.
type SetTime struct {
	Time string
}

// New returns an opened create-mode form over the given doctor catalogue.
func New(doctors []doctor.Doctor) State {
	return Reduce(State{Doctors: doctors}, Open{})
}

// Reduce applies a to s and returns the resulting state. s is not modified.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a Open) apply(s State) State {
	next := State{Doctors: s.Doctors, Existing: a.Existing}
	if a.Existing != nil {
		next.Draft.PatientID = a.Existing.PatientID
		next.Draft.DoctorID = a.Existing.DoctorID
		next.Draft.Date = a.Existing.Date
	}
	// Price starts at zero in both modes; only SelectDoctor derives it.
	return next
}

func (a SelectPatient) apply(s State) State {
	s.Draft.PatientID = a.PatientID
	return s
}

func (a SelectDoctor) apply(s State) State {
	s.Draft.DoctorID = a.DoctorID
	if cents, ok := priceOf(s.Doctors, a.DoctorID); ok {
		s.Draft.PriceInCents = cents
	}
	return s
}

func (a SetPrice) apply(s State) State {
	if !s.PriceEnabled() || a.Cents < 0 {
		return s
	}
	s.Draft.PriceInCents = a.Cents
	return s
}

func (a SetDate) apply(s State) State {
	if !s.DateTimeEnabled() {
		return s
	}
	if !a.Date.IsZero() && !IsDateSelectable(a.Date, a.Now) {
		return s
	}
	s.Draft.Date = a.Date
	return s
}

func (a SetTime) apply(s State) State {
	if !s.DateTimeEnabled() {
		return s
	}
	if a.Time != "" && !appointment.IsTimeSlot(a.Time) {
		return s
	}
	s.Draft.Time = a.Time
	return s
}

// IsEdit reports whether the form edits an existing appointment.
func (s State) IsEdit() bool {
	return s.Existing != nil
}

// DateTimeEnabled reports whether date and time accept input: both patient
// and doctor must be chosen first.
func (s State) DateTimeEnabled() bool {
	return s.Draft.PatientID != "" && s.Draft.DoctorID != ""
}

// PriceEnabled reports whether the price accepts manual edits.
func (s State) PriceEnabled() bool {
	return s.Draft.DoctorID != ""
}

// Title is the dialog heading.
func (s State) Title() string {
	if s.IsEdit() {
		return "Edit appointment"
	}
	return "New appointment"
}

// Description is the dialog subheading.
func (s State) Description() string {
	if s.IsEdit() {
		return "Edit the details of this appointment"
	}
	return "Fill in the details to schedule a new appointment"
}

// SubmitLabel is the submit button text.
func (s State) SubmitLabel() string {
	switch {
	case s.Pending:
		return "Saving..."
	case s.IsEdit():
		return "Save changes"
	default:
		return "Create appointment"
	}
}

// DateFloor is the earliest calendar day that can ever be picked.
var DateFloor = time.Date(1988, time.January, 1, 0, 0, 0, 0, time.UTC)

// IsDateSelectable reports whether the calendar day of d may be picked at
// now. The day starts at midnight in now's location; days starting before
// now or before DateFloor are not selectable, the floor itself is.
func IsDateSelectable(d, now time.Time) bool {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	if start.Before(now) {
		return false
	}
	floor := time.Date(DateFloor.Year(), DateFloor.Month(), DateFloor.Day(), 0, 0, 0, 0, now.Location())
	return !start.Before(floor)
}

func priceOf(doctors []doctor.Doctor, id string) (int64, bool) {
	if id == "" {
		return 0, false
	}
	for _, d := range doctors {
		if d.ID == id {
			return d.AppointmentPriceInCents, true
		}
	}
	return 0, false
}
