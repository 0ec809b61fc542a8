package appointmentform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Notification texts shown after a submission.
const (
	SuccessMessage = "Appointment scheduled successfully"
	FailureMessage = "Failed to schedule appointment"
)

var (
	ErrInvalid            = errors.New("appointment form has invalid fields")
	ErrSubmissionInFlight = errors.New("appointment submission already in progress")
	ErrSubmissionFailed   = errors.New("appointment submission failed")
)

// UpsertInput is what the form sends to the upsert operation. ID is empty
// in create mode.
type UpsertInput struct {
	ID                      string
	PatientID               string
	DoctorID                string
	AppointmentPriceInCents int64
	Date                    time.Time
	Time                    string
}

// Upserter creates or updates one appointment.
type Upserter interface {
	Upsert(ctx context.Context, input UpsertInput) error
}

// UpserterFunc adapts a function to Upserter.
type UpserterFunc func(ctx context.Context, input UpsertInput) error

// Upsert calls f.
func (f UpserterFunc) Upsert(ctx context.Context, input UpsertInput) error {
	return f(ctx, input)
}

// Notifier surfaces submission outcomes to the user.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// BuildUpsertInput maps the form state to the upsert payload.
func BuildUpsertInput(s State) UpsertInput {
	in := UpsertInput{
		PatientID:               s.Draft.PatientID,
		DoctorID:                s.Draft.DoctorID,
		AppointmentPriceInCents: s.Draft.PriceInCents,
		Date:                    s.Draft.Date,
		Time:                    s.Draft.Time,
	}
	if s.Existing != nil {
		in.ID = s.Existing.ID
	}
	return in
}

// Controller owns one form state and serialises submissions.
type Controller struct {
	mu    sync.Mutex
	state State
}

// NewController returns a controller starting from initial, usually New(doctors).
func NewController(initial State) *Controller {
	return &Controller{state: initial}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch reduces a into the current state and returns the result.
// Input actions are ignored while a submission is pending.
func (c *Controller) Dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, reopen := a.(Open); c.state.Pending && !reopen {
		return c.state
	}
	c.state = Reduce(c.state, a)
	return c.state
}

// Submit validates the draft and, when valid, sends it to up.
// On success n.Success and onSuccess are each called once. On failure
// n.Failure is called once and the draft is left as it was.
// POST: Pending is false when Submit returns
func (c *Controller) Submit(ctx context.Context, up Upserter, n Notifier, onSuccess func()) (Errors, error) {
	c.mu.Lock()
	if c.state.Pending {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if errs := Validate(c.state.Draft); len(errs) > 0 {
		c.mu.Unlock()
		return errs, ErrInvalid
	}
	c.state.Pending = true
	input := BuildUpsertInput(c.state)
	c.mu.Unlock()

	err := up.Upsert(ctx, input)

	c.mu.Lock()
	c.state.Pending = false
	c.mu.Unlock()

	if err != nil {
		n.Failure(FailureMessage)
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	n.Success(SuccessMessage)
	if onSuccess != nil {
		onSuccess()
	}
	return nil, nil
}
