package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/clinic"
)

// AccountStoreForClinic defines the account store interface needed by CreateClinic.
type AccountStoreForClinic interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ClinicStoreForCreate defines the clinic store interface needed by CreateClinic.
type ClinicStoreForCreate interface {
	Save(ctx context.Context, c clinic.Clinic) error
}

// CreateClinicInput carries input for the clinic setup orchestrator.
type CreateClinicInput struct {
	AccountID string
	Name      string
}

// CreateClinicDeps holds dependencies for CreateClinic.
type CreateClinicDeps struct {
	AccountStore AccountStoreForClinic
	ClinicStore  ClinicStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

var ErrClinicAlreadyLinked = errors.New("account already belongs to a clinic")

// ExecuteCreateClinic creates a clinic and links the account to it.
// PRE: AccountID identifies an existing account without a clinic
// POST: Clinic saved; account.ClinicID points at it
func ExecuteCreateClinic(ctx context.Context, input CreateClinicInput, deps CreateClinicDeps) (clinic.Clinic, error) {
	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return clinic.Clinic{}, notFound("account", err)
	}
	if acct.HasClinic() {
		return clinic.Clinic{}, ErrClinicAlreadyLinked
	}

	c := clinic.Clinic{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: deps.Now(),
	}
	if err := c.Validate(); err != nil {
		return clinic.Clinic{}, err
	}
	if err := deps.ClinicStore.Save(ctx, c); err != nil {
		return clinic.Clinic{}, err
	}

	acct.ClinicID = c.ID
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return clinic.Clinic{}, err
	}

	slog.Info("clinic_created", "clinic_id", c.ID, "account_id", acct.ID)
	return c, nil
}
