package orchestrators

import (
	"context"
	"log/slog"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/subscription"
)

// AccountStoreForPlan defines the store interface needed by the plan orchestrators.
type AccountStoreForPlan interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// SelectPlanInput carries input for SelectPlan.
type SelectPlanInput struct {
	AccountID string
	PlanID    string
}

// PlanDeps holds dependencies for SelectPlan and CancelPlan.
type PlanDeps struct {
	AccountStore AccountStoreForPlan
}

// ExecuteSelectPlan activates a catalogue plan on the account. No payment
// is taken.
// PRE: PlanID is in the catalogue
// POST: account.Plan == PlanID
func ExecuteSelectPlan(ctx context.Context, input SelectPlanInput, deps PlanDeps) (subscription.Plan, error) {
	plan, err := subscription.Lookup(input.PlanID)
	if err != nil {
		return subscription.Plan{}, err
	}
	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return subscription.Plan{}, notFound("account", err)
	}
	if acct.Plan == plan.ID {
		return plan, nil
	}
	acct.Plan = plan.ID
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return subscription.Plan{}, err
	}
	slog.Info("subscription_event", "event", "plan_selected", "account_id", acct.ID, "plan", plan.ID)
	return plan, nil
}

// ExecuteCancelPlan clears the account's plan. Cancelling without a plan is a no-op.
// POST: account.Plan == ""
func ExecuteCancelPlan(ctx context.Context, accountID string, deps PlanDeps) error {
	acct, err := deps.AccountStore.GetByID(ctx, accountID)
	if err != nil {
		return notFound("account", err)
	}
	if !acct.HasPlan() {
		return nil
	}
	previous := acct.Plan
	acct.Plan = ""
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}
	slog.Info("subscription_event", "event", "plan_cancelled", "account_id", acct.ID, "plan", previous)
	return nil
}
