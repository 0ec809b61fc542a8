package subscription

import "errors"

// PlanEssential is the only plan currently offered.
const PlanEssential = "essential"

// ErrUnknownPlan is returned when a plan ID is not in the catalogue.
var ErrUnknownPlan = errors.New("unknown subscription plan")

// Plan is one entry of the plan catalogue. Features is markdown.
type Plan struct {
	ID                string
	Name              string
	Description       string
	MonthlyPriceCents int64
	MaxDoctors        int // 0 means unlimited
	Features          string
}

var catalogue = []Plan{
	{
		ID:                PlanEssential,
		Name:              "Essential",
		Description:       "For small and medium clinics",
		MonthlyPriceCents: 5900,
		MaxDoctors:        3,
		Features: `- Up to **3 doctors**
- Unlimited appointments
- Appointment dashboard
- Patient records
- Email confirmations
- Email support`,
	},
}

// Plans returns the plan catalogue in display order.
func Plans() []Plan {
	out := make([]Plan, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup returns the plan with the given ID.
// PRE: id is non-empty
// POST: Returns ErrUnknownPlan if id is not in the catalogue
func Lookup(id string) (Plan, error) {
	for _, p := range catalogue {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, ErrUnknownPlan
}

// AllowsDoctors reports whether a clinic on p may hold n doctors.
func (p Plan) AllowsDoctors(n int) bool {
	return p.MaxDoctors == 0 || n <= p.MaxDoctors
}
