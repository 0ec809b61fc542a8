// Package access decides whether a resolved session may see a guarded page.
package access

// Redirect targets for unmet requirements. Fixed at compile time.
const (
	RouteAuthentication = "/authentication"
	RoutePlanSelection  = "/new-subscription"
	RouteClinicSetup    = "/clinic-form"
)

// Session is the fully resolved identity of a signed-in user.
type Session struct {
	ID        string // server-side session id
	AccountID string
	Name      string
	Email     string
	Plan      string // empty when the user has no plan
	ClinicID  string // empty when the user has no clinic
}

// HasPlan reports whether the user has an active plan.
func (s *Session) HasPlan() bool {
	return s != nil && s.Plan != ""
}

// HasClinic reports whether the user belongs to a clinic.
func (s *Session) HasClinic() bool {
	return s != nil && s.ClinicID != ""
}

// Requirements declares what a page needs beyond authentication.
type Requirements struct {
	RequirePlan   bool
	RequireClinic bool
}

// Common requirement sets.
var (
	Authenticated = Requirements{}
	Onboarded     = Requirements{RequirePlan: true, RequireClinic: true}
)

// Decision is the outcome of Evaluate. Redirect is empty when Allowed.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Evaluate checks s against req. A nil session is unauthenticated.
// The plan is checked before the clinic.
func Evaluate(s *Session, req Requirements) Decision {
	switch {
	case s == nil || s.AccountID == "":
		return Decision{Redirect: RouteAuthentication}
	case req.RequirePlan && !s.HasPlan():
		return Decision{Redirect: RoutePlanSelection}
	case req.RequireClinic && !s.HasClinic():
		return Decision{Redirect: RouteClinicSetup}
	}
	return Decision{Allowed: true}
}
