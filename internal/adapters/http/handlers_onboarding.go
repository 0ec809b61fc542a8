package web

import (
	"errors"
	"net/http"

	"github.com/luisafalquetoz/agenda-clinicas/internal/application/access"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/orchestrators"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/subscription"
)

// handlePlanSelectionPage lists the plan catalogue.
func (s *Server) handlePlanSelectionPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "new_subscription.html", map[string]any{
		"Plans":   subscription.Plans(),
		"Current": currentSession(r).Plan,
	})
}

// handleSelectPlan activates the posted plan.
func (s *Server) handleSelectPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	_, err := orchestrators.ExecuteSelectPlan(r.Context(), orchestrators.SelectPlanInput{
		AccountID: currentSession(r).AccountID,
		PlanID:    r.FormValue("plan"),
	}, orchestrators.PlanDeps{AccountStore: s.stores.AccountStore})
	if err != nil {
		formError(w, r, err, func(msg string) {
			renderTemplate(w, r, "new_subscription.html", map[string]any{
				"Plans":   subscription.Plans(),
				"Current": currentSession(r).Plan,
				"Error":   msg,
			})
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleClinicFormPage renders the clinic setup form.
func (s *Server) handleClinicFormPage(w http.ResponseWriter, r *http.Request) {
	if currentSession(r).HasClinic() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "clinic_form.html", map[string]any{})
}

// handleCreateClinic creates the user's clinic.
func (s *Server) handleCreateClinic(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	_, err := orchestrators.ExecuteCreateClinic(r.Context(), orchestrators.CreateClinicInput{
		AccountID: currentSession(r).AccountID,
		Name:      r.FormValue("name"),
	}, orchestrators.CreateClinicDeps{
		AccountStore: s.stores.AccountStore,
		ClinicStore:  s.stores.ClinicStore,
		GenerateID:   s.generateID,
		Now:          s.now,
	})
	if errors.Is(err, orchestrators.ErrClinicAlreadyLinked) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if err != nil {
		formError(w, r, err, func(msg string) {
			renderTemplate(w, r, "clinic_form.html", map[string]any{"Error": msg, "Name": r.FormValue("name")})
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleSubscriptionPage shows the active plan.
func (s *Server) handleSubscriptionPage(w http.ResponseWriter, r *http.Request) {
	plan, err := subscription.Lookup(currentSession(r).Plan)
	if err != nil {
		http.Redirect(w, r, access.RoutePlanSelection, http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "subscription.html", map[string]any{"Plan": plan})
}

// handleCancelPlan clears the plan and sends the user back to plan selection.
func (s *Server) handleCancelPlan(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteCancelPlan(r.Context(), currentSession(r).AccountID,
		orchestrators.PlanDeps{AccountStore: s.stores.AccountStore}); err != nil {
		internalError(w, r, err)
		return
	}
	http.Redirect(w, r, access.RoutePlanSelection, http.StatusSeeOther)
}
