package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/luisafalquetoz/agenda-clinicas/internal/application/access"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/orchestrators"
)

// handleAuthenticationPage renders the sign-in and sign-up forms.
// Visitors with a valid session go straight to the dashboard.
func (s *Server) handleAuthenticationPage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.auth.GetSession(r.Context(), r.Header)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if sess != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	tab := r.URL.Query().Get("tab")
	if tab != "sign-up" {
		tab = "sign-in"
	}
	renderTemplate(w, r, "authentication.html", map[string]any{"Tab": tab})
}

// handleAuthenticate handles POST /authentication for both forms.
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	var accountID string
	switch action := r.FormValue("action"); action {
	case "sign-in":
		result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}, orchestrators.LoginDeps{AccountStore: s.stores.AccountStore, Now: s.now})
		if err != nil {
			s.rerenderAuthentication(w, r, "sign-in", err)
			return
		}
		accountID = result.AccountID

	case "sign-up":
		acct, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}, orchestrators.CreateAccountDeps{AccountStore: s.stores.AccountStore, GenerateID: s.generateID, Now: s.now})
		if err != nil {
			s.rerenderAuthentication(w, r, "sign-up", err)
			return
		}
		accountID = acct.ID

	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if err := s.auth.SignIn(r.Context(), w, accountID); err != nil {
		internalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) rerenderAuthentication(w http.ResponseWriter, r *http.Request, tab string, err error) {
	msg, ok := userMessage(err)
	if !ok {
		internalError(w, r, err)
		return
	}
	status := http.StatusOK
	if errors.Is(err, orchestrators.ErrInvalidCredentials) || errors.Is(err, orchestrators.ErrAccountLocked) {
		status = http.StatusUnauthorized
	}
	renderTemplateStatus(w, r, status, "authentication.html", map[string]any{
		"Tab":   tab,
		"Error": msg,
		"Name":  r.FormValue("name"),
		"Email": r.FormValue("email"),
	})
}

// handleLogout handles POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(r.Context(), w, r); err != nil {
		slog.Warn("auth_event", "event", "logout_session_delete_failed", "error", err)
	}
	http.Redirect(w, r, access.RouteAuthentication, http.StatusSeeOther)
}
