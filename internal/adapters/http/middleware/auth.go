package middleware

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/luisafalquetoz/agenda-clinicas/internal/application/access"
	domainAccount "github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "clinic_session"

// AccountGetter loads the account a session belongs to.
type AccountGetter interface {
	GetByID(ctx context.Context, id string) (domainAccount.Account, error)
}

// Provider resolves sessions from requests. It offers a cheap cookie-presence
// check and a full resolution that verifies the token and reloads the account.
type Provider struct {
	tokens       *TokenSigner
	sessions     SessionStore
	accounts     AccountGetter
	secureCookie bool
}

// NewProvider wires a provider.
func NewProvider(tokens *TokenSigner, sessions SessionStore, accounts AccountGetter, secureCookie bool) *Provider {
	return &Provider{tokens: tokens, sessions: sessions, accounts: accounts, secureCookie: secureCookie}
}

// HasSessionCookie reports whether r carries a non-empty session cookie.
// No signature or expiry check is made.
func HasSessionCookie(r *http.Request) bool {
	c, err := r.Cookie(SessionCookieName)
	return err == nil && c.Value != ""
}

// GetSession fully resolves the session carried by header.
// Returns (nil, nil) when there is no valid session, and an error only
// when a backing store fails.
func (p *Provider) GetSession(ctx context.Context, header http.Header) (*access.Session, error) {
	c, err := (&http.Request{Header: header}).Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	sessionID, accountID, err := p.tokens.Verify(c.Value)
	if err != nil {
		return nil, nil
	}
	rec, err := p.sessions.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.AccountID != accountID {
		return nil, nil
	}
	acc, err := p.accounts.GetByID(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session account: %w", err)
	}
	return &access.Session{
		ID:        rec.ID,
		AccountID: acc.ID,
		Name:      acc.Name,
		Email:     acc.Email,
		Plan:      acc.Plan,
		ClinicID:  acc.ClinicID,
	}, nil
}

// SignIn creates a server-side session for accountID and sets the cookie.
// POST: Cookie carries a token bound to the new session
func (p *Provider) SignIn(ctx context.Context, w http.ResponseWriter, accountID string) error {
	rec, err := p.sessions.Create(ctx, accountID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	token, err := p.tokens.Sign(rec)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   p.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		Expires:  rec.ExpiresAt,
	})
	return nil
}

// SignOut deletes the server-side session of r, if any, and clears the cookie.
func (p *Provider) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if c, cerr := r.Cookie(SessionCookieName); cerr == nil && c.Value != "" {
		if sessionID, _, verr := p.tokens.Verify(c.Value); verr == nil {
			err = p.sessions.Delete(ctx, sessionID)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   p.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
	return err
}

// ProtectedPatterns are the paths the edge filter checks. A pattern ending
// in "/*" matches its prefix and everything below it.
var ProtectedPatterns = []string{
	"/dashboard",
	"/appointments/*",
	"/patients/*",
	"/doctors/*",
	"/subscription/*",
	"/new-subscription",
	"/clinic-form",
}

// MatchesAny reports whether path matches one of patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

// EdgeFilter redirects requests to protected paths that carry no session
// cookie. Every other request reaches next untouched.
func EdgeFilter(patterns []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if MatchesAny(r.URL.Path, patterns) && !HasSessionCookie(r) {
				http.Redirect(w, r, access.RouteAuthentication, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithAuthentication resolves the session of r, applies req and either
// redirects or calls next with the session in the request context.
// Nothing is written before the decision is made.
func WithAuthentication(p *Provider, req access.Requirements, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := p.GetSession(r.Context(), r.Header)
		if err != nil {
			slog.Error("internal_error", "error", err, "path", r.URL.Path)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		decision := access.Evaluate(sess, req)
		if !decision.Allowed {
			slog.Debug("auth_event", "event", "guard_redirect", "path", r.URL.Path, "to", decision.Redirect)
			http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
	})
}

// Require is WithAuthentication in router middleware form.
func Require(p *Provider, req access.Requirements) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return WithAuthentication(p, req, next)
	}
}

// GetSessionFromContext extracts the session placed by WithAuthentication.
func GetSessionFromContext(ctx context.Context) (*access.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*access.Session)
	return sess, ok && sess != nil
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess *access.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
