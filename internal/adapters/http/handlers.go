package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/http/middleware"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/orchestrators"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/projections"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/clinic"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/money"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/subscription"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts md to HTML, falling back to escaped text.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "error", err.Error(), "path", r.URL.Path)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// userErrors are safe to show to the user verbatim.
var userErrors = []error{
	orchestrators.ErrInvalidCredentials,
	orchestrators.ErrAccountLocked,
	orchestrators.ErrEmailAlreadyExists,
	orchestrators.ErrClinicAlreadyLinked,
	orchestrators.ErrDoctorLimitReached,
	orchestrators.ErrPatientNotInClinic,
	orchestrators.ErrDoctorNotInClinic,
	orchestrators.ErrNoSender,
	projections.ErrInvalidRange,
	projections.ErrRangeTooLong,
	subscription.ErrUnknownPlan,
	money.ErrInvalidAmount,
	account.ErrEmptyName, account.ErrNameTooLong, account.ErrEmptyEmail, account.ErrEmailTooLong,
	account.ErrInvalidEmail, account.ErrEmptyPassword, account.ErrPasswordTooShort,
	clinic.ErrEmptyName, clinic.ErrNameTooLong,
	doctor.ErrEmptyName, doctor.ErrNameTooLong, doctor.ErrEmptySpeciality, doctor.ErrSpecialityTooLong,
	doctor.ErrInvalidPrice, doctor.ErrInvalidWeekDay, doctor.ErrInvalidTime, doctor.ErrInvalidTimeWindow,
	doctor.ErrNotesTooLong,
	patient.ErrEmptyName, patient.ErrNameTooLong, patient.ErrInvalidEmail, patient.ErrEmailTooLong,
	patient.ErrEmptyPhone, patient.ErrInvalidPhone, patient.ErrInvalidSex,
	appointment.ErrEmptyPatientID, appointment.ErrEmptyDoctorID, appointment.ErrInvalidPrice,
	appointment.ErrEmptyDate, appointment.ErrInvalidTime,
}

// userMessage returns the message to show for err when it is a user error.
func userMessage(err error) (string, bool) {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}

// apiError maps err to a JSON error response.
func apiError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orchestrators.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, orchestrators.ErrDoctorLimitReached):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		if msg, ok := userMessage(err); ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
			return
		}
		internalError(w, r, err)
	}
}

// formError re-renders a page with err when it is a user error, and fails
// with 500 otherwise. Not-found becomes 404.
func formError(w http.ResponseWriter, r *http.Request, err error, rerender func(msg string)) {
	if errors.Is(err, orchestrators.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if msg, ok := userMessage(err); ok {
		rerender(msg)
		return
	}
	internalError(w, r, err)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data map[string]any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data map[string]any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	name := ""
	if loggedIn {
		name = sess.Name
	}

	funcMap := template.FuncMap{
		"currentName":    func() string { return name },
		"isLoggedIn":     func() bool { return loggedIn },
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"renderMarkdown": renderMarkdown,
		"price":          money.FormatCents,
		"priceInput": func(cents int64) string {
			if cents == 0 {
				return ""
			}
			return strings.TrimPrefix(money.FormatCents(cents), money.Prefix)
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(appointment.DateLayout)
		},
		"shortDate": func(t time.Time) string { return t.Format("02/01") },
		"weekday":   func(d int) string { return time.Weekday(d).String() },
		"weekdays":  func() []int { return []int{0, 1, 2, 3, 4, 5, 6} },
		"percent":   func(f float64) string { return strconv.FormatFloat(f, 'f', 0, 64) },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
