package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/email"
	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/http/middleware"
	accountStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/account"
	appointmentStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
	clinicStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/clinic"
	doctorStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/doctor"
	patientStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/patient"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/access"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	ClinicStore      clinicStore.Store
	DoctorStore      doctorStore.Store
	PatientStore     patientStore.Store
	AppointmentStore appointmentStore.Store
}

// HealthCheck is one dependency probed by /health/ready.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Options configures NewMux.
type Options struct {
	Stores       *Stores
	Auth         *middleware.Provider
	Sender       email.Sender // nil disables patient emails
	CSRFKey      []byte       // 32 bytes
	Secure       bool         // HTTPS only cookies
	LoginLimiter *middleware.RateLimiter
	SlowRequest  time.Duration
	StaticDir    string // empty serves no static files
	Checks       []HealthCheck
	Now          func() time.Time
	GenerateID   func() string
}

// Server carries the dependencies shared by every handler.
type Server struct {
	stores     *Stores
	auth       *middleware.Provider
	sender     email.Sender
	checks     []HealthCheck
	now        func() time.Time
	generateID func() string
}

func generateID() string {
	return uuid.New().String()
}

// NewMux wires HTTP handlers for the app.
// Requests pass Timing -> SecurityHeaders -> EdgeFilter -> CSRF before routing;
// page guards run per route group.
func NewMux(opts Options) http.Handler {
	s := &Server{
		stores:     opts.Stores,
		auth:       opts.Auth,
		sender:     opts.Sender,
		checks:     opts.Checks,
		now:        opts.Now,
		generateID: opts.GenerateID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generateID == nil {
		s.generateID = generateID
	}
	limiter := opts.LoginLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(1, 10)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Timing(opts.SlowRequest),
		middleware.SecurityHeaders,
		middleware.EdgeFilter(middleware.ProtectedPatterns),
		middleware.CSRF(opts.CSRFKey, opts.Secure, nil),
	)

	r.Get("/health/live", s.handleLive)
	r.Get("/health/ready", s.handleReady)
	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get(access.RouteAuthentication, s.handleAuthenticationPage)
	r.With(middleware.RateLimit(limiter)).Post(access.RouteAuthentication, s.handleAuthenticate)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Require(s.auth, access.Authenticated))
		r.Get(access.RoutePlanSelection, s.handlePlanSelectionPage)
		r.Post(access.RoutePlanSelection, s.handleSelectPlan)
		r.Get(access.RouteClinicSetup, s.handleClinicFormPage)
		r.Post(access.RouteClinicSetup, s.handleCreateClinic)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Require(s.auth, access.Onboarded))

		r.Get("/dashboard", s.handleDashboard)

		r.Get("/subscription", s.handleSubscriptionPage)
		r.Post("/subscription/cancel", s.handleCancelPlan)

		r.Get("/doctors", s.handleDoctorsPage)
		r.Post("/doctors", s.handleUpsertDoctorForm)
		r.Post("/doctors/{id}/delete", s.handleDeleteDoctorForm)

		r.Get("/patients", s.handlePatientsPage)
		r.Post("/patients", s.handleUpsertPatientForm)
		r.Post("/patients/{id}/delete", s.handleDeletePatientForm)

		r.Get("/appointments", s.handleAppointmentsPage)
		r.Post("/appointments/form", s.handleAppointmentForm)
		r.Post("/appointments/reminders", s.handleSendReminders)
		r.Post("/appointments/{id}/delete", s.handleDeleteAppointmentForm)

		r.Route("/api", func(r chi.Router) {
			r.Get("/doctors", s.handleAPIListDoctors)
			r.Post("/doctors", s.handleAPIUpsertDoctor)
			r.Delete("/doctors/{id}", s.handleAPIDeleteDoctor)

			r.Get("/patients", s.handleAPIListPatients)
			r.Post("/patients", s.handleAPIUpsertPatient)
			r.Delete("/patients/{id}", s.handleAPIDeletePatient)

			r.Get("/appointments", s.handleAPIListAppointments)
			r.Post("/appointments", s.handleAPIUpsertAppointment)
			r.Delete("/appointments/{id}", s.handleAPIDeleteAppointment)
			r.Post("/appointments/form", s.handleAPIAppointmentForm)

			r.Get("/dashboard", s.handleAPIDashboard)
		})
	})

	return r
}

// currentSession returns the session the page guard placed in the context.
// Guarded handlers can rely on it being present.
func currentSession(r *http.Request) *access.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		return &access.Session{}
	}
	return sess
}
