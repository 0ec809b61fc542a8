package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/email"
	web "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/http"
	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/http/middleware"
	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage"
	accountStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/account"
	appointmentStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
	clinicStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/clinic"
	doctorStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/doctor"
	patientStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/patient"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/orchestrators"
	"github.com/luisafalquetoz/agenda-clinicas/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const limiterIdle = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs JSON logs in production and text logs elsewhere.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h).With("version", version))
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	timedDB := storage.NewTimedDB(db, cfg.SlowQuery)
	slog.Info("database_ready", "path", cfg.DBPath)

	stores := &web.Stores{
		AccountStore:     accountStore.NewSQLiteStore(timedDB),
		ClinicStore:      clinicStore.NewSQLiteStore(timedDB),
		DoctorStore:      doctorStore.NewSQLiteStore(timedDB),
		PatientStore:     patientStore.NewSQLiteStore(timedDB),
		AppointmentStore: appointmentStore.NewSQLiteStore(timedDB),
	}
	checks := []web.HealthCheck{{Name: "database", Ping: timedDB.PingContext}}

	var sessions middleware.SessionStore
	var memSessions *middleware.MemorySessionStore
	if cfg.RedisAddr != "" {
		rdb, err := middleware.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = middleware.NewRedisSessionStore(rdb, cfg.SessionTTL)
		checks = append(checks, web.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		slog.Info("sessions_configured", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		memSessions = middleware.NewMemorySessionStore(cfg.SessionTTL)
		sessions = memSessions
		slog.Info("sessions_configured", "backend", "memory")
	}
	provider := middleware.NewProvider(
		middleware.NewTokenSigner(cfg.SessionSecret, cfg.SessionTTL),
		sessions,
		stores.AccountStore,
		cfg.IsProduction(),
	)

	var sender email.Sender
	if cfg.ResendKey != "" {
		sender = email.NewResendSender(cfg.ResendKey, cfg.ResendFrom, cfg.ReplyTo)
		slog.Info("email_configured", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "reason", "CLINIC_RESEND_KEY not set")
		} else {
			slog.Info("email_configured", "provider", "noop")
		}
	}

	if cfg.Seed {
		err := orchestrators.ExecuteSeedSynthetic(ctx, orchestrators.SyntheticSeedSizes{Patients: 40, Appointments: 120},
			orchestrators.SyntheticSeedDeps{
				AccountStore:     stores.AccountStore,
				ClinicStore:      stores.ClinicStore,
				DoctorStore:      stores.DoctorStore,
				PatientStore:     stores.PatientStore,
				AppointmentStore: stores.AppointmentStore,
				Faker:            gofakeit.New(0),
				GenerateID:       uuid.NewString,
				Now:              time.Now,
			})
		if err != nil {
			return err
		}
		slog.Info("seed_ready", "email", orchestrators.DemoEmail)
	}

	limiter := middleware.NewRateLimiter(cfg.LoginRPS, 5)
	go housekeeping(ctx, limiter, memSessions)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewMux(web.Options{
			Stores:       stores,
			Auth:         provider,
			Sender:       sender,
			CSRFKey:      cfg.CSRFKey,
			Secure:       cfg.IsProduction(),
			LoginLimiter: limiter,
			SlowRequest:  cfg.SlowRequest,
			StaticDir:    "static",
			Checks:       checks,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// housekeeping forgets idle login clients and, when sessions live in memory,
// expired sessions until ctx ends. Redis expires its keys by itself.
func housekeeping(ctx context.Context, limiter *middleware.RateLimiter, sessions *middleware.MemorySessionStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			limiter.Cleanup(limiterIdle)
			if sessions != nil {
				if n := sessions.Sweep(); n > 0 {
					slog.Debug("sessions_swept", "removed", n)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
