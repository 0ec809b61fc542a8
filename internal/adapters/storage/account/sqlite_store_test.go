package account_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage"
	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/account"
	domain "github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSQLiteStore_SaveAndGet tests insert, lookup by id and by email.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := account.NewSQLiteStore(openTestDB(t))
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	a := domain.Account{ID: "acc-1", Name: "Ana", Email: "Ana@Clinic.com", PasswordHash: "hash", CreatedAt: created}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "acc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "ana@clinic.com" {
		t.Errorf("email = %q, want normalised", got.Email)
	}
	if !got.CreatedAt.Equal(created) || got.ClinicID != "" || !got.LockedUntil.IsZero() {
		t.Errorf("unexpected round trip %+v", got)
	}

	byEmail, err := store.GetByEmail(ctx, " ANA@clinic.com ")
	if err != nil || byEmail.ID != "acc-1" {
		t.Errorf("GetByEmail = %+v, %v", byEmail, err)
	}
}

// TestSQLiteStore_Update tests that plan, clinic and lockout fields are updated.
func TestSQLiteStore_Update(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := account.NewSQLiteStore(db)
	if _, err := db.Exec("INSERT INTO clinic (id, name, created_at) VALUES ('clinic-1', 'Clínica', '2026-01-01T00:00:00Z')"); err != nil {
		t.Fatalf("insert clinic: %v", err)
	}

	a := domain.Account{ID: "acc-1", Name: "Ana", Email: "ana@clinic.com", CreatedAt: time.Now()}
	store.Save(ctx, a)

	locked := time.Date(2026, 10, 1, 9, 15, 0, 0, time.UTC)
	a.Plan = "essential"
	a.ClinicID = "clinic-1"
	a.FailedLogins = 5
	a.LockedUntil = locked
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, _ := store.GetByID(ctx, "acc-1")
	if got.Plan != "essential" || got.ClinicID != "clinic-1" || got.FailedLogins != 5 || !got.LockedUntil.Equal(locked) {
		t.Errorf("unexpected updated account %+v", got)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSQLiteStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := account.NewSQLiteStore(openTestDB(t))
	store.Save(ctx, domain.Account{ID: "acc-1", Name: "Ana", Email: "ana@clinic.com", CreatedAt: time.Now()})
	if err := store.Save(ctx, domain.Account{ID: "acc-2", Name: "Ana 2", Email: "ana@clinic.com", CreatedAt: time.Now()}); err == nil {
		t.Error("expected unique email violation")
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := account.NewSQLiteStore(openTestDB(t))
	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	store.Save(ctx, domain.Account{ID: "acc-1", Name: "Ana", Email: "ana@clinic.com", CreatedAt: time.Now()})
	store.Delete(ctx, "acc-1")
	if _, err := store.GetByEmail(ctx, "ana@clinic.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
}
