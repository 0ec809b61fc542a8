package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/clinic"
)

func TestExecuteCreateClinic_LinksAccount(t *testing.T) {
	accounts := newMockAccountStore(account.Account{ID: "acc-1", Name: "Ana", Email: "ana@clinic.test"})
	clinics := newMockClinicStore()
	deps := CreateClinicDeps{AccountStore: accounts, ClinicStore: clinics, GenerateID: sequentialIDs("cli"), Now: testNow}

	c, err := ExecuteCreateClinic(context.Background(), CreateClinicInput{AccountID: "acc-1", Name: " Clínica Vida "}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Clínica Vida" || clinics.clinics["cli-1"].ID != "cli-1" {
		t.Errorf("clinic not saved as expected: %+v", c)
	}
	if accounts.accounts["acc-1"].ClinicID != "cli-1" {
		t.Errorf("expected account linked to cli-1, got %q", accounts.accounts["acc-1"].ClinicID)
	}

	_, err = ExecuteCreateClinic(context.Background(), CreateClinicInput{AccountID: "acc-1", Name: "Second"}, deps)
	if !errors.Is(err, ErrClinicAlreadyLinked) {
		t.Errorf("expected ErrClinicAlreadyLinked, got %v", err)
	}
}

func TestExecuteCreateClinic_Errors(t *testing.T) {
	deps := CreateClinicDeps{
		AccountStore: newMockAccountStore(account.Account{ID: "acc-1"}),
		ClinicStore:  newMockClinicStore(),
		GenerateID:   sequentialIDs("cli"),
		Now:          testNow,
	}
	if _, err := ExecuteCreateClinic(context.Background(), CreateClinicInput{AccountID: "missing", Name: "X"}, deps); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := ExecuteCreateClinic(context.Background(), CreateClinicInput{AccountID: "acc-1", Name: "   "}, deps); !errors.Is(err, clinic.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}
