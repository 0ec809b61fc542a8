package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/subscription"
)

// Demo credentials created by the synthetic seed.
const (
	DemoEmail    = "demo@agenda.dev"
	DemoPassword = "demo-password"
)

type synAccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// SyntheticSeedDeps holds all stores needed for synthetic data seeding.
type SyntheticSeedDeps struct {
	AccountStore     synAccountStore
	ClinicStore      ClinicStoreForCreate
	DoctorStore      DoctorStoreForUpsert
	PatientStore     PatientStoreForUpsert
	AppointmentStore AppointmentStoreForUpsert
	Faker            *gofakeit.Faker
	GenerateID       func() string
	Now              func() time.Time
}

// SyntheticSeedSizes sets how much fake data is generated.
type SyntheticSeedSizes struct {
	Patients     int
	Appointments int
}

var seedSpecialities = []string{
	"Cardiologia",
	"Dermatologia",
	"Pediatria",
	"Ortopedia",
	"Oftalmologia",
	"Neurologia",
	"Ginecologia",
	"Clínica Geral",
}

// ExecuteSeedSynthetic creates a demo account with a clinic, the essential
// plan, doctors up to the plan limit, and fake patients and appointments
// spread around now.
// PRE: Database is initialized
// POST: Nothing is written if any account already exists
func ExecuteSeedSynthetic(ctx context.Context, sizes SyntheticSeedSizes, deps SyntheticSeedDeps) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("seed_skipped", "reason", "accounts_exist", "count", count)
		return nil
	}
	f := deps.Faker

	acct, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Name:     f.Name(),
		Email:    DemoEmail,
		Password: DemoPassword,
	}, CreateAccountDeps{AccountStore: deps.AccountStore, GenerateID: deps.GenerateID, Now: deps.Now})
	if err != nil {
		return fmt.Errorf("seed account: %w", err)
	}
	plan, err := ExecuteSelectPlan(ctx, SelectPlanInput{AccountID: acct.ID, PlanID: subscription.PlanEssential}, PlanDeps{AccountStore: deps.AccountStore})
	if err != nil {
		return fmt.Errorf("seed plan: %w", err)
	}
	c, err := ExecuteCreateClinic(ctx, CreateClinicInput{
		AccountID: acct.ID,
		Name:      "Clínica " + f.LastName(),
	}, CreateClinicDeps{AccountStore: deps.AccountStore, ClinicStore: deps.ClinicStore, GenerateID: deps.GenerateID, Now: deps.Now})
	if err != nil {
		return fmt.Errorf("seed clinic: %w", err)
	}

	doctorDeps := DoctorDeps{DoctorStore: deps.DoctorStore, GenerateID: deps.GenerateID, Now: deps.Now}
	var doctors []doctor.Doctor
	nDoctors := plan.MaxDoctors
	if nDoctors == 0 {
		nDoctors = 3
	}
	for i := 0; i < nDoctors; i++ {
		from := 7 + f.Number(0, 3)
		d, err := ExecuteUpsertDoctor(ctx, UpsertDoctorInput{
			ClinicID:                c.ID,
			Plan:                    plan.ID,
			Name:                    "Dr. " + f.Name(),
			Speciality:              f.RandomString(seedSpecialities),
			AppointmentPriceInCents: int64(f.Number(80, 400)) * 100,
			AvailableFromWeekDay:    1,
			AvailableToWeekDay:      5,
			AvailableFromTime:       fmt.Sprintf("%02d:00", from),
			AvailableToTime:         fmt.Sprintf("%02d:00", from+10),
		}, doctorDeps)
		if err != nil {
			return fmt.Errorf("seed doctor: %w", err)
		}
		doctors = append(doctors, d)
	}

	patientDeps := PatientDeps{PatientStore: deps.PatientStore, GenerateID: deps.GenerateID, Now: deps.Now}
	patients := make([]patient.Patient, 0, sizes.Patients)
	for i := 0; i < sizes.Patients; i++ {
		sex := patient.SexFemale
		if f.Bool() {
			sex = patient.SexMale
		}
		p, err := ExecuteUpsertPatient(ctx, UpsertPatientInput{
			ClinicID:    c.ID,
			Name:        f.Name(),
			Email:       f.Email(),
			PhoneNumber: f.Phone(),
			Sex:         sex,
		}, patientDeps)
		if err != nil {
			return fmt.Errorf("seed patient: %w", err)
		}
		patients = append(patients, p)
	}

	if len(patients) == 0 || len(doctors) == 0 {
		return nil
	}
	appointmentDeps := AppointmentDeps{
		AppointmentStore: deps.AppointmentStore,
		PatientStore:     deps.PatientStore,
		DoctorStore:      deps.DoctorStore,
		GenerateID:       deps.GenerateID,
		Now:              deps.Now,
	}
	today := deps.Now()
	for i := 0; i < sizes.Appointments; i++ {
		d := doctors[f.Number(0, len(doctors)-1)]
		_, err := ExecuteUpsertAppointment(ctx, UpsertAppointmentInput{
			ClinicID:                c.ID,
			PatientID:               patients[f.Number(0, len(patients)-1)].ID,
			DoctorID:                d.ID,
			AppointmentPriceInCents: d.AppointmentPriceInCents,
			Date:                    today.AddDate(0, 0, f.Number(-20, 20)),
			Time:                    f.RandomString(appointment.TimeSlots),
		}, appointmentDeps)
		if err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}
	}

	slog.Info("seed_complete", "email", DemoEmail, "clinic_id", c.ID,
		"doctors", len(doctors), "patients", len(patients), "appointments", sizes.Appointments)
	return nil
}
