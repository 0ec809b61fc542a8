package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	emailAdapter "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/email"
	appointmentStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/account"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/clinic"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

var testTime = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

// sequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var errStoreDown = errors.New("store unavailable")

// mockAccountStore is an in-memory account store.
type mockAccountStore struct {
	accounts map[string]account.Account
	saveErr  error
	saves    int
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: make(map[string]account.Account)}
	for _, a := range accts {
		m.accounts[a.ID] = a
	}
	return m
}

// GetByID returns the account or sql.ErrNoRows.
func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, sql.ErrNoRows
	}
	return a, nil
}

// GetByEmail returns the account with a matching email or sql.ErrNoRows.
func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == account.NormalizeEmail(email) {
			return a, nil
		}
	}
	return account.Account{}, sql.ErrNoRows
}

// Save stores the account.
func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.accounts[a.ID] = a
	return nil
}

// Count returns the number of accounts.
func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockClinicStore struct {
	clinics map[string]clinic.Clinic
}

func newMockClinicStore() *mockClinicStore {
	return &mockClinicStore{clinics: make(map[string]clinic.Clinic)}
}

func (m *mockClinicStore) GetByID(_ context.Context, id string) (clinic.Clinic, error) {
	c, ok := m.clinics[id]
	if !ok {
		return clinic.Clinic{}, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockClinicStore) Save(_ context.Context, c clinic.Clinic) error {
	m.clinics[c.ID] = c
	return nil
}

// mockDoctorStore is an in-memory doctor store scoped by clinic.
type mockDoctorStore struct {
	doctors map[string]doctor.Doctor
	getErr  error
}

func newMockDoctorStore(ds ...doctor.Doctor) *mockDoctorStore {
	m := &mockDoctorStore{doctors: make(map[string]doctor.Doctor)}
	for _, d := range ds {
		m.doctors[d.ID] = d
	}
	return m
}

func (m *mockDoctorStore) GetByID(_ context.Context, clinicID, id string) (doctor.Doctor, error) {
	if m.getErr != nil {
		return doctor.Doctor{}, m.getErr
	}
	d, ok := m.doctors[id]
	if !ok || d.ClinicID != clinicID {
		return doctor.Doctor{}, sql.ErrNoRows
	}
	return d, nil
}

func (m *mockDoctorStore) Save(_ context.Context, d doctor.Doctor) error {
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorStore) Delete(_ context.Context, clinicID, id string) error {
	d, ok := m.doctors[id]
	if !ok || d.ClinicID != clinicID {
		return sql.ErrNoRows
	}
	delete(m.doctors, id)
	return nil
}

func (m *mockDoctorStore) Count(_ context.Context, clinicID string) (int, error) {
	n := 0
	for _, d := range m.doctors {
		if d.ClinicID == clinicID {
			n++
		}
	}
	return n, nil
}

// mockPatientStore is an in-memory patient store scoped by clinic.
type mockPatientStore struct {
	patients map[string]patient.Patient
}

func newMockPatientStore(ps ...patient.Patient) *mockPatientStore {
	m := &mockPatientStore{patients: make(map[string]patient.Patient)}
	for _, p := range ps {
		m.patients[p.ID] = p
	}
	return m
}

func (m *mockPatientStore) GetByID(_ context.Context, clinicID, id string) (patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok || p.ClinicID != clinicID {
		return patient.Patient{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockPatientStore) Save(_ context.Context, p patient.Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientStore) Delete(_ context.Context, clinicID, id string) error {
	p, ok := m.patients[id]
	if !ok || p.ClinicID != clinicID {
		return sql.ErrNoRows
	}
	delete(m.patients, id)
	return nil
}

// mockAppointmentStore is an in-memory appointment store. List joins names
// from the patient and doctor stores it is given.
type mockAppointmentStore struct {
	appointments map[string]appointment.Appointment
	patients     *mockPatientStore
	doctors      *mockDoctorStore
	saves        int
}

func newMockAppointmentStore(patients *mockPatientStore, doctors *mockDoctorStore) *mockAppointmentStore {
	return &mockAppointmentStore{
		appointments: make(map[string]appointment.Appointment),
		patients:     patients,
		doctors:      doctors,
	}
}

func (m *mockAppointmentStore) GetByID(_ context.Context, clinicID, id string) (appointment.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok || a.ClinicID != clinicID {
		return appointment.Appointment{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAppointmentStore) Save(_ context.Context, a appointment.Appointment) error {
	m.saves++
	m.appointments[a.ID] = a
	return nil
}

func (m *mockAppointmentStore) Delete(_ context.Context, clinicID, id string) error {
	a, ok := m.appointments[id]
	if !ok || a.ClinicID != clinicID {
		return sql.ErrNoRows
	}
	delete(m.appointments, id)
	return nil
}

func (m *mockAppointmentStore) List(_ context.Context, f appointmentStore.ListFilter) ([]appointmentStore.Row, error) {
	var rows []appointmentStore.Row
	for _, a := range m.appointments {
		if a.ClinicID != f.ClinicID {
			continue
		}
		if !f.From.IsZero() && a.Date.Before(calendarDay(f.From)) {
			continue
		}
		if !f.To.IsZero() && a.Date.After(calendarDay(f.To)) {
			continue
		}
		r := appointmentStore.Row{Appointment: a}
		if p, ok := m.patients.patients[a.PatientID]; ok {
			r.PatientName, r.PatientEmail = p.Name, p.Email
		}
		if d, ok := m.doctors.doctors[a.DoctorID]; ok {
			r.DoctorName, r.DoctorSpeciality = d.Name, d.Speciality
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// failingSender fails every send.
type failingSender struct{}

func (failingSender) Send(context.Context, emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	return emailAdapter.SendResult{}, errors.New("provider down")
}

func (failingSender) SendBatch(context.Context, []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	return nil, errors.New("provider down")
}
