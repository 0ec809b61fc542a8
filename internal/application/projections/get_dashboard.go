package projections

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/speciality"
)

// Dashboard list sizes.
const (
	TopDoctorsLimit      = 10
	TopSpecialitiesLimit = 10
)

// MaxRangeDays bounds the dashboard date range.
const MaxRangeDays = 366

var (
	ErrInvalidRange = errors.New("start date must not be after end date")
	ErrRangeTooLong = errors.New("date range cannot exceed one year")
)

// GetDashboardQuery carries input for the dashboard projection.
// Zero From/To default to the month containing Today.
type GetDashboardQuery struct {
	ClinicID string
	From     time.Time
	To       time.Time
	Today    time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	AppointmentStore AppointmentStore
	DoctorStore      DoctorStore
	PatientStore     PatientStore
}

// TopDoctor is a doctor ranked by appointments in the range.
type TopDoctor struct {
	ID           string
	Name         string
	Speciality   string
	Appointments int
}

// DailyPoint is one day of the appointments chart.
type DailyPoint struct {
	Date         time.Time
	Appointments int
	RevenueCents int64
}

// GetDashboardResult carries the dashboard data.
type GetDashboardResult struct {
	From              time.Time
	To                time.Time
	TotalRevenueCents int64
	TotalAppointments int
	TotalPatients     int
	TotalDoctors      int
	TopDoctors        []TopDoctor
	TopSpecialities   []speciality.Ranked
	Daily             []DailyPoint
	Today             []appointment.Row
}

// QueryGetDashboard aggregates the clinic's appointments in [From, To].
// PRE: ClinicID non-empty, Today set
// POST: Daily has one point per day of the range, including empty days
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	from, to := DefaultRange(query.Today, query.From, query.To)
	if from.After(to) {
		return GetDashboardResult{}, ErrInvalidRange
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return GetDashboardResult{}, ErrRangeTooLong
	}
	result := GetDashboardResult{From: from, To: to}

	rows, err := deps.AppointmentStore.List(ctx, appointment.ListFilter{ClinicID: query.ClinicID, From: from, To: to})
	if err != nil {
		return GetDashboardResult{}, err
	}
	if result.TotalPatients, err = deps.PatientStore.Count(ctx, query.ClinicID); err != nil {
		return GetDashboardResult{}, err
	}
	if result.TotalDoctors, err = deps.DoctorStore.Count(ctx, query.ClinicID); err != nil {
		return GetDashboardResult{}, err
	}

	doctors := make(map[string]*TopDoctor)
	bySpeciality := make(map[string]int)
	daily := make(map[string]*DailyPoint)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		daily[d.Format(dayKey)] = &DailyPoint{Date: d}
	}

	for _, r := range rows {
		result.TotalRevenueCents += r.AppointmentPriceInCents
		result.TotalAppointments++

		td, ok := doctors[r.DoctorID]
		if !ok {
			td = &TopDoctor{ID: r.DoctorID, Name: r.DoctorName, Speciality: r.DoctorSpeciality}
			doctors[r.DoctorID] = td
		}
		td.Appointments++
		bySpeciality[r.DoctorSpeciality]++

		if p, ok := daily[r.Date.Format(dayKey)]; ok {
			p.Appointments++
			p.RevenueCents += r.AppointmentPriceInCents
		}
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		result.Daily = append(result.Daily, *daily[d.Format(dayKey)])
	}

	result.TopDoctors = make([]TopDoctor, 0, len(doctors))
	for _, td := range doctors {
		result.TopDoctors = append(result.TopDoctors, *td)
	}
	sort.Slice(result.TopDoctors, func(i, j int) bool {
		a, b := result.TopDoctors[i], result.TopDoctors[j]
		if a.Appointments != b.Appointments {
			return a.Appointments > b.Appointments
		}
		return a.Name < b.Name
	})
	if len(result.TopDoctors) > TopDoctorsLimit {
		result.TopDoctors = result.TopDoctors[:TopDoctorsLimit]
	}

	counts := make([]speciality.Count, 0, len(bySpeciality))
	for name, n := range bySpeciality {
		counts = append(counts, speciality.Count{Speciality: name, Appointments: n})
	}
	result.TopSpecialities = speciality.Rank(counts, TopSpecialitiesLimit)

	today := dayOf(query.Today)
	if today.Before(from) || today.After(to) {
		result.Today, err = deps.AppointmentStore.List(ctx, appointment.ListFilter{ClinicID: query.ClinicID, From: today, To: today})
		if err != nil {
			return GetDashboardResult{}, err
		}
	} else {
		for _, r := range rows {
			if r.Date.Equal(today) {
				result.Today = append(result.Today, r)
			}
		}
	}

	return result, nil
}

const dayKey = "2006-01-02"

// DefaultRange fills zero bounds with the month containing today and drops
// clock parts.
func DefaultRange(today, from, to time.Time) (time.Time, time.Time) {
	if from.IsZero() {
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	}
	return dayOf(from), dayOf(to)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
