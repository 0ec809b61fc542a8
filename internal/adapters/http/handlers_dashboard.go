package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/application/projections"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
)

var errBadDate = errors.New("dates must use YYYY-MM-DD")

// dashboardQuery reads ?from and ?to. Missing values are left zero so the
// projection applies its default range.
func (s *Server) dashboardQuery(r *http.Request) (projections.GetDashboardQuery, error) {
	q := projections.GetDashboardQuery{
		ClinicID: currentSession(r).ClinicID,
		Today:    s.now(),
	}
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if q.From, err = time.Parse(appointment.DateLayout, raw); err != nil {
			return q, errBadDate
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if q.To, err = time.Parse(appointment.DateLayout, raw); err != nil {
			return q, errBadDate
		}
	}
	return q, nil
}

func (s *Server) dashboardDeps() projections.GetDashboardDeps {
	return projections.GetDashboardDeps{
		AppointmentStore: s.stores.AppointmentStore,
		DoctorStore:      s.stores.DoctorStore,
		PatientStore:     s.stores.PatientStore,
	}
}

// handleDashboard renders the clinic dashboard. An invalid range falls back
// to the default one with an error banner.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	query, err := s.dashboardQuery(r)
	if err != nil {
		data["Error"] = err.Error()
		query.From, query.To = time.Time{}, time.Time{}
	}
	result, err := projections.QueryGetDashboard(r.Context(), query, s.dashboardDeps())
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			internalError(w, r, err)
			return
		}
		data["Error"] = msg
		query.From, query.To = time.Time{}, time.Time{}
		if result, err = projections.QueryGetDashboard(r.Context(), query, s.dashboardDeps()); err != nil {
			internalError(w, r, err)
			return
		}
	}
	data["Dashboard"] = result
	renderTemplate(w, r, "dashboard.html", data)
}

type dashboardDoctorJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Speciality   string `json:"speciality"`
	Appointments int    `json:"appointments"`
}

type dashboardSpecialityJSON struct {
	Speciality   string  `json:"speciality"`
	Appointments int     `json:"appointments"`
	Progress     float64 `json:"progress"`
	Category     string  `json:"category"`
}

type dashboardDayJSON struct {
	Date         string `json:"date"`
	Appointments int    `json:"appointments"`
	RevenueCents int64  `json:"revenueCents"`
}

type dashboardJSON struct {
	From              string                    `json:"from"`
	To                string                    `json:"to"`
	TotalRevenueCents int64                     `json:"totalRevenueInCents"`
	TotalAppointments int                       `json:"totalAppointments"`
	TotalPatients     int                       `json:"totalPatients"`
	TotalDoctors      int                       `json:"totalDoctors"`
	TopDoctors        []dashboardDoctorJSON     `json:"topDoctors"`
	TopSpecialities   []dashboardSpecialityJSON `json:"topSpecialities"`
	Daily             []dashboardDayJSON        `json:"dailyAppointments"`
	Today             []appointmentJSON         `json:"todayAppointments"`
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	query, err := s.dashboardQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := projections.QueryGetDashboard(r.Context(), query, s.dashboardDeps())
	if err != nil {
		apiError(w, r, err)
		return
	}

	out := dashboardJSON{
		From:              res.From.Format(appointment.DateLayout),
		To:                res.To.Format(appointment.DateLayout),
		TotalRevenueCents: res.TotalRevenueCents,
		TotalAppointments: res.TotalAppointments,
		TotalPatients:     res.TotalPatients,
		TotalDoctors:      res.TotalDoctors,
		TopDoctors:        make([]dashboardDoctorJSON, 0, len(res.TopDoctors)),
		TopSpecialities:   make([]dashboardSpecialityJSON, 0, len(res.TopSpecialities)),
		Daily:             make([]dashboardDayJSON, 0, len(res.Daily)),
		Today:             make([]appointmentJSON, 0, len(res.Today)),
	}
	for _, d := range res.TopDoctors {
		out.TopDoctors = append(out.TopDoctors, dashboardDoctorJSON(d))
	}
	for _, sp := range res.TopSpecialities {
		out.TopSpecialities = append(out.TopSpecialities, dashboardSpecialityJSON{
			Speciality:   sp.Speciality,
			Appointments: sp.Appointments,
			Progress:     sp.Progress,
			Category:     string(sp.Category),
		})
	}
	for _, p := range res.Daily {
		out.Daily = append(out.Daily, dashboardDayJSON{
			Date:         p.Date.Format(appointment.DateLayout),
			Appointments: p.Appointments,
			RevenueCents: p.RevenueCents,
		})
	}
	for _, a := range res.Today {
		out.Today = append(out.Today, appointmentJSON{
			ID:                      a.ID,
			PatientID:               a.PatientID,
			DoctorID:                a.DoctorID,
			AppointmentPriceInCents: a.AppointmentPriceInCents,
			Date:                    a.DateString(),
			Time:                    a.Time,
			PatientName:             a.PatientName,
			DoctorName:              a.DoctorName,
			DoctorSpeciality:        a.DoctorSpeciality,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
