package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/luisafalquetoz/agenda-clinicas/internal/application/orchestrators"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/projections"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/money"
)

func (s *Server) doctorDeps() orchestrators.DoctorDeps {
	return orchestrators.DoctorDeps{DoctorStore: s.stores.DoctorStore, GenerateID: s.generateID, Now: s.now}
}

// handleDoctorsPage lists doctors; ?edit=<id> opens the form on that doctor
// and ?new=1 opens an empty form.
func (s *Server) handleDoctorsPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	data := map[string]any{"Notice": r.URL.Query().Get("notice")}

	if id := r.URL.Query().Get("edit"); id != "" {
		d, err := s.stores.DoctorStore.GetByID(r.Context(), sess.ClinicID, id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		data["Form"] = d
	} else if r.URL.Query().Get("new") != "" {
		data["Form"] = doctor.Doctor{AvailableFromWeekDay: 1, AvailableToWeekDay: 5, AvailableFromTime: "08:00", AvailableToTime: "18:00"}
	}
	s.renderDoctors(w, r, data)
}

func (s *Server) renderDoctors(w http.ResponseWriter, r *http.Request, data map[string]any) {
	cards, err := projections.QueryGetDoctorList(r.Context(), currentSession(r).ClinicID,
		projections.GetDoctorListDeps{DoctorStore: s.stores.DoctorStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	data["Doctors"] = cards
	renderTemplate(w, r, "doctors.html", data)
}

// handleUpsertDoctorForm handles the doctor form post.
func (s *Server) handleUpsertDoctorForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	sess := currentSession(r)
	input := orchestrators.UpsertDoctorInput{
		ClinicID:             sess.ClinicID,
		Plan:                 sess.Plan,
		ID:                   r.FormValue("id"),
		Name:                 r.FormValue("name"),
		Speciality:           r.FormValue("speciality"),
		AvailableFromWeekDay: atoiOr(r.FormValue("available_from_week_day"), -1),
		AvailableToWeekDay:   atoiOr(r.FormValue("available_to_week_day"), -1),
		AvailableFromTime:    r.FormValue("available_from_time"),
		AvailableToTime:      r.FormValue("available_to_time"),
		Notes:                r.FormValue("notes"),
	}
	form := doctor.Doctor{
		ID: input.ID, Name: input.Name, Speciality: input.Speciality,
		AvailableFromWeekDay: input.AvailableFromWeekDay, AvailableToWeekDay: input.AvailableToWeekDay,
		AvailableFromTime: input.AvailableFromTime, AvailableToTime: input.AvailableToTime, Notes: input.Notes,
	}

	cents, err := money.ParseCents(r.FormValue("appointment_price"))
	if err == nil {
		input.AppointmentPriceInCents = cents
		form.AppointmentPriceInCents = cents
		_, err = orchestrators.ExecuteUpsertDoctor(r.Context(), input, s.doctorDeps())
	}
	if err != nil {
		formError(w, r, err, func(msg string) {
			s.renderDoctors(w, r, map[string]any{"Form": form, "Error": msg, "Notice": ""})
		})
		return
	}
	http.Redirect(w, r, "/doctors?notice=saved", http.StatusSeeOther)
}

// handleDeleteDoctorForm deletes a doctor and returns to the list.
func (s *Server) handleDeleteDoctorForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteDoctor(r.Context(), currentSession(r).ClinicID, chi.URLParam(r, "id"), s.doctorDeps())
	if err != nil {
		formError(w, r, err, func(string) { http.Redirect(w, r, "/doctors", http.StatusSeeOther) })
		return
	}
	http.Redirect(w, r, "/doctors?notice=deleted", http.StatusSeeOther)
}

// doctorJSON is the API shape of a doctor.
type doctorJSON struct {
	ID                      string `json:"id,omitempty"`
	Name                    string `json:"name"`
	Speciality              string `json:"speciality"`
	AppointmentPriceInCents int64  `json:"appointmentPriceInCents"`
	AvailableFromWeekDay    int    `json:"availableFromWeekDay"`
	AvailableToWeekDay      int    `json:"availableToWeekDay"`
	AvailableFromTime       string `json:"availableFromTime"`
	AvailableToTime         string `json:"availableToTime"`
	Notes                   string `json:"notes,omitempty"`
}

func toDoctorJSON(d doctor.Doctor) doctorJSON {
	return doctorJSON{
		ID:                      d.ID,
		Name:                    d.Name,
		Speciality:              d.Speciality,
		AppointmentPriceInCents: d.AppointmentPriceInCents,
		AvailableFromWeekDay:    d.AvailableFromWeekDay,
		AvailableToWeekDay:      d.AvailableToWeekDay,
		AvailableFromTime:       d.AvailableFromTime,
		AvailableToTime:         d.AvailableToTime,
		Notes:                   d.Notes,
	}
}

func (s *Server) handleAPIListDoctors(w http.ResponseWriter, r *http.Request) {
	cards, err := projections.QueryGetDoctorList(r.Context(), currentSession(r).ClinicID,
		projections.GetDoctorListDeps{DoctorStore: s.stores.DoctorStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]doctorJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, toDoctorJSON(c.Doctor))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIUpsertDoctor(w http.ResponseWriter, r *http.Request) {
	var body doctorJSON
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	sess := currentSession(r)
	d, err := orchestrators.ExecuteUpsertDoctor(r.Context(), orchestrators.UpsertDoctorInput{
		ClinicID:                sess.ClinicID,
		Plan:                    sess.Plan,
		ID:                      body.ID,
		Name:                    body.Name,
		Speciality:              body.Speciality,
		AppointmentPriceInCents: body.AppointmentPriceInCents,
		AvailableFromWeekDay:    body.AvailableFromWeekDay,
		AvailableToWeekDay:      body.AvailableToWeekDay,
		AvailableFromTime:       body.AvailableFromTime,
		AvailableToTime:         body.AvailableToTime,
		Notes:                   body.Notes,
	}, s.doctorDeps())
	if err != nil {
		apiError(w, r, err)
		return
	}
	status := http.StatusOK
	if body.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toDoctorJSON(d))
}

func (s *Server) handleAPIDeleteDoctor(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteDoctor(r.Context(), currentSession(r).ClinicID, chi.URLParam(r, "id"), s.doctorDeps()); err != nil {
		apiError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
