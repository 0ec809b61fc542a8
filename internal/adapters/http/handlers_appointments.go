package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luisafalquetoz/agenda-clinicas/internal/application/orchestrators"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/projections"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/appointmentform"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/money"
)

// Form events posted by the appointment dialog.
const (
	eventOpen          = "open"
	eventSelectPatient = "select_patient"
	eventSelectDoctor  = "select_doctor"
	eventSetPrice      = "set_price"
	eventSetDate       = "set_date"
	eventSetTime       = "set_time"
	eventSubmit        = "submit"
)

func knownEvent(e string) bool {
	switch e {
	case eventOpen, eventSelectPatient, eventSelectDoctor, eventSetPrice, eventSetDate, eventSetTime, eventSubmit:
		return true
	}
	return false
}

func (s *Server) appointmentDeps() orchestrators.AppointmentDeps {
	return orchestrators.AppointmentDeps{
		AppointmentStore: s.stores.AppointmentStore,
		PatientStore:     s.stores.PatientStore,
		DoctorStore:      s.stores.DoctorStore,
		ClinicStore:      s.stores.ClinicStore,
		Sender:           s.sender,
		GenerateID:       s.generateID,
		Now:              s.now,
	}
}

// formFields is the draft as posted by the dialog. Price is in cents; -1
// means the posted amount could not be parsed.
type formFields struct {
	ID        string
	PatientID string
	DoctorID  string
	Price     int64
	Date      time.Time
	Time      string
}

// formDialog is everything the dialog template needs.
type formDialog struct {
	State     appointmentform.State
	Errors    appointmentform.Errors
	Failure   string
	Patients  []projections.PatientListItem
	TimeSlots []string
	MinDate   string
}

// restoreForm rebuilds the dialog state from posted fields. The reducer is
// replayed in field order so enablement rules hold. When the event picked a
// doctor, the posted price is dropped so the doctor's price applies. An
// unparseable price clears the field so validation reports it. The open
// event ignores posted fields.
func restoreForm(base appointmentform.State, existing *appointment.Appointment, f formFields, event string, now time.Time) appointmentform.State {
	st := appointmentform.Reduce(base, appointmentform.Open{Existing: existing})
	if event == eventOpen {
		return st
	}
	st = appointmentform.Reduce(st, appointmentform.SelectPatient{PatientID: f.PatientID})
	st = appointmentform.Reduce(st, appointmentform.SelectDoctor{DoctorID: f.DoctorID})
	if event != eventSelectDoctor {
		st = appointmentform.Reduce(st, appointmentform.SetPrice{Cents: max(f.Price, 0)})
	}
	st = appointmentform.Reduce(st, appointmentform.SetDate{Date: f.Date, Now: now})
	st = appointmentform.Reduce(st, appointmentform.SetTime{Time: f.Time})
	return st
}

func parseFormFields(r *http.Request) formFields {
	f := formFields{
		ID:        r.FormValue("id"),
		PatientID: r.FormValue("patient_id"),
		DoctorID:  r.FormValue("doctor_id"),
		Time:      r.FormValue("time"),
		Price:     -1,
	}
	if raw := r.FormValue("appointment_price"); raw == "" {
		f.Price = 0
	} else if cents, err := money.ParseCents(raw); err == nil {
		f.Price = cents
	}
	if d, err := time.Parse(appointment.DateLayout, r.FormValue("date")); err == nil {
		f.Date = d
	}
	return f
}

// handleAppointmentsPage lists appointments. ?new=1 opens the dialog in
// create mode and ?edit=<id> in edit mode.
func (s *Server) handleAppointmentsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var dialog *formDialog
	switch {
	case q.Get("edit") != "":
		existing, err := s.stores.AppointmentStore.GetByID(r.Context(), currentSession(r).ClinicID, q.Get("edit"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		st, err := s.openForm(r.Context(), existing.ClinicID, &existing)
		if err != nil {
			internalError(w, r, err)
			return
		}
		dialog = &formDialog{State: st}
	case q.Get("new") != "":
		st, err := s.openForm(r.Context(), currentSession(r).ClinicID, nil)
		if err != nil {
			internalError(w, r, err)
			return
		}
		dialog = &formDialog{State: st}
	}
	s.renderAppointments(w, r, http.StatusOK, dialog, q.Get("notice"))
}

// openForm opens the dialog over the clinic's doctor catalogue.
func (s *Server) openForm(ctx context.Context, clinicID string, existing *appointment.Appointment) (appointmentform.State, error) {
	doctors, err := s.stores.DoctorStore.ListByClinic(ctx, clinicID)
	if err != nil {
		return appointmentform.State{}, err
	}
	return appointmentform.Reduce(appointmentform.State{Doctors: doctors}, appointmentform.Open{Existing: existing}), nil
}

func (s *Server) renderAppointments(w http.ResponseWriter, r *http.Request, status int, dialog *formDialog, notice string) {
	ctx := r.Context()
	clinicID := currentSession(r).ClinicID
	now := s.now()

	list, err := projections.QueryGetAppointmentList(ctx, projections.GetAppointmentListQuery{ClinicID: clinicID, Now: now},
		projections.GetAppointmentListDeps{AppointmentStore: s.stores.AppointmentStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	if dialog != nil {
		dialog.Patients, err = projections.QueryGetPatientList(ctx, clinicID, projections.GetPatientListDeps{PatientStore: s.stores.PatientStore})
		if err != nil {
			internalError(w, r, err)
			return
		}
		dialog.TimeSlots = appointment.TimeSlots
		dialog.MinDate = now.AddDate(0, 0, 1).Format(appointment.DateLayout)
	}
	renderTemplateStatus(w, r, status, "appointments.html", map[string]any{
		"Appointments": list.Appointments,
		"Dialog":       dialog,
		"Notice":       notice,
	})
}

// htmlNotifier records the submission outcome for the re-rendered page.
type htmlNotifier struct {
	success string
	failure string
}

func (n *htmlNotifier) Success(msg string) { n.success = msg }
func (n *htmlNotifier) Failure(msg string) { n.failure = msg }

// handleAppointmentForm applies one dialog event. Non-submit events
// re-render the dialog with the reduced state.
func (s *Server) handleAppointmentForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	event := r.FormValue("event")
	if !knownEvent(event) {
		http.Error(w, "unknown form event", http.StatusBadRequest)
		return
	}
	f := parseFormFields(r)
	st, err := s.formStateFromRequest(r, f, event)
	if err != nil {
		formError(w, r, err, func(string) { http.NotFound(w, r) })
		return
	}

	if event != eventSubmit {
		dialog := &formDialog{State: st}
		if f.Price < 0 && event != eventSelectDoctor && st.PriceEnabled() {
			dialog.Errors = appointmentform.Errors{appointmentform.FieldPrice: appointmentform.MsgPriceRequired}
		}
		s.renderAppointments(w, r, http.StatusOK, dialog, "")
		return
	}

	ctrl := appointmentform.NewController(st)
	notifier := &htmlNotifier{}
	saved := false
	errs, err := ctrl.Submit(r.Context(), s.upserter(currentSession(r).ClinicID), notifier, func() { saved = true })
	switch {
	case saved:
		http.Redirect(w, r, "/appointments?notice=saved", http.StatusSeeOther)
	case errors.Is(err, appointmentform.ErrInvalid):
		s.renderAppointments(w, r, http.StatusUnprocessableEntity, &formDialog{State: ctrl.State(), Errors: errs}, "")
	default:
		s.renderAppointments(w, r, http.StatusOK, &formDialog{State: ctrl.State(), Failure: notifier.failure}, "")
	}
}

// formStateFromRequest loads the edited appointment, if any, and replays the
// posted fields onto a fresh dialog.
func (s *Server) formStateFromRequest(r *http.Request, f formFields, event string) (appointmentform.State, error) {
	var existing *appointment.Appointment
	if f.ID != "" {
		a, err := s.stores.AppointmentStore.GetByID(r.Context(), currentSession(r).ClinicID, f.ID)
		if err != nil {
			return appointmentform.State{}, orchestrators.ErrNotFound
		}
		existing = &a
	}
	base, err := s.openForm(r.Context(), currentSession(r).ClinicID, nil)
	if err != nil {
		return appointmentform.State{}, err
	}
	return restoreForm(base, existing, f, event, s.now()), nil
}

// upserter sends form submissions to the upsert operation of clinicID.
func (s *Server) upserter(clinicID string) appointmentform.Upserter {
	return appointmentform.UpserterFunc(func(ctx context.Context, in appointmentform.UpsertInput) error {
		_, err := orchestrators.ExecuteUpsertAppointment(ctx, orchestrators.UpsertAppointmentInput{
			ClinicID:                clinicID,
			ID:                      in.ID,
			PatientID:               in.PatientID,
			DoctorID:                in.DoctorID,
			AppointmentPriceInCents: in.AppointmentPriceInCents,
			Date:                    in.Date,
			Time:                    in.Time,
		}, s.appointmentDeps())
		if err != nil {
			slog.Warn("appointment_upsert_failed", "clinic_id", clinicID, "appointment_id", in.ID, "error", err)
		}
		return err
	})
}

// handleDeleteAppointmentForm deletes an appointment and returns to the list.
func (s *Server) handleDeleteAppointmentForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteAppointment(r.Context(), currentSession(r).ClinicID, chi.URLParam(r, "id"), s.appointmentDeps())
	if err != nil {
		formError(w, r, err, func(string) { http.Redirect(w, r, "/appointments", http.StatusSeeOther) })
		return
	}
	http.Redirect(w, r, "/appointments?notice=deleted", http.StatusSeeOther)
}

// handleSendReminders emails tomorrow's patients.
func (s *Server) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteSendReminders(r.Context(), currentSession(r).ClinicID, orchestrators.SendRemindersDeps{
		AppointmentStore: s.stores.AppointmentStore,
		ClinicStore:      s.stores.ClinicStore,
		Sender:           s.sender,
		Now:              s.now,
	})
	if err != nil {
		slog.Warn("reminders_failed", "error", err)
		http.Redirect(w, r, "/appointments?notice=reminders_failed", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/appointments?notice=reminders", http.StatusSeeOther)
}

// appointmentJSON is the API shape of an appointment.
type appointmentJSON struct {
	ID                      string `json:"id,omitempty"`
	PatientID               string `json:"patientId"`
	DoctorID                string `json:"doctorId"`
	AppointmentPriceInCents int64  `json:"appointmentPriceInCents"`
	Date                    string `json:"date"`
	Time                    string `json:"time"`
	PatientName             string `json:"patientName,omitempty"`
	DoctorName              string `json:"doctorName,omitempty"`
	DoctorSpeciality        string `json:"doctorSpeciality,omitempty"`
}

func (s *Server) handleAPIListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := projections.GetAppointmentListQuery{
		ClinicID: currentSession(r).ClinicID,
		DoctorID: q.Get("doctor_id"),
		Now:      s.now(),
	}
	for key, dst := range map[string]*time.Time{"from": &query.From, "to": &query.To} {
		if raw := q.Get(key); raw != "" {
			t, err := time.Parse(appointment.DateLayout, raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + key + " date"})
				return
			}
			*dst = t
		}
	}
	list, err := projections.QueryGetAppointmentList(r.Context(), query,
		projections.GetAppointmentListDeps{AppointmentStore: s.stores.AppointmentStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]appointmentJSON, 0, len(list.Appointments))
	for _, it := range list.Appointments {
		out = append(out, appointmentJSON{
			ID:                      it.ID,
			PatientID:               it.PatientID,
			DoctorID:                it.DoctorID,
			AppointmentPriceInCents: it.AppointmentPriceInCents,
			Date:                    it.DateString(),
			Time:                    it.Time,
			PatientName:             it.PatientName,
			DoctorName:              it.DoctorName,
			DoctorSpeciality:        it.DoctorSpeciality,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIUpsertAppointment(w http.ResponseWriter, r *http.Request) {
	var body appointmentJSON
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	var date time.Time
	if body.Date != "" {
		d, err := time.Parse(appointment.DateLayout, body.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must use YYYY-MM-DD"})
			return
		}
		date = d
	}
	a, err := orchestrators.ExecuteUpsertAppointment(r.Context(), orchestrators.UpsertAppointmentInput{
		ClinicID:                currentSession(r).ClinicID,
		ID:                      body.ID,
		PatientID:               body.PatientID,
		DoctorID:                body.DoctorID,
		AppointmentPriceInCents: body.AppointmentPriceInCents,
		Date:                    date,
		Time:                    body.Time,
	}, s.appointmentDeps())
	if err != nil {
		apiError(w, r, err)
		return
	}
	status := http.StatusOK
	if body.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, appointmentJSON{
		ID:                      a.ID,
		PatientID:               a.PatientID,
		DoctorID:                a.DoctorID,
		AppointmentPriceInCents: a.AppointmentPriceInCents,
		Date:                    a.DateString(),
		Time:                    a.Time,
	})
}

func (s *Server) handleAPIDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteAppointment(r.Context(), currentSession(r).ClinicID, chi.URLParam(r, "id"), s.appointmentDeps()); err != nil {
		apiError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// formRequest is the JSON body of POST /api/appointments/form.
type formRequest struct {
	ID                      string `json:"id,omitempty"`
	PatientID               string `json:"patientId"`
	DoctorID                string `json:"doctorId"`
	AppointmentPriceInCents int64  `json:"appointmentPriceInCents"`
	Date                    string `json:"date"`
	Time                    string `json:"time"`
	Event                   string `json:"event"`
}

// formResponse is the reduced dialog state with its derived fields.
type formResponse struct {
	Draft           appointmentJSON   `json:"draft"`
	IsEdit          bool              `json:"isEdit"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	SubmitLabel     string            `json:"submitLabel"`
	PriceEnabled    bool              `json:"priceEnabled"`
	DateTimeEnabled bool              `json:"dateTimeEnabled"`
	TimeSlots       []string          `json:"timeSlots"`
	Errors          map[string]string `json:"errors"`
}

// handleAPIAppointmentForm reduces a posted draft and returns the resulting
// state. Nothing is saved.
func (s *Server) handleAPIAppointmentForm(w http.ResponseWriter, r *http.Request) {
	var body formRequest
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if body.Event != "" && !knownEvent(body.Event) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown form event"})
		return
	}
	f := formFields{
		ID:        body.ID,
		PatientID: body.PatientID,
		DoctorID:  body.DoctorID,
		Price:     body.AppointmentPriceInCents,
		Time:      body.Time,
	}
	if body.Date != "" {
		d, err := time.Parse(appointment.DateLayout, body.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must use YYYY-MM-DD"})
			return
		}
		f.Date = d
	}

	var existing *appointment.Appointment
	if f.ID != "" {
		a, err := s.stores.AppointmentStore.GetByID(r.Context(), currentSession(r).ClinicID, f.ID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		existing = &a
	}
	base, err := s.openForm(r.Context(), currentSession(r).ClinicID, nil)
	if err != nil {
		internalError(w, r, err)
		return
	}
	st := restoreForm(base, existing, f, body.Event, s.now())

	draft := appointmentJSON{
		PatientID:               st.Draft.PatientID,
		DoctorID:                st.Draft.DoctorID,
		AppointmentPriceInCents: st.Draft.PriceInCents,
		Time:                    st.Draft.Time,
	}
	if existing != nil {
		draft.ID = existing.ID
	}
	if !st.Draft.Date.IsZero() {
		draft.Date = st.Draft.Date.Format(appointment.DateLayout)
	}
	writeJSON(w, http.StatusOK, formResponse{
		Draft:           draft,
		IsEdit:          st.IsEdit(),
		Title:           st.Title(),
		Description:     st.Description(),
		SubmitLabel:     st.SubmitLabel(),
		PriceEnabled:    st.PriceEnabled(),
		DateTimeEnabled: st.DateTimeEnabled(),
		TimeSlots:       appointment.TimeSlots,
		Errors:          appointmentform.Validate(st.Draft),
	})
}
