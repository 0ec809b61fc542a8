package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luisafalquetoz/agenda-clinicas/internal/application/orchestrators"
	"github.com/luisafalquetoz/agenda-clinicas/internal/application/projections"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/patient"
)

func (s *Server) patientDeps() orchestrators.PatientDeps {
	return orchestrators.PatientDeps{PatientStore: s.stores.PatientStore, GenerateID: s.generateID, Now: s.now}
}

// handlePatientsPage lists patients; ?edit=<id> and ?new=1 open the form.
func (s *Server) handlePatientsPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Notice": r.URL.Query().Get("notice")}
	if id := r.URL.Query().Get("edit"); id != "" {
		p, err := s.stores.PatientStore.GetByID(r.Context(), currentSession(r).ClinicID, id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		data["Form"] = p
	} else if r.URL.Query().Get("new") != "" {
		data["Form"] = patient.Patient{}
	}
	s.renderPatients(w, r, data)
}

func (s *Server) renderPatients(w http.ResponseWriter, r *http.Request, data map[string]any) {
	items, err := projections.QueryGetPatientList(r.Context(), currentSession(r).ClinicID,
		projections.GetPatientListDeps{PatientStore: s.stores.PatientStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	data["Patients"] = items
	renderTemplate(w, r, "patients.html", data)
}

// handleUpsertPatientForm handles the patient form post.
func (s *Server) handleUpsertPatientForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.UpsertPatientInput{
		ClinicID:    currentSession(r).ClinicID,
		ID:          r.FormValue("id"),
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		PhoneNumber: r.FormValue("phone_number"),
		Sex:         r.FormValue("sex"),
	}
	if _, err := orchestrators.ExecuteUpsertPatient(r.Context(), input, s.patientDeps()); err != nil {
		formError(w, r, err, func(msg string) {
			s.renderPatients(w, r, map[string]any{
				"Form": patient.Patient{
					ID: input.ID, Name: input.Name, Email: input.Email,
					PhoneNumber: input.PhoneNumber, Sex: input.Sex,
				},
				"Error":  msg,
				"Notice": "",
			})
		})
		return
	}
	http.Redirect(w, r, "/patients?notice=saved", http.StatusSeeOther)
}

// handleDeletePatientForm deletes a patient and returns to the list.
func (s *Server) handleDeletePatientForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeletePatient(r.Context(), currentSession(r).ClinicID, chi.URLParam(r, "id"), s.patientDeps())
	if err != nil {
		formError(w, r, err, func(string) { http.Redirect(w, r, "/patients", http.StatusSeeOther) })
		return
	}
	http.Redirect(w, r, "/patients?notice=deleted", http.StatusSeeOther)
}

// patientJSON is the API shape of a patient.
type patientJSON struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
	Sex         string `json:"sex"`
}

func toPatientJSON(p patient.Patient) patientJSON {
	return patientJSON{ID: p.ID, Name: p.Name, Email: p.Email, PhoneNumber: p.PhoneNumber, Sex: p.Sex}
}

func (s *Server) handleAPIListPatients(w http.ResponseWriter, r *http.Request) {
	items, err := projections.QueryGetPatientList(r.Context(), currentSession(r).ClinicID,
		projections.GetPatientListDeps{PatientStore: s.stores.PatientStore})
	if err != nil {
		internalError(w, r, err)
		return
	}
	out := make([]patientJSON, 0, len(items))
	for _, it := range items {
		out = append(out, toPatientJSON(it.Patient))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPIUpsertPatient(w http.ResponseWriter, r *http.Request) {
	var body patientJSON
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	p, err := orchestrators.ExecuteUpsertPatient(r.Context(), orchestrators.UpsertPatientInput{
		ClinicID:    currentSession(r).ClinicID,
		ID:          body.ID,
		Name:        body.Name,
		Email:       body.Email,
		PhoneNumber: body.PhoneNumber,
		Sex:         body.Sex,
	}, s.patientDeps())
	if err != nil {
		apiError(w, r, err)
		return
	}
	status := http.StatusOK
	if body.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toPatientJSON(p))
}

func (s *Server) handleAPIDeletePatient(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeletePatient(r.Context(), currentSession(r).ClinicID, chi.URLParam(r, "id"), s.patientDeps()); err != nil {
		apiError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
