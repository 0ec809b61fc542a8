package web

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func validDoctorBody(name string) doctorJSON {
	return doctorJSON{
		Name:                    name,
		Speciality:              "Dermatologia",
		AppointmentPriceInCents: 25000,
		AvailableFromWeekDay:    1,
		AvailableToWeekDay:      5,
		AvailableFromTime:       "08:00",
		AvailableToTime:         "18:00",
	}
}

// TestAPI_RequiresOnboardedSession tests that the API sits behind the page guard.
func TestAPI_RequiresOnboardedSession(t *testing.T) {
	app := newTestApp(t)
	resp := app.sendJSON(http.MethodGet, "/api/doctors", nil)
	expectRedirect(t, resp, "/authentication")

	app.signUp("Ana Souza", "ana@example.com")
	resp = app.sendJSON(http.MethodGet, "/api/doctors", nil)
	expectRedirect(t, resp, "/new-subscription")
}

// TestAPI_Doctors tests create, list, update, delete and the plan limit.
func TestAPI_Doctors(t *testing.T) {
	app := newTestApp(t)
	app.onboard()

	var created doctorJSON
	resp := app.sendJSON(http.MethodPost, "/api/doctors", validDoctorBody("Dr. One"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	decodeJSON(t, resp, &created)
	if created.ID == "" || created.AppointmentPriceInCents != 25000 {
		t.Errorf("unexpected doctor %+v", created)
	}

	update := created
	update.Name = "Dr. One Renamed"
	resp = app.sendJSON(http.MethodPost, "/api/doctors", update)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	for _, name := range []string{"Dr. Two", "Dr. Three"} {
		resp = app.sendJSON(http.MethodPost, "/api/doctors", validDoctorBody(name))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201 for %s, got %d", name, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// The essential plan allows three doctors.
	resp = app.sendJSON(http.MethodPost, "/api/doctors", validDoctorBody("Dr. Four"))
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 over the plan limit, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	var list []doctorJSON
	decodeJSON(t, app.sendJSON(http.MethodGet, "/api/doctors", nil), &list)
	if len(list) != 3 {
		t.Fatalf("expected 3 doctors, got %d", len(list))
	}
	found := false
	for _, d := range list {
		if d.ID == created.ID && d.Name == "Dr. One Renamed" {
			found = true
		}
	}
	if !found {
		t.Error("expected the renamed doctor in the list")
	}

	resp = app.sendJSON(http.MethodDelete, "/api/doctors/"+created.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = app.sendJSON(http.MethodDelete, "/api/doctors/"+created.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAPI_DoctorValidation(t *testing.T) {
	app := newTestApp(t)
	app.onboard()

	body := validDoctorBody("Dr. Late")
	body.AvailableFromTime = "19:00"
	resp := app.sendJSON(http.MethodPost, "/api/doctors", body)
	var out map[string]string
	decodeJSON(t, resp, &out)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if out["error"] == "" {
		t.Error("expected an error message")
	}

	resp = app.sendJSON(http.MethodPost, "/api/doctors", map[string]any{"name": "x", "unknown": true})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown fields, got %d", resp.StatusCode)
	}
}

// TestAPI_Patients tests normalisation and validation.
func TestAPI_Patients(t *testing.T) {
	app := newTestApp(t)
	app.onboard()

	resp := app.sendJSON(http.MethodPost, "/api/patients", patientJSON{
		Name:        "João Pereira",
		Email:       "Joao@Example.com",
		PhoneNumber: "(21) 98888-7777",
		Sex:         "male",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var p patientJSON
	decodeJSON(t, resp, &p)
	if p.Email != "joao@example.com" || p.PhoneNumber != "21988887777" {
		t.Errorf("expected normalised contact fields, got %+v", p)
	}

	resp = app.sendJSON(http.MethodPost, "/api/patients", patientJSON{Name: "X", Email: "x@example.com", PhoneNumber: "21988887777", Sex: "other"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid sex, got %d", resp.StatusCode)
	}

	var list []patientJSON
	decodeJSON(t, app.sendJSON(http.MethodGet, "/api/patients", nil), &list)
	if len(list) != 1 {
		t.Errorf("expected 1 patient, got %d", len(list))
	}

	resp = app.sendJSON(http.MethodDelete, "/api/patients/"+p.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
}

// TestAPI_Appointments tests upsert, filtered listing and delete.
func TestAPI_Appointments(t *testing.T) {
	app, _ := appointmentFixture(t)

	resp := app.sendJSON(http.MethodPost, "/api/appointments", appointmentJSON{
		PatientID:               "pat-1",
		DoctorID:                "doc-1",
		AppointmentPriceInCents: 15000,
		Date:                    "2026-03-11",
		Time:                    "10:00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created appointmentJSON
	decodeJSON(t, resp, &created)

	var list []appointmentJSON
	decodeJSON(t, app.sendJSON(http.MethodGet, "/api/appointments?from=2026-03-11&to=2026-03-11", nil), &list)
	if len(list) != 1 || list[0].PatientName != "Maria Alves" || list[0].DoctorSpeciality != "Cardiologia" {
		t.Fatalf("unexpected list %+v", list)
	}

	decodeJSON(t, app.sendJSON(http.MethodGet, "/api/appointments?doctor_id=doc-2", nil), &list)
	if len(list) != 0 {
		t.Errorf("expected no appointments for doc-2, got %d", len(list))
	}

	resp = app.sendJSON(http.MethodGet, "/api/appointments?from=11-03-2026", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad date, got %d", resp.StatusCode)
	}

	resp = app.sendJSON(http.MethodPost, "/api/appointments", appointmentJSON{
		PatientID:               "pat-1",
		DoctorID:                "doc-1",
		AppointmentPriceInCents: 15000,
		Date:                    "2026-03-11",
		Time:                    "10:30",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for an off-slot time, got %d", resp.StatusCode)
	}

	resp = app.sendJSON(http.MethodPost, "/api/appointments", appointmentJSON{
		ID:                      "missing",
		PatientID:               "pat-1",
		DoctorID:                "doc-1",
		AppointmentPriceInCents: 15000,
		Date:                    "2026-03-11",
		Time:                    "10:00",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 updating a missing appointment, got %d", resp.StatusCode)
	}

	resp = app.sendJSON(http.MethodDelete, "/api/appointments/"+created.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
}

// TestAPI_AppointmentForm tests the stateless reducer endpoint.
func TestAPI_AppointmentForm(t *testing.T) {
	app, clinicID := appointmentFixture(t)

	var out formResponse
	resp := app.sendJSON(http.MethodPost, "/api/appointments/form", formRequest{
		PatientID:               "pat-1",
		DoctorID:                "doc-2",
		AppointmentPriceInCents: 1,
		Event:                   "select_doctor",
	})
	decodeJSON(t, resp, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.IsEdit || out.Title != "New appointment" || out.SubmitLabel != "Create appointment" {
		t.Errorf("unexpected labels %+v", out)
	}
	if !out.PriceEnabled || !out.DateTimeEnabled || out.Draft.AppointmentPriceInCents != 20000 {
		t.Errorf("expected derived price and enabled fields, got %+v", out)
	}
	if out.Errors["date"] == "" || out.Errors["time"] == "" || out.Errors["patientId"] != "" {
		t.Errorf("unexpected errors %v", out.Errors)
	}
	if len(out.TimeSlots) != 15 {
		t.Errorf("expected 15 slots, got %d", len(out.TimeSlots))
	}

	app.seedAppointment(clinicID, "appt-1", "pat-1", "doc-1", tomorrow, "09:00", 12000)
	resp = app.sendJSON(http.MethodPost, "/api/appointments/form", formRequest{ID: "appt-1", Event: "open"})
	decodeJSON(t, resp, &out)
	if !out.IsEdit || out.Draft.ID != "appt-1" || out.Draft.Date != "2026-03-11" || out.Draft.AppointmentPriceInCents != 0 {
		t.Errorf("unexpected edit state %+v", out)
	}

	resp = app.sendJSON(http.MethodPost, "/api/appointments/form", formRequest{ID: "nope"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

// TestAPI_Dashboard tests totals and range validation.
func TestAPI_Dashboard(t *testing.T) {
	app, clinicID := appointmentFixture(t)
	app.seedAppointment(clinicID, "a1", "pat-1", "doc-1", tomorrow, "09:00", 15000)
	app.seedAppointment(clinicID, "a2", "pat-1", "doc-1", tomorrow, "10:00", 15000)
	app.seedAppointment(clinicID, "a3", "pat-1", "doc-2", tomorrow.AddDate(0, 0, 1), "09:00", 20000)
	app.seedAppointment(clinicID, "a4", "pat-1", "doc-2", testNow, "14:00", 20000)
	app.seedAppointment(clinicID, "old", "pat-1", "doc-2", tomorrow.AddDate(0, -2, 0), "09:00", 99900)

	var out dashboardJSON
	resp := app.sendJSON(http.MethodGet, "/api/dashboard?from=2026-03-01&to=2026-03-31", nil)
	decodeJSON(t, resp, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.TotalAppointments != 4 || out.TotalRevenueCents != 70000 {
		t.Errorf("unexpected totals %d / %d", out.TotalAppointments, out.TotalRevenueCents)
	}
	if out.TotalPatients != 1 || out.TotalDoctors != 2 {
		t.Errorf("unexpected counts %d patients, %d doctors", out.TotalPatients, out.TotalDoctors)
	}
	if len(out.Daily) != 31 {
		t.Errorf("expected 31 daily points, got %d", len(out.Daily))
	}
	if len(out.TopDoctors) != 2 || len(out.TopSpecialities) != 2 {
		t.Errorf("expected two doctors and specialities, got %+v %+v", out.TopDoctors, out.TopSpecialities)
	}
	if len(out.Today) != 1 || out.Today[0].ID != "a4" {
		t.Errorf("expected today's appointment, got %+v", out.Today)
	}

	resp = app.sendJSON(http.MethodGet, "/api/dashboard?from=2026-03-31&to=2026-03-01", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for an inverted range, got %d", resp.StatusCode)
	}
	resp = app.sendJSON(http.MethodGet, "/api/dashboard?from=yesterday", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad date, got %d", resp.StatusCode)
	}
}

// TestDashboardPage tests the HTML dashboard and its invalid-range fallback.
func TestDashboardPage(t *testing.T) {
	app, clinicID := appointmentFixture(t)
	app.seedAppointment(clinicID, "a1", "pat-1", "doc-1", testNow, "14:00", 15000)

	resp := app.get("/dashboard")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"R$150,00", "Dr. Paulo Lima", "Maria Alves", `value="2026-03-01"`, `value="2026-03-31"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q on the dashboard", want)
		}
	}

	resp = app.get("/dashboard?from=2026-04-01&to=2026-03-01")
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with an error banner, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "start date must not be after end date") {
		t.Error("expected the range error")
	}
}

// TestDoctorsPage_FormFlow tests the HTML doctor form.
func TestDoctorsPage_FormFlow(t *testing.T) {
	app := newTestApp(t)
	app.onboard()

	form := url.Values{
		"name":                    {"Dra. Clara Dias"},
		"speciality":              {"Oftalmologia"},
		"appointment_price":       {"R$ 320,00"},
		"available_from_week_day": {"1"},
		"available_to_week_day":   {"5"},
		"available_from_time":     {"09:00"},
		"available_to_time":       {"17:00"},
		"notes":                   {"Atende **convênios**"},
	}
	expectRedirect(t, app.postForm("/doctors", form), "/doctors?notice=saved")

	resp := app.get("/doctors")
	body := readBody(t, resp)
	for _, want := range []string{"Dra. Clara Dias", "Monday to Friday", "09:00 - 17:00", "R$320,00", "<strong>convênios</strong>", `data-category="eye"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q on the doctors page", want)
		}
	}

	form.Set("appointment_price", "abc")
	resp = app.postForm("/doctors", form)
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected the form re-rendered, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `value="Dra. Clara Dias"`) {
		t.Error("expected the posted name kept")
	}
}

// TestPatientsPage_FormFlow tests the HTML patient form.
func TestPatientsPage_FormFlow(t *testing.T) {
	app := newTestApp(t)
	app.onboard()

	expectRedirect(t, app.postForm("/patients", url.Values{
		"name":         {"Lúcia Rocha"},
		"email":        {"lucia@example.com"},
		"phone_number": {"11 3333-4444"},
		"sex":          {"female"},
	}), "/patients?notice=saved")

	body := readBody(t, app.get("/patients"))
	if !strings.Contains(body, "(11) 3333-4444") {
		t.Error("expected the formatted phone")
	}

	resp := app.postForm("/patients", url.Values{"name": {"No Phone"}, "email": {"n@example.com"}, "sex": {"female"}})
	body = readBody(t, resp)
	if !strings.Contains(body, `value="No Phone"`) || !strings.Contains(body, `class="error"`) {
		t.Error("expected the form re-rendered with an error")
	}
}
