package orchestrators

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	emailAdapter "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/email"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/money"
)

// Subjects of the patient-facing messages.
const (
	SubjectConfirmation = "Your appointment is confirmed"
	SubjectReminder     = "Reminder: your appointment is tomorrow"
)

// appointmentNotice is the data shown in confirmation and reminder emails.
type appointmentNotice struct {
	Heading     string
	ClinicName  string
	PatientName string
	DoctorName  string
	Date        time.Time
	Time        string
	PriceCents  int64
}

var noticeHTML = template.Must(template.New("notice").Funcs(template.FuncMap{
	"price": money.FormatCents,
}).Parse(`<p>Hello {{.PatientName}},</p>
<p>{{.Heading}}</p>
<ul>
<li>Clinic: {{.ClinicName}}</li>
<li>Doctor: {{.DoctorName}}</li>
<li>When: {{.Date.Format "02/01/2006"}} at {{.Time}}</li>
<li>Price: {{price .PriceCents}}</li>
</ul>`))

// message renders n as an email to the given address.
func (n appointmentNotice) message(to, subject string) (emailAdapter.SendRequest, error) {
	var buf bytes.Buffer
	if err := noticeHTML.Execute(&buf, n); err != nil {
		return emailAdapter.SendRequest{}, fmt.Errorf("render %q email: %w", subject, err)
	}
	text := fmt.Sprintf("Hello %s,\n\n%s\n\nClinic: %s\nDoctor: %s\nWhen: %s at %s\nPrice: %s\n",
		n.PatientName, n.Heading, n.ClinicName, n.DoctorName,
		n.Date.Format("02/01/2006"), n.Time, money.FormatCents(n.PriceCents))
	return emailAdapter.SendRequest{
		To:      []string{to},
		Subject: subject,
		HTML:    buf.String(),
		Text:    text,
	}, nil
}
