package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/email"
	appointmentStore "github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
)

// AppointmentLister lists appointments with patient and doctor names.
type AppointmentLister interface {
	List(ctx context.Context, filter appointmentStore.ListFilter) ([]appointmentStore.Row, error)
}

// SendRemindersDeps holds dependencies for SendReminders.
type SendRemindersDeps struct {
	AppointmentStore AppointmentLister
	ClinicStore      ClinicLookup
	Sender           emailAdapter.Sender
	Now              func() time.Time
}

// SendRemindersResult reports what SendReminders did.
type SendRemindersResult struct {
	Day     time.Time
	Sent    int
	NoEmail int
}

var ErrNoSender = errors.New("email delivery is not configured")

// ExecuteSendReminders emails every patient of the clinic with an
// appointment on the day after now.
// PRE: clinicID non-empty
// POST: One message per appointment whose patient has an email; others counted in NoEmail
func ExecuteSendReminders(ctx context.Context, clinicID string, deps SendRemindersDeps) (SendRemindersResult, error) {
	if clinicID == "" {
		return SendRemindersResult{}, ErrNoClinic
	}
	if deps.Sender == nil {
		return SendRemindersResult{}, ErrNoSender
	}

	day := calendarDay(deps.Now()).AddDate(0, 0, 1)
	result := SendRemindersResult{Day: day}

	rows, err := deps.AppointmentStore.List(ctx, appointmentStore.ListFilter{ClinicID: clinicID, From: day, To: day})
	if err != nil {
		return result, err
	}

	var clinicName string
	if deps.ClinicStore != nil {
		if c, err := deps.ClinicStore.GetByID(ctx, clinicID); err == nil {
			clinicName = c.Name
		}
	}

	reqs := make([]emailAdapter.SendRequest, 0, len(rows))
	for _, r := range rows {
		if r.PatientEmail == "" {
			result.NoEmail++
			continue
		}
		req, err := appointmentNotice{
			Heading:     "This is a reminder of your appointment tomorrow.",
			ClinicName:  clinicName,
			PatientName: r.PatientName,
			DoctorName:  r.DoctorName,
			Date:        r.Date,
			Time:        r.Time,
			PriceCents:  r.AppointmentPriceInCents,
		}.message(r.PatientEmail, SubjectReminder)
		if err != nil {
			return result, err
		}
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return result, nil
	}

	sent, err := deps.Sender.SendBatch(ctx, reqs)
	result.Sent = len(sent)
	if err != nil {
		slog.Warn("email_send_failed", "kind", "reminder", "clinic_id", clinicID, "sent", result.Sent, "error", err)
		return result, fmt.Errorf("send reminders: %w", err)
	}
	slog.Info("reminders_sent", "clinic_id", clinicID, "day", day.Format("2006-01-02"), "sent", result.Sent, "no_email", result.NoEmail)
	return result, nil
}
