package projections

import (
	"context"
	"time"

	"github.com/luisafalquetoz/agenda-clinicas/internal/adapters/storage/appointment"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/money"
)

// GetAppointmentListQuery carries query parameters. Zero bounds are open.
type GetAppointmentListQuery struct {
	ClinicID string
	From     time.Time
	To       time.Time
	DoctorID string
	Now      time.Time
}

// AppointmentListItem is one appointment with display fields.
type AppointmentListItem struct {
	appointment.Row
	DateLabel  string
	PriceLabel string
	Past       bool
}

// GetAppointmentListResult carries the query result.
type GetAppointmentListResult struct {
	Appointments []AppointmentListItem
}

// GetAppointmentListDeps holds dependencies for GetAppointmentList.
type GetAppointmentListDeps struct {
	AppointmentStore AppointmentStore
}

// QueryGetAppointmentList lists the clinic's appointments ordered by date and time.
// PRE: ClinicID non-empty
// POST: Past is set for appointments starting before Now
func QueryGetAppointmentList(ctx context.Context, query GetAppointmentListQuery, deps GetAppointmentListDeps) (GetAppointmentListResult, error) {
	rows, err := deps.AppointmentStore.List(ctx, appointment.ListFilter{
		ClinicID: query.ClinicID,
		From:     query.From,
		To:       query.To,
		DoctorID: query.DoctorID,
	})
	if err != nil {
		return GetAppointmentListResult{}, err
	}

	items := make([]AppointmentListItem, 0, len(rows))
	for _, r := range rows {
		starts := r.StartsAt(query.Now.Location())
		items = append(items, AppointmentListItem{
			Row:        r,
			DateLabel:  r.Date.Format("02/01/2006") + " " + r.Time,
			PriceLabel: money.FormatCents(r.AppointmentPriceInCents),
			Past:       starts.Before(query.Now),
		})
	}
	return GetAppointmentListResult{Appointments: items}, nil
}
