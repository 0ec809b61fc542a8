package projections

import (
	"context"
	"time"

	domainDoctor "github.com/luisafalquetoz/agenda-clinicas/internal/domain/doctor"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/money"
	"github.com/luisafalquetoz/agenda-clinicas/internal/domain/speciality"
)

// DoctorCard is a doctor with the labels shown on its card.
type DoctorCard struct {
	domainDoctor.Doctor
	Availability string // "Monday to Friday"
	Hours        string // "08:00 - 18:00"
	PriceLabel   string
	Category     speciality.Category
}

// GetDoctorListDeps holds dependencies for GetDoctorList.
type GetDoctorListDeps struct {
	DoctorStore DoctorStore
}

// QueryGetDoctorList returns the clinic's doctors as cards.
func QueryGetDoctorList(ctx context.Context, clinicID string, deps GetDoctorListDeps) ([]DoctorCard, error) {
	doctors, err := deps.DoctorStore.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	cards := make([]DoctorCard, 0, len(doctors))
	for _, d := range doctors {
		cards = append(cards, DoctorCard{
			Doctor:       d,
			Availability: weekdayRange(d.AvailableFromWeekDay, d.AvailableToWeekDay),
			Hours:        d.AvailableFromTime + " - " + d.AvailableToTime,
			PriceLabel:   money.FormatCents(d.AppointmentPriceInCents),
			Category:     speciality.Classify(d.Speciality),
		})
	}
	return cards, nil
}

func weekdayRange(from, to int) string {
	if from == to {
		return time.Weekday(from).String()
	}
	return time.Weekday(from).String() + " to " + time.Weekday(to).String()
}
