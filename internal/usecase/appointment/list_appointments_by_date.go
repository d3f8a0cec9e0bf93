package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/dto"
	"github.com/BruksfildServices01/studio-booking/internal/models"
)

type DayViewInput struct {
	Date       time.Time
	EmployeeID string
	ActiveOnly bool
}

// GetDayView lists the appointments starting on one business day, ordered
// by start time. Cancelled appointments are included unless ActiveOnly.
type GetDayView struct {
	repo   domain.Repository
	policy domain.Policy
}

func NewGetDayView(
	repo domain.Repository,
	policy domain.Policy,
) *GetDayView {
	return &GetDayView{
		repo:   repo,
		policy: policy,
	}
}

func (uc *GetDayView) Execute(
	ctx context.Context,
	in DayViewInput,
) ([]dto.AppointmentListDTO, error) {

	snap := uc.repo.Snapshot()
	start, end := uc.policy.DayRange(in.Date)

	var aps []models.Appointment
	if in.EmployeeID != "" {
		for _, ap := range snap.AppointmentsByEmployee(in.EmployeeID, start, end) {
			if !ap.StartTime.Before(start) {
				aps = append(aps, ap)
			}
		}
	} else {
		aps = snap.AppointmentsStartingBetween(start, end)
	}

	if in.ActiveOnly {
		active := aps[:0]
		for _, ap := range aps {
			if ap.Active() {
				active = append(active, ap)
			}
		}
		aps = active
	}

	return dto.AppointmentList(snap, aps), nil
}
