package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/dto"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
)

type GetAvailability struct {
	repo   domain.Repository
	policy domain.Policy
}

func NewGetAvailability(repo domain.Repository, policy domain.Policy) *GetAvailability {
	return &GetAvailability{repo: repo, policy: policy}
}

// Execute returns the employee's busy and free time on in.Date, clipped to
// business hours when they are enforced, and the start times where a
// booking of in.DurationMin minutes fits.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (dto.AvailabilityDTO, error) {

	if in.DurationMin < 0 {
		return dto.AvailabilityDTO{}, httperr.ErrValidation("duration_min", "out_of_range")
	}

	snap := uc.repo.Snapshot()
	if _, ok := snap.Employee(in.EmployeeID); !ok {
		return dto.AvailabilityDTO{}, httperr.ErrNotFound("employee", in.EmployeeID)
	}

	d := bookingDuration(uc.policy, in.DurationMin)
	window := uc.policy.Window(in.Date)
	dayStart, _ := uc.policy.DayRange(in.Date)

	aps := snap.AppointmentsByEmployee(in.EmployeeID, window.Start, window.End)
	busy := domain.BusyIntervals(window, aps)
	free := domain.FreeIntervals(window, busy)

	var notBefore time.Time
	if !uc.policy.AllowPastBookings {
		notBefore = uc.policy.Now()
	}

	step := uc.policy.SlotStep(d)
	slots := domain.SlotStarts(alignToGrid(free, dayStart, uc.policy.Granularity), d, step, notBefore)

	out := dto.AvailabilityDTO{
		EmployeeID:  in.EmployeeID,
		Date:        dayStart.Format("2006-01-02"),
		DurationMin: int(d / time.Minute),
		Window:      toIntervalDTO(window),
		Busy:        toIntervalDTOs(busy),
		Free:        toIntervalDTOs(free),
		Slots:       slots,
	}
	if out.Slots == nil {
		out.Slots = []time.Time{}
	}
	return out, nil
}

// alignToGrid moves each free interval's start up to the next grid line
// counted from dayStart, dropping intervals that vanish.
func alignToGrid(free []domain.Interval, dayStart time.Time, grid time.Duration) []domain.Interval {
	if grid <= 0 {
		return free
	}
	out := make([]domain.Interval, 0, len(free))
	for _, f := range free {
		if rem := f.Start.Sub(dayStart) % grid; rem != 0 {
			f.Start = f.Start.Add(grid - rem)
		}
		if f.Start.Before(f.End) {
			out = append(out, f)
		}
	}
	return out
}

func toIntervalDTO(i domain.Interval) dto.IntervalDTO {
	return dto.IntervalDTO{Start: i.Start, End: i.End}
}

func toIntervalDTOs(in []domain.Interval) []dto.IntervalDTO {
	out := make([]dto.IntervalDTO, 0, len(in))
	for _, i := range in {
		out = append(out, toIntervalDTO(i))
	}
	return out
}
