package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/reminder"
	"github.com/BruksfildServices01/studio-booking/internal/store"
	"github.com/BruksfildServices01/studio-booking/internal/validators"
)

const fallbackDuration = 60 * time.Minute

func bookingDuration(p domain.Policy, minutes int) time.Duration {
	if minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	if p.DefaultDuration > 0 {
		return p.DefaultDuration
	}
	return fallbackDuration
}

// checkConflict scans the employee's appointments on every business day the
// candidate touches, so bookings across midnight are covered.
func checkConflict(
	snap *store.Snapshot,
	p domain.Policy,
	employeeID string,
	candidate domain.Interval,
	ignoreID string,
) error {
	from, _ := p.DayRange(candidate.Start)
	_, to := p.DayRange(candidate.End.Add(-time.Nanosecond))

	existing := snap.AppointmentsByEmployee(employeeID, from, to)
	if ap, found := domain.FindConflict(candidate, existing, ignoreID); found {
		return httperr.ErrConflict(ap.ID)
	}
	return nil
}

func bookableEmployee(snap *store.Snapshot, id string) (models.Employee, error) {
	e, ok := snap.Employee(id)
	if !ok {
		return models.Employee{}, httperr.ErrNotFound("employee", id)
	}
	if e.Status == models.EmployeeInactive {
		return models.Employee{}, httperr.ErrValidation("employee_id", "employee_inactive")
	}
	return e, nil
}

type clientRef struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// resolveClient finds the booking's client by id, or by normalised phone,
// creating it when the phone is unknown. Inactive clients are reactivated.
// changed reports whether the returned client must be written.
func resolveClient(
	snap *store.Snapshot,
	p domain.Policy,
	ref clientRef,
	now time.Time,
) (c models.Client, changed bool, err error) {

	if ref.ID != "" {
		c, ok := snap.Client(ref.ID)
		if !ok {
			return models.Client{}, false, httperr.ErrNotFound("client", ref.ID)
		}
		return reactivate(c, now)
	}

	phone, err := validators.NormalizePhone(ref.Phone, p.PhoneRegion)
	if err != nil {
		return models.Client{}, false, err
	}

	if c, ok := snap.ClientByPhone(phone); ok {
		return reactivate(c, now)
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return models.Client{}, false, httperr.ErrValidation("client_name", "required")
	}

	return models.Client{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Email:     strings.TrimSpace(ref.Email),
		Status:    models.ClientActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

func reactivate(c models.Client, now time.Time) (models.Client, bool, error) {
	if c.Status == models.ClientActive {
		return c, false, nil
	}
	c.Status = models.ClientActive
	c.UpdatedAt = now
	return c, true, nil
}

func scheduleReminder(
	ctx context.Context,
	r reminder.Scheduler,
	log *zap.Logger,
	snap *store.Snapshot,
	p domain.Policy,
	ap models.Appointment,
) {
	b := reminder.Booking{
		AppointmentID: ap.ID,
		Start:         ap.StartTime.In(p.Loc()),
	}
	if c, ok := snap.Client(ap.ClientID); ok {
		b.ClientName = c.Name
		b.ClientPhone = c.Phone
	}
	if e, ok := snap.Employee(ap.EmployeeID); ok {
		b.EmployeeName = e.Name
	}

	if err := r.Schedule(ctx, b); err != nil {
		log.Warn("schedule reminder failed", zap.String("appointment_id", ap.ID), zap.Error(err))
	}
}

func cancelReminder(ctx context.Context, r reminder.Scheduler, log *zap.Logger, appointmentID string) {
	if err := r.Cancel(ctx, appointmentID); err != nil {
		log.Warn("cancel reminder failed", zap.String("appointment_id", appointmentID), zap.Error(err))
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
