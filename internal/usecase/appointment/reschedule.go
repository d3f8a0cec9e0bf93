package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/reminder"
	"github.com/BruksfildServices01/studio-booking/internal/store"
	"github.com/BruksfildServices01/studio-booking/internal/validators"
)

// RescheduleAppointmentInput moves an appointment. Zero DurationMin keeps
// the current duration, empty EmployeeID keeps the current employee.
type RescheduleAppointmentInput struct {
	AppointmentID string    `validate:"required"`
	StartTime     time.Time `validate:"required"`
	DurationMin   int       `validate:"gte=0,lte=1440"`
	EmployeeID    string
}

type RescheduleAppointment struct {
	repo      domain.Repository
	policy    domain.Policy
	audit     audit.Recorder
	reminders reminder.Scheduler
	log       *zap.Logger
}

func NewRescheduleAppointment(
	repo domain.Repository,
	policy domain.Policy,
	audit audit.Recorder,
	reminders reminder.Scheduler,
	log *zap.Logger,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:      repo,
		policy:    policy,
		audit:     audit,
		reminders: reminders,
		log:       orNop(log),
	}
}

// Execute cancels the old appointment and books its replacement in one
// commit. The replacement keeps client, service, budget and status and
// points back through RescheduledFrom.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (models.Appointment, error) {

	if err := validators.Struct(in); err != nil {
		return models.Appointment{}, err
	}

	old, ok := uc.repo.Snapshot().Appointment(in.AppointmentID)
	if !ok {
		return models.Appointment{}, httperr.ErrNotFound("appointment", in.AppointmentID)
	}
	if err := domain.CanReschedule(domain.Status(old.Status)); err != nil {
		return models.Appointment{}, err
	}

	employeeID := in.EmployeeID
	if employeeID == "" {
		employeeID = old.EmployeeID
	}

	minutes := in.DurationMin
	if minutes == 0 {
		minutes = old.DurationMin
	}
	d := bookingDuration(uc.policy, minutes)
	start := in.StartTime.In(uc.policy.Loc())

	if err := uc.policy.Validate(start, d); err != nil {
		return models.Appointment{}, err
	}

	release, err := uc.repo.LockEmployees(ctx, old.EmployeeID, employeeID)
	if err != nil {
		return models.Appointment{}, err
	}
	defer release()

	snap := uc.repo.Snapshot()
	now := uc.policy.Now()

	old, ok = snap.Appointment(in.AppointmentID)
	if !ok {
		return models.Appointment{}, httperr.ErrNotFound("appointment", in.AppointmentID)
	}
	if err := domain.CanReschedule(domain.Status(old.Status)); err != nil {
		return models.Appointment{}, err
	}

	if _, err := bookableEmployee(snap, employeeID); err != nil {
		return models.Appointment{}, err
	}

	candidate := domain.NewInterval(start, d)
	if err := checkConflict(snap, uc.policy, employeeID, candidate, old.ID); err != nil {
		return models.Appointment{}, err
	}

	fromID := old.ID
	next := old
	next.ID = uuid.NewString()
	next.EmployeeID = employeeID
	next.StartTime = start
	next.DurationMin = int(d / time.Minute)
	next.RescheduledFrom = &fromID
	next.CancelledAt = nil
	next.CreatedAt = now
	next.UpdatedAt = now

	if _, err := domain.Cancel(&old, now); err != nil {
		return models.Appointment{}, err
	}

	snap, err = uc.repo.Commit(ctx, store.Changeset{
		Appointments: []models.Appointment{old, next},
	})
	if err != nil {
		return models.Appointment{}, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment.rescheduled",
		Entity:   "appointment",
		EntityID: next.ID,
		Metadata: map[string]any{"from": old.ID, "employee_id": employeeID},
	})

	cancelReminder(ctx, uc.reminders, uc.log, old.ID)
	out, _ := snap.Appointment(next.ID)
	scheduleReminder(ctx, uc.reminders, uc.log, snap, uc.policy, out)

	return out, nil
}
