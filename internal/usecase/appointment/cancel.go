package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/reminder"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

type CancelAppointment struct {
	repo      domain.Repository
	policy    domain.Policy
	audit     audit.Recorder
	reminders reminder.Scheduler
	log       *zap.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	policy domain.Policy,
	audit audit.Recorder,
	reminders reminder.Scheduler,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:      repo,
		policy:    policy,
		audit:     audit,
		reminders: reminders,
		log:       orNop(log),
	}
}

// Execute cancels the appointment. Cancelling twice returns the stored
// appointment unchanged.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID string,
) (models.Appointment, error) {

	ap, ok := uc.repo.Snapshot().Appointment(appointmentID)
	if !ok {
		return models.Appointment{}, httperr.ErrNotFound("appointment", appointmentID)
	}

	release, err := uc.repo.LockEmployees(ctx, ap.EmployeeID)
	if err != nil {
		return models.Appointment{}, err
	}
	defer release()

	// re-read under the lock
	ap, ok = uc.repo.Snapshot().Appointment(appointmentID)
	if !ok {
		return models.Appointment{}, httperr.ErrNotFound("appointment", appointmentID)
	}

	changed, err := domain.Cancel(&ap, uc.policy.Now())
	if err != nil {
		return models.Appointment{}, err
	}
	if !changed {
		return ap, nil
	}

	snap, err := uc.repo.Commit(ctx, store.Changeset{Appointments: []models.Appointment{ap}})
	if err != nil {
		return models.Appointment{}, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "appointment.cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
	})
	cancelReminder(ctx, uc.reminders, uc.log, ap.ID)

	out, _ := snap.Appointment(ap.ID)
	return out, nil
}
