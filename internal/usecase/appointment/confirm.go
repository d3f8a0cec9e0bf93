package appointment

import (
	"context"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

type ConfirmAppointment struct {
	repo   domain.Repository
	policy domain.Policy
	audit  audit.Recorder
}

func NewConfirmAppointment(
	repo domain.Repository,
	policy domain.Policy,
	audit audit.Recorder,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:   repo,
		policy: policy,
		audit:  audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	appointmentID string,
) (models.Appointment, error) {

	ap, ok := uc.repo.Snapshot().Appointment(appointmentID)
	if !ok {
		return models.Appointment{}, httperr.ErrNotFound("appointment", appointmentID)
	}

	// a concurrent cancel must not be overwritten by a stale confirm
	release, err := uc.repo.LockEmployees(ctx, ap.EmployeeID)
	if err != nil {
		return models.Appointment{}, err
	}
	defer release()

	ap, ok = uc.repo.Snapshot().Appointment(appointmentID)
	if !ok {
		return models.Appointment{}, httperr.ErrNotFound("appointment", appointmentID)
	}

	changed, err := domain.Confirm(&ap, uc.policy.Now())
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
		Action:   "appointment.confirmed",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	out, _ := snap.Appointment(ap.ID)
	return out, nil
}
