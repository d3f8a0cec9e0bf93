package appointment

import (
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = models.AppointmentPending
	StatusConfirmed Status = models.AppointmentConfirmed
	StatusCancelled Status = models.AppointmentCancelled
)

// Active statuses hold the time slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanCancel: pending ou confirmado. Cancelado é tratado como no-op por Cancel.
func CanCancel(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm: só pendente pode ser confirmado.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReschedule: cancelled appointments have nothing to move.
func CanReschedule(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
