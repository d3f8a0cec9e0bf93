package appointment

import (
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel is idempotent: an already cancelled appointment reports changed=false.
func Cancel(ap *models.Appointment, now time.Time) (bool, error) {
	current := Status(ap.Status)
	if current == StatusCancelled {
		return false, nil
	}
	if err := CanCancel(current); err != nil {
		return false, err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.UpdatedAt = now
	return true, nil
}

// Confirm leaves a confirmed appointment untouched and refuses cancelled ones.
func Confirm(ap *models.Appointment, now time.Time) (bool, error) {
	current := Status(ap.Status)
	if current == StatusConfirmed {
		return false, nil
	}
	if err := CanConfirm(current); err != nil {
		return false, err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	ap.UpdatedAt = now
	return true, nil
}
