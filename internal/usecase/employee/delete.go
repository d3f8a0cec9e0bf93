package employee

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

// DeleteEmployee removes an employee. Admins cannot be deleted, nor can
// employees with upcoming active appointments. Past appointments are kept
// and stay orphaned.
type DeleteEmployee struct {
	repo   domain.Repository
	policy domain.Policy
	audit  audit.Recorder
}

func NewDeleteEmployee(repo domain.Repository, policy domain.Policy, audit audit.Recorder) *DeleteEmployee {
	return &DeleteEmployee{repo: repo, policy: policy, audit: audit}
}

func (uc *DeleteEmployee) Execute(ctx context.Context, id string) error {
	release, err := uc.repo.LockEmployees(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	snap := uc.repo.Snapshot()

	e, ok := snap.Employee(id)
	if !ok {
		return httperr.ErrNotFound("employee", id)
	}
	if e.Role == models.RoleAdmin {
		return httperr.ErrBusiness("admin_not_deletable")
	}

	for _, ap := range snap.AppointmentsByEmployee(id, uc.policy.Now(), time.Time{}) {
		if ap.Active() {
			return httperr.ErrBusiness("employee_has_upcoming_appointments")
		}
	}

	if _, err := uc.repo.Commit(ctx, store.Changeset{DeletedEmployees: []string{id}}); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "employee.deleted",
		Entity:   "employee",
		EntityID: id,
		Metadata: map[string]string{"name": e.Name},
	})
	return nil
}
