package employee

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
	"github.com/BruksfildServices01/studio-booking/internal/validators"
)

// UpsertEmployeeInput creates an employee when ID is empty. Empty Role and
// Status default to employee and active.
type UpsertEmployeeInput struct {
	ID          string
	Name        string `validate:"required,max=100"`
	Email       string `validate:"omitempty,email,max=100"`
	Specialty   string `validate:"max=255"`
	Color       string `validate:"omitempty,hexcolor"`
	WeeklyHours int    `validate:"gte=0,lte=168"`
	Role        string `validate:"omitempty,oneof=admin employee"`
	Status      string `validate:"omitempty,oneof=active inactive"`
	JoinedAt    time.Time
}

type UpsertEmployee struct {
	repo   domain.Repository
	policy domain.Policy
	audit  audit.Recorder
}

func NewUpsertEmployee(repo domain.Repository, policy domain.Policy, audit audit.Recorder) *UpsertEmployee {
	return &UpsertEmployee{repo: repo, policy: policy, audit: audit}
}

func (uc *UpsertEmployee) Execute(ctx context.Context, in UpsertEmployeeInput) (models.Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := validators.Struct(in); err != nil {
		return models.Employee{}, err
	}

	now := uc.policy.Now()

	e := models.Employee{
		ID:        uuid.NewString(),
		Role:      models.RoleEmployee,
		Status:    models.EmployeeActive,
		JoinedAt:  now,
		CreatedAt: now,
	}
	action := "employee.created"

	if in.ID != "" {
		// Same lock as DeleteEmployee, so an update never resurrects a
		// deleted employee.
		release, err := uc.repo.LockEmployees(ctx, in.ID)
		if err != nil {
			return models.Employee{}, err
		}
		defer release()

		existing, ok := uc.repo.Snapshot().Employee(in.ID)
		if !ok {
			return models.Employee{}, httperr.ErrNotFound("employee", in.ID)
		}
		e = existing
		action = "employee.updated"
	}

	e.Name = in.Name
	e.Email = in.Email
	e.Specialty = strings.TrimSpace(in.Specialty)
	e.Color = strings.ToLower(in.Color)
	e.WeeklyHours = in.WeeklyHours
	if in.Role != "" {
		e.Role = in.Role
	}
	if in.Status != "" {
		e.Status = in.Status
	}
	if !in.JoinedAt.IsZero() {
		e.JoinedAt = in.JoinedAt
	}
	e.UpdatedAt = now

	snap, err := uc.repo.Commit(ctx, store.Changeset{Employees: []models.Employee{e}})
	if err != nil {
		return models.Employee{}, err
	}

	uc.audit.Dispatch(audit.Event{Action: action, Entity: "employee", EntityID: e.ID})

	out, _ := snap.Employee(e.ID)
	return out, nil
}
