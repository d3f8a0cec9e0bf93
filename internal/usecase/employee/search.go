package employee

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
)

type SearchEmployees struct {
	repo domain.Repository
}

func NewSearchEmployees(repo domain.Repository) *SearchEmployees {
	return &SearchEmployees{repo: repo}
}

// Execute matches term case-insensitively against name, email or
// specialty. An empty term lists everyone.
func (uc *SearchEmployees) Execute(ctx context.Context, term string) ([]models.Employee, error) {
	term = strings.ToLower(strings.TrimSpace(term))

	out := []models.Employee{}
	for _, e := range uc.repo.Snapshot().Employees() {
		if term == "" ||
			strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.Email), term) ||
			strings.Contains(strings.ToLower(e.Specialty), term) {
			out = append(out, e)
		}
	}
	return out, nil
}

type GetEmployee struct {
	repo domain.Repository
}

func NewGetEmployee(repo domain.Repository) *GetEmployee {
	return &GetEmployee{repo: repo}
}

func (uc *GetEmployee) Execute(ctx context.Context, id string) (models.Employee, error) {
	e, ok := uc.repo.Snapshot().Employee(id)
	if !ok {
		return models.Employee{}, httperr.ErrNotFound("employee", id)
	}
	return e, nil
}
