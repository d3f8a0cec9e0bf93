package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/dto"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
)

type ListClientAppointments struct {
	repo domain.Repository
}

func NewListClientAppointments(repo domain.Repository) *ListClientAppointments {
	return &ListClientAppointments{repo: repo}
}

// Execute returns the client's full history, any status, oldest first.
func (uc *ListClientAppointments) Execute(
	ctx context.Context,
	clientID string,
) ([]dto.AppointmentListDTO, error) {

	snap := uc.repo.Snapshot()
	if _, ok := snap.Client(clientID); !ok {
		return nil, httperr.ErrNotFound("client", clientID)
	}

	return dto.AppointmentList(snap, snap.AppointmentsByClient(clientID)), nil
}
