package client

import (
	"context"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
)

// DeactivateClient hides a client from active lists. Clients are never
// deleted; their appointments stay untouched.
type DeactivateClient struct {
	repo   Repository
	policy domain.Policy
	audit  audit.Recorder
}

func NewDeactivateClient(repo Repository, policy domain.Policy, audit audit.Recorder) *DeactivateClient {
	return &DeactivateClient{repo: repo, policy: policy, audit: audit}
}

func (uc *DeactivateClient) Execute(ctx context.Context, id string) (models.Client, error) {
	release, err := uc.repo.LockClients(ctx, id)
	if err != nil {
		return models.Client{}, err
	}
	defer release()

	c, ok := uc.repo.Snapshot().Client(id)
	if !ok {
		return models.Client{}, httperr.ErrNotFound("client", id)
	}
	if c.Status == models.ClientInactive {
		return c, nil
	}

	c.Status = models.ClientInactive
	c.UpdatedAt = uc.policy.Now()

	snap, err := uc.repo.Commit(ctx, store.Changeset{Clients: []models.Client{c}})
	if err != nil {
		return models.Client{}, err
	}

	uc.audit.Dispatch(audit.Event{Action: "client.deactivated", Entity: "client", EntityID: id})

	out, _ := snap.Client(id)
	return out, nil
}
