package client

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-booking/internal/audit"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/models"
	"github.com/BruksfildServices01/studio-booking/internal/store"
	"github.com/BruksfildServices01/studio-booking/internal/validators"
)

// Repository is the slice of the entity store client use cases need.
type Repository interface {
	Snapshot() *store.Snapshot
	Commit(ctx context.Context, cs store.Changeset) (*store.Snapshot, error)
	LockClients(ctx context.Context, ids ...string) (func(), error)
}

// UpsertClientInput creates a client when ID is empty.
type UpsertClientInput struct {
	ID    string
	Name  string `validate:"required,max=100"`
	Phone string `validate:"required"`
	Email string `validate:"omitempty,email,max=100"`
	Notes string
}

type UpsertClient struct {
	repo   Repository
	policy domain.Policy
	audit  audit.Recorder
}

func NewUpsertClient(repo Repository, policy domain.Policy, audit audit.Recorder) *UpsertClient {
	return &UpsertClient{repo: repo, policy: policy, audit: audit}
}

func (uc *UpsertClient) Execute(ctx context.Context, in UpsertClientInput) (models.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := validators.Struct(in); err != nil {
		return models.Client{}, err
	}

	phone, err := validators.NormalizePhone(in.Phone, uc.policy.PhoneRegion)
	if err != nil {
		return models.Client{}, err
	}

	now := uc.policy.Now()

	c := models.Client{
		ID:        uuid.NewString(),
		Status:    models.ClientActive,
		CreatedAt: now,
	}
	action := "client.created"

	if in.ID != "" {
		release, err := uc.repo.LockClients(ctx, in.ID)
		if err != nil {
			return models.Client{}, err
		}
		defer release()

		existing, ok := uc.repo.Snapshot().Client(in.ID)
		if !ok {
			return models.Client{}, httperr.ErrNotFound("client", in.ID)
		}
		c = existing
		action = "client.updated"
	}

	c.Name = in.Name
	c.Phone = phone
	c.Email = in.Email
	c.Notes = in.Notes
	c.UpdatedAt = now

	snap, err := uc.repo.Commit(ctx, store.Changeset{Clients: []models.Client{c}})
	if err != nil {
		return models.Client{}, err
	}

	uc.audit.Dispatch(audit.Event{Action: action, Entity: "client", EntityID: c.ID})

	out, _ := snap.Client(c.ID)
	return out, nil
}
