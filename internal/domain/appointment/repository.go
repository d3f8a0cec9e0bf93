package appointment

import (
	"context"

	"github.com/BruksfildServices01/studio-booking/internal/store"
)

// Repository is what the booking use cases need from the entity store.
type Repository interface {
	Snapshot() *store.Snapshot

	Commit(
		ctx context.Context,
		cs store.Changeset,
	) (*store.Snapshot, error)

	LockEmployees(
		ctx context.Context,
		ids ...string,
	) (func(), error)

	LockClients(
		ctx context.Context,
		ids ...string,
	) (func(), error)
}

// Compile-time check
var _ Repository = (*store.Store)(nil)
