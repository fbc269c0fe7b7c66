// Package repository holds the participant roster and its durable snapshot.
package repository

import (
	"context"

	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
)

// Store provides read/write access to participant state.
//
// Mutations are atomic and write through to the configured snapshot gateway
// before returning. A failed snapshot write does not fail the mutation; the
// store keeps serving from memory in degraded mode.
type Store interface {
	// Upsert registers the participant bound to externalID. If the binding
	// already exists the name and track are overwritten in place and the
	// same internal id is returned; otherwise the next internal id is
	// allocated. Returns the resulting participant and whether it was
	// newly created.
	Upsert(ctx context.Context, externalID, name string, track types.Track) (model.Participant, bool)

	// ByExternal returns the participant bound to externalID.
	ByExternal(ctx context.Context, externalID string) (model.Participant, bool)

	// ByID returns the participant with the given internal id.
	ByID(ctx context.Context, id int64) (model.Participant, bool)

	// Adjust adds delta (any sign) to the participant's score.
	// Returns ErrNotFound if id is unknown.
	Adjust(ctx context.Context, id int64, delta int) (int, error)

	// AwardOnce applies delta and sets flag on the participant, unless the
	// flag is already set, in which case nothing changes and false is
	// returned. Returns ErrNotFound if id is unknown.
	AwardOnce(ctx context.Context, id int64, flag string, delta int) (bool, error)

	// All returns every participant in allocation order.
	All(ctx context.Context) []model.Participant

	// Count returns the number of registered participants.
	Count(ctx context.Context) int
}
