// Package identity maps messaging accounts to participant records.
package identity

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/okian/fiesta/internal/adapters/repository"
	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
	"github.com/okian/fiesta/pkg/metrics"
)

// nameMatcher accepts at least two whitespace-separated tokens, letters only.
var nameMatcher = regexp.MustCompile(`^\p{L}+(\s+\p{L}+)+$`)

// Registry resolves external ids and registers participants.
type Registry struct {
	store repository.Store
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store repository.Store) *Registry {
	return &Registry{store: store}
}

// ValidateName checks the display-name rule without touching the store.
func ValidateName(name string) error {
	err := validation.Validate(strings.TrimSpace(name),
		validation.Required,
		validation.Match(nameMatcher),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}

// Register validates the display name and binds externalID to a participant.
// Re-registering an already bound external id overwrites the name and track
// on the existing record and returns the same internal id.
func (r *Registry) Register(ctx context.Context, externalID, name string, track types.Track) (model.Participant, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return model.Participant{}, err
	}
	if !track.Valid() {
		return model.Participant{}, fmt.Errorf("%w: track %q", ErrValidation, track)
	}
	p, created := r.store.Upsert(ctx, externalID, name, track)
	if created {
		metrics.RecordRegistration()
	}
	return p, nil
}

// FindByExternal returns the participant bound to a messaging account.
func (r *Registry) FindByExternal(ctx context.Context, externalID string) (model.Participant, bool) {
	return r.store.ByExternal(ctx, externalID)
}

// FindByQuery resolves a lookup string that is either a bare or #-prefixed
// internal id, or a case-insensitive exact display name. Ambiguous names
// resolve to the earliest registered match; names are not unique.
func (r *Registry) FindByQuery(ctx context.Context, query string) (model.Participant, bool) {
	// The # prefix is only presentation; strip it before either lookup so
	// "#12" and "#Ivan Petrov" both resolve.
	query = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), "#"))
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		return r.store.ByID(ctx, id)
	}

	lower := strings.ToLower(query)
	for _, p := range r.store.All(ctx) {
		if strings.ToLower(p.Name) == lower {
			return p, true
		}
	}
	return model.Participant{}, false
}
