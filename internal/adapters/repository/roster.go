package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
	"github.com/okian/fiesta/pkg/logger"
	"github.com/okian/fiesta/pkg/metrics"
)

// Roster implements Store with an in-memory map guarded by one mutex.
//
// The dataset is small (one evening's guests) and all writes already arrive
// serialized through the dispatcher, so a single lock around mutate+persist
// is the whole concurrency story.
type Roster struct {
	mu sync.RWMutex

	byID       map[int64]*model.Participant
	byExternal map[string]int64
	order      []int64 // internal ids in allocation order
	nextID     int64

	gateway Gateway
	log     logger.Logger
}

// NewRoster creates a roster, optionally seeded from a snapshot and wired to
// a gateway for write-through persistence.
func NewRoster(opts ...Option) *Roster {
	r := &Roster{
		byID:       make(map[int64]*model.Participant),
		byExternal: make(map[string]int64),
		nextID:     1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// seed loads snapshot contents. Called from the WithSnapshot option before
// the roster is shared, so no locking.
func (r *Roster) seed(snap Snapshot) {
	for id, rec := range snap.Participants {
		flags := make(map[string]bool, len(rec.QuizFlags))
		for _, f := range rec.QuizFlags {
			flags[f] = true
		}
		track := types.Track(rec.Track)
		if !track.Valid() {
			// Old records predate the track split; treat them as on-site.
			track = types.TrackOnSite
		}
		r.byID[id] = &model.Participant{
			ID:    id,
			Name:  rec.Name,
			Track: track,
			Score: rec.Score,
			Flags: flags,
		}
	}
	for ext, id := range snap.ExternalIDs {
		if _, ok := r.byID[id]; ok {
			r.byExternal[ext] = id
		}
	}
	r.order = r.order[:0]
	for id := range r.byID {
		r.order = append(r.order, id)
	}
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	if snap.NextID > r.nextID {
		r.nextID = snap.NextID
	}
	// A snapshot whose next_id lags behind a stored id must never lead to
	// that id being handed out again.
	for _, id := range r.order {
		if id >= r.nextID {
			r.nextID = id + 1
		}
	}
}

// Upsert registers or re-registers the participant bound to externalID.
func (r *Roster) Upsert(ctx context.Context, externalID, name string, track types.Track) (model.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byExternal[externalID]; ok {
		p := r.byID[id]
		p.Name = name
		p.Track = track
		r.persist(ctx)
		return p.Clone(), false
	}

	id := r.nextID
	r.nextID++
	p := &model.Participant{
		ID:    id,
		Name:  name,
		Track: track,
		Score: 0,
		Flags: make(map[string]bool),
	}
	r.byID[id] = p
	r.byExternal[externalID] = id
	r.order = append(r.order, id)
	r.persist(ctx)
	return p.Clone(), true
}

// ByExternal returns the participant bound to externalID.
func (r *Roster) ByExternal(_ context.Context, externalID string) (model.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byExternal[externalID]
	if !ok {
		return model.Participant{}, false
	}
	return r.byID[id].Clone(), true
}

// ByID returns the participant with the given internal id.
func (r *Roster) ByID(_ context.Context, id int64) (model.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return model.Participant{}, false
	}
	return p.Clone(), true
}

// Adjust adds delta to the participant's score.
func (r *Roster) Adjust(ctx context.Context, id int64, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	p.Score += delta
	r.persist(ctx)
	return p.Score, nil
}

// AwardOnce applies delta and sets flag unless the flag is already set.
func (r *Roster) AwardOnce(ctx context.Context, id int64, flag string, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	if p.Flags[flag] {
		return false, nil
	}
	p.Score += delta
	p.Flags[flag] = true
	r.persist(ctx)
	return true, nil
}

// All returns every participant in allocation order.
func (r *Roster) All(_ context.Context) []model.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// Count returns the number of registered participants.
func (r *Roster) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// snapshotLocked builds the durable representation. Caller holds the lock.
func (r *Roster) snapshotLocked() Snapshot {
	snap := Snapshot{
		Participants: make(map[int64]SnapshotParticipant, len(r.byID)),
		ExternalIDs:  make(map[string]int64, len(r.byExternal)),
		NextID:       r.nextID,
	}
	for id, p := range r.byID {
		flags := make([]string, 0, len(p.Flags))
		for f := range p.Flags {
			flags = append(flags, f)
		}
		snap.Participants[id] = SnapshotParticipant{
			Name:      p.Name,
			Score:     p.Score,
			Track:     string(p.Track),
			QuizFlags: flags,
		}
	}
	for ext, id := range r.byExternal {
		snap.ExternalIDs[ext] = id
	}
	return snap
}

// persist writes the full snapshot through the gateway. Best effort: a save
// failure is logged and counted but never propagated, losing a save is less
// harmful than freezing the event. Caller holds the lock.
func (r *Roster) persist(ctx context.Context) {
	if r.gateway == nil {
		return
	}
	start := time.Now()
	if err := r.gateway.Save(ctx, r.snapshotLocked()); err != nil {
		metrics.RecordSnapshotFailure()
		metrics.RecordErrorByComponent("repository", "snapshot_save")
		if r.log != nil {
			r.log.Error(ctx, "snapshot save failed; continuing on in-memory state", logger.Error(err))
		}
		return
	}
	metrics.RecordSnapshotSave(float64(time.Since(start).Milliseconds()))
}
