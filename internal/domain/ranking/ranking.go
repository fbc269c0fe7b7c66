// Package ranking computes per-track leaderboards and participant ranks.
package ranking

import (
	"context"
	"sort"

	"github.com/okian/fiesta/internal/adapters/repository"
	"github.com/okian/fiesta/internal/domain/types"
)

// Default number of rows shown on a leaderboard.
const defaultDisplaySize = 10

// Engine ranks participants of one track by score.
type Engine struct {
	store       repository.Store
	displaySize int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDisplaySize sets how many rows a board displays.
func WithDisplaySize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.displaySize = n
		}
	}
}

// NewEngine creates a ranking engine over the given store.
func NewEngine(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		displaySize: defaultDisplaySize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Board returns the track's leaderboard: the top rows for display plus, when
// viewer is a participant of that track, the viewer's exact 1-based rank and
// score regardless of the truncation.
//
// Ties keep allocation order: the store iterates participants in the order
// their internal ids were assigned and the sort is stable, so equal scores
// rank earlier registrations first.
func (e *Engine) Board(ctx context.Context, track types.Track, viewer int64) types.Board {
	var filtered []types.Entry
	for _, p := range e.store.All(ctx) {
		if p.Track != track {
			continue
		}
		filtered = append(filtered, types.Entry{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	if len(filtered) == 0 {
		return types.Board{Track: track, Empty: true}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	board := types.Board{Track: track}
	for i := range filtered {
		filtered[i].Rank = i + 1
		if i < e.displaySize {
			board.Top = append(board.Top, filtered[i])
		}
		if viewer != 0 && filtered[i].ID == viewer {
			v := filtered[i]
			board.Viewer = &v
		}
	}
	return board
}

// Rank returns the entry for one participant within their track, or false
// when the participant is not on that track's board.
func (e *Engine) Rank(ctx context.Context, track types.Track, id int64) (types.Entry, bool) {
	board := e.Board(ctx, track, id)
	if board.Viewer == nil {
		return types.Entry{}, false
	}
	return *board.Viewer, true
}
