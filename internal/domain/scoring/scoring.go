// Package scoring implements the point ledger: score adjustments and
// one-time awards guarded by per-participant flags.
package scoring

import (
	"context"
	"fmt"

	"github.com/okian/fiesta/internal/adapters/repository"
	"github.com/okian/fiesta/pkg/metrics"
)

// Ledger mutates participant scores through the roster store. All mutations
// write through to the snapshot gateway inside the store.
type Ledger struct {
	store repository.Store
}

// NewLedger creates a ledger over the given store.
func NewLedger(store repository.Store) *Ledger {
	return &Ledger{store: store}
}

// Adjust adds delta (any sign) to the participant's score and returns the
// new total. Scores may go negative.
func (l *Ledger) Adjust(ctx context.Context, id int64, delta int) (int, error) {
	score, err := l.store.Adjust(ctx, id, delta)
	if err != nil {
		return 0, fmt.Errorf("adjust participant %d: %w", id, err)
	}
	metrics.RecordPointAdjustment()
	return score, nil
}

// AwardOnce applies delta and sets flag on the participant. If the flag is
// already set nothing changes and false is returned. This is the idempotency
// guard keeping one-shot awards from being farmed.
func (l *Ledger) AwardOnce(ctx context.Context, id int64, flag string, delta int) (bool, error) {
	awarded, err := l.store.AwardOnce(ctx, id, flag, delta)
	if err != nil {
		return false, fmt.Errorf("award %q to participant %d: %w", flag, id, err)
	}
	if awarded && delta != 0 {
		metrics.RecordPointAdjustment()
	}
	return awarded, nil
}

// Awarded reports whether flag is already set on the participant.
func (l *Ledger) Awarded(ctx context.Context, id int64, flag string) bool {
	p, ok := l.store.ByID(ctx, id)
	return ok && p.Flags[flag]
}

// RoundFlag keys a single quiz round's award, so a restarted quiz never
// re-awards rounds that were already scored before an abandon.
func RoundFlag(quiz string, round int) string {
	return fmt.Sprintf("%s/%d", quiz, round)
}
