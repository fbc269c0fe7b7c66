package conversation

import (
	"context"

	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
)

// Guards are composable precondition checks run at the top of gated
// handlers. Each returns a non-nil reply when the check fails; the reply is
// the fail-closed response, with the session already forced back to the hub.
// The underlying permission error never reaches the user.

// requireRegistered resolves the bound participant or fails closed.
func (m *Machine) requireRegistered(ctx context.Context, externalID string, sess *model.Session) (model.Participant, *model.Reply) {
	p, ok := m.registry.FindByExternal(ctx, externalID)
	if ok {
		return p, nil
	}
	reply := m.toMenu(ctx, externalID, sess, "You need to register first — it takes one message ✍️")
	return model.Participant{}, &reply
}

// requireAdmin checks the caller against the fixed administrator set.
func (m *Machine) requireAdmin(ctx context.Context, externalID string, sess *model.Session) *model.Reply {
	if m.admins[externalID] {
		return nil
	}
	reply := m.toMenu(ctx, externalID, sess, "That one is for the organizers only 🙅")
	return &reply
}

// requireTrack checks that the participant plays the given track.
func (m *Machine) requireTrack(ctx context.Context, externalID string, sess *model.Session, p model.Participant, track types.Track) *model.Reply {
	if p.Track == track {
		return nil
	}
	var text string
	if track == types.TrackRemote {
		text = "Quizzes are for remote players. On-site points come from the activity stands — go grab some!"
	} else {
		text = "That feature is for on-site players."
	}
	reply := m.toMenu(ctx, externalID, sess, text)
	return &reply
}
