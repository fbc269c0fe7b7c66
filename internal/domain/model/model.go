// Package model contains domain models passed between layers.
package model

import "github.com/okian/fiesta/internal/domain/types"

// Participant is one registered player. Owned by the roster store; callers
// receive copies.
type Participant struct {
	ID    int64           // internal id, monotonically assigned, never reused
	Name  string          // display name shown on leaderboards
	Track types.Track     // set at registration, mutable on re-registration
	Score int             // may go negative under staff adjustment
	Flags map[string]bool // one-time award keys already granted (quizzes and quiz rounds)
}

// Clone returns a deep copy safe to hand outside the store.
func (p Participant) Clone() Participant {
	flags := make(map[string]bool, len(p.Flags))
	for k, v := range p.Flags {
		flags[k] = v
	}
	p.Flags = flags
	return p
}

// Update is one inbound user action delivered by the messaging gateway.
type Update struct {
	UpdateID   string // gateway-unique id, used for redelivery dedupe
	ExternalID string // opaque messaging account identifier
	Text       string // button label or free text, exactly as typed
}

// Menu tags tell the gateway which keyboard to render next. The core never
// knows button labels; the gateway owns the mapping both ways.
type Menu string

const (
	MenuNone        Menu = ""             // plain text entry expected
	MenuTrackPicker Menu = "track_picker" // pre-registration on-site/remote choice
	MenuMainOnSite  Menu = "main_on_site"
	MenuMainRemote  Menu = "main_remote"
	MenuQuizList    Menu = "quiz_list"
)

// Reply is the structured response payload handed back to the gateway.
type Reply struct {
	Text    string   `json:"text"`
	Menu    Menu     `json:"menu,omitempty"`
	Choices []string `json:"choices,omitempty"` // inline answer options for the current quiz round
}

// QuizProgress tracks position inside a quiz run. The zero value means the
// session is not inside a quiz.
type QuizProgress struct {
	Quiz  string
	Round int
}

// Session is the transient per-conversation state, keyed by external id.
// Lost on restart; only Participant data is durable.
type Session struct {
	State       types.State
	TrackChoice types.Track  // track picked before registration commits
	Quiz        QuizProgress // set only while inside a quiz
	AdminTarget int64        // internal id awaiting a point adjustment, admin flow only
}

// NewSession returns a fresh session at the track-picking entry state.
func NewSession() *Session {
	return &Session{State: types.StateChoosingTrack}
}

// ResetFlow clears any in-progress sub-flow without touching the track choice.
func (s *Session) ResetFlow() {
	s.Quiz = QuizProgress{}
	s.AdminTarget = 0
}
