// Package types contains common types used across the application
package types

import (
	"errors"
	"strings"
)

// Track identifies which of the two event tracks a participant plays in.
type Track string

// The two tracks. Points on the on-site track come from staff adjudication,
// points on the remote track come from scripted quizzes.
const (
	TrackOnSite Track = "on_site"
	TrackRemote Track = "remote"
)

// ErrUnknownTrack is returned when a track string cannot be parsed.
var ErrUnknownTrack = errors.New("unknown track")

// ParseTrack resolves a track name from transport input.
func ParseTrack(s string) (Track, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on_site", "onsite", "on-site":
		return TrackOnSite, nil
	case "remote", "online":
		return TrackRemote, nil
	default:
		return "", ErrUnknownTrack
	}
}

// Valid reports whether t is one of the two known tracks.
func (t Track) Valid() bool {
	return t == TrackOnSite || t == TrackRemote
}

// State is a conversational state of the session state machine.
type State int

// The finite state set. ChoosingTrack is the initial state of a brand-new
// session; MainMenu is the hub every feature returns to. There is no
// terminal state.
const (
	StateChoosingTrack State = iota
	StateMainMenu
	StateRegisteringName
	StateCheckingScore
	StateAdminSelectTarget
	StateAdminEnterDelta
	StateQuizQuestion
)

// String returns a stable name for logging and stats.
func (s State) String() string {
	switch s {
	case StateChoosingTrack:
		return "choosing_track"
	case StateMainMenu:
		return "main_menu"
	case StateRegisteringName:
		return "registering_name"
	case StateCheckingScore:
		return "checking_score"
	case StateAdminSelectTarget:
		return "admin_select_target"
	case StateAdminEnterDelta:
		return "admin_enter_delta"
	case StateQuizQuestion:
		return "quiz_question"
	default:
		return "unknown"
	}
}

// Intent is a closed tag describing what an inbound update asks for.
// The transport adapter maps button labels and commands to intents so the
// state machine never matches on display strings.
type Intent int

const (
	// IntentText is free text that matched no recognized command.
	IntentText Intent = iota
	IntentStart
	IntentTrackOnSite
	IntentTrackRemote
	IntentBackToMenu
	IntentRegister
	IntentPlay
	IntentMyScore
	IntentLeaderboard
	IntentRules
	IntentAdminAdjust
	IntentQuiz
)

// Input is a decoded inbound action: the intent tag plus any payload.
type Input struct {
	Intent Intent
	Text   string // raw text, used by free-text states and quiz answers
	Quiz   string // quiz id when Intent == IntentQuiz
}

// Entry represents a leaderboard row.
type Entry struct {
	Rank  int    `json:"rank"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Board is the result of a leaderboard query for one track.
type Board struct {
	Track Track   `json:"track"`
	Top   []Entry `json:"top"`
	// Empty distinguishes "no participants on this track" from a short list.
	Empty bool `json:"empty"`
	// Viewer carries the querying participant's exact rank and score, even
	// when they fall outside the displayed top entries.
	Viewer *Entry `json:"viewer,omitempty"`
}
