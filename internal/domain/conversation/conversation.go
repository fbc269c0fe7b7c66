// Package conversation implements the session state machine: which feature
// an inbound input reaches, and what state the session moves to next.
//
// The machine dispatches on intent tags only; mapping button labels to
// intents is the transport adapter's job. Every input, valid or not, yields
// a reply and a defined next state.
package conversation

import (
	"context"
	"strconv"

	"github.com/okian/fiesta/internal/domain/identity"
	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/quiz"
	"github.com/okian/fiesta/internal/domain/ranking"
	"github.com/okian/fiesta/internal/domain/scoring"
	"github.com/okian/fiesta/internal/domain/types"
	"github.com/okian/fiesta/pkg/logger"
	"github.com/okian/fiesta/pkg/metrics"
)

// Machine orchestrates the registry, ledger, quiz and ranking engines based
// on the session's current state and the decoded input.
type Machine struct {
	registry *identity.Registry
	ledger   *scoring.Ledger
	quizzes  *quiz.Engine
	boards   *ranking.Engine
	admins   map[string]bool
	log      logger.Logger
}

// NewMachine creates a state machine over the given collaborators.
func NewMachine(registry *identity.Registry, ledger *scoring.Ledger, quizzes *quiz.Engine, boards *ranking.Engine, opts ...Option) *Machine {
	m := &Machine{
		registry: registry,
		ledger:   ledger,
		quizzes:  quizzes,
		boards:   boards,
		admins:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle processes one decoded input for one session. The session is mutated
// in place; the returned reply is handed to the gateway verbatim.
func (m *Machine) Handle(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	// A return-to-menu input always wins, from any state. Quizzes abandoned
	// this way keep their round points but never gain the completion flag.
	if in.Intent == types.IntentBackToMenu {
		return m.toMenu(ctx, externalID, sess, "Main menu:")
	}
	// Starting over re-enters the track picker with a fresh session flow.
	if in.Intent == types.IntentStart {
		sess.ResetFlow()
		sess.State = types.StateChoosingTrack
		return model.Reply{Text: greeting, Menu: model.MenuTrackPicker}
	}

	switch sess.State {
	case types.StateChoosingTrack:
		return m.handleChoosingTrack(ctx, externalID, sess, in)
	case types.StateMainMenu:
		return m.handleMainMenu(ctx, externalID, sess, in)
	case types.StateRegisteringName:
		return m.handleRegisteringName(ctx, externalID, sess, in)
	case types.StateCheckingScore:
		return m.handleCheckingScore(ctx, externalID, sess, in)
	case types.StateAdminSelectTarget:
		return m.handleAdminSelectTarget(ctx, externalID, sess, in)
	case types.StateAdminEnterDelta:
		return m.handleAdminEnterDelta(ctx, externalID, sess, in)
	case types.StateQuizQuestion:
		return m.handleQuizQuestion(ctx, externalID, sess, in)
	default:
		// Unknown state means a corrupted session; recover at the hub
		// rather than leaving the conversation stuck.
		if m.log != nil {
			m.log.Warn(ctx, "session in unknown state", logger.Int("state", int(sess.State)))
		}
		return m.toMenu(ctx, externalID, sess, "Main menu:")
	}
}

func (m *Machine) handleChoosingTrack(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	switch in.Intent {
	case types.IntentTrackOnSite:
		sess.TrackChoice = types.TrackOnSite
		sess.State = types.StateMainMenu
		return model.Reply{Text: welcomeOnSite, Menu: model.MenuMainOnSite}
	case types.IntentTrackRemote:
		sess.TrackChoice = types.TrackRemote
		sess.State = types.StateMainMenu
		return model.Reply{Text: welcomeRemote, Menu: model.MenuMainRemote}
	default:
		// Only the two track picks are accepted here; anything else
		// re-prompts without changing state.
		return model.Reply{Text: "Please pick one of the two options.", Menu: model.MenuTrackPicker}
	}
}

func (m *Machine) handleMainMenu(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	switch in.Intent {
	case types.IntentTrackOnSite, types.IntentTrackRemote:
		// The menu re-offers the track pick; treat it like the entry choice.
		sess.State = types.StateChoosingTrack
		return m.handleChoosingTrack(ctx, externalID, sess, in)

	case types.IntentRegister:
		sess.State = types.StateRegisteringName
		return model.Reply{Text: registerPrompt}

	case types.IntentPlay:
		if m.currentTrack(ctx, externalID, sess) == types.TrackRemote {
			return model.Reply{Text: quizListText(m.quizzes.List()), Menu: model.MenuQuizList}
		}
		return model.Reply{Text: onSiteActivities, Menu: model.MenuMainOnSite}

	case types.IntentQuiz:
		return m.startQuiz(ctx, externalID, sess, in.Quiz)

	case types.IntentMyScore:
		sess.State = types.StateCheckingScore
		return model.Reply{Text: scorePrompt}

	case types.IntentLeaderboard:
		track := m.currentTrack(ctx, externalID, sess)
		var viewer int64
		if p, ok := m.registry.FindByExternal(ctx, externalID); ok {
			viewer = p.ID
		}
		board := m.boards.Board(ctx, track, viewer)
		return model.Reply{Text: boardText(board), Menu: m.menuFor(ctx, externalID, sess)}

	case types.IntentRules:
		if m.currentTrack(ctx, externalID, sess) == types.TrackRemote {
			return model.Reply{Text: rulesRemote, Menu: model.MenuMainRemote}
		}
		return model.Reply{Text: rulesOnSite, Menu: model.MenuMainOnSite}

	case types.IntentAdminAdjust:
		if reply := m.requireAdmin(ctx, externalID, sess); reply != nil {
			return *reply
		}
		sess.State = types.StateAdminSelectTarget
		return model.Reply{Text: adminTargetPrompt}

	default:
		metrics.RecordUnknownInput()
		return model.Reply{Text: fallbackText, Menu: m.menuFor(ctx, externalID, sess)}
	}
}

func (m *Machine) handleRegisteringName(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	track := sess.TrackChoice
	if !track.Valid() {
		if p, ok := m.registry.FindByExternal(ctx, externalID); ok {
			track = p.Track
		} else {
			track = types.TrackOnSite
		}
	}
	p, err := m.registry.Register(ctx, externalID, in.Text, track)
	if err != nil {
		// Validation failures re-prompt in the same state with the rule.
		return model.Reply{Text: nameRuleText}
	}
	sess.State = types.StateMainMenu
	return model.Reply{
		Text: "You are registered as " + p.Name + " ✨\nYour player ID: #" + strconv.FormatInt(p.ID, 10) + "\n\nGo play and collect points!",
		Menu: m.menuFor(ctx, externalID, sess),
	}
}

func (m *Machine) handleCheckingScore(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	sess.State = types.StateMainMenu
	p, ok := m.registry.FindByQuery(ctx, in.Text)
	if !ok {
		return model.Reply{
			Text: "No player found with that name or ID 😔\nTry again, or register first.",
			Menu: m.menuFor(ctx, externalID, sess),
		}
	}
	return model.Reply{Text: scoreText(p), Menu: m.menuFor(ctx, externalID, sess)}
}

func (m *Machine) handleAdminSelectTarget(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	p, ok := m.registry.FindByQuery(ctx, in.Text)
	if !ok {
		// Resolution failure keeps the state and re-prompts.
		return model.Reply{Text: "No such player. Check the ID or name and try again."}
	}
	if p.Track != types.TrackOnSite {
		// Remote players score through quizzes only; manual entry is
		// out of scope for them.
		return model.Reply{Text: p.Name + " plays the remote track and scores through quizzes.\nPick an on-site player."}
	}
	sess.AdminTarget = p.ID
	sess.State = types.StateAdminEnterDelta
	return model.Reply{Text: "Player: " + p.Name + " (ID #" + strconv.FormatInt(p.ID, 10) + ")\nHow many points? Send a number (negative to subtract)."}
}

func (m *Machine) handleAdminEnterDelta(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	delta, err := strconv.Atoi(in.Text)
	if err != nil {
		// Non-integer input stays here.
		return model.Reply{Text: "That has to be a number (like 5 or -3). Try again."}
	}
	target := sess.AdminTarget
	sess.AdminTarget = 0
	sess.State = types.StateMainMenu
	score, err := m.ledger.Adjust(ctx, target, delta)
	if err != nil {
		return model.Reply{Text: "That player is gone from the roster. Pick them again.", Menu: m.menuFor(ctx, externalID, sess)}
	}
	p, _ := m.registry.FindByQuery(ctx, "#"+strconv.FormatInt(target, 10))
	return model.Reply{
		Text: "Done ✅\n" + p.Name + " (ID #" + strconv.FormatInt(target, 10) + ") now has " + strconv.Itoa(score) + " points.",
		Menu: m.menuFor(ctx, externalID, sess),
	}
}

func (m *Machine) startQuiz(ctx context.Context, externalID string, sess *model.Session, quizID string) model.Reply {
	p, reply := m.requireRegistered(ctx, externalID, sess)
	if reply != nil {
		return *reply
	}
	if reply := m.requireTrack(ctx, externalID, sess, p, types.TrackRemote); reply != nil {
		return *reply
	}

	res, err := m.quizzes.Start(ctx, p.ID, quizID)
	if err != nil {
		metrics.RecordUnknownInput()
		return model.Reply{Text: fallbackText, Menu: model.MenuQuizList}
	}
	if res.Refused {
		return model.Reply{
			Text: "You already finished that one — each quiz counts once 😉\nPick another:",
			Menu: model.MenuQuizList,
		}
	}
	sess.Quiz = model.QuizProgress{Quiz: quizID, Round: 0}
	sess.State = types.StateQuizQuestion
	return roundReply(res.Round, "")
}

func (m *Machine) handleQuizQuestion(ctx context.Context, externalID string, sess *model.Session, in types.Input) model.Reply {
	p, reply := m.requireRegistered(ctx, externalID, sess)
	if reply != nil {
		return *reply
	}
	res, err := m.quizzes.Answer(ctx, p.ID, sess.Quiz, in.Text)
	if err != nil {
		// Progress no longer matches the catalog; recover at the hub.
		return m.toMenu(ctx, externalID, sess, "Something went off the rails, back to the menu.")
	}

	verdict := answerVerdict(res)
	if res.Done {
		sess.Quiz = model.QuizProgress{}
		sess.State = types.StateMainMenu
		return model.Reply{Text: verdict + "\n\nThat was the last question — quiz complete! 🎉", Menu: model.MenuQuizList}
	}
	sess.Quiz = res.Next
	return roundReply(*res.NextRound, verdict)
}

// toMenu re-derives the hub menu from the participant's persisted track,
// falling back to the pre-registration picker when nothing is bound yet.
func (m *Machine) toMenu(ctx context.Context, externalID string, sess *model.Session, text string) model.Reply {
	sess.ResetFlow()
	menu := m.menuFor(ctx, externalID, sess)
	if menu == model.MenuTrackPicker {
		sess.State = types.StateChoosingTrack
		return model.Reply{Text: greeting, Menu: model.MenuTrackPicker}
	}
	sess.State = types.StateMainMenu
	return model.Reply{Text: text, Menu: menu}
}

// currentTrack prefers the persisted participant track over the session's
// pre-registration choice.
func (m *Machine) currentTrack(ctx context.Context, externalID string, sess *model.Session) types.Track {
	if p, ok := m.registry.FindByExternal(ctx, externalID); ok {
		return p.Track
	}
	if sess.TrackChoice.Valid() {
		return sess.TrackChoice
	}
	return types.TrackOnSite
}

// menuFor picks the keyboard tag matching the current track, or the track
// picker when no track is known yet.
func (m *Machine) menuFor(ctx context.Context, externalID string, sess *model.Session) model.Menu {
	if p, ok := m.registry.FindByExternal(ctx, externalID); ok {
		if p.Track == types.TrackRemote {
			return model.MenuMainRemote
		}
		return model.MenuMainOnSite
	}
	switch sess.TrackChoice {
	case types.TrackOnSite:
		return model.MenuMainOnSite
	case types.TrackRemote:
		return model.MenuMainRemote
	default:
		return model.MenuTrackPicker
	}
}
