// Package transport decodes gateway input into intent tags. The messaging
// gateway translates its button labels (in whatever language the chat UI
// speaks) into these canonical tokens; the core never sees display strings.
package transport

import (
	"strings"

	"github.com/okian/fiesta/internal/domain/types"
)

// Canonical command tokens accepted from the gateway.
const (
	cmdStart       = "/start"
	cmdMenu        = "menu"
	cmdOnSite      = "onsite"
	cmdRemote      = "remote"
	cmdRegister    = "register"
	cmdPlay        = "play"
	cmdMyScore     = "score"
	cmdLeaderboard = "leaderboard"
	cmdRules       = "rules"
	cmdAddPoints   = "addpoints"
	quizPrefix     = "quiz:"
)

// Decode maps one inbound text to a decoded input. Unrecognized text comes
// back as IntentText carrying the original string, for the free-text states
// and quiz answers.
func Decode(text string) types.Input {
	token := strings.ToLower(strings.TrimSpace(text))
	switch token {
	case cmdStart:
		return types.Input{Intent: types.IntentStart}
	case cmdMenu, "/menu", "back":
		return types.Input{Intent: types.IntentBackToMenu}
	case cmdOnSite:
		return types.Input{Intent: types.IntentTrackOnSite}
	case cmdRemote:
		return types.Input{Intent: types.IntentTrackRemote}
	case cmdRegister:
		return types.Input{Intent: types.IntentRegister}
	case cmdPlay:
		return types.Input{Intent: types.IntentPlay}
	case cmdMyScore:
		return types.Input{Intent: types.IntentMyScore}
	case cmdLeaderboard:
		return types.Input{Intent: types.IntentLeaderboard}
	case cmdRules:
		return types.Input{Intent: types.IntentRules}
	case cmdAddPoints:
		return types.Input{Intent: types.IntentAdminAdjust}
	}
	if strings.HasPrefix(token, quizPrefix) {
		return types.Input{
			Intent: types.IntentQuiz,
			Quiz:   strings.TrimSpace(strings.TrimPrefix(token, quizPrefix)),
		}
	}
	return types.Input{Intent: types.IntentText, Text: strings.TrimSpace(text)}
}
