package conversation

import (
	"fmt"
	"strings"

	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/quiz"
	"github.com/okian/fiesta/internal/domain/types"
)

// Canned reply texts. The gateway renders these verbatim; keyboards come
// from the menu tag, never from this text.
const (
	greeting = "🤖 Hi! ✨\n" +
		"I keep score for tonight's party.\n" +
		"Do challenges, collect points, and watch your place in the standings — the top 3 get presents 🎁\n\n" +
		"Where are you playing from?"

	welcomeOnSite = "🔥 Great, welcome to the party!\nPick an action:"

	welcomeRemote = "Hey, remote hero! ⚡️\n\n" +
		"There is a game for you too — quizzes and challenges you can play from home, " +
		"earning points just like the guests on site.\n" +
		"The top 3 remote players get presents as well 🎁\n\nMenu:"

	registerPrompt = "✍️ REGISTRATION\n\n" +
		"Send your first and last name as it should appear in the standings."

	nameRuleText = "That name won't fit the standings 😅\n" +
		"Send at least two words, letters only (like: Ivan Petrov)."

	scorePrompt = "🧮 MY POINTS\n\n" +
		"Send your ID (like 3 or #3) or your name and I'll look up the score."

	adminTargetPrompt = "➕ ADD POINTS\n\n" +
		"Send the ID (like 3 or #3) or the name of the player to credit."

	onSiteActivities = "👁 PLAY (on site)\n\n" +
		"Here is what earns points tonight:\n" +
		"— Decode the binary message ✔️ (2nd floor)\n" +
		"— Find all 6 QR codes 🔍 (everywhere)\n" +
		"— Spot AI vs reality 🎭 (3rd floor)\n" +
		"— Real news or fake news ⚡ (3rd floor)\n" +
		"— Ring toss 💍 (3rd floor)\n" +
		"— Wine chess 🍷♟ (2nd floor)\n\n" +
		"When you finish one, find a volunteer — they'll add your points."

	rulesOnSite = "ℹ️ HOW IT WORKS (on site)\n\n" +
		"— Do the activities\n" +
		"— Ask a volunteer to add your points\n" +
		"— Watch the standings\n" +
		"— Winners announced at 22:40 🏆"

	rulesRemote = "ℹ️ HOW IT WORKS (remote)\n\n" +
		"— Play the quizzes, each counts once\n" +
		"— Points land on your score automatically\n" +
		"— Watch the standings\n" +
		"— Winners announced at 22:40 🏆"

	fallbackText = "Not sure what you meant 🤔\nPlease use the buttons."
)

// quizListText renders the quiz picker for the remote play menu.
func quizListText(defs []quiz.Definition) string {
	var b strings.Builder
	b.WriteString("👁 PLAY (remote)\n\nPick a quiz:\n")
	for _, d := range defs {
		fmt.Fprintf(&b, "— %s (%d questions)\n", d.Title, len(d.Rounds))
	}
	b.WriteString("\nEach quiz pays out once, so make your answers count ✨")
	return b.String()
}

// scoreText renders one participant's score card.
func scoreText(p model.Participant) string {
	return fmt.Sprintf("%s has %d points ✨\nID: #%d\n\nKeep it up!", p.Name, p.Score, p.ID)
}

// boardText renders a track leaderboard with the viewer's own line when the
// viewer is ranked, even outside the displayed top.
func boardText(board types.Board) string {
	label := "on-site"
	if board.Track == types.TrackRemote {
		label = "remote"
	}
	if board.Empty {
		return fmt.Sprintf("Nobody on the %s board yet 🤔\nRegister and score the first points!", label)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CURRENT TOP (%s):\n\n", label)
	for _, e := range board.Top {
		fmt.Fprintf(&b, "%d. %s — %d\n", e.Rank, e.Name, e.Score)
	}
	if board.Viewer != nil {
		fmt.Fprintf(&b, "\nYour result:\n%s — %d points, place %d.", board.Viewer.Name, board.Viewer.Score, board.Viewer.Rank)
	}
	return b.String()
}

// roundReply renders a quiz round, prefixed with the previous round's
// verdict when there is one.
func roundReply(view quiz.RoundView, verdict string) model.Reply {
	var b strings.Builder
	if verdict != "" {
		b.WriteString(verdict)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s — question %d of %d\n\n%s", view.Title, view.Index+1, view.Total, view.Prompt)
	return model.Reply{Text: b.String(), Choices: view.Choices}
}

// answerVerdict renders the outcome of a scored answer.
func answerVerdict(res quiz.AnswerResult) string {
	if !res.Correct {
		return fmt.Sprintf("Not quite 😔 The answer was: %s", res.CorrectAnswer)
	}
	if res.Points == 0 {
		// Correct replay of a round scored before an abandon.
		return "Correct ✅ (already counted earlier)"
	}
	return fmt.Sprintf("Correct ✅ +%d points", res.Points)
}
