// Package quiz runs ordered question rounds and scores answers through the
// ledger. One engine serves every quiz; quizzes differ only in their data.
package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/scoring"
	"github.com/okian/fiesta/pkg/metrics"
)

// RuleKind selects how a round's answer is judged.
type RuleKind int

const (
	// RuleChoice matches exactly one option from a closed set of two.
	RuleChoice RuleKind = iota
	// RuleFreeText matches normalized free text against the canonical
	// answer or any of the round's accepted variants.
	RuleFreeText
	// RuleTrueFalse matches a binary true/false answer.
	RuleTrueFalse
)

// Round is one question: a prompt, a correctness rule and a point value.
type Round struct {
	Prompt   string
	Kind     RuleKind
	Options  []string // closed answer set for RuleChoice and RuleTrueFalse
	Answer   string   // canonical correct answer
	Accepted []string // extra accepted variants, RuleFreeText only
	Points   int
}

// Definition is a complete quiz: an id, a title and its fixed round order.
type Definition struct {
	ID     string
	Title  string
	Rounds []Round
}

// RoundView is what the conversation layer shows for one round.
type RoundView struct {
	Quiz    string
	Title   string
	Prompt  string
	Choices []string
	Index   int // zero-based
	Total   int
}

// StartResult reports the outcome of entering a quiz.
type StartResult struct {
	Refused bool // quiz already completed by this participant
	Round   RoundView
}

// AnswerResult reports the outcome of scoring one answer.
type AnswerResult struct {
	Correct       bool
	Points        int    // points applied now; zero when incorrect or round already scored
	CorrectAnswer string // revealed when incorrect
	Done          bool   // quiz finished, completion flag set
	Next          model.QuizProgress
	NextRound     *RoundView // nil when Done
}

// Engine scores quiz answers against the catalog.
type Engine struct {
	ledger  *scoring.Ledger
	defs    map[string]Definition
	order   []string
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCatalog replaces the default quiz catalog.
func WithCatalog(defs []Definition) Option {
	return func(e *Engine) {
		e.defs = make(map[string]Definition, len(defs))
		e.order = e.order[:0]
		for _, d := range defs {
			e.defs[d.ID] = d
			e.order = append(e.order, d.ID)
		}
	}
}

// NewEngine creates a quiz engine over the given ledger.
func NewEngine(ledger *scoring.Ledger, opts ...Option) *Engine {
	e := &Engine{ledger: ledger}
	WithCatalog(DefaultCatalog())(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// List returns the catalog in definition order.
func (e *Engine) List() []Definition {
	out := make([]Definition, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.defs[id])
	}
	return out
}

// Lookup returns a quiz definition by id.
func (e *Engine) Lookup(id string) (Definition, bool) {
	d, ok := e.defs[id]
	return d, ok
}

// Start enters a quiz for the participant. A quiz whose completion flag is
// already set refuses re-entry with no side effects.
func (e *Engine) Start(ctx context.Context, participant int64, quizID string) (StartResult, error) {
	def, ok := e.defs[quizID]
	if !ok {
		return StartResult{}, fmt.Errorf("%w: %q", ErrUnknownQuiz, quizID)
	}
	if e.ledger.Awarded(ctx, participant, def.ID) {
		metrics.RecordQuizReentryRefused()
		return StartResult{Refused: true}, nil
	}
	return StartResult{Round: e.view(def, 0)}, nil
}

// Answer scores text against the round the participant is currently on.
// Correct answers award the round's points immediately; incorrect answers
// score zero and reveal the right answer. Either way progress advances, and
// moving past the last round sets the quiz completion flag.
//
// Rounds already scored in an earlier, abandoned run stay flagged, so a
// replay can be answered correctly without earning twice.
func (e *Engine) Answer(ctx context.Context, participant int64, prog model.QuizProgress, text string) (AnswerResult, error) {
	def, ok := e.defs[prog.Quiz]
	if !ok {
		return AnswerResult{}, fmt.Errorf("%w: %q", ErrUnknownQuiz, prog.Quiz)
	}
	if prog.Round < 0 || prog.Round >= len(def.Rounds) {
		return AnswerResult{}, fmt.Errorf("%w: round %d of %q", ErrBadProgress, prog.Round, prog.Quiz)
	}

	round := def.Rounds[prog.Round]
	res := AnswerResult{Correct: round.matches(text)}
	if res.Correct {
		awarded, err := e.ledger.AwardOnce(ctx, participant, scoring.RoundFlag(def.ID, prog.Round), round.Points)
		if err != nil {
			return AnswerResult{}, err
		}
		if awarded {
			res.Points = round.Points
			metrics.RecordQuizRoundScored()
		}
	} else {
		res.CorrectAnswer = round.Answer
	}

	next := prog.Round + 1
	if next >= len(def.Rounds) {
		// Points were already granted per round; the zero-delta award only
		// sets the completion flag.
		if _, err := e.ledger.AwardOnce(ctx, participant, def.ID, 0); err != nil {
			return AnswerResult{}, err
		}
		metrics.RecordQuizCompletion()
		res.Done = true
		return res, nil
	}

	res.Next = model.QuizProgress{Quiz: def.ID, Round: next}
	view := e.view(def, next)
	res.NextRound = &view
	return res, nil
}

func (e *Engine) view(def Definition, index int) RoundView {
	round := def.Rounds[index]
	return RoundView{
		Quiz:    def.ID,
		Title:   def.Title,
		Prompt:  round.Prompt,
		Choices: round.Options,
		Index:   index,
		Total:   len(def.Rounds),
	}
}

// matches judges text against the round's rule.
func (r Round) matches(text string) bool {
	got := normalize(text)
	if got == "" {
		return false
	}
	switch r.Kind {
	case RuleFreeText:
		if got == normalize(r.Answer) {
			return true
		}
		for _, v := range r.Accepted {
			if got == normalize(v) {
				return true
			}
		}
		return false
	case RuleChoice, RuleTrueFalse:
		return got == normalize(r.Answer)
	default:
		return false
	}
}

// normalize lowercases and collapses whitespace so answers survive casing
// and spacing differences.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
