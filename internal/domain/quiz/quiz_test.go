package quiz_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/okian/fiesta/internal/adapters/repository"
	"github.com/okian/fiesta/internal/domain/model"
	quiz "github.com/okian/fiesta/internal/domain/quiz"
	scoring "github.com/okian/fiesta/internal/domain/scoring"
	"github.com/okian/fiesta/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// testCatalog is a two-quiz catalog small enough to reason about scores.
func testCatalog() []quiz.Definition {
	return []quiz.Definition{
		{
			ID:    "colors",
			Title: "Colors",
			Rounds: []quiz.Round{
				{Prompt: "Sky?", Kind: quiz.RuleFreeText, Answer: "blue", Accepted: []string{"light blue"}, Points: 1},
				{Prompt: "Grass?", Kind: quiz.RuleFreeText, Answer: "green", Points: 1},
				{Prompt: "Is snow white?", Kind: quiz.RuleTrueFalse, Options: []string{"True", "False"}, Answer: "True", Points: 2},
			},
		},
		{
			ID:    "numbers",
			Title: "Numbers",
			Rounds: []quiz.Round{
				{Prompt: "2+2?", Kind: quiz.RuleFreeText, Answer: "4", Points: 1},
			},
		},
	}
}

func TestQuizEngine(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*quiz.Engine, *scoring.Ledger, int64) {
		store := repository.NewRoster()
		ledger := scoring.NewLedger(store)
		engine := quiz.NewEngine(ledger, quiz.WithCatalog(testCatalog()))
		p, _ := store.Upsert(ctx, "tg-1", "Ivan Petrov", types.TrackRemote)
		return engine, ledger, p.ID
	}

	score := func(ledger *scoring.Ledger, id int64) int {
		// Awarded has no score accessor; adjust by zero to read the total.
		total, _ := ledger.Adjust(ctx, id, 0)
		return total
	}

	Convey("Given a quiz engine with a known catalog", t, func() {
		engine, ledger, id := newFixture()

		Convey("When listing and looking up quizzes", func() {
			Convey("Then the catalog keeps definition order", func() {
				defs := engine.List()
				So(defs, ShouldHaveLength, 2)
				So(defs[0].ID, ShouldEqual, "colors")
				So(defs[1].ID, ShouldEqual, "numbers")
			})

			Convey("Then lookup finds known ids only", func() {
				_, ok := engine.Lookup("colors")
				So(ok, ShouldBeTrue)
				_, ok = engine.Lookup("nope")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When starting an unknown quiz", func() {
			_, err := engine.Start(ctx, id, "nope")

			Convey("Then the unknown-quiz sentinel surfaces", func() {
				So(errors.Is(err, quiz.ErrUnknownQuiz), ShouldBeTrue)
			})
		})

		Convey("When playing a quiz to completion with every answer correct", func() {
			res, err := engine.Start(ctx, id, "colors")
			So(err, ShouldBeNil)
			So(res.Refused, ShouldBeFalse)
			So(res.Round.Prompt, ShouldEqual, "Sky?")
			So(res.Round.Total, ShouldEqual, 3)

			a1, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 0}, "Blue")
			So(err, ShouldBeNil)
			So(a1.Correct, ShouldBeTrue)
			So(a1.Points, ShouldEqual, 1)
			So(a1.Done, ShouldBeFalse)
			So(a1.Next.Round, ShouldEqual, 1)

			a2, err := engine.Answer(ctx, id, a1.Next, "green")
			So(err, ShouldBeNil)
			So(a2.Correct, ShouldBeTrue)

			a3, err := engine.Answer(ctx, id, a2.Next, "true")
			So(err, ShouldBeNil)

			Convey("Then the last answer completes the quiz", func() {
				So(a3.Correct, ShouldBeTrue)
				So(a3.Points, ShouldEqual, 2)
				So(a3.Done, ShouldBeTrue)
				So(a3.NextRound, ShouldBeNil)
			})

			Convey("Then the total score is the sum of the rounds", func() {
				So(score(ledger, id), ShouldEqual, 4)
			})

			Convey("Then re-entry is refused with no side effects", func() {
				again, err := engine.Start(ctx, id, "colors")
				So(err, ShouldBeNil)
				So(again.Refused, ShouldBeTrue)
				So(score(ledger, id), ShouldEqual, 4)
			})

			Convey("Then other quizzes remain playable", func() {
				other, err := engine.Start(ctx, id, "numbers")
				So(err, ShouldBeNil)
				So(other.Refused, ShouldBeFalse)
			})
		})

		Convey("When answering incorrectly", func() {
			res, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 0}, "red")

			Convey("Then no points land and the answer is revealed", func() {
				So(err, ShouldBeNil)
				So(res.Correct, ShouldBeFalse)
				So(res.Points, ShouldEqual, 0)
				So(res.CorrectAnswer, ShouldEqual, "blue")
				So(score(ledger, id), ShouldEqual, 0)
			})

			Convey("Then progress still advances", func() {
				So(res.Done, ShouldBeFalse)
				So(res.Next.Round, ShouldEqual, 1)
				So(res.NextRound.Prompt, ShouldEqual, "Grass?")
			})
		})

		Convey("When a quiz is abandoned after scored rounds and replayed", func() {
			a1, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 0}, "blue")
			So(err, ShouldBeNil)
			So(a1.Points, ShouldEqual, 1)
			a2, err := engine.Answer(ctx, id, a1.Next, "green")
			So(err, ShouldBeNil)
			So(a2.Points, ShouldEqual, 1)
			// Abandon here: no completion flag set yet.

			Convey("Then the quiz can be re-entered from the first round", func() {
				res, err := engine.Start(ctx, id, "colors")
				So(err, ShouldBeNil)
				So(res.Refused, ShouldBeFalse)
				So(res.Round.Index, ShouldEqual, 0)
			})

			Convey("Then replayed rounds are correct but score nothing new", func() {
				replay, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 0}, "blue")
				So(err, ShouldBeNil)
				So(replay.Correct, ShouldBeTrue)
				So(replay.Points, ShouldEqual, 0)
				So(score(ledger, id), ShouldEqual, 2)
			})

			Convey("Then finishing the replay only adds the unscored round", func() {
				r1, _ := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 0}, "blue")
				r2, _ := engine.Answer(ctx, id, r1.Next, "green")
				r3, err := engine.Answer(ctx, id, r2.Next, "true")
				So(err, ShouldBeNil)
				So(r3.Done, ShouldBeTrue)
				So(r3.Points, ShouldEqual, 2)
				So(score(ledger, id), ShouldEqual, 4)
			})
		})

		Convey("When answers differ only in casing and spacing", func() {
			Convey("Then normalization accepts them", func() {
				res, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 0}, "  LIGHT   Blue ")
				So(err, ShouldBeNil)
				So(res.Correct, ShouldBeTrue)
			})

			Convey("Then an empty answer never matches", func() {
				res, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 0}, "   ")
				So(err, ShouldBeNil)
				So(res.Correct, ShouldBeFalse)
			})
		})

		Convey("When progress points outside the catalog", func() {
			Convey("Then an unknown quiz id errors", func() {
				_, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "nope", Round: 0}, "x")
				So(errors.Is(err, quiz.ErrUnknownQuiz), ShouldBeTrue)
			})

			Convey("Then an out-of-range round errors", func() {
				_, err := engine.Answer(ctx, id, model.QuizProgress{Quiz: "colors", Round: 9}, "x")
				So(errors.Is(err, quiz.ErrBadProgress), ShouldBeTrue)
			})
		})
	})

	Convey("Given the default catalog", t, func() {
		Convey("Then every quiz has an id, a title and scored rounds", func() {
			defs := quiz.DefaultCatalog()
			So(len(defs), ShouldBeGreaterThanOrEqualTo, 4)
			for _, d := range defs {
				So(d.ID, ShouldNotBeEmpty)
				So(d.Title, ShouldNotBeEmpty)
				So(len(d.Rounds), ShouldBeGreaterThan, 0)
				for _, r := range d.Rounds {
					So(r.Prompt, ShouldNotBeEmpty)
					So(r.Answer, ShouldNotBeEmpty)
					So(r.Points, ShouldBeGreaterThan, 0)
				}
			}
		})
	})
}
