package ranking_test

import (
	"context"
	"fmt"
	"testing"

	repository "github.com/okian/fiesta/internal/adapters/repository"
	ranking "github.com/okian/fiesta/internal/domain/ranking"
	"github.com/okian/fiesta/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBoard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a ranking engine over a roster", t, func() {
		store := repository.NewRoster()
		engine := ranking.NewEngine(store)

		Convey("When the track has no participants", func() {
			board := engine.Board(ctx, types.TrackOnSite, 0)

			Convey("Then the board is explicitly empty", func() {
				So(board.Empty, ShouldBeTrue)
				So(board.Top, ShouldBeEmpty)
				So(board.Viewer, ShouldBeNil)
			})
		})

		Convey("When participants have distinct scores", func() {
			a, _ := store.Upsert(ctx, "tg-1", "Anna Berg", types.TrackOnSite)
			b, _ := store.Upsert(ctx, "tg-2", "Boris Lind", types.TrackOnSite)
			c, _ := store.Upsert(ctx, "tg-3", "Clara Novak", types.TrackOnSite)
			_, _ = store.Adjust(ctx, a.ID, 3)
			_, _ = store.Adjust(ctx, b.ID, 9)
			_, _ = store.Adjust(ctx, c.ID, 6)

			board := engine.Board(ctx, types.TrackOnSite, 0)

			Convey("Then rows are sorted by score descending with 1-based ranks", func() {
				So(board.Empty, ShouldBeFalse)
				So(board.Top, ShouldHaveLength, 3)
				So(board.Top[0].Name, ShouldEqual, "Boris Lind")
				So(board.Top[0].Rank, ShouldEqual, 1)
				So(board.Top[1].Name, ShouldEqual, "Clara Novak")
				So(board.Top[1].Rank, ShouldEqual, 2)
				So(board.Top[2].Name, ShouldEqual, "Anna Berg")
				So(board.Top[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When scores are tied", func() {
			a, _ := store.Upsert(ctx, "tg-1", "Anna Berg", types.TrackOnSite)
			b, _ := store.Upsert(ctx, "tg-2", "Boris Lind", types.TrackOnSite)
			_, _ = store.Adjust(ctx, a.ID, 5)
			_, _ = store.Adjust(ctx, b.ID, 5)

			board := engine.Board(ctx, types.TrackOnSite, 0)

			Convey("Then the earlier registration ranks first", func() {
				So(board.Top[0].ID, ShouldEqual, a.ID)
				So(board.Top[0].Rank, ShouldEqual, 1)
				So(board.Top[1].ID, ShouldEqual, b.ID)
				So(board.Top[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When tracks are mixed", func() {
			onsite, _ := store.Upsert(ctx, "tg-1", "Anna Berg", types.TrackOnSite)
			remote, _ := store.Upsert(ctx, "tg-2", "Boris Lind", types.TrackRemote)
			_, _ = store.Adjust(ctx, onsite.ID, 1)
			_, _ = store.Adjust(ctx, remote.ID, 100)

			Convey("Then each board sees only its own track", func() {
				onsiteBoard := engine.Board(ctx, types.TrackOnSite, 0)
				So(onsiteBoard.Top, ShouldHaveLength, 1)
				So(onsiteBoard.Top[0].ID, ShouldEqual, onsite.ID)

				remoteBoard := engine.Board(ctx, types.TrackRemote, 0)
				So(remoteBoard.Top, ShouldHaveLength, 1)
				So(remoteBoard.Top[0].ID, ShouldEqual, remote.ID)
			})
		})

		Convey("When there are more participants than display rows", func() {
			small := ranking.NewEngine(store, ranking.WithDisplaySize(3))
			var last int64
			for i := 0; i < 8; i++ {
				p, _ := store.Upsert(ctx, fmt.Sprintf("tg-%d", i), "Guest Number", types.TrackOnSite)
				_, _ = store.Adjust(ctx, p.ID, 100-i)
				last = p.ID
			}

			Convey("Then the board truncates but the viewer line survives", func() {
				board := small.Board(ctx, types.TrackOnSite, last)
				So(board.Top, ShouldHaveLength, 3)
				So(board.Viewer, ShouldNotBeNil)
				So(board.Viewer.ID, ShouldEqual, last)
				So(board.Viewer.Rank, ShouldEqual, 8)
			})
		})

		Convey("When asking for a single rank", func() {
			a, _ := store.Upsert(ctx, "tg-1", "Anna Berg", types.TrackOnSite)
			b, _ := store.Upsert(ctx, "tg-2", "Boris Lind", types.TrackOnSite)
			_, _ = store.Adjust(ctx, a.ID, 2)
			_, _ = store.Adjust(ctx, b.ID, 7)

			Convey("Then the entry carries the exact rank and score", func() {
				entry, ok := engine.Rank(ctx, types.TrackOnSite, a.ID)
				So(ok, ShouldBeTrue)
				So(entry.Rank, ShouldEqual, 2)
				So(entry.Score, ShouldEqual, 2)
			})

			Convey("Then asking on the wrong track misses", func() {
				_, ok := engine.Rank(ctx, types.TrackRemote, a.ID)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
