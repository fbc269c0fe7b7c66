package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/fiesta/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.New()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording updates", func() {
			d := dedupe.New()

			Convey("And the update id is new", func() {
				seen := d.SeenAndRecord(context.Background(), "update-1")

				Convey("Then it should return false and record the id", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the update id was already seen", func() {
				d.SeenAndRecord(context.Background(), "update-1")
				seen := d.SeenAndRecord(context.Background(), "update-1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording an update", func() {
			d := dedupe.New()
			d.SeenAndRecord(context.Background(), "update-1")
			d.Unrecord(context.Background(), "update-1")

			Convey("Then the id can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(context.Background(), "update-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And unrecording an unknown id is a no-op", func() {
				d.Unrecord(context.Background(), "never-seen")
				So(d.Size(), ShouldBeLessThanOrEqualTo, 1)
			})
		})

		Convey("When the capacity is exceeded", func() {
			d := dedupe.New(dedupe.WithMaxSize(3))
			for i := 0; i < 3; i++ {
				d.SeenAndRecord(context.Background(), fmt.Sprintf("update-%d", i))
			}

			Convey("Then recording one more evicts the oldest id", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(context.Background(), "update-3"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)

				// The oldest id fell out and reads as new again.
				So(d.SeenAndRecord(context.Background(), "update-0"), ShouldBeFalse)
				// The newer ones are still known.
				So(d.SeenAndRecord(context.Background(), "update-2"), ShouldBeTrue)
				So(d.SeenAndRecord(context.Background(), "update-3"), ShouldBeTrue)
			})
		})

		Convey("When recording concurrently", func() {
			d := dedupe.New()
			var wg sync.WaitGroup
			const workers = 8
			const perWorker = 100

			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						d.SeenAndRecord(context.Background(), fmt.Sprintf("w%d-u%d", w, i))
					}
				}(w)
			}
			wg.Wait()

			Convey("Then every id is recorded exactly once", func() {
				So(d.Size(), ShouldEqual, workers*perWorker)
				So(d.SeenAndRecord(context.Background(), "w0-u0"), ShouldBeTrue)
			})
		})
	})
}
