package queue_test

import (
	"context"
	"fmt"
	"testing"

	queue "github.com/okian/fiesta/internal/adapters/mq/queue"
	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func newItem(id string) queue.Item {
	return queue.Item{
		Update: model.Update{UpdateID: id, ExternalID: "tg-1", Text: "menu"},
		Input:  types.Input{Intent: types.IntentBackToMenu},
		Reply:  make(chan model.Reply, 1),
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory update queue", t, func() {
		Convey("When enqueueing within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))

			Convey("Then items come back out in order", func() {
				for i := 0; i < 3; i++ {
					So(q.Enqueue(ctx, newItem(fmt.Sprintf("u-%d", i))), ShouldBeTrue)
				}
				So(q.Len(ctx), ShouldEqual, 3)

				items := q.Dequeue(ctx)
				for i := 0; i < 3; i++ {
					item := <-items
					So(item.Update.UpdateID, ShouldEqual, fmt.Sprintf("u-%d", i))
				}
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			So(q.Enqueue(ctx, newItem("u-0")), ShouldBeTrue)

			Convey("Then further enqueues are refused without blocking", func() {
				So(q.Enqueue(ctx, newItem("u-1")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			So(q.Enqueue(ctx, newItem("u-0")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are refused", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, newItem("u-1")), ShouldBeFalse)
			})

			Convey("Then the dequeue channel drains and closes", func() {
				items := q.Dequeue(ctx)
				item, ok := <-items
				So(ok, ShouldBeTrue)
				So(item.Update.UpdateID, ShouldEqual, "u-0")

				_, ok = <-items
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
