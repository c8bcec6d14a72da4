package guard_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/lunchroulette/internal/domain/guard"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryGuard(t *testing.T) {
	Convey("Given a new in-memory guard", t, func() {
		ctx := context.Background()
		g := guard.NewInMemoryGuard()

		Convey("Then it starts empty", func() {
			So(g.Size(), ShouldEqual, 0)
		})

		Convey("When a client acquires a session", func() {
			err := g.Acquire(ctx, "client-1")

			Convey("Then it succeeds", func() {
				So(err, ShouldBeNil)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And a second acquire for the same client is refused", func() {
				err := g.Acquire(ctx, "client-1")
				So(errors.Is(err, guard.ErrSessionActive), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And another client is not affected", func() {
				So(g.Acquire(ctx, "client-2"), ShouldBeNil)
				So(g.Size(), ShouldEqual, 2)
			})

			Convey("And after release the client may start again", func() {
				g.Release(ctx, "client-1")
				So(g.Size(), ShouldEqual, 0)
				So(g.Acquire(ctx, "client-1"), ShouldBeNil)
			})
		})

		Convey("When releasing a client that holds nothing", func() {
			g.Release(ctx, "ghost")

			Convey("Then nothing changes", func() {
				So(g.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bounded guard", t, func() {
		ctx := context.Background()
		g := guard.NewInMemoryGuard(guard.WithMaxSize(2))
		So(g.Acquire(ctx, "a"), ShouldBeNil)
		So(g.Acquire(ctx, "b"), ShouldBeNil)

		Convey("When the cap is reached", func() {
			err := g.Acquire(ctx, "c")

			Convey("Then new clients are refused with ErrCapacity", func() {
				So(errors.Is(err, guard.ErrCapacity), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given an unbounded guard", t, func() {
		ctx := context.Background()
		g := guard.NewInMemoryGuard(guard.WithMaxSize(0))

		Convey("When many clients acquire", func() {
			failures := 0
			for i := 0; i < 20_000; i++ {
				if g.Acquire(ctx, fmt.Sprintf("c-%d", i)) != nil {
					failures++
				}
			}

			Convey("Then all are held", func() {
				So(failures, ShouldEqual, 0)
				So(g.Size(), ShouldEqual, 20_000)
			})
		})
	})
}

func TestInMemoryGuardConcurrent(t *testing.T) {
	Convey("Given many goroutines racing for the same client", t, func() {
		ctx := context.Background()
		g := guard.NewInMemoryGuard()
		var wins atomic.Int32
		var wg sync.WaitGroup

		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if g.Acquire(ctx, "shared") == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one wins", func() {
			So(wins.Load(), ShouldEqual, 1)
			So(g.Size(), ShouldEqual, 1)
		})
	})
}
