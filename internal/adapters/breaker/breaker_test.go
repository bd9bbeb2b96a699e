package breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/picksheet/internal/adapters/breaker"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/sony/gobreaker"
)

var errBoom = errors.New("boom")

func fail() (interface{}, error) { return nil, errBoom }

func TestBreaker(t *testing.T) {
	Convey("Given a new breaker", t, func() {
		cb := breaker.New("test", breaker.WithTimeout(time.Minute))

		Convey("Then it starts closed and passes calls through", func() {
			So(cb.State(), ShouldEqual, gobreaker.StateClosed)
			v, err := cb.Execute(func() (interface{}, error) { return 42, nil })
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 42)
		})

		Convey("When three calls in a row fail", func() {
			for i := 0; i < 3; i++ {
				_, err := cb.Execute(fail)
				So(err, ShouldEqual, errBoom)
			}

			Convey("Then the breaker opens and short-circuits", func() {
				So(cb.State(), ShouldEqual, gobreaker.StateOpen)
				_, err := cb.Execute(fail)
				So(err, ShouldEqual, gobreaker.ErrOpenState)
			})
		})

		Convey("When fewer than three calls were seen", func() {
			_, _ = cb.Execute(fail)
			_, _ = cb.Execute(fail)

			Convey("Then it stays closed", func() {
				So(cb.State(), ShouldEqual, gobreaker.StateClosed)
			})
		})
	})

	Convey("Given a breaker with a strict failure ratio", t, func() {
		cb := breaker.New("strict", breaker.WithFailureRatio(1))
		_, _ = cb.Execute(fail)
		_, _ = cb.Execute(func() (interface{}, error) { return nil, nil })
		_, _ = cb.Execute(fail)

		So(cb.State(), ShouldEqual, gobreaker.StateClosed)
	})
}
