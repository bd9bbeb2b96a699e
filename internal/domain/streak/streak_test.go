package streak_test

import (
	"testing"

	"github.com/okian/picksheet/internal/domain/streak"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMaxRun(t *testing.T) {
	Convey("Given a score sequence", t, func() {
		seq := []int{25, 31, 12, 22, 40, 45, 19, 33}

		Convey("Then the longest no-carrot run is found", func() {
			So(streak.MaxRun(seq, streak.AtLeast(20)), ShouldEqual, 3)
		})

		Convey("And a threshold nobody reaches yields zero", func() {
			So(streak.MaxRun(seq, streak.AtLeast(60)), ShouldEqual, 0)
		})

		Convey("And cold runs use the Below predicate", func() {
			So(streak.MaxRun([]int{10, 5, 30, 1, 2, 3}, streak.Below(20)), ShouldEqual, 3)
		})
	})

	Convey("Given an empty sequence", t, func() {
		So(streak.MaxRun(nil, streak.AtLeast(20)), ShouldEqual, 0)
		So(streak.CurrentRun(nil, streak.AtLeast(20)), ShouldEqual, 0)
	})
}

func TestCurrentRun(t *testing.T) {
	Convey("Given a sequence ending on a run", t, func() {
		seq := []int{50, 50, 50, 10, 21, 22}

		Convey("Then only the trailing run is counted", func() {
			So(streak.CurrentRun(seq, streak.AtLeast(20)), ShouldEqual, 2)
		})

		Convey("And a disqualifying last score resets it", func() {
			So(streak.CurrentRun(append(seq, 3), streak.AtLeast(20)), ShouldEqual, 0)
		})
	})

	Convey("Given a sequence where every score qualifies", t, func() {
		seq := []int{30, 35, 41}
		r := streak.Measure(seq, streak.AtLeast(30))
		So(r.Current, ShouldEqual, 3)
		So(r.Max, ShouldEqual, 3)
	})
}

func TestCurrentNeverExceedsMax(t *testing.T) {
	Convey("Given many sequences", t, func() {
		seqs := [][]int{
			{1},
			{20},
			{19, 20, 21, 5, 40, 40, 40, 40},
			{60, 61, 59, 60},
			{0, 0, 0},
			{25, 25, 25, 25, 10, 25, 25},
		}
		for _, seq := range seqs {
			for _, th := range []int{20, 30, 40, 60} {
				p := streak.AtLeast(th)
				So(streak.MaxRun(seq, p), ShouldBeGreaterThanOrEqualTo, streak.CurrentRun(seq, p))
			}
		}
	})
}
