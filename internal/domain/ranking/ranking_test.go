package ranking_test

import (
	"testing"

	"github.com/okian/picksheet/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Given totals with a tie for first", t, func() {
		in := []ranking.Entry{
			{Player: "C", Score: 90},
			{Player: "B", Score: 100},
			{Player: "A", Score: 100},
		}
		out := ranking.Rank(in)

		Convey("Then tied players share rank 1 and the next rank is 3", func() {
			So(out[0].Player, ShouldEqual, "A")
			So(out[0].Rank, ShouldEqual, 1)
			So(out[1].Player, ShouldEqual, "B")
			So(out[1].Rank, ShouldEqual, 1)
			So(out[2].Player, ShouldEqual, "C")
			So(out[2].Rank, ShouldEqual, 3)
		})

		Convey("And the input is left untouched", func() {
			So(in[0].Player, ShouldEqual, "C")
			So(in[0].Rank, ShouldEqual, 0)
		})

		Convey("And Leaders returns both co-leaders", func() {
			So(len(ranking.Leaders(out)), ShouldEqual, 2)
		})

		Convey("And Within cuts at the requested rank", func() {
			So(len(ranking.Within(out, 2)), ShouldEqual, 2)
			So(len(ranking.Within(out, 3)), ShouldEqual, 3)
		})
	})

	Convey("Given no entries", t, func() {
		So(ranking.Rank(nil), ShouldBeEmpty)
		So(ranking.Leaders(nil), ShouldBeEmpty)
	})
}
