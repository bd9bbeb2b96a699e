package testsheet_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/okian/picksheet/internal/domain/scoretable"
	"github.com/okian/picksheet/internal/testsheet"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		cfg := testsheet.Config{Seed: 7}
		grid := testsheet.Generate(cfg)

		Convey("Then the grid follows the sheet layout", func() {
			So(grid[0][0], ShouldEqual, testsheet.LabelDeck)
			So(grid[1][0], ShouldEqual, testsheet.LabelPick)
			So(grid[len(grid)-1][0], ShouldEqual, testsheet.LabelTotal)
			So(len(grid), ShouldEqual, len(testsheet.DefaultPlayers)+3)
			So(len(grid[1]), ShouldEqual, 29)
			So(grid[0][1], ShouldEqual, "1")
			So(grid[0][2], ShouldEqual, "")
			So(grid[0][8], ShouldEqual, "2")
		})

		Convey("Then the same seed gives the same grid", func() {
			So(testsheet.Generate(cfg), ShouldResemble, grid)
			So(testsheet.Generate(testsheet.Config{Seed: 8}), ShouldNotResemble, grid)
		})

		Convey("Then the builder reads it without player warnings", func() {
			res := scoretable.NewBuilder(
				scoretable.WithSeasonStart(time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)),
			).Build(grid)

			So(res.Warnings, ShouldBeEmpty)
			So(res.Table.Len(), ShouldEqual, 28*len(testsheet.DefaultPlayers))
			So(res.Table.Players(), ShouldResemble, testsheet.DefaultPlayers)
			So(res.Table.MaxDeck(), ShouldEqual, 4)
		})
	})

	Convey("Given absences and frequent markers", t, func() {
		grid := testsheet.Generate(testsheet.Config{
			Players:      []string{"A", "B"},
			Picks:        50,
			Seed:         3,
			AbsentRate:   0.3,
			BonusRate:    0.5,
			BestPickRate: 1,
		})

		Convey("Then some cells are empty and markers appear", func() {
			joined := ""
			empty := 0
			for _, row := range grid[2:4] {
				for _, c := range row[1:] {
					joined += c + " "
					if c == "" {
						empty++
					}
				}
			}
			So(empty, ShouldBeGreaterThan, 0)
			So(joined, ShouldContainSubstring, "*")
			So(joined, ShouldContainSubstring, "!")
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a generated grid", t, func() {
		grid := testsheet.Generate(testsheet.Config{Seed: 1, Picks: 3, Players: []string{"A"}})
		var buf bytes.Buffer

		So(testsheet.WriteCSV(&buf, grid), ShouldBeNil)

		Convey("Then it round-trips through a CSV reader", func() {
			So(strings.HasPrefix(buf.String(), "Deck,1,,\n"), ShouldBeTrue)
			r := csv.NewReader(&buf)
			r.FieldsPerRecord = -1
			back, err := r.ReadAll()
			So(err, ShouldBeNil)
			So(back, ShouldResemble, grid)
		})
	})
}
