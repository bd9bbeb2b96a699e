package weekly_test

import (
	"testing"
	"time"

	"github.com/okian/picksheet/internal/domain/model"
	"github.com/okian/picksheet/internal/domain/scoretable"
	"github.com/okian/picksheet/internal/domain/weekly"
	. "github.com/smartystreets/goconvey/convey"
)

var start = time.Date(2024, time.October, 22, 0, 0, 0, 0, time.UTC)

// week emits one event per score for player, starting on the first pick of deck.
func week(deck int, player string, scores ...int) []model.ScoreEvent {
	out := make([]model.ScoreEvent, len(scores))
	for i, s := range scores {
		pick := (deck-1)*7 + i + 1
		out[i] = model.ScoreEvent{
			Pick:     pick,
			Deck:     deck,
			Date:     start.AddDate(0, 0, pick-1),
			Player:   player,
			Score:    s,
			ScoreRaw: s,
		}
	}
	return out
}

func repeat(score, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = score
	}
	return out
}

func table(parts ...[]model.ScoreEvent) *scoretable.Table {
	var evs []model.ScoreEvent
	for _, p := range parts {
		evs = append(evs, p...)
	}
	return scoretable.New(evs, nil)
}

func TestGenerate_Podium(t *testing.T) {
	Convey("Given weekly totals A=100, B=100, C=90", t, func() {
		tbl := table(
			week(1, "A", 50, 50),
			week(1, "B", 40, 60),
			week(1, "C", 90),
		)
		r, ok := weekly.Generate(tbl, 1)

		Convey("Then the tied leaders share rank 1 and C is third", func() {
			So(ok, ShouldBeTrue)
			So(len(r.Podium), ShouldEqual, 3)
			So(r.Podium[0].Player, ShouldEqual, "A")
			So(r.Podium[0].Rank, ShouldEqual, 1)
			So(r.Podium[1].Player, ShouldEqual, "B")
			So(r.Podium[1].Rank, ShouldEqual, 1)
			So(r.Podium[2].Player, ShouldEqual, "C")
			So(r.Podium[2].Rank, ShouldEqual, 3)
		})

		Convey("And a week without its seventh day is flagged incomplete", func() {
			So(r.Meta.Complete, ShouldBeFalse)
			So(r.Meta.FirstPick, ShouldEqual, 1)
			So(r.Meta.LastPick, ShouldEqual, 2)
			So(r.Lines[len(r.Lines)-1], ShouldContainSubstring, "incomplete")
		})
	})
}

func TestGenerate_Wall(t *testing.T) {
	Convey("Given game counts A=7, B=7, C=5 in a full week", t, func() {
		tbl := table(
			week(1, "A", repeat(25, 7)...),
			week(1, "B", repeat(22, 7)...),
			week(1, "C", repeat(50, 5)...),
		)
		r, ok := weekly.Generate(tbl, 0)

		Convey("Then only near-full attendance players qualify", func() {
			So(ok, ShouldBeTrue)
			So(r.Wall, ShouldResemble, []string{"A", "B"})
			So(r.Meta.Complete, ShouldBeTrue)
		})
	})

	Convey("Given a full-attendance player with a carrot", t, func() {
		tbl := table(
			week(1, "A", repeat(25, 7)...),
			week(1, "B", 22, 22, 22, 10, 22, 22, 22),
		)
		r, _ := weekly.Generate(tbl, 1)
		So(r.Wall, ShouldResemble, []string{"A"})
		So(r.Team.Carrots, ShouldEqual, 1)
	})
}

func TestGenerate_Season(t *testing.T) {
	Convey("Given three weeks of results", t, func() {
		tbl := table(
			week(1, "A", repeat(30, 7)...),
			week(1, "B", repeat(30, 7)...),
			week(1, "C", repeat(20, 7)...),
			week(2, "A", repeat(20, 7)...),
			week(2, "B", repeat(25, 7)...),
			week(2, "C", repeat(35, 7)...),
			week(3, "A", repeat(40, 7)...),
			week(3, "B", repeat(25, 7)...),
			week(3, "C", repeat(30, 7)...),
		)

		Convey("When reporting the latest week", func() {
			r, ok := weekly.Generate(tbl, 0)
			So(ok, ShouldBeTrue)
			So(r.Meta.Deck, ShouldEqual, 3)

			Convey("Then every earlier weekly winner gets a title, ties included", func() {
				So(r.Throne, ShouldResemble, []weekly.ThroneEntry{
					{Player: "A", Titles: 1},
					{Player: "B", Titles: 1},
					{Player: "C", Titles: 1},
				})
			})

			Convey("And only improving players are comebacks", func() {
				So(len(r.Comebacks), ShouldEqual, 1)
				So(r.Comebacks[0].Player, ShouldEqual, "A")
				So(r.Comebacks[0].Delta, ShouldAlmostEqual, 20.0, 1e-9)
			})

			Convey("And team stats compare against the previous week", func() {
				So(r.Team.HasPrevious, ShouldBeTrue)
				So(r.Team.Average, ShouldAlmostEqual, 95.0/3, 1e-9)
				So(r.Team.Delta, ShouldAlmostEqual, 5, 1e-9)
			})

			Convey("And streaks equal to the team record escalate", func() {
				levels := map[string]string{}
				for _, s := range r.Storylines {
					levels[s.Player+"/"+s.Kind] = s.Level
				}
				So(levels["A/no_carrot"], ShouldEqual, weekly.LevelTeamRecord)
				So(levels["A/over_30"], ShouldEqual, weekly.LevelPersonalRecord)
				So(levels["C/over_30"], ShouldEqual, weekly.LevelTeamRecord)
				So(levels, ShouldNotContainKey, "B/over_30")
				So(len(r.Storylines), ShouldEqual, 5)
			})
		})

		Convey("When reporting a past week", func() {
			r, ok := weekly.Generate(tbl, 2)
			So(ok, ShouldBeTrue)

			Convey("Then streaks are truncated at that week's last pick", func() {
				var a weekly.Storyline
				for _, s := range r.Storylines {
					if s.Player == "A" && s.Kind == weekly.KindNoCarrot {
						a = s
					}
				}
				So(a.Length, ShouldEqual, 14)
				So(a.TeamRecord, ShouldEqual, 21)
				So(a.Level, ShouldEqual, weekly.LevelPersonalRecord)
			})

			Convey("And only week 1 counts for the throne race", func() {
				So(len(r.Throne), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a streak shorter than the player's own record", t, func() {
		scores := append(repeat(25, 10), 5)
		scores = append(scores, repeat(25, 8)...)
		var evs []model.ScoreEvent
		for i, s := range scores {
			pick := i + 1
			evs = append(evs, model.ScoreEvent{Pick: pick, Deck: i/7 + 1, Date: start.AddDate(0, 0, i), Player: "D", Score: s, ScoreRaw: s})
		}
		r, ok := weekly.Generate(scoretable.New(evs, nil), 0)

		So(ok, ShouldBeTrue)
		So(len(r.Storylines), ShouldEqual, 1)
		So(r.Storylines[0].Length, ShouldEqual, 8)
		So(r.Storylines[0].PersonalRecord, ShouldEqual, 10)
		So(r.Storylines[0].Level, ShouldEqual, weekly.LevelStreak)
	})
}

func TestGenerate_Absent(t *testing.T) {
	Convey("Given missing prerequisites", t, func() {
		Convey("Then an empty table has no report", func() {
			_, ok := weekly.Generate(scoretable.Empty(), 0)
			So(ok, ShouldBeFalse)
		})

		Convey("Then a table without week ids has no report", func() {
			tbl := scoretable.New([]model.ScoreEvent{{Pick: 1, Player: "A", Score: 30}}, nil)
			_, ok := weekly.Generate(tbl, 0)
			So(ok, ShouldBeFalse)
		})

		Convey("Then an unknown week has no report", func() {
			_, ok := weekly.Generate(table(week(1, "A", 30)), 9)
			So(ok, ShouldBeFalse)
		})

		Convey("Then a nil table has no report", func() {
			_, ok := weekly.Generate(nil, 1)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGenerate_WindowFromGrid(t *testing.T) {
	Convey("Given a sheet week where nobody scored on its first day", t, func() {
		grid := [][]string{
			{"Deck", "1", "", "", "", "", "", ""},
			{"Pick", "1", "2", "3", "4", "5", "6", "7"},
			{"Alice", "-", "30", "30", "30", "30", "30", "30"},
			{"Bob", "", "20", "20", "20", "20", "20", "20"},
		}
		res := scoretable.NewBuilder().Build(grid)
		r, ok := weekly.Generate(res.Table, 1)

		Convey("Then the window starts on the week's first pick column and is complete", func() {
			So(ok, ShouldBeTrue)
			So(r.Meta.FirstPick, ShouldEqual, 1)
			So(r.Meta.LastPick, ShouldEqual, 7)
			So(r.Meta.Complete, ShouldBeTrue)
		})
	})

	Convey("Given a sheet week missing its seventh day", t, func() {
		grid := [][]string{
			{"Deck", "1", "", "", "", "", "", ""},
			{"Pick", "1", "2", "3", "4", "5", "6", "7"},
			{"Alice", "-", "30", "30", "30", "30", "30", ""},
		}
		r, ok := weekly.Generate(scoretable.NewBuilder().Build(grid).Table, 1)
		So(ok, ShouldBeTrue)
		So(r.Meta.Complete, ShouldBeFalse)
	})
}

func TestGenerate_Throne(t *testing.T) {
	Convey("Given two finished weeks won by A then shared by A and B", t, func() {
		tbl := table(
			week(1, "A", 50),
			week(1, "B", 40),
			week(2, "A", 30),
			week(2, "B", 30),
			week(3, "A", 10),
			week(3, "B", 20),
		)
		r, ok := weekly.Generate(tbl, 3)

		Convey("Then earlier week titles are counted, ties crediting every leader", func() {
			So(ok, ShouldBeTrue)
			So(r.Throne, ShouldResemble, []weekly.ThroneEntry{
				{Player: "A", Titles: 2},
				{Player: "B", Titles: 1},
			})
		})
	})
}
