package playerstats

import (
	"github.com/okian/picksheet/internal/domain/model"
	"github.com/okian/picksheet/internal/domain/scoretable"
)

// TeamSummary aggregates a period over every player.
type TeamSummary struct {
	Period        model.Period `json:"period"`
	Picks         int          `json:"picks"`
	Events        int          `json:"events"`
	Players       int          `json:"players"`
	Average       float64      `json:"average"`
	BestPicks     int          `json:"best_picks"`
	Carrots       int          `json:"carrots"`
	Nukes         int          `json:"nukes"`
	BestScore     int          `json:"best_score"`
	BestScorer    string       `json:"best_scorer"`
	BestScorePick int          `json:"best_score_pick"`
}

// Team summarizes tbl, which should already be restricted to p.
func Team(tbl *scoretable.Table, p model.Period) TeamSummary {
	ts := TeamSummary{
		Period:  p,
		Picks:   len(tbl.Picks()),
		Events:  tbl.Len(),
		Players: len(tbl.ActivePlayers()),
	}
	sum := 0
	for i, e := range tbl.Events() {
		sum += e.Score
		if e.IsBestPick {
			ts.BestPicks++
		}
		if e.IsCarrot() {
			ts.Carrots++
		}
		if e.IsNuke() {
			ts.Nukes++
		}
		if i == 0 || e.Score > ts.BestScore {
			ts.BestScore, ts.BestScorer, ts.BestScorePick = e.Score, e.Player, e.Pick
		}
	}
	ts.Average = ratio(float64(sum), float64(ts.Events))
	return ts
}
