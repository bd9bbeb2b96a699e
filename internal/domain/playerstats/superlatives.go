package playerstats

import (
	"sort"

	"github.com/okian/picksheet/internal/domain/model"
)

// Direction selects whether the highest or the lowest metric wins.
type Direction int

const (
	Highest Direction = iota
	Lowest
)

// Superlative describes one named trophy evaluated over the stats table.
type Superlative struct {
	Title     string
	Metric    string
	Value     func(model.PlayerStats) float64
	Direction Direction
	MinGames  int
}

// Award is the winner of a superlative.
type Award struct {
	Title  string  `json:"title"`
	Metric string  `json:"metric"`
	Player string  `json:"player"`
	Value  float64 `json:"value"`
}

// DefaultSuperlatives is the trophy list shown on the dashboard.
var DefaultSuperlatives = []Superlative{
	{Title: "GOAT", Metric: "mean", Value: func(r model.PlayerStats) float64 { return r.Mean }},
	{Title: "Sniper", Metric: "best_pick_count", Value: func(r model.PlayerStats) float64 { return float64(r.BestPickCount) }},
	{Title: "Iron Lungs", Metric: "no_carrot_streak.max", Value: func(r model.PlayerStats) float64 { return float64(r.NoCarrot.Max) }},
	{Title: "Unstoppable", Metric: "over_40_streak.max", Value: func(r model.PlayerStats) float64 { return float64(r.Over40.Max) }},
	{Title: "Alien", Metric: "over_60_streak.max", Value: func(r model.PlayerStats) float64 { return float64(r.Over60.Max) }},
	{Title: "Nuke King", Metric: "nuke_count", Value: func(r model.PlayerStats) float64 { return float64(r.NukeCount) }},
	{Title: "Carrot Farmer", Metric: "carrot_count", Value: func(r model.PlayerStats) float64 { return float64(r.CarrotCount) }},
	{Title: "Phoenix", Metric: "phoenix", Value: func(r model.PlayerStats) float64 { return float64(r.Phoenix) }},
	{Title: "Alpha", Metric: "alpha_count", Value: func(r model.PlayerStats) float64 { return float64(r.AlphaCount) }},
	{Title: "Podium Regular", Metric: "top3_finishes", Value: func(r model.PlayerStats) float64 { return float64(r.Top3Finishes) }},
	{Title: "Bonus Master", Metric: "bonus_gain", Value: func(r model.PlayerStats) float64 { return float64(r.BonusGain) }},
	{Title: "Metronome", Metric: "stddev", Value: func(r model.PlayerStats) float64 { return r.StdDev }, Direction: Lowest, MinGames: 5},
	{Title: "Rocket", Metric: "progression_pct", Value: func(r model.PlayerStats) float64 { return r.ProgressionPct }},
	{Title: "Rock", Metric: "reliability_pct", Value: func(r model.PlayerStats) float64 { return r.ReliabilityPct }},
	{Title: "Hot Hand", Metric: "best_7_sum", Value: func(r model.PlayerStats) float64 { return float64(r.Best7Sum) }},
}

// Awards evaluates every superlative against rows. Ties go to the player
// whose name sorts first. Superlatives with no eligible row are omitted.
func Awards(rows []model.PlayerStats, list []Superlative) []Award {
	var out []Award
	for _, s := range list {
		if a, ok := evaluate(rows, s); ok {
			out = append(out, a)
		}
	}
	return out
}

func evaluate(rows []model.PlayerStats, s Superlative) (Award, bool) {
	var eligible []model.PlayerStats
	for _, r := range rows {
		if r.Games >= s.MinGames && r.Games > 0 {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return Award{}, false
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		vi, vj := s.Value(eligible[i]), s.Value(eligible[j])
		if vi != vj {
			if s.Direction == Lowest {
				return vi < vj
			}
			return vi > vj
		}
		return eligible[i].Player < eligible[j].Player
	})
	w := eligible[0]
	return Award{Title: s.Title, Metric: s.Metric, Player: w.Player, Value: s.Value(w)}, true
}
