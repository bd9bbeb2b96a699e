// Package model contains domain models passed between layers.
package model

import "time"

// Score bands shared by the aggregator and the weekly report.
const (
	CarrotThreshold = 20 // below this a score is a carrot
	NukeThreshold   = 50 // at or above this a score is a nuke
)

// ScoreEvent is one player's result for one pick. Values are immutable once
// built by the score table builder.
type ScoreEvent struct {
	Pick       int       `json:"pick"`
	Deck       int       `json:"deck"`
	Date       time.Time `json:"date"`
	Player     string    `json:"player"`
	Score      int       `json:"score"`
	ScoreRaw   int       `json:"score_raw"`
	IsBonus    bool      `json:"is_bonus"`
	IsBestPick bool      `json:"is_best_pick"`
	ZScore     float64   `json:"z_score"`
	Month      string    `json:"month"`
}

// IsCarrot reports whether the adjusted score is below the carrot threshold.
func (e ScoreEvent) IsCarrot() bool { return e.Score < CarrotThreshold }

// IsNuke reports whether the adjusted score reaches the nuke threshold.
func (e ScoreEvent) IsNuke() bool { return e.Score >= NukeThreshold }

// BonusGain is the number of points the bonus added to the raw score.
func (e ScoreEvent) BonusGain() int {
	if !e.IsBonus {
		return 0
	}
	return e.Score - e.ScoreRaw
}

// Period is a contiguous, inclusive pick range.
type Period struct {
	Name string `json:"name"`
	From int    `json:"from_pick"`
	To   int    `json:"to_pick"`
}

// Contains reports whether pick lies inside the period.
func (p Period) Contains(pick int) bool {
	return pick >= p.From && pick <= p.To
}
