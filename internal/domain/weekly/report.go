// Package weekly builds the narrative report of one week ("deck") of picks.
package weekly

import "time"

// Meta describes the week a report covers.
type Meta struct {
	Deck      int       `json:"deck"`
	FirstPick int       `json:"first_pick"`
	LastPick  int       `json:"last_pick"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Players   int       `json:"players"`
	// Complete is false when the last day of the 7-day window is missing.
	Complete bool `json:"complete"`
}

// PodiumEntry is one player's weekly total with its tie-aware rank.
type PodiumEntry struct {
	Rank    int     `json:"rank"`
	Player  string  `json:"player"`
	Total   int     `json:"total"`
	Games   int     `json:"games"`
	Average float64 `json:"average"`
}

// ThroneEntry counts the weeks a player finished first before this one.
type ThroneEntry struct {
	Player string `json:"player"`
	Titles int    `json:"titles"`
}

// Comeback is a week-over-week improvement of a player's average.
type Comeback struct {
	Player          string  `json:"player"`
	Average         float64 `json:"average"`
	PreviousAverage float64 `json:"previous_average"`
	Delta           float64 `json:"delta"`
}

// Streak kinds and levels used in storylines.
const (
	KindNoCarrot = "no_carrot"
	KindOver30   = "over_30"

	LevelStreak         = "streak"
	LevelPersonalRecord = "personal_record"
	LevelTeamRecord     = "team_record"
)

// Storyline is a templated sentence about an ongoing streak.
type Storyline struct {
	Player         string `json:"player"`
	Kind           string `json:"kind"`
	Length         int    `json:"length"`
	PersonalRecord int    `json:"personal_record"`
	TeamRecord     int    `json:"team_record"`
	Level          string `json:"level"`
	Text           string `json:"text"`
}

// TeamStats aggregates the week over every player.
type TeamStats struct {
	Average         float64 `json:"average"`
	PreviousAverage float64 `json:"previous_average"`
	Delta           float64 `json:"delta"`
	HasPrevious     bool    `json:"has_previous"`
	BestPicks       int     `json:"best_picks"`
	Carrots         int     `json:"carrots"`
	Nukes           int     `json:"nukes"`
}

// Report is the full narrative of one week. It is rebuilt on every request.
type Report struct {
	Meta       Meta          `json:"meta"`
	Ranking    []PodiumEntry `json:"ranking"`
	Podium     []PodiumEntry `json:"podium"`
	Throne     []ThroneEntry `json:"throne"`
	Wall       []string      `json:"wall"`
	Comebacks  []Comeback    `json:"comebacks"`
	Storylines []Storyline   `json:"storylines"`
	Team       TeamStats     `json:"team"`
	Lines      []string      `json:"lines"`
}
