package model

import "github.com/okian/picksheet/internal/domain/streak"

// PlayerStats is the per-player summary row computed over one period.
type PlayerStats struct {
	Player string `json:"player"`

	// Adjusted scores.
	Games  int     `json:"games"`
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Median float64 `json:"median"`
	Spread int     `json:"spread"`

	// Raw (pre-bonus) scores.
	RawTotal  int     `json:"raw_total"`
	RawMean   float64 `json:"raw_mean"`
	RawStdDev float64 `json:"raw_stddev"`
	RawMin    int     `json:"raw_min"`
	RawMax    int     `json:"raw_max"`

	// Bands.
	Below20     int `json:"below_20"`
	From20To30  int `json:"from_20_to_30"`
	From30To40  int `json:"from_30_to_40"`
	AtLeast40   int `json:"at_least_40"`
	AtLeast50   int `json:"at_least_50"`
	SafeCount   int `json:"safe_count"`
	NukeCount   int `json:"nuke_count"`
	CarrotCount int `json:"carrot_count"`

	// Streaks.
	NoCarrot streak.Runs `json:"no_carrot_streak"`
	Over30   streak.Runs `json:"over_30_streak"`
	Over40   streak.Runs `json:"over_40_streak"`
	Over60   streak.Runs `json:"over_60_streak"`
	Carrots  streak.Runs `json:"carrot_streak"`

	// Bonus and best pick.
	BonusCount     int     `json:"bonus_count"`
	BestBonus      int     `json:"best_bonus"`
	WorstBonus     int     `json:"worst_bonus"`
	BonusGain      int     `json:"bonus_gain"`
	BestPickCount  int     `json:"best_pick_count"`
	BestPickTotal  int     `json:"best_pick_total"`
	BestPickGapAvg float64 `json:"best_pick_gap_avg"`

	// Superlatives.
	BestMonth      string  `json:"best_month"`
	BestMonthAvg   float64 `json:"best_month_avg"`
	Best7Sum       int     `json:"best_7_sum"`
	Phoenix        int     `json:"phoenix"`
	ModeScore      int     `json:"mode_score"`
	ModeCount      int     `json:"mode_count"`
	Top3Finishes   int     `json:"top3_finishes"`
	AlphaCount     int     `json:"alpha_count"`
	LastPickScore  int     `json:"last_pick_score"`
	AvgZScore      float64 `json:"avg_z_score"`
	BestZScore     float64 `json:"best_z_score"`
	ParticipationP float64 `json:"participation_pct"`

	// Trends.
	Last5Avg       float64 `json:"last_5_avg"`
	Last10Avg      float64 `json:"last_10_avg"`
	Last15Avg      float64 `json:"last_15_avg"`
	ProgressionPct float64 `json:"progression_pct"`
	ReliabilityPct float64 `json:"reliability_pct"`
}
