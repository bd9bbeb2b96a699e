package service

import (
	"time"

	"github.com/okian/picksheet/internal/domain/model"
	"github.com/okian/picksheet/internal/domain/playerstats"
	"github.com/okian/picksheet/internal/domain/scoretable"
)

// Snapshot is one immutable load of the sheet. A failed fetch yields an
// empty table with the failure in Warnings.
type Snapshot struct {
	Table     *scoretable.Table
	Warnings  []string
	FetchedAt time.Time
	Failed    bool
}

// ScoresView is the score table of a period.
type ScoresView struct {
	Period   model.Period       `json:"period"`
	Events   []model.ScoreEvent `json:"events"`
	Warnings []string           `json:"warnings"`
}

// StatsView is everything the dashboard shows for a period.
type StatsView struct {
	Period   model.Period            `json:"period"`
	Rows     []model.PlayerStats     `json:"rows"`
	Awards   []playerstats.Award     `json:"awards"`
	Team     playerstats.TeamSummary `json:"team"`
	Warnings []string                `json:"warnings"`
}

// Delivery outcomes.
const (
	DeliverySent      = "sent"
	DeliveryDuplicate = "duplicate"
)

// Delivery reports what happened to a weekly report notification.
type Delivery struct {
	Status     string `json:"status"`
	Deck       int    `json:"deck"`
	Key        string `json:"key"`
	DeliveryID string `json:"delivery_id,omitempty"`
}
