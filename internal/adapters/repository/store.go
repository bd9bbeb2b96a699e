// Package repository holds the published season standings.
package repository

import "context"

// Standing is one row of the season standings.
type Standing struct {
	Rank    int     `json:"rank"`
	Player  string  `json:"player"`
	Points  int     `json:"points"`
	Games   int     `json:"games"`
	Average float64 `json:"average"`
}

// Store provides read access to the standings and a way to publish new ones.
type Store interface {
	// Replace ranks rows and publishes them as the current standings.
	Replace(ctx context.Context, rows []Standing) error

	// Rank returns the current standing of a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, player string) (Standing, error)

	// TopN returns the first n standings ordered by points desc.
	TopN(ctx context.Context, n int) ([]Standing, error)

	// Count returns the number of ranked players.
	Count(ctx context.Context) int
}
