// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/okian/picksheet/internal/app"
)

// ScoresDependencies defines the interface for score table reads.
type ScoresDependencies interface {
	Scores(ctx context.Context, period string) (service.ScoresView, error)
}

// PlayersDependencies defines the interface for per-player stats reads.
type PlayersDependencies interface {
	PlayerStats(ctx context.Context, period string) (service.StatsView, error)
}

// ScoresHandler handles score table requests.
type ScoresHandler struct {
	deps ScoresDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoresDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleGetScores handles GET /scores?period=P requests.
func (h *ScoresHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := h.deps.Scores(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		fail(w, op, err, view.Warnings)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// PlayersHandler handles per-player stats requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayers handles GET /players?period=P requests.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := h.deps.PlayerStats(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		fail(w, op, err, view.Warnings)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
