// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/picksheet/internal/adapters/cache"
	"github.com/okian/picksheet/internal/adapters/notify"
	"github.com/okian/picksheet/internal/adapters/repository"
	"github.com/okian/picksheet/internal/adapters/sheet"
	service "github.com/okian/picksheet/internal/app"
	"github.com/okian/picksheet/internal/domain/playerstats"
	"github.com/okian/picksheet/pkg/logger"
)

// DefaultMaxLimit caps /leaderboard when no limit is configured.
const DefaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoresDependencies
	PlayersDependencies
	LeaderboardDependencies
	RankDependencies
	WeeklyDependencies
	RefreshDependencies
	NotifyDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Standing

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	scoresHandler      *ScoresHandler
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	weeklyHandler      *WeeklyHandler
	refreshHandler     *RefreshHandler
	notifyHandler      *NotifyHandler
	dashboardHandler   *dashboardHandler
	logger             logger.Logger
}

// NewServer creates a new API server with all handlers. A maxLimit below 1
// falls back to DefaultMaxLimit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		scoresHandler:      NewScoresHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		weeklyHandler:      NewWeeklyHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
		notifyHandler:      NewNotifyHandler(deps),
		dashboardHandler:   newDashboardHandler(),
		logger:             logger.Named("api"),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RecoverMiddleware(MetricsMiddleware(h, endpoint), s.logger))
	}

	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/scores", "scores", s.scoresHandler.HandleGetScores)
	route("/players", "players", s.playersHandler.HandleGetPlayers)
	route("/leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
	route("/rank/", "rank", s.rankHandler.HandleGetRank)
	route("/weekly", "weekly", s.weeklyHandler.HandleGetWeekly)
	route("/refresh", "refresh", s.refreshHandler.HandleRefresh)
	route("/notify", "notify", s.notifyHandler.HandleNotify)
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
}

type errorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeErrorWithWarnings(w, status, code, err, nil)
}

func writeErrorWithWarnings(w http.ResponseWriter, status int, code string, err error, warnings []string) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Warnings: warnings})
}

// classify maps an error kind to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, playerstats.ErrInvalidPeriod),
		errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, playerstats.ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, service.ErrNoReport):
		return http.StatusNotFound, "no_report"
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, playerstats.ErrPeriodNotStarted):
		return http.StatusConflict, "period_not_started"
	case errors.Is(err, cache.ErrCooldown):
		return http.StatusTooManyRequests, "cooldown"
	case errors.Is(err, notify.ErrNotConfigured):
		return http.StatusServiceUnavailable, "not_configured"
	case errors.Is(err, notify.ErrDelivery):
		return http.StatusBadGateway, "delivery_failed"
	case errors.Is(err, sheet.ErrFetch), errors.Is(err, sheet.ErrStatus), errors.Is(err, sheet.ErrParse):
		return http.StatusBadGateway, "sheet_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err using its classified status.
func fail(w http.ResponseWriter, op string, err error, warnings []string) {
	status, code := classify(err)
	writeErrorWithWarnings(w, status, code, Wrap(op, err), warnings)
}
