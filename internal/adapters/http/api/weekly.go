// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/picksheet/internal/domain/weekly"
)

// WeeklyDependencies defines the interface for weekly report reads.
type WeeklyDependencies interface {
	Weekly(ctx context.Context, deck int) (weekly.Report, error)
}

// WeeklyHandler handles weekly report requests.
type WeeklyHandler struct {
	deps WeeklyDependencies
}

// NewWeeklyHandler creates a new weekly handler.
func NewWeeklyHandler(deps WeeklyDependencies) *WeeklyHandler {
	return &WeeklyHandler{deps: deps}
}

// HandleGetWeekly handles GET /weekly?deck=N requests; without deck the
// latest week is reported.
func (h *WeeklyHandler) HandleGetWeekly(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_weekly"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	deck, err := queryInt(r, "deck", 0)
	if err != nil || deck < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	report, err := h.deps.Weekly(r.Context(), deck)
	if err != nil {
		fail(w, op, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
