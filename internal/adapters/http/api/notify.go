// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/okian/picksheet/internal/app"
)

// NotifyDependencies defines the interface for weekly report delivery.
type NotifyDependencies interface {
	NotifyWeekly(ctx context.Context, deck int, force bool) (service.Delivery, error)
}

// NotifyHandler handles weekly report delivery requests.
type NotifyHandler struct {
	deps NotifyDependencies
}

// NewNotifyHandler creates a new notify handler.
func NewNotifyHandler(deps NotifyDependencies) *NotifyHandler {
	return &NotifyHandler{deps: deps}
}

// HandleNotify handles POST /notify?deck=N&force=bool requests.
func (h *NotifyHandler) HandleNotify(w http.ResponseWriter, r *http.Request) {
	const op = "api.notify"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	deck, err := queryInt(r, "deck", 0)
	if err != nil || deck < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	force, err := queryBool(r, "force")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	d, err := h.deps.NotifyWeekly(r.Context(), deck, force)
	if err != nil {
		fail(w, op, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
