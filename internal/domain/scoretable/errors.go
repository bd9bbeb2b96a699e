package scoretable

import "errors"

// Sentinel kinds for source-shape problems. Build never fails on them; they
// are recorded in Result.Warnings, wrapped with context.
var (
	ErrNoPickRow   = errors.New("pick marker row not found")
	ErrNoDeckRow   = errors.New("deck marker row not found")
	ErrNoPlayers   = errors.New("no players found")
	ErrDuplicated  = errors.New("duplicated label")
	ErrOffRoster   = errors.New("player not in roster")
	ErrEmptySource = errors.New("empty source grid")
)
