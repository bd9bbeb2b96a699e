package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoReport = errors.New("no weekly report")
)
