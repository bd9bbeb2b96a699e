package playerstats

import "errors"

// Sentinel kinds for period selection.
var (
	ErrNoData           = errors.New("no data")
	ErrPeriodNotStarted = errors.New("period not started")
	ErrInvalidPeriod    = errors.New("invalid period")
)
