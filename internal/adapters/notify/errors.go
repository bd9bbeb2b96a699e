package notify

import "errors"

// Sentinel kinds for notification errors.
var (
	ErrNotConfigured = errors.New("notifier not configured")
	ErrDelivery      = errors.New("notification delivery failed")
)
