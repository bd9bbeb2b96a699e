package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrCooldown = errors.New("refresh cooldown active")
)
