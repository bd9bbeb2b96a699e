package cache

import (
	"time"

	"github.com/okian/picksheet/pkg/logger"
)

// Clock tells the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now) //nolint:gochecknoglobals // stateless default clock

type config struct {
	ttl      time.Duration
	cooldown time.Duration
	clock    Clock
	logger   logger.Logger
}

// Option configures a Cache.
type Option func(*config)

// WithTTL sets how long a loaded value is served before reloading.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithCooldown sets the minimum delay between two forced refreshes.
func WithCooldown(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.cooldown = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
