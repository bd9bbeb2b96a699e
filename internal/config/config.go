// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - Durations are stored as integer seconds or milliseconds and exposed
//     through typed accessors.
//   - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// DateLayout is the layout of season_start.
const DateLayout = "2006-01-02"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SheetURL is the published CSV export of the score sheet.
	SheetURL string `koanf:"sheet_url"`

	// SheetPath reads the sheet from a local CSV file instead. Ignored when
	// SheetURL is set. With neither, a synthetic season is served.
	SheetPath string `koanf:"sheet_path"`

	// SeasonStart is the date of pick 1, YYYY-MM-DD.
	SeasonStart string `koanf:"season_start"`

	// MonthLocale selects month names: fr or en.
	MonthLocale string `koanf:"month_locale"`

	// DefaultPickRow is the 0-based row used when no "Pick" label is found.
	DefaultPickRow int `koanf:"default_pick_row"`

	// FooterLabels end the player block. Empty keeps the builder defaults.
	FooterLabels []string `koanf:"footer_labels"`

	// CellSentinels are cell values meaning "no score". Empty keeps the builder defaults.
	CellSentinels []string `koanf:"cell_sentinels"`

	// Roster closes the player list; other labels are skipped with a warning.
	Roster []string `koanf:"roster"`

	// CacheTTLSeconds is how long a fetched sheet is reused.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RefreshCooldownSeconds is the minimum delay between forced refreshes.
	RefreshCooldownSeconds int `koanf:"refresh_cooldown_seconds"`

	// FetchTimeoutMS bounds one sheet download.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// WebhookURL receives weekly reports. Empty disables delivery.
	WebhookURL string `koanf:"webhook_url"`

	// WebhookUsername is the display name of delivered messages.
	WebhookUsername string `koanf:"webhook_username"`

	// DedupeSize bounds the remembered delivery keys.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// BreakerFailureRatio opens outbound circuit breakers.
	BreakerFailureRatio float64 `koanf:"breaker_failure_ratio"`

	// BreakerTimeoutSeconds is how long an open breaker waits before probing.
	BreakerTimeoutSeconds int `koanf:"breaker_timeout_seconds"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBucketsMS are the latency histogram bounds in milliseconds.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`

	// MetricsLabels are constant labels added to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		SeasonStart:            "2024-10-22",
		MonthLocale:            "fr",
		DefaultPickRow:         1,
		CacheTTLSeconds:        300,
		RefreshCooldownSeconds: 60,
		FetchTimeoutMS:         10_000,
		WebhookUsername:        "Pick Sheet",
		DedupeSize:             512,
		MaxLeaderboardLimit:    100,
		BreakerFailureRatio:    0.6,
		BreakerTimeoutSeconds:  30,
		MetricsNamespace:       "picksheet",
		MetricsSubsystem:       "stats",
		MetricsBucketsMS:       []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}
}

// Validate checks the fields that have no safe fallback.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := c.SeasonStartTime(); err != nil {
		return err
	}
	if c.MonthLocale != "fr" && c.MonthLocale != "en" {
		return fmt.Errorf("%w: month_locale must be fr or en, got %q", ErrInvalidConfig, c.MonthLocale)
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	}
	if c.RefreshCooldownSeconds < 0 {
		return fmt.Errorf("%w: refresh_cooldown_seconds must not be negative", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("%w: breaker_failure_ratio must be in (0, 1]", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsBucketsMS); i++ {
		if c.MetricsBucketsMS[i] <= c.MetricsBucketsMS[i-1] {
			return fmt.Errorf("%w: metrics_buckets_ms must be strictly increasing", ErrInvalidConfig)
		}
	}
	for name, raw := range map[string]string{"sheet_url": c.SheetURL, "webhook_url": c.WebhookURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s is not an absolute URL", ErrInvalidConfig, name)
		}
	}
	return nil
}

// SeasonStartTime parses SeasonStart as a UTC date.
func (c *Config) SeasonStartTime() (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, c.SeasonStart, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: season_start %q: %v", ErrInvalidConfig, c.SeasonStart, err)
	}
	return t, nil
}

// CacheTTL returns the cache time-to-live.
func (c *Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

// RefreshCooldown returns the forced refresh cooldown.
func (c *Config) RefreshCooldown() time.Duration {
	return time.Duration(c.RefreshCooldownSeconds) * time.Second
}

// FetchTimeout returns the sheet download timeout.
func (c *Config) FetchTimeout() time.Duration { return time.Duration(c.FetchTimeoutMS) * time.Millisecond }

// BreakerTimeout returns how long an open breaker waits.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSeconds) * time.Second
}
