package scoretable

import (
	"strings"
	"time"
)

// Default builder configuration.
const (
	defaultPickRow = 1
	defaultLocale  = "fr"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithSeasonStart sets the calendar date of pick 1.
func WithSeasonStart(start time.Time) Option {
	return func(b *Builder) {
		if !start.IsZero() {
			b.seasonStart = start
		}
	}
}

// WithDefaultPickRow sets the row index used when no "Pick" marker exists.
func WithDefaultPickRow(row int) Option {
	return func(b *Builder) {
		if row >= 0 {
			b.defaultPickRow = row
		}
	}
}

// WithFooterLabels sets the first-column labels that end the player list.
func WithFooterLabels(labels []string) Option {
	return func(b *Builder) {
		if len(labels) > 0 {
			b.footers = toSet(labels)
		}
	}
}

// WithCellSentinels sets the cell values that never produce an event.
func WithCellSentinels(values []string) Option {
	return func(b *Builder) {
		if len(values) > 0 {
			b.sentinels = toSet(values)
		}
	}
}

// WithMonthLocale selects the month names used for ScoreEvent.Month.
func WithMonthLocale(locale string) Option {
	return func(b *Builder) {
		if _, ok := monthNames[strings.ToLower(locale)]; ok {
			b.locale = strings.ToLower(locale)
		}
	}
}

// WithRoster restricts the builder to a closed set of players.
func WithRoster(players []string) Option {
	return func(b *Builder) {
		if len(players) > 0 {
			b.roster = toSet(players)
		}
	}
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}
