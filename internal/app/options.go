package service

import (
	"time"

	"github.com/okian/picksheet/internal/adapters/cache"
	"github.com/okian/picksheet/internal/adapters/notify"
	"github.com/okian/picksheet/internal/adapters/repository"
	"github.com/okian/picksheet/internal/adapters/sheet"
	"github.com/okian/picksheet/internal/domain/playerstats"
	"github.com/okian/picksheet/internal/domain/scoretable"
	"github.com/okian/picksheet/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the raw sheet comes from.
func WithSource(src sheet.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithBuilderOptions configures how the sheet is parsed.
func WithBuilderOptions(opts ...scoretable.Option) Option {
	return func(s *Service) {
		s.builderOpts = append(s.builderOpts, opts...)
	}
}

// WithCacheTTL sets how long a fetched sheet is reused.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cacheTTL = d
		}
	}
}

// WithRefreshCooldown sets the minimum delay between forced refreshes.
func WithRefreshCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.cooldown = d
		}
	}
}

// WithClock replaces the wall clock used by the cache.
func WithClock(c cache.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithNotifier sets the weekly report notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithStore replaces the standings store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.standings = st
		}
	}
}

// WithDedupeSize sets how many delivered report keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSuperlatives replaces the trophy list.
func WithSuperlatives(list []playerstats.Superlative) Option {
	return func(s *Service) {
		if len(list) > 0 {
			s.superlatives = list
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
