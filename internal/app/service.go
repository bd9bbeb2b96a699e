// Package service orchestrates the sheet source, the score table and the
// derived views consumed by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/picksheet/internal/adapters/cache"
	"github.com/okian/picksheet/internal/adapters/notify"
	"github.com/okian/picksheet/internal/adapters/repository"
	"github.com/okian/picksheet/internal/adapters/sheet"
	"github.com/okian/picksheet/internal/domain/dedupe"
	"github.com/okian/picksheet/internal/domain/playerstats"
	"github.com/okian/picksheet/internal/domain/scoretable"
	"github.com/okian/picksheet/internal/domain/weekly"
	"github.com/okian/picksheet/pkg/logger"
	"github.com/okian/picksheet/pkg/metrics"
)

// Service implements the API dependencies for the stats dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	source    sheet.Source
	builder   *scoretable.Builder
	cache     *cache.Cache[*Snapshot]
	standings repository.Store
	deduper   dedupe.Deduper
	notifier  notify.Notifier

	// Configuration
	builderOpts  []scoretable.Option
	cacheTTL     time.Duration
	cooldown     time.Duration
	clock        cache.Clock
	dedupeSize   int
	superlatives []playerstats.Superlative

	// State
	started bool
	last    atomic.Pointer[Snapshot]

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		source: sheet.SourceFunc(func(context.Context) ([][]string, error) {
			return nil, fmt.Errorf("%w: no source configured", sheet.ErrFetch)
		}),
		cacheTTL:     cache.DefaultTTL,
		cooldown:     cache.DefaultCooldown,
		clock:        cache.SystemClock,
		dedupeSize:   512,
		superlatives: playerstats.DefaultSuperlatives,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.notifier == nil {
		s.notifier = notify.NewWebhook("", notify.WithLogger(s.logger))
	}
	if s.standings == nil {
		s.standings = repository.NewSnapshotStore(repository.WithLogger(s.logger))
	}
	s.builder = scoretable.NewBuilder(s.builderOpts...)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.cache = cache.New(s.load,
		cache.WithTTL(s.cacheTTL),
		cache.WithCooldown(s.cooldown),
		cache.WithClock(s.clock),
		cache.WithLogger(s.logger),
	)
	return s
}

// Start warms the cache. A failed first fetch is logged, not returned: the
// dashboard serves its no-data state until the sheet becomes reachable.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting stats service...")

	snap := s.Snapshot(ctx)
	s.started = true
	s.logger.Info(ctx, "stats service started",
		logger.Int("events", snap.Table.Len()),
		logger.Int("players", len(snap.Table.ActivePlayers())),
		logger.Int("warnings", len(snap.Warnings)),
		logger.Bool("fetch_failed", snap.Failed),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "stats service stopped")
}

// load fetches and parses the sheet and publishes the season standings.
// It runs under the cache lock.
func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	grid, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	res := s.builder.Build(grid)
	msgs := res.Messages()
	for _, m := range msgs {
		s.logger.Warn(ctx, "sheet layout warning", logger.String("warning", m))
	}
	metrics.RecordBuildWarnings(len(msgs))

	snap := &Snapshot{
		Table:     res.Table,
		Warnings:  msgs,
		FetchedAt: s.clock.Now(),
	}
	if err := s.standings.Replace(ctx, Standings(res.Table)); err != nil {
		s.logger.Error(ctx, "failed to publish standings", logger.Error(err))
	}
	s.last.Store(snap)

	tbl := res.Table
	metrics.UpdateTableSize(tbl.Len(), len(tbl.ActivePlayers()), tbl.LastPick(), tbl.MaxDeck())
	metrics.RecordComputeLatency("load", float64(time.Since(start).Milliseconds()))
	s.logger.Info(ctx, "sheet loaded",
		logger.Int("events", tbl.Len()),
		logger.Int("last_pick", tbl.LastPick()),
		logger.Int("warnings", len(msgs)),
	)
	return snap, nil
}

// Standings sums every active player's points over the whole table.
func Standings(tbl *scoretable.Table) []repository.Standing {
	byPlayer := tbl.ByPlayer()
	out := make([]repository.Standing, 0, len(byPlayer))
	for _, p := range tbl.ActivePlayers() {
		evs := byPlayer[p]
		st := repository.Standing{Player: p, Games: len(evs)}
		for _, e := range evs {
			st.Points += e.Score
		}
		if st.Games > 0 {
			st.Average = float64(st.Points) / float64(st.Games)
		}
		out = append(out, st)
	}
	return out
}

// Snapshot returns the current table, loading it through the cache when
// stale. It never fails: a fetch error yields an empty, flagged snapshot and
// clears the standings so every view agrees on the empty table.
func (s *Service) Snapshot(ctx context.Context) *Snapshot {
	snap, _, err := s.cache.Get(ctx)
	if err != nil {
		if rerr := s.standings.Replace(ctx, nil); rerr != nil {
			s.logger.Error(ctx, "failed to clear standings", logger.Error(rerr))
		}
		return &Snapshot{
			Table:     scoretable.Empty(),
			Warnings:  []string{"sheet unavailable: " + err.Error()},
			FetchedAt: s.clock.Now(),
			Failed:    true,
		}
	}
	return snap
}

// Scores returns the score events of a period.
func (s *Service) Scores(ctx context.Context, period string) (ScoresView, error) {
	snap := s.Snapshot(ctx)
	view := ScoresView{Warnings: snap.Warnings}
	p, err := playerstats.ResolvePeriod(snap.Table, period)
	if err != nil {
		return view, err
	}
	view.Period = p
	view.Events = snap.Table.InPeriod(p).Events()
	return view, nil
}

// PlayerStats computes the per-player table, the trophies and the team
// summary of a period.
func (s *Service) PlayerStats(ctx context.Context, period string) (StatsView, error) {
	snap := s.Snapshot(ctx)
	view := StatsView{Warnings: snap.Warnings}
	p, err := playerstats.ResolvePeriod(snap.Table, period)
	if err != nil {
		s.logger.Debug(ctx, "period not resolved", logger.String("period", period), logger.Error(err))
		return view, err
	}

	start := time.Now()
	sub := snap.Table.InPeriod(p)
	view.Period = p
	view.Rows = playerstats.Compute(sub)
	view.Awards = playerstats.Awards(view.Rows, s.superlatives)
	view.Team = playerstats.Team(sub, p)
	metrics.RecordComputeLatency("player_stats", float64(time.Since(start).Microseconds())/1000)
	return view, nil
}

// Weekly builds the report of deck; deck 0 selects the latest week.
func (s *Service) Weekly(ctx context.Context, deck int) (weekly.Report, error) {
	snap := s.Snapshot(ctx)
	start := time.Now()
	r, ok := weekly.Generate(snap.Table, deck)
	metrics.RecordComputeLatency("weekly", float64(time.Since(start).Microseconds())/1000)
	if !ok {
		return weekly.Report{}, ErrNoReport
	}
	return r, nil
}

// TopN returns the first n season standings.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Standing, error) {
	s.Snapshot(ctx)
	return s.standings.TopN(ctx, n)
}

// Rank returns the season standing of player.
func (s *Service) Rank(ctx context.Context, player string) (repository.Standing, error) {
	s.Snapshot(ctx)
	return s.standings.Rank(ctx, player)
}

// Refresh forces a refetch of the sheet. Within the cooldown it returns
// cache.ErrCooldown; a failed fetch returns the source error and keeps the
// previous table.
func (s *Service) Refresh(ctx context.Context) error {
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "forced refresh rejected", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "forced refresh completed")
	return nil
}

// NotifyWeekly sends the report of deck to the webhook once per report
// revision; force sends it again.
func (s *Service) NotifyWeekly(ctx context.Context, deck int, force bool) (Delivery, error) {
	if !s.notifier.Configured() {
		metrics.RecordNotification("not_configured")
		return Delivery{}, notify.ErrNotConfigured
	}
	r, err := s.Weekly(ctx, deck)
	if err != nil {
		metrics.RecordNotification("no_report")
		return Delivery{}, err
	}

	d := Delivery{Deck: r.Meta.Deck, Key: dedupe.DeliveryKey(r.Meta.Deck, r.Meta.LastPick)}
	seen := s.deduper.SeenAndRecord(ctx, d.Key)
	if seen && !force {
		metrics.RecordNotification(DeliveryDuplicate)
		s.logger.Info(ctx, "weekly report already delivered", logger.String("key", d.Key))
		d.Status = DeliveryDuplicate
		return d, nil
	}

	id, err := s.notifier.Send(ctx, notify.FromReport(r))
	d.DeliveryID = id
	if err != nil {
		if !seen {
			s.deduper.Unrecord(ctx, d.Key)
		}
		metrics.RecordNotification("failed")
		return d, err
	}
	metrics.RecordNotification(DeliverySent)
	s.logger.Info(ctx, "weekly report delivered",
		logger.Int("deck", d.Deck),
		logger.String("key", d.Key),
		logger.String("delivery_id", id),
		logger.Bool("forced", force),
	)
	d.Status = DeliverySent
	return d, nil
}

// GetStats returns service diagnostics without triggering a fetch.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	st := s.cache.State()
	stats := map[string]interface{}{
		"started":             started,
		"cache_loaded":        st.Loaded,
		"cache_ttl_seconds":   st.TTL.Seconds(),
		"standings":           s.standings.Count(ctx),
		"deliveries_recorded": s.deduper.Size(),
		"webhook_configured":  s.notifier.Configured(),
	}
	if st.Loaded {
		stats["fetched_at"] = st.LoadedAt.UTC().Format(time.RFC3339)
		stats["cache_age_seconds"] = st.Age.Seconds()
	}
	if !st.RefreshAfter.IsZero() {
		stats["refresh_after"] = st.RefreshAfter.UTC().Format(time.RFC3339)
	}
	if snap := s.last.Load(); snap != nil {
		stats["events"] = snap.Table.Len()
		stats["players"] = len(snap.Table.ActivePlayers())
		stats["last_pick"] = snap.Table.LastPick()
		stats["last_deck"] = snap.Table.MaxDeck()
		stats["warnings"] = snap.Warnings
	}
	return stats
}
