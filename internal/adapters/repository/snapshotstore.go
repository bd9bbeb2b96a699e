package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/picksheet/internal/domain/ranking"
	"github.com/okian/picksheet/pkg/logger"
	"github.com/okian/picksheet/pkg/metrics"
)

// Snapshot is an immutable, fully ranked view of the standings.
type Snapshot struct {
	Rows     []Standing
	byPlayer map[string]int
	BuiltAt  time.Time
}

// SnapshotStore publishes standings as atomically swapped snapshots, so
// readers never observe a half-built table.
type SnapshotStore struct {
	snapshot atomic.Pointer[Snapshot]
	logger   logger.Logger
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{logger: logger.Get()}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{byPlayer: map[string]int{}})
	return s
}

// Replace implements Store.Replace. Rows are ranked by points with
// competition ranking; equal points share a rank and ties list by name.
func (s *SnapshotStore) Replace(ctx context.Context, rows []Standing) error {
	start := time.Now()

	byName := make(map[string]Standing, len(rows))
	entries := make([]ranking.Entry, 0, len(rows))
	for _, r := range rows {
		byName[r.Player] = r
		entries = append(entries, ranking.Entry{Player: r.Player, Score: float64(r.Points)})
	}
	ranked := ranking.Rank(entries)

	snap := &Snapshot{
		Rows:     make([]Standing, len(ranked)),
		byPlayer: make(map[string]int, len(ranked)),
		BuiltAt:  time.Now(),
	}
	for i, e := range ranked {
		row := byName[e.Player]
		row.Rank = e.Rank
		snap.Rows[i] = row
		snap.byPlayer[row.Player] = i
	}
	s.snapshot.Store(snap)

	metrics.UpdateStandingsSize(len(snap.Rows))
	metrics.RecordComputeLatency("standings", float64(time.Since(start).Microseconds())/1000)
	s.logger.Debug(ctx, "standings published", logger.Int("players", len(snap.Rows)))
	return nil
}

// Rank implements Store.Rank.
func (s *SnapshotStore) Rank(_ context.Context, player string) (Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	snap := s.snapshot.Load()
	i, ok := snap.byPlayer[player]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Standing{}, ErrNotFound
	}
	return snap.Rows[i], nil
}

// TopN implements Store.TopN. n larger than the standings returns them all.
func (s *SnapshotStore) TopN(_ context.Context, n int) ([]Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	rows := s.snapshot.Load().Rows
	if n > len(rows) {
		n = len(rows)
	}
	out := make([]Standing, n)
	copy(out, rows[:n])
	return out, nil
}

// Count implements Store.Count.
func (s *SnapshotStore) Count(_ context.Context) int {
	return len(s.snapshot.Load().Rows)
}

// BuiltAt returns when the current snapshot was published.
func (s *SnapshotStore) BuiltAt() time.Time {
	return s.snapshot.Load().BuiltAt
}
