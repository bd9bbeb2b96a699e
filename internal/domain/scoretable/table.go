package scoretable

import (
	"sort"

	"github.com/okian/picksheet/internal/domain/model"
)

// Table is an immutable long-format score table: one event per
// (pick, player), ordered by pick then by roster position. Every accessor
// returns copies so callers can never mutate the shared snapshot.
type Table struct {
	events     []model.ScoreEvent
	players    []string
	deckStarts map[int]int
}

// New builds a Table from events. players fixes the roster order; players
// that only appear in events are appended in order of first appearance.
func New(events []model.ScoreEvent, players []string) *Table {
	order := make(map[string]int, len(players))
	roster := make([]string, 0, len(players))
	for _, p := range players {
		if _, ok := order[p]; ok {
			continue
		}
		order[p] = len(roster)
		roster = append(roster, p)
	}
	evs := make([]model.ScoreEvent, len(events))
	copy(evs, events)
	for _, e := range evs {
		if _, ok := order[e.Player]; !ok {
			order[e.Player] = len(roster)
			roster = append(roster, e.Player)
		}
	}
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Pick != evs[j].Pick {
			return evs[i].Pick < evs[j].Pick
		}
		return order[evs[i].Player] < order[evs[j].Player]
	})
	return &Table{events: evs, players: roster}
}

// Empty returns a table with no events and no players.
func Empty() *Table { return &Table{} }

// Len returns the number of events.
func (t *Table) Len() int { return len(t.events) }

// IsEmpty reports whether the table holds no events.
func (t *Table) IsEmpty() bool { return len(t.events) == 0 }

// Events returns a copy of all events in table order.
func (t *Table) Events() []model.ScoreEvent {
	out := make([]model.ScoreEvent, len(t.events))
	copy(out, t.events)
	return out
}

// Players returns the roster in discovery order.
func (t *Table) Players() []string {
	out := make([]string, len(t.players))
	copy(out, t.players)
	return out
}

// ActivePlayers returns roster players with at least one event, in roster order.
func (t *Table) ActivePlayers() []string {
	seen := make(map[string]bool, len(t.players))
	for _, e := range t.events {
		seen[e.Player] = true
	}
	var out []string
	for _, p := range t.players {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}

// Filter returns a new table holding the events keep accepts.
func (t *Table) Filter(keep func(model.ScoreEvent) bool) *Table {
	var out []model.ScoreEvent
	for _, e := range t.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return &Table{events: out, players: t.Players(), deckStarts: t.deckStarts}
}

// withDeckStarts records the first pick column of every week as laid out in
// the grid, independent of which cells hold a score.
func (t *Table) withDeckStarts(starts map[int]int) *Table {
	t.deckStarts = starts
	return t
}

// DeckStart returns the first pick of a week. Tables built from a grid answer
// with the week's first pick column; other tables fall back to the week's
// earliest event.
func (t *Table) DeckStart(deck int) (int, bool) {
	if p, ok := t.deckStarts[deck]; ok {
		return p, true
	}
	from, _, ok := t.DeckRange(deck)
	return from, ok
}

// InPeriod restricts the table to the period's pick range.
func (t *Table) InPeriod(p model.Period) *Table {
	return t.Filter(func(e model.ScoreEvent) bool { return p.Contains(e.Pick) })
}

// UpTo restricts the table to picks <= pick.
func (t *Table) UpTo(pick int) *Table {
	return t.Filter(func(e model.ScoreEvent) bool { return e.Pick <= pick })
}

// ForDeck restricts the table to one week.
func (t *Table) ForDeck(deck int) *Table {
	return t.Filter(func(e model.ScoreEvent) bool { return e.Deck == deck })
}

// Picks returns the distinct picks in ascending order.
func (t *Table) Picks() []int {
	var out []int
	for i, e := range t.events {
		if i == 0 || e.Pick != t.events[i-1].Pick {
			out = append(out, e.Pick)
		}
	}
	return out
}

// FirstPick returns the smallest pick, or 0 when empty.
func (t *Table) FirstPick() int {
	if len(t.events) == 0 {
		return 0
	}
	return t.events[0].Pick
}

// LastPick returns the largest pick, or 0 when empty.
func (t *Table) LastPick() int {
	if len(t.events) == 0 {
		return 0
	}
	return t.events[len(t.events)-1].Pick
}

// Decks returns the distinct non-zero decks in ascending order.
func (t *Table) Decks() []int {
	seen := make(map[int]bool)
	var out []int
	for _, e := range t.events {
		if e.Deck > 0 && !seen[e.Deck] {
			seen[e.Deck] = true
			out = append(out, e.Deck)
		}
	}
	sort.Ints(out)
	return out
}

// MaxDeck returns the latest week id, or 0 when no week is known.
func (t *Table) MaxDeck() int {
	decks := t.Decks()
	if len(decks) == 0 {
		return 0
	}
	return decks[len(decks)-1]
}

// DeckRange returns the first and last pick of a week.
func (t *Table) DeckRange(deck int) (from, to int, ok bool) {
	return t.rangeOf(func(e model.ScoreEvent) bool { return e.Deck == deck })
}

// MonthRange returns the first and last pick falling in a normalized month.
func (t *Table) MonthRange(month string) (from, to int, ok bool) {
	month = NormalizeMonth(month)
	return t.rangeOf(func(e model.ScoreEvent) bool { return e.Month == month })
}

func (t *Table) rangeOf(match func(model.ScoreEvent) bool) (from, to int, ok bool) {
	for _, e := range t.events {
		if !match(e) {
			continue
		}
		if !ok {
			from, ok = e.Pick, true
		}
		to = e.Pick
	}
	return from, to, ok
}

// ByPlayer groups events per player, each slice in pick order.
func (t *Table) ByPlayer() map[string][]model.ScoreEvent {
	out := make(map[string][]model.ScoreEvent, len(t.players))
	for _, e := range t.events {
		out[e.Player] = append(out[e.Player], e)
	}
	return out
}

// Sequence returns a player's adjusted scores in pick order.
func (t *Table) Sequence(player string) []int {
	var out []int
	for _, e := range t.events {
		if e.Player == player {
			out = append(out, e.Score)
		}
	}
	return out
}

// MaxScoreByPick maps each pick to the best adjusted score recorded for it.
func (t *Table) MaxScoreByPick() map[int]int {
	out := make(map[int]int)
	for _, e := range t.events {
		if cur, ok := out[e.Pick]; !ok || e.Score > cur {
			out[e.Pick] = e.Score
		}
	}
	return out
}

// BestPickScoreByPick maps each pick to the score of its flagged best pick.
// When several events of one pick carry the flag the highest score wins.
func (t *Table) BestPickScoreByPick() map[int]int {
	out := make(map[int]int)
	for _, e := range t.events {
		if !e.IsBestPick {
			continue
		}
		if cur, ok := out[e.Pick]; !ok || e.Score > cur {
			out[e.Pick] = e.Score
		}
	}
	return out
}

// ScoresByPick groups adjusted scores per pick.
func (t *Table) ScoresByPick() map[int][]int {
	out := make(map[int][]int)
	for _, e := range t.events {
		out[e.Pick] = append(out[e.Pick], e.Score)
	}
	return out
}
