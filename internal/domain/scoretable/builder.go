// Package scoretable turns the raw score sheet into an immutable long-format
// table of typed score events.
package scoretable

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/picksheet/internal/domain/model"
)

// Marker labels looked up in the first column of the grid.
const (
	pickMarker = "Pick"
	deckMarker = "Deck"

	bonusSuffix    = "*"
	bestPickSuffix = "!"
)

// Result is the outcome of Build: a table that may be empty, plus every
// recoverable problem met while reading the grid.
type Result struct {
	Table    *Table
	Warnings []error
}

// Messages renders the warnings for display.
func (r Result) Messages() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.Error()
	}
	return out
}

// Builder parses grids in the season sheet layout.
type Builder struct {
	seasonStart    time.Time
	defaultPickRow int
	locale         string
	footers        map[string]struct{}
	sentinels      map[string]struct{}
	roster         map[string]struct{}
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		seasonStart:    time.Date(time.Now().Year(), time.October, 1, 0, 0, 0, 0, time.UTC),
		defaultPickRow: defaultPickRow,
		locale:         defaultLocale,
		footers:        toSet([]string{"Total", "Moyenne", "Average", "Max", "Min", "Best Pick", "BP"}),
		sentinels:      toSet([]string{"-", "x", "n/a", "na", "abs", "#n/a", "#value!"}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// cell is a parsed score cell.
type cell struct {
	score      int
	raw        int
	isBonus    bool
	isBestPick bool
}

// Build parses grid into a score table. It never fails: layout problems fall
// back to documented defaults or yield an empty table, and are reported in
// Result.Warnings.
func (b *Builder) Build(grid [][]string) Result {
	var warnings []error
	if len(grid) == 0 {
		return Result{Table: Empty(), Warnings: []error{ErrEmptySource}}
	}

	pickRow := findMarker(grid, pickMarker)
	if pickRow < 0 {
		pickRow = b.defaultPickRow
		warnings = append(warnings, fmt.Errorf("%w: using row %d", ErrNoPickRow, pickRow+1))
	}
	if pickRow >= len(grid) {
		warnings = append(warnings, fmt.Errorf("%w: grid has %d rows", ErrNoPlayers, len(grid)))
		return Result{Table: Empty(), Warnings: warnings}
	}

	picks := b.pickColumns(grid[pickRow], &warnings)

	var decks map[int]int
	if deckRow := findMarker(grid, deckMarker); deckRow >= 0 {
		decks = forwardFill(grid[deckRow])
	} else {
		warnings = append(warnings, ErrNoDeckRow)
	}

	players, rows := b.playerRows(grid, pickRow, &warnings)
	if len(players) == 0 {
		warnings = append(warnings, ErrNoPlayers)
		return Result{Table: Empty(), Warnings: warnings}
	}

	var events []model.ScoreEvent
	for i, player := range players {
		row := rows[i]
		for col, pick := range picks {
			if col >= len(row) {
				continue
			}
			c, ok := b.parseCell(row[col])
			if !ok {
				continue
			}
			date := b.seasonStart.AddDate(0, 0, pick-1)
			events = append(events, model.ScoreEvent{
				Pick:       pick,
				Deck:       decks[col],
				Date:       date,
				Player:     player,
				Score:      c.score,
				ScoreRaw:   c.raw,
				IsBonus:    c.isBonus,
				IsBestPick: c.isBestPick,
				Month:      MonthName(date, b.locale),
			})
		}
	}
	ApplyZScores(events)
	return Result{Table: New(events, players).withDeckStarts(deckStarts(picks, decks)), Warnings: warnings}
}

// findMarker returns the index of the first row whose first cell is label.
func findMarker(grid [][]string, label string) int {
	for i, row := range grid {
		if len(row) > 0 && strings.TrimSpace(row[0]) == label {
			return i
		}
	}
	return -1
}

// pickColumns maps column index to pick number for every column holding a
// positive integer pick.
func (b *Builder) pickColumns(row []string, warnings *[]error) map[int]int {
	out := make(map[int]int)
	seen := make(map[int]bool)
	for col := 1; col < len(row); col++ {
		pick, ok := parseWhole(row[col])
		if !ok || pick < 1 {
			continue
		}
		if seen[pick] {
			*warnings = append(*warnings, fmt.Errorf("%w: pick %d", ErrDuplicated, pick))
			continue
		}
		seen[pick] = true
		out[col] = pick
	}
	return out
}

// forwardFill maps column index to week id, blank cells inheriting the last
// non-blank value to their left. Columns before the first marker get 0.
func forwardFill(row []string) map[int]int {
	out := make(map[int]int, len(row))
	last := 0
	for col := 1; col < len(row); col++ {
		if v, ok := parseWhole(row[col]); ok && v > 0 {
			last = v
		}
		out[col] = last
	}
	return out
}

// deckStarts maps every week id to its smallest pick column.
func deckStarts(picks, decks map[int]int) map[int]int {
	out := make(map[int]int)
	for col, pick := range picks {
		deck := decks[col]
		if deck <= 0 {
			continue
		}
		if cur, ok := out[deck]; !ok || pick < cur {
			out[deck] = pick
		}
	}
	return out
}

// playerRows collects the contiguous label block under the pick row.
func (b *Builder) playerRows(grid [][]string, pickRow int, warnings *[]error) ([]string, [][]string) {
	var players []string
	var rows [][]string
	seen := make(map[string]bool)
	for i := pickRow + 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) == 0 {
			break
		}
		label := strings.TrimSpace(row[0])
		if label == "" || label == deckMarker || label == pickMarker {
			break
		}
		if _, footer := b.footers[strings.ToLower(label)]; footer {
			break
		}
		if b.roster != nil {
			if _, ok := b.roster[strings.ToLower(label)]; !ok {
				*warnings = append(*warnings, fmt.Errorf("%w: %q", ErrOffRoster, label))
				continue
			}
		}
		if seen[label] {
			*warnings = append(*warnings, fmt.Errorf("%w: player %q", ErrDuplicated, label))
			continue
		}
		seen[label] = true
		players = append(players, label)
		rows = append(rows, row)
	}
	return players, rows
}

// parseCell reads one score cell. A trailing "*" marks a bonus and a
// trailing "!" a best pick; commas are decimal points. The bonus doubles the
// parsed float before truncation, so "21.5*" scores 43 with a raw of 21.
func (b *Builder) parseCell(text string) (cell, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return cell{}, false
	}
	if _, ok := b.sentinels[strings.ToLower(s)]; ok {
		return cell{}, false
	}
	var c cell
	for {
		switch {
		case strings.HasSuffix(s, bonusSuffix):
			c.isBonus = true
			s = strings.TrimSpace(strings.TrimSuffix(s, bonusSuffix))
			continue
		case strings.HasSuffix(s, bestPickSuffix):
			c.isBestPick = true
			s = strings.TrimSpace(strings.TrimSuffix(s, bestPickSuffix))
			continue
		}
		break
	}
	raw, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return cell{}, false
	}
	c.raw = int(raw)
	c.score = c.raw
	if c.isBonus {
		c.score = int(raw * 2)
	}
	return c, true
}

// parseWhole parses an integral cell such as "12" or "12.0".
func parseWhole(text string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// ApplyZScores sets ZScore on every event relative to the other events of
// the same pick, using the population standard deviation. Groups of one and
// groups without variance get 0.
func ApplyZScores(events []model.ScoreEvent) {
	groups := make(map[int][]int)
	for i, e := range events {
		groups[e.Pick] = append(groups[e.Pick], i)
	}
	for _, idx := range groups {
		if len(idx) < 2 {
			for _, i := range idx {
				events[i].ZScore = 0
			}
			continue
		}
		var sum float64
		for _, i := range idx {
			sum += float64(events[i].Score)
		}
		mean := sum / float64(len(idx))
		var sq float64
		for _, i := range idx {
			d := float64(events[i].Score) - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(len(idx)))
		for _, i := range idx {
			if std == 0 {
				events[i].ZScore = 0
				continue
			}
			events[i].ZScore = (float64(events[i].Score) - mean) / std
		}
	}
}
