// Package testsheet generates synthetic season sheets in the published layout.
package testsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
)

// Layout labels written in the first column.
const (
	LabelDeck  = "Deck"
	LabelPick  = "Pick"
	LabelTotal = "Total"
	weekLength = 7
)

// Score shape.
const (
	scoreMean   = 30.0
	scoreSpread = 12.0
	scoreMax    = 80
)

// DefaultPlayers is the roster used when Config.Players is empty.
var DefaultPlayers = []string{"Alice", "Bob", "Carol", "Dan", "Eve", "Frank"} //nolint:gochecknoglobals // fixed sample roster

// Config controls a generated season.
type Config struct {
	Players      []string
	Picks        int
	Seed         uint64
	BonusRate    float64 // share of cells scored as bonus picks
	BestPickRate float64 // share of picks whose top scorer is marked best pick
	AbsentRate   float64 // share of empty cells
}

// Defaults fills zero fields.
func (c Config) Defaults() Config {
	if len(c.Players) == 0 {
		c.Players = DefaultPlayers
	}
	if c.Picks <= 0 {
		c.Picks = 4 * weekLength
	}
	if c.BonusRate == 0 {
		c.BonusRate = 0.08
	}
	if c.BestPickRate == 0 {
		c.BestPickRate = 0.5
	}
	return c
}

// Generate builds a grid: a Deck row, a Pick row, one row per player and a
// Total footer. The Deck row only names the first pick of each week, the
// way the published sheet merges week headers. The same Config always
// yields the same grid.
func Generate(cfg Config) [][]string {
	cfg = cfg.Defaults()
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9E3779B97F4A7C15))

	width := cfg.Picks + 1
	deck := make([]string, width)
	pick := make([]string, width)
	deck[0], pick[0] = LabelDeck, LabelPick
	for p := 1; p <= cfg.Picks; p++ {
		if (p-1)%weekLength == 0 {
			deck[p] = strconv.Itoa((p-1)/weekLength + 1)
		}
		pick[p] = strconv.Itoa(p)
	}

	// each player gets a skill offset so standings are not flat
	offsets := make([]float64, len(cfg.Players))
	for i := range offsets {
		offsets[i] = r.NormFloat64() * 4
	}

	rows := make([][]string, len(cfg.Players))
	totals := make([]int, width)
	for i, name := range cfg.Players {
		rows[i] = make([]string, width)
		rows[i][0] = name
	}
	for p := 1; p <= cfg.Picks; p++ {
		best, bestScore := -1, -1
		scores := make([]int, len(cfg.Players))
		for i := range cfg.Players {
			if r.Float64() < cfg.AbsentRate {
				scores[i] = -1
				continue
			}
			s := int(r.NormFloat64()*scoreSpread + scoreMean + offsets[i])
			scores[i] = min(max(s, 0), scoreMax)
			if scores[i] > bestScore {
				best, bestScore = i, scores[i]
			}
		}
		markBest := best >= 0 && r.Float64() < cfg.BestPickRate
		for i, s := range scores {
			if s < 0 {
				continue
			}
			cell := strconv.Itoa(s)
			bonus := r.Float64() < cfg.BonusRate
			if bonus {
				// bonus cells carry the raw value; half points are common
				cell = fmt.Sprintf("%d.5*", s/2)
				totals[p] += int((float64(s/2) + 0.5) * 2)
			} else {
				totals[p] += s
			}
			if markBest && i == best {
				cell += "!"
			}
			rows[i][p] = cell
		}
	}

	footer := make([]string, width)
	footer[0] = LabelTotal
	for p := 1; p <= cfg.Picks; p++ {
		footer[p] = strconv.Itoa(totals[p])
	}

	grid := make([][]string, 0, len(rows)+3)
	grid = append(grid, deck, pick)
	grid = append(grid, rows...)
	grid = append(grid, footer)
	return grid
}

// WriteCSV writes grid as CSV.
func WriteCSV(w io.Writer, grid [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(grid); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
