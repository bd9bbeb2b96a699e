package playerstats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/picksheet/internal/domain/model"
	"github.com/okian/picksheet/internal/domain/scoretable"
)

// Period spec prefixes accepted by ResolvePeriod.
const (
	PeriodSeason = "season"
	prefixDeck   = "deck:"
	prefixMonth  = "month:"
	prefixLast   = "last:"
	prefixRange  = "range:"
)

// ResolvePeriod turns a period spec into a pick range over tbl.
//
// Accepted specs: "" or "season", "deck:<n>", "month:<name>", "last:<n>"
// and "range:<from>-<to>". An empty table yields ErrNoData; a valid spec
// that selects no rows yields ErrPeriodNotStarted.
func ResolvePeriod(tbl *scoretable.Table, spec string) (model.Period, error) {
	spec = strings.TrimSpace(spec)
	p, err := parsePeriod(tbl, spec)
	if err != nil {
		return model.Period{}, err
	}
	if tbl.IsEmpty() {
		return model.Period{}, ErrNoData
	}
	if tbl.InPeriod(p).IsEmpty() {
		return model.Period{}, fmt.Errorf("%w: %s", ErrPeriodNotStarted, p.Name)
	}
	return p, nil
}

func parsePeriod(tbl *scoretable.Table, spec string) (model.Period, error) {
	lower := strings.ToLower(spec)
	switch {
	case lower == "" || lower == PeriodSeason:
		return model.Period{Name: PeriodSeason, From: tbl.FirstPick(), To: tbl.LastPick()}, nil

	case strings.HasPrefix(lower, prefixDeck):
		n, err := positive(strings.TrimPrefix(lower, prefixDeck))
		if err != nil {
			return model.Period{}, err
		}
		p := model.Period{Name: spec, From: -1, To: -1}
		if from, to, ok := tbl.DeckRange(n); ok {
			p.From, p.To = from, to
		}
		return p, nil

	case strings.HasPrefix(lower, prefixMonth):
		month := strings.TrimSpace(spec[len(prefixMonth):])
		if month == "" {
			return model.Period{}, fmt.Errorf("%w: empty month", ErrInvalidPeriod)
		}
		p := model.Period{Name: prefixMonth + scoretable.NormalizeMonth(month), From: -1, To: -1}
		if from, to, ok := tbl.MonthRange(month); ok {
			p.From, p.To = from, to
		}
		return p, nil

	case strings.HasPrefix(lower, prefixLast):
		n, err := positive(strings.TrimPrefix(lower, prefixLast))
		if err != nil {
			return model.Period{}, err
		}
		last := tbl.LastPick()
		from := last - n + 1
		if from < tbl.FirstPick() {
			from = tbl.FirstPick()
		}
		return model.Period{Name: spec, From: from, To: last}, nil

	case strings.HasPrefix(lower, prefixRange):
		bounds := strings.SplitN(strings.TrimPrefix(lower, prefixRange), "-", 2)
		if len(bounds) != 2 {
			return model.Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, spec)
		}
		from, err := positive(bounds[0])
		if err != nil {
			return model.Period{}, err
		}
		to, err := positive(bounds[1])
		if err != nil {
			return model.Period{}, err
		}
		if to < from {
			return model.Period{}, fmt.Errorf("%w: %q ends before it starts", ErrInvalidPeriod, spec)
		}
		return model.Period{Name: spec, From: from, To: to}, nil
	}
	return model.Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, spec)
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a positive integer", ErrInvalidPeriod, s)
	}
	return n, nil
}
