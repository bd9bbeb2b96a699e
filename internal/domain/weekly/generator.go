package weekly

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/picksheet/internal/domain/model"
	"github.com/okian/picksheet/internal/domain/ranking"
	"github.com/okian/picksheet/internal/domain/scoretable"
	"github.com/okian/picksheet/internal/domain/streak"
)

// Report tuning.
const (
	weekLength      = 7
	podiumSize      = 3
	wallTolerance   = 1
	minNoCarrotRun  = 8
	minOver30Run    = 4
	over30Threshold = 30
)

// streakRule triggers a storyline when a player's current run reaches min.
type streakRule struct {
	kind      string
	threshold int
	min       int
	label     string
}

var streakRules = []streakRule{
	{kind: KindNoCarrot, threshold: model.CarrotThreshold, min: minNoCarrotRun, label: "without a carrot"},
	{kind: KindOver30, threshold: over30Threshold, min: minOver30Run, label: "at 30 or more"},
}

// weekTotals is one player's aggregate over a week.
type weekTotals struct {
	total   int
	games   int
	carrots int
}

func (w weekTotals) average() float64 {
	if w.games == 0 {
		return 0
	}
	return float64(w.total) / float64(w.games)
}

// Generate builds the report of deck; deck 0 selects the latest week.
// It returns false, never an error, when the table is empty, has no week
// ids, or holds no rows for the requested week.
func Generate(tbl *scoretable.Table, deck int) (Report, bool) {
	if tbl == nil || tbl.IsEmpty() {
		return Report{}, false
	}
	if deck == 0 {
		deck = tbl.MaxDeck()
	}
	if deck <= 0 {
		return Report{}, false
	}
	week := tbl.ForDeck(deck)
	if week.IsEmpty() {
		return Report{}, false
	}

	r := Report{Meta: meta(week, deck)}
	totals := totalsByPlayer(week)
	ranked := rankTotals(totals)
	r.Ranking = podiumEntries(ranked, totals)
	r.Podium = podiumEntries(ranking.Within(ranked, podiumSize), totals)
	r.Throne = throne(tbl, deck)
	r.Wall = wall(r.Ranking, totals)

	prevDeck := previousDeck(tbl, deck)
	var prevTotals map[string]weekTotals
	if prevDeck > 0 {
		prevTotals = totalsByPlayer(tbl.ForDeck(prevDeck))
	}
	r.Comebacks = comebacks(totals, prevTotals)
	r.Team = teamStats(week, tbl.ForDeck(prevDeck), prevDeck > 0)
	r.Storylines = storylines(tbl, r.Meta.LastPick, r.Ranking)
	r.Lines = lines(r)
	return r, true
}

func meta(week *scoretable.Table, deck int) Meta {
	evs := week.Events()
	first, last := evs[0], evs[len(evs)-1]
	start, ok := week.DeckStart(deck)
	if !ok {
		start = first.Pick
	}
	return Meta{
		Deck:      deck,
		FirstPick: start,
		LastPick:  last.Pick,
		StartDate: first.Date,
		EndDate:   last.Date,
		Players:   len(week.ActivePlayers()),
		Complete:  last.Pick >= start+weekLength-1,
	}
}

func totalsByPlayer(tbl *scoretable.Table) map[string]weekTotals {
	out := make(map[string]weekTotals)
	for _, e := range tbl.Events() {
		w := out[e.Player]
		w.total += e.Score
		w.games++
		if e.IsCarrot() {
			w.carrots++
		}
		out[e.Player] = w
	}
	return out
}

func rankTotals(totals map[string]weekTotals) []ranking.Entry {
	entries := make([]ranking.Entry, 0, len(totals))
	for p, w := range totals {
		entries = append(entries, ranking.Entry{Player: p, Score: float64(w.total)})
	}
	return ranking.Rank(entries)
}

func podiumEntries(ranked []ranking.Entry, totals map[string]weekTotals) []PodiumEntry {
	out := make([]PodiumEntry, len(ranked))
	for i, e := range ranked {
		w := totals[e.Player]
		out[i] = PodiumEntry{Rank: e.Rank, Player: e.Player, Total: w.total, Games: w.games, Average: w.average()}
	}
	return out
}

// throne counts, for every week before deck, the players sharing first place.
func throne(tbl *scoretable.Table, deck int) []ThroneEntry {
	titles := make(map[string]int)
	for _, d := range tbl.Decks() {
		if d >= deck {
			break
		}
		for _, e := range ranking.Leaders(rankTotals(totalsByPlayer(tbl.ForDeck(d)))) {
			titles[e.Player]++
		}
	}
	out := make([]ThroneEntry, 0, len(titles))
	for p, n := range titles {
		out = append(out, ThroneEntry{Player: p, Titles: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Titles != out[j].Titles {
			return out[i].Titles > out[j].Titles
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// wall lists near-full-attendance players without a carrot, in ranking order.
func wall(ranked []PodiumEntry, totals map[string]weekTotals) []string {
	maxGames := 0
	for _, w := range totals {
		if w.games > maxGames {
			maxGames = w.games
		}
	}
	var out []string
	for _, e := range ranked {
		w := totals[e.Player]
		if w.games >= maxGames-wallTolerance && w.carrots == 0 {
			out = append(out, e.Player)
		}
	}
	return out
}

func previousDeck(tbl *scoretable.Table, deck int) int {
	prev := 0
	for _, d := range tbl.Decks() {
		if d >= deck {
			break
		}
		prev = d
	}
	return prev
}

func comebacks(cur, prev map[string]weekTotals) []Comeback {
	var out []Comeback
	for p, w := range cur {
		pw, ok := prev[p]
		if !ok || pw.games == 0 {
			continue
		}
		delta := w.average() - pw.average()
		if delta <= 0 {
			continue
		}
		out = append(out, Comeback{Player: p, Average: w.average(), PreviousAverage: pw.average(), Delta: delta})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Delta != out[j].Delta {
			return out[i].Delta > out[j].Delta
		}
		return out[i].Player < out[j].Player
	})
	return out
}

func teamStats(week, prev *scoretable.Table, hasPrev bool) TeamStats {
	ts := TeamStats{Average: mean(week)}
	for _, e := range week.Events() {
		if e.IsBestPick {
			ts.BestPicks++
		}
		if e.IsCarrot() {
			ts.Carrots++
		}
		if e.IsNuke() {
			ts.Nukes++
		}
	}
	if hasPrev && !prev.IsEmpty() {
		ts.HasPrevious = true
		ts.PreviousAverage = mean(prev)
		ts.Delta = ts.Average - ts.PreviousAverage
	}
	return ts
}

func mean(tbl *scoretable.Table) float64 {
	if tbl.IsEmpty() {
		return 0
	}
	sum := 0
	for _, e := range tbl.Events() {
		sum += e.Score
	}
	return float64(sum) / float64(tbl.Len())
}

// storylines runs the streak engine over every active player's season up to
// lastPick. Team records come from every player's full history.
func storylines(tbl *scoretable.Table, lastPick int, ranked []PodiumEntry) []Storyline {
	teamRecord := make(map[string]int, len(streakRules))
	for _, p := range tbl.ActivePlayers() {
		seq := tbl.Sequence(p)
		for _, rule := range streakRules {
			if n := streak.MaxRun(seq, streak.AtLeast(rule.threshold)); n > teamRecord[rule.kind] {
				teamRecord[rule.kind] = n
			}
		}
	}

	history := tbl.UpTo(lastPick)
	var out []Storyline
	for _, e := range ranked {
		seq := history.Sequence(e.Player)
		for _, rule := range streakRules {
			pred := streak.AtLeast(rule.threshold)
			cur := streak.CurrentRun(seq, pred)
			if cur < rule.min {
				continue
			}
			s := Storyline{
				Player:         e.Player,
				Kind:           rule.kind,
				Length:         cur,
				PersonalRecord: streak.MaxRun(seq, pred),
				TeamRecord:     teamRecord[rule.kind],
			}
			switch {
			case cur >= s.TeamRecord:
				s.Level = LevelTeamRecord
				s.Text = fmt.Sprintf("%s has gone %d picks in a row %s, the best run in team history.", e.Player, cur, rule.label)
			case cur >= s.PersonalRecord:
				s.Level = LevelPersonalRecord
				s.Text = fmt.Sprintf("%s has gone %d picks in a row %s, a personal best (team record: %d).", e.Player, cur, rule.label, s.TeamRecord)
			default:
				s.Level = LevelStreak
				s.Text = fmt.Sprintf("%s has gone %d picks in a row %s (personal best: %d).", e.Player, cur, rule.label, s.PersonalRecord)
			}
			out = append(out, s)
		}
	}
	return out
}

func lines(r Report) []string {
	var out []string
	podium := make([]string, len(r.Podium))
	for i, e := range r.Podium {
		podium[i] = fmt.Sprintf("%d. %s (%d)", e.Rank, e.Player, e.Total)
	}
	out = append(out, "Podium: "+strings.Join(podium, ", "))

	if len(r.Throne) > 0 {
		parts := make([]string, len(r.Throne))
		for i, e := range r.Throne {
			parts[i] = fmt.Sprintf("%s %d", e.Player, e.Titles)
		}
		out = append(out, "Throne race: "+strings.Join(parts, ", "))
	}
	if len(r.Wall) > 0 {
		out = append(out, "The Wall (no carrot all week): "+strings.Join(r.Wall, ", "))
	}
	if len(r.Comebacks) > 0 {
		c := r.Comebacks[0]
		out = append(out, fmt.Sprintf("Comeback of the week: %s (%+.1f average)", c.Player, c.Delta))
	}

	team := fmt.Sprintf("Team average %.1f", r.Team.Average)
	if r.Team.HasPrevious {
		team += fmt.Sprintf(" (%+.1f vs last week)", r.Team.Delta)
	}
	team += fmt.Sprintf(", %d best picks, %d carrots", r.Team.BestPicks, r.Team.Carrots)
	out = append(out, team)

	for _, s := range r.Storylines {
		out = append(out, s.Text)
	}
	if !r.Meta.Complete {
		out = append(out, fmt.Sprintf("Week %d looks incomplete: the last day is missing.", r.Meta.Deck))
	}
	return out
}
