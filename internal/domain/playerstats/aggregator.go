// Package playerstats derives one summary row per player from a score
// table restricted to a period, plus superlatives and a team summary.
package playerstats

import (
	"math"
	"sort"

	"github.com/okian/picksheet/internal/domain/model"
	"github.com/okian/picksheet/internal/domain/scoretable"
	"github.com/okian/picksheet/internal/domain/streak"
)

// Streak thresholds and rolling windows.
const (
	thresholdIronMan     = 20
	thresholdHot         = 30
	thresholdUnstoppable = 40
	thresholdAlien       = 60

	rollingWindow     = 7
	progressionWindow = 15
	podiumRank        = 3
)

// Aux holds the per-pick lookups shared by every player of a period.
// Build it once per period with NewAux.
type Aux struct {
	BestPickByPick map[int]int
	MaxByPick      map[int]int
	ScoresByPick   map[int][]int
	Picks          int
}

// NewAux computes the auxiliary maps over tbl.
func NewAux(tbl *scoretable.Table) Aux {
	return Aux{
		BestPickByPick: tbl.BestPickScoreByPick(),
		MaxByPick:      tbl.MaxScoreByPick(),
		ScoresByPick:   tbl.ScoresByPick(),
		Picks:          len(tbl.Picks()),
	}
}

// Compute aggregates tbl with auxiliary maps computed over tbl itself.
func Compute(tbl *scoretable.Table) []model.PlayerStats {
	return Aggregate(tbl, NewAux(tbl))
}

// Aggregate returns one row per player present in tbl, in roster order.
// Players without games are absent. tbl is never modified.
func Aggregate(tbl *scoretable.Table, aux Aux) []model.PlayerStats {
	byPlayer := tbl.ByPlayer()
	var out []model.PlayerStats
	for _, player := range tbl.ActivePlayers() {
		out = append(out, summarize(player, byPlayer[player], aux))
	}
	return out
}

// summarize builds the row of one player; evs is in pick order and non-empty.
func summarize(player string, evs []model.ScoreEvent, aux Aux) model.PlayerStats {
	scores := make([]int, len(evs))
	raws := make([]int, len(evs))
	for i, e := range evs {
		scores[i] = e.Score
		raws[i] = e.ScoreRaw
	}

	row := model.PlayerStats{Player: player, Games: len(evs)}

	row.Total, row.Min, row.Max = sumMinMax(scores)
	row.Mean = ratio(float64(row.Total), float64(row.Games))
	row.StdDev = stddev(scores, row.Mean)
	row.Median = median(scores)
	row.Spread = row.Max - row.Min

	row.RawTotal, row.RawMin, row.RawMax = sumMinMax(raws)
	row.RawMean = ratio(float64(row.RawTotal), float64(row.Games))
	row.RawStdDev = stddev(raws, row.RawMean)

	for _, s := range scores {
		switch {
		case s < thresholdIronMan:
			row.Below20++
		case s < thresholdHot:
			row.From20To30++
		case s < thresholdUnstoppable:
			row.From30To40++
		default:
			row.AtLeast40++
		}
		if s >= model.NukeThreshold {
			row.AtLeast50++
		}
	}
	row.CarrotCount = row.Below20
	row.NukeCount = row.AtLeast50
	row.SafeCount = row.Games - row.CarrotCount

	row.NoCarrot = streak.Measure(scores, streak.AtLeast(thresholdIronMan))
	row.Over30 = streak.Measure(scores, streak.AtLeast(thresholdHot))
	row.Over40 = streak.Measure(scores, streak.AtLeast(thresholdUnstoppable))
	row.Over60 = streak.Measure(scores, streak.AtLeast(thresholdAlien))
	row.Carrots = streak.Measure(scores, streak.Below(model.CarrotThreshold))

	bonusAndBestPick(&row, evs, aux)

	row.BestMonth, row.BestMonthAvg = bestMonth(evs)
	row.Best7Sum = bestWindowSum(scores, rollingWindow)
	row.Phoenix = phoenix(scores)
	row.ModeScore, row.ModeCount = mode(scores)
	row.LastPickScore = scores[len(scores)-1]

	var zSum float64
	row.BestZScore = math.Inf(-1)
	for _, e := range evs {
		zSum += e.ZScore
		if e.ZScore > row.BestZScore {
			row.BestZScore = e.ZScore
		}
		if e.Score > 0 && e.Score == aux.MaxByPick[e.Pick] {
			row.AlphaCount++
		}
		if pickRank(e.Score, aux.ScoresByPick[e.Pick]) <= podiumRank {
			row.Top3Finishes++
		}
	}
	row.AvgZScore = zSum / float64(len(evs))
	row.ParticipationP = 100 * ratio(float64(row.Games), float64(aux.Picks))

	row.Last5Avg = tailMean(scores, 5)
	row.Last10Avg = tailMean(scores, 10)
	row.Last15Avg = tailMean(scores, progressionWindow)
	row.ProgressionPct = 100 * ratio(row.Last15Avg-row.Mean, row.Mean)
	row.ReliabilityPct = 100 * ratio(float64(row.SafeCount), float64(row.Games))
	return row
}

func bonusAndBestPick(row *model.PlayerStats, evs []model.ScoreEvent, aux Aux) {
	var gapSum float64
	gaps := 0
	for _, e := range evs {
		if e.IsBonus {
			if row.BonusCount == 0 || e.Score > row.BestBonus {
				row.BestBonus = e.Score
			}
			if row.BonusCount == 0 || e.Score < row.WorstBonus {
				row.WorstBonus = e.Score
			}
			row.BonusCount++
			row.BonusGain += e.BonusGain()
		}
		if e.IsBestPick {
			row.BestPickCount++
			row.BestPickTotal += e.Score
		}
		if bp, ok := aux.BestPickByPick[e.Pick]; ok {
			gapSum += float64(bp - e.Score)
			gaps++
		}
	}
	row.BestPickGapAvg = ratio(gapSum, float64(gaps))
}

// ratio divides and yields 0 instead of NaN or Inf.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func sumMinMax(xs []int) (sum, lo, hi int) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs {
		sum += x
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return sum, lo, hi
}

// stddev is the sample standard deviation; fewer than two values yield 0.
func stddev(xs []int, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sq float64
	for _, x := range xs {
		d := float64(x) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)-1))
}

func median(xs []int) float64 {
	s := append([]int(nil), xs...)
	sort.Ints(s)
	n := len(s)
	if n%2 == 1 {
		return float64(s[n/2])
	}
	return float64(s[n/2-1]+s[n/2]) / 2
}

// tailMean averages the last n values, or all of them when fewer exist.
func tailMean(xs []int, n int) float64 {
	if n > len(xs) {
		n = len(xs)
	}
	sum := 0
	for _, x := range xs[len(xs)-n:] {
		sum += x
	}
	return ratio(float64(sum), float64(n))
}

// bestWindowSum is the best sum of size consecutive games, 0 when the
// player has fewer games than size.
func bestWindowSum(xs []int, size int) int {
	if len(xs) < size {
		return 0
	}
	sum := 0
	for _, x := range xs[:size] {
		sum += x
	}
	best := sum
	for i := size; i < len(xs); i++ {
		sum += xs[i] - xs[i-size]
		if sum > best {
			best = sum
		}
	}
	return best
}

// phoenix is the best score right after a carrot, 0 when none exists.
func phoenix(xs []int) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i-1] < model.CarrotThreshold && xs[i] > best {
			best = xs[i]
		}
	}
	return best
}

// mode returns the most frequent score; ties go to the lowest score.
func mode(xs []int) (value, count int) {
	freq := make(map[int]int, len(xs))
	for _, x := range xs {
		freq[x]++
	}
	for v, c := range freq {
		if c > count || (c == count && v < value) {
			value, count = v, c
		}
	}
	return value, count
}

// pickRank is the competition rank of score among the scores of one pick.
func pickRank(score int, all []int) int {
	rank := 1
	for _, s := range all {
		if s > score {
			rank++
		}
	}
	return rank
}

// bestMonth returns the month with the highest average; ties go to the
// earliest month of the period.
func bestMonth(evs []model.ScoreEvent) (string, float64) {
	type acc struct{ sum, n int }
	var order []string
	months := make(map[string]*acc)
	for _, e := range evs {
		a, ok := months[e.Month]
		if !ok {
			a = &acc{}
			months[e.Month] = a
			order = append(order, e.Month)
		}
		a.sum += e.Score
		a.n++
	}
	best, bestAvg := "", 0.0
	for i, m := range order {
		avg := float64(months[m].sum) / float64(months[m].n)
		if i == 0 || avg > bestAvg {
			best, bestAvg = m, avg
		}
	}
	return best, bestAvg
}
