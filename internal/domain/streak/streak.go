// Package streak computes run lengths over ordered score sequences.
//
// MaxRun and CurrentRun are the only two primitives needed for every
// streak-based metric: no-carrot runs, hot runs, cold runs and the weekly
// storyline detection. Both are pure and never modify their input.
package streak

// Predicate reports whether a score extends a run.
type Predicate func(score int) bool

// AtLeast matches scores greater than or equal to threshold.
func AtLeast(threshold int) Predicate {
	return func(score int) bool { return score >= threshold }
}

// Below matches scores strictly lower than threshold.
func Below(threshold int) Predicate {
	return func(score int) bool { return score < threshold }
}

// MaxRun returns the longest run of consecutive scores matching pred.
func MaxRun(seq []int, pred Predicate) int {
	best, run := 0, 0
	for _, s := range seq {
		if pred(s) {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

// CurrentRun counts matching scores backwards from the end of seq and stops
// at the first score that does not match.
func CurrentRun(seq []int, pred Predicate) int {
	n := 0
	for i := len(seq) - 1; i >= 0; i-- {
		if !pred(seq[i]) {
			break
		}
		n++
	}
	return n
}

// Runs bundles the current and historical run for one predicate.
type Runs struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Measure evaluates both primitives over seq.
func Measure(seq []int, pred Predicate) Runs {
	return Runs{Current: CurrentRun(seq, pred), Max: MaxRun(seq, pred)}
}
