// Package ranking assigns tie-aware ranks to scored players.
package ranking

import "sort"

// Entry represents one ranked player.
type Entry struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Score  float64 `json:"score"`
}

// Rank orders entries by score desc, then player asc, and assigns
// competition ranks: equal scores share a rank and the next distinct score
// skips ahead by the size of the tie (100, 100, 90 -> 1, 1, 3).
// The input slice is not modified.
func Rank(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Player < out[j].Player
	})
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

// Leaders returns the entries sharing rank 1.
func Leaders(ranked []Entry) []Entry {
	var out []Entry
	for _, e := range ranked {
		if e.Rank != 1 {
			break
		}
		out = append(out, e)
	}
	return out
}

// Within returns the prefix of ranked whose rank is at most maxRank.
func Within(ranked []Entry, maxRank int) []Entry {
	n := 0
	for n < len(ranked) && ranked[n].Rank <= maxRank {
		n++
	}
	return ranked[:n]
}
