package persona

import "strings"

// Scores holds a point total per persona.
type Scores map[Persona]int

// NewScores returns a score table with every persona at zero.
func NewScores() Scores {
	s := make(Scores, Count)
	for _, p := range tieBreakOrder {
		s[p] = 0
	}
	return s
}

// Add returns the element-wise sum of s and other. Neither input is modified.
func (s Scores) Add(other Scores) Scores {
	out := NewScores()
	for p, v := range s {
		out[p] += v
	}
	for p, v := range other {
		out[p] += v
	}
	return out
}

// Total is the sum of all points.
func (s Scores) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Winner is shorthand for PickWinner(s).
func (s Scores) Winner() Persona {
	return PickWinner(s)
}

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", "\"", "”", "\"",
)

// Normalize straightens curly quotes, collapses whitespace runs to a single
// space and trims the result.
func Normalize(answer string) string {
	return strings.Join(strings.Fields(quoteReplacer.Replace(answer)), " ")
}

// ComputeScores tallies one point per persona listed for each recognised
// answer. Unknown answers contribute nothing.
func ComputeScores(answers map[string]string) Scores {
	scores := NewScores()
	for _, answer := range answers {
		personas, ok := weightIndex[lookupKey(answer)]
		if !ok {
			continue
		}
		for _, p := range personas {
			scores[p]++
		}
	}
	return scores
}

// PickWinner returns the persona with the highest score, resolving ties by
// tie-break order. A table with no positive score yields Default.
func PickWinner(scores Scores) Persona {
	best := Default
	bestScore := scores[best]
	for _, p := range tieBreakOrder {
		if scores[p] > bestScore {
			best = p
			bestScore = scores[p]
		}
	}
	return best
}

// Compute maps an answer set to its persona. It never fails.
func Compute(answers map[string]string) Persona {
	return PickWinner(ComputeScores(answers))
}
