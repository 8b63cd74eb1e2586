// Package rank orders genes by score and reports where requested targets
// fall in that order.
package rank

import (
	"fmt"
	"math"
	"sort"
)

// Record is one row of the rank table.
type Record struct {
	Gene       string  `csv:"gene"`
	Score      float64 `csv:"score"`
	Mean       float64 `csv:"mean"`
	DetectProp float64 `csv:"detect_prop"`

	// Rank is the 1-based position in the table.
	Rank int `csv:"-"`
	// TieRank is 1 + the number of genes with a strictly greater score. It
	// differs from Rank only within runs of tied scores.
	TieRank int `csv:"-"`
}

// Table is sorted by descending score.
type Table []Record

// Build combines per-gene vectors, all aligned with genes, into a Table. The
// sort is stable, so equal scores keep the order of genes. NaN scores sort
// after every real score.
func Build(genes []string, scores, means, detectProps []float64) (Table, error) {
	n := len(genes)
	if len(scores) != n || len(means) != n || len(detectProps) != n {
		return nil, fmt.Errorf("cannot rank %d genes with %d scores, %d means and %d detection proportions", n, len(scores), len(means), len(detectProps))
	}

	out := make(Table, n)
	for i := range genes {
		out[i] = Record{
			Gene:       genes[i],
			Score:      scores[i],
			Mean:       means[i],
			DetectProp: detectProps[i],
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Score, out[j].Score)
	})

	for i := range out {
		out[i].Rank = i + 1
		if i > 0 && sameScore(out[i].Score, out[i-1].Score) {
			out[i].TieRank = out[i-1].TieRank
		} else {
			out[i].TieRank = i + 1
		}
	}

	return out, nil
}

func before(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}

	return a > b
}

func sameScore(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// TopK returns the first k records. A k beyond the table length yields the
// whole table; k < 1 yields nothing.
func (t Table) TopK(k int) Table {
	if k < 1 {
		return Table{}
	}
	if k > len(t) {
		k = len(t)
	}

	return t[:k]
}

// Index maps each gene to the position of its first (best-ranked) record.
func (t Table) Index() map[string]int {
	out := make(map[string]int, len(t))
	for i, r := range t {
		if _, exists := out[r.Gene]; !exists {
			out[r.Gene] = i
		}
	}

	return out
}

func (t Table) Scores() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Score
	}

	return out
}
