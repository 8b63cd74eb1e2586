package score

import (
	"math"
	"sort"
)

// Winsorize returns a copy of row with values below the alpha quantile raised
// to it and values above the 1-alpha quantile lowered to it.
func Winsorize(row []float64, alpha float64) []float64 {
	out := make([]float64, len(row))
	if len(row) == 0 {
		return out
	}

	sorted := append([]float64(nil), row...)
	sort.Float64s(sorted)
	lo, hi := quantileR7(sorted, alpha), quantileR7(sorted, 1-alpha)

	for i, v := range row {
		out[i] = math.Min(math.Max(v, lo), hi)
	}

	return out
}

// quantileR7 returns the pth quantile of sorted data by linear interpolation
// between closest ranks (R type 7).
func quantileR7(sorted []float64, p float64) float64 {
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	if p <= 0 {
		return sorted[0]
	}

	h := float64(len(sorted)-1) * p
	i := int(h)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	return sorted[i] + (h-math.Floor(h))*(sorted[i+1]-sorted[i])
}
