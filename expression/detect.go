package expression

import "math"

// DetectionFilter drops genes that are not detected in enough samples. A gene
// is detected in a sample when its value is strictly greater than Threshold.
// Apply runs on the original (untransformed) scale.
type DetectionFilter struct {
	Threshold float64
	MinProp   float64
}

// Enabled is false when both the threshold and the minimum proportion are <= 0.
func (f DetectionFilter) Enabled() bool {
	return f.Threshold > 0 || f.MinProp > 0
}

// Proportion returns the fraction of values in row that exceed the threshold.
// An empty row has no detections and yields NaN.
func (f DetectionFilter) Proportion(row []float64) float64 {
	if len(row) == 0 {
		return math.NaN()
	}

	detected := 0
	for _, v := range row {
		if v > f.Threshold {
			detected++
		}
	}

	return float64(detected) / float64(len(row))
}

// Apply returns the rows whose detection proportion is at least MinProp. When
// the filter is disabled every row survives.
func (f DetectionFilter) Apply(m *Matrix) *Matrix {
	if !f.Enabled() {
		return m.Rows(identity(m.NRows()))
	}

	idx := make([]int, 0, m.NRows())
	for i, row := range m.Values {
		if f.Proportion(row) >= f.MinProp {
			idx = append(idx, i)
		}
	}

	return m.Rows(idx)
}

// Proportions reports one detection proportion per row of m. Pass it the
// matrix that is scored, after any transform, so the two stay aligned row for
// row. When the filter
// is disabled every proportion is 1.
func (f DetectionFilter) Proportions(m *Matrix) []float64 {
	out := make([]float64, m.NRows())
	for i, row := range m.Values {
		if !f.Enabled() {
			out[i] = 1
			continue
		}
		out[i] = f.Proportion(row)
	}

	return out
}

// Log1p returns a new matrix holding log(1+x) of every value.
func Log1p(m *Matrix) *Matrix {
	return m.Map(math.Log1p)
}
