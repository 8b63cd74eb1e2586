// Package expression holds the genes-by-samples matrix and the stages that
// reshape it before scoring: identifier normalization, whitelists, detection
// filtering and the log1p transform. Every stage returns a new Matrix; inputs
// are never modified.
package expression

import (
	"fmt"
)

// Matrix is a dense genes-by-samples table. Gene identifiers need not be
// unique; sample identifiers must be.
type Matrix struct {
	Genes   []string
	Samples []string
	Values  [][]float64 // Values[row][sample]
}

// New checks the shape of the inputs and that samples are unique. The slices
// are retained, not copied.
func New(genes, samples []string, values [][]float64) (*Matrix, error) {
	if len(genes) != len(values) {
		return nil, fmt.Errorf("matrix has %d gene identifiers but %d rows of values", len(genes), len(values))
	}

	seen := make(map[string]int, len(samples))
	for j, s := range samples {
		if prior, exists := seen[s]; exists {
			return nil, fmt.Errorf("sample identifier %q appears in columns %d and %d; sample identifiers must be unique", s, prior+1, j+1)
		}
		seen[s] = j
	}

	for i, row := range values {
		if len(row) != len(samples) {
			return nil, fmt.Errorf("row %d (%s) has %d values but there are %d samples", i+1, genes[i], len(row), len(samples))
		}
	}

	return &Matrix{Genes: genes, Samples: samples, Values: values}, nil
}

func (m *Matrix) NRows() int { return len(m.Genes) }

func (m *Matrix) NCols() int { return len(m.Samples) }

// Rows returns a new matrix made of the given row indices, in the given order.
func (m *Matrix) Rows(idx []int) *Matrix {
	out := &Matrix{
		Genes:   make([]string, len(idx)),
		Samples: m.Samples,
		Values:  make([][]float64, len(idx)),
	}
	for k, i := range idx {
		out.Genes[k] = m.Genes[i]
		out.Values[k] = append([]float64(nil), m.Values[i]...)
	}

	return out
}

// Columns returns a new matrix keeping the given sample indices in order.
func (m *Matrix) Columns(idx []int) *Matrix {
	out := &Matrix{
		Genes:   append([]string(nil), m.Genes...),
		Samples: make([]string, len(idx)),
		Values:  make([][]float64, len(m.Values)),
	}
	for k, j := range idx {
		out.Samples[k] = m.Samples[j]
	}
	for i, row := range m.Values {
		newRow := make([]float64, len(idx))
		for k, j := range idx {
			newRow[k] = row[j]
		}
		out.Values[i] = newRow
	}

	return out
}

// HasDuplicateGenes reports whether any gene identifier occurs more than once.
func (m *Matrix) HasDuplicateGenes() bool {
	seen := make(map[string]struct{}, len(m.Genes))
	for _, g := range m.Genes {
		if _, exists := seen[g]; exists {
			return true
		}
		seen[g] = struct{}{}
	}

	return false
}

// Map applies f to every value and returns the result as a new matrix.
func (m *Matrix) Map(f func(float64) float64) *Matrix {
	out := &Matrix{
		Genes:   append([]string(nil), m.Genes...),
		Samples: m.Samples,
		Values:  make([][]float64, len(m.Values)),
	}
	for i, row := range m.Values {
		newRow := make([]float64, len(row))
		for j, v := range row {
			newRow[j] = f(v)
		}
		out.Values[i] = newRow
	}

	return out
}
