// Package dupagg collapses rows of an expression matrix that share a gene
// identifier.
package dupagg

import (
	"math"
	"sort"
	"strings"

	"github.com/carbocation/runningvariance"
	"github.com/carbocation/tank"
	"github.com/carbocation/tank/expression"
)

type Policy int

const (
	None Policy = iota
	Mean
	Sum
	First
	Max
)

var policyNames = map[Policy]string{
	None:  "none",
	Mean:  "mean",
	Sum:   "sum",
	First: "first",
	Max:   "max",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "invalid"
}

const policyDomain = "one of {none, mean, sum, max, first}"

// ParsePolicy is case-insensitive. An empty string means None.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}

	return None, &tank.ConfigurationError{Field: "dup_agg", Value: s, Expected: policyDomain}
}

// Resolve returns a matrix in which duplicate gene identifiers have been
// handled under policy p. When no identifier is duplicated, or p is None, the
// rows come back unchanged and in their original order. Mean and Sum emit one
// row per identifier sorted by identifier; First and Max keep the surviving
// rows in their original order.
func Resolve(m *expression.Matrix, p Policy) (*expression.Matrix, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, &tank.ConfigurationError{Field: "dup_agg", Value: p.String(), Expected: policyDomain}
	}

	if p == None || !m.HasDuplicateGenes() {
		return m.Rows(allRows(m.NRows())), nil
	}

	groups := groupRows(m.Genes)

	switch p {
	case Mean:
		return aggregate(m, sortedByGene(groups), true), nil
	case Sum:
		return aggregate(m, sortedByGene(groups), false), nil
	case First:
		keep := make([]int, len(groups))
		for k, g := range groups {
			keep[k] = g.rows[0]
		}
		return m.Rows(keep), nil
	case Max:
		return m.Rows(maxVarianceRows(m, groups)), nil
	}

	return nil, &tank.ConfigurationError{Field: "dup_agg", Value: p.String(), Expected: policyDomain}
}

type group struct {
	gene string
	rows []int
}

// groupRows groups row indices by gene, ordering groups by the first
// occurrence of each gene.
func groupRows(genes []string) []group {
	pos := make(map[string]int, len(genes))
	out := make([]group, 0, len(genes))
	for i, g := range genes {
		k, exists := pos[g]
		if !exists {
			k = len(out)
			pos[g] = k
			out = append(out, group{gene: g})
		}
		out[k].rows = append(out[k].rows, i)
	}

	return out
}

// sortedByGene orders aggregated groups by identifier, so collapsed rows come
// out in the same order whatever the input row order was.
func sortedByGene(groups []group) []group {
	out := append([]group(nil), groups...)
	sort.Slice(out, func(a, b int) bool { return out[a].gene < out[b].gene })

	return out
}

func aggregate(m *expression.Matrix, groups []group, mean bool) *expression.Matrix {
	out := &expression.Matrix{
		Genes:   make([]string, len(groups)),
		Samples: m.Samples,
		Values:  make([][]float64, len(groups)),
	}

	for k, g := range groups {
		row := make([]float64, m.NCols())
		for _, i := range g.rows {
			for j, v := range m.Values[i] {
				row[j] += v
			}
		}
		if mean {
			for j := range row {
				row[j] /= float64(len(g.rows))
			}
		}
		out.Genes[k] = g.gene
		out.Values[k] = row
	}

	return out
}

// maxVarianceRows picks, per gene, the row with the largest sample variance
// (divisor n-1) on the values as given. The first maximal row wins ties, and
// an undefined variance never beats a defined one. The chosen rows keep their
// original relative order.
func maxVarianceRows(m *expression.Matrix, groups []group) []int {
	chosen := make([]bool, m.NRows())
	for _, g := range groups {
		best, bestVar := g.rows[0], math.NaN()
		for _, i := range g.rows {
			v := RowVariance(m.Values[i])
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(bestVar) || v > bestVar {
				best, bestVar = i, v
			}
		}
		chosen[best] = true
	}

	keep := make([]int, 0, len(groups))
	for i, ok := range chosen {
		if ok {
			keep = append(keep, i)
		}
	}

	return keep
}

// RowVariance is the unbiased sample variance of row, or NaN with fewer than
// two values.
func RowVariance(row []float64) float64 {
	if len(row) < 2 {
		return math.NaN()
	}

	rs := runningvariance.NewRunningStat()
	for _, v := range row {
		rs.Push(v)
	}

	return rs.Variance()
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	return idx
}
