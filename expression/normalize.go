package expression

import (
	"github.com/carbocation/tank"
)

// Whitelists restrict a matrix to named genes and samples. A nil slice means
// "no whitelist"; an empty, non-nil slice is a whitelist that matches nothing.
type Whitelists struct {
	Genes   []string
	Samples []string
}

// Normalize strips version suffixes from gene identifiers and applies the
// whitelists. Sample order follows the matrix, not the whitelist. Rows whose
// gene is absent from the gene whitelist are dropped; if none survive a
// warning is returned alongside the (empty) matrix. Duplicate gene
// identifiers are left in place.
func Normalize(m *Matrix, w Whitelists) (*Matrix, *tank.NoMatchingGenesWarning, error) {
	out := &Matrix{
		Genes:   StripVersions(m.Genes),
		Samples: m.Samples,
		Values:  m.Values,
	}
	copied := false

	if w.Samples != nil {
		keep := make(map[string]struct{}, len(w.Samples))
		for _, s := range w.Samples {
			keep[s] = struct{}{}
		}

		var idx []int
		for j, s := range out.Samples {
			if _, ok := keep[s]; ok {
				idx = append(idx, j)
			}
		}
		if len(idx) == 0 {
			return nil, nil, &tank.EmptyOverlapError{Requested: len(keep), Columns: m.Samples}
		}

		out = out.Columns(idx)
		copied = true
	}

	var warning *tank.NoMatchingGenesWarning
	if w.Genes != nil {
		keep := make(map[string]struct{}, len(w.Genes))
		for _, g := range w.Genes {
			keep[StripVersion(g)] = struct{}{}
		}

		idx := make([]int, 0, len(out.Genes))
		for i, g := range out.Genes {
			if _, ok := keep[g]; ok {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			warning = &tank.NoMatchingGenesWarning{Requested: len(keep), Rows: out.NRows()}
		}

		out = out.Rows(idx)
		copied = true
	}

	if !copied {
		out = out.Rows(identity(out.NRows()))
	}

	return out, warning, nil
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	return idx
}
