package rank

import (
	"sort"

	"github.com/carbocation/tank/expression"
)

// TargetHit reports a requested target that is present in the rank table.
type TargetHit struct {
	Target     string  `csv:"target"`
	Rank       int     `csv:"rank"`
	Score      float64 `csv:"score"`
	Mean       float64 `csv:"mean"`
	DetectProp float64 `csv:"detect_prop"`

	TieRank int `csv:"-"`
}

// TargetReport partitions the requested targets. Every normalized target is
// in exactly one of Found or NotFound.
type TargetReport struct {
	// Found is sorted by ascending rank.
	Found []TargetHit
	// NotFound keeps request order.
	NotFound []string
}

// NormalizeTargets strips version suffixes and drops repeats, keeping the
// first occurrence of each target.
func NormalizeTargets(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		t = expression.StripVersion(t)
		if _, exists := seen[t]; exists {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}

// ReportTargets looks up each target in t. A gene that appears more than
// once in the table is reported at its best position.
func ReportTargets(targets []string, t Table) TargetReport {
	idx := t.Index()

	out := TargetReport{
		Found:    make([]TargetHit, 0),
		NotFound: make([]string, 0),
	}
	for _, target := range NormalizeTargets(targets) {
		i, ok := idx[target]
		if !ok {
			out.NotFound = append(out.NotFound, target)
			continue
		}

		r := t[i]
		out.Found = append(out.Found, TargetHit{
			Target:     target,
			Rank:       r.Rank,
			Score:      r.Score,
			Mean:       r.Mean,
			DetectProp: r.DetectProp,
			TieRank:    r.TieRank,
		})
	}

	sort.SliceStable(out.Found, func(i, j int) bool {
		return out.Found[i].Rank < out.Found[j].Rank
	})

	return out
}
