// Package pipeline runs the ranking stages over one in-memory matrix:
// normalize, resolve duplicates, filter by detection, score, rank, and look
// up targets. Each stage produces a new value, and every intermediate is kept
// on the Result for diagnostics.
package pipeline

import (
	"log"

	"github.com/carbocation/tank/config"
	"github.com/carbocation/tank/dupagg"
	"github.com/carbocation/tank/expression"
	"github.com/carbocation/tank/rank"
	"github.com/carbocation/tank/score"
)

type Inputs struct {
	Matrix     *expression.Matrix
	Whitelists expression.Whitelists
	Targets    []string
}

type Result struct {
	Loaded       *expression.Matrix
	Normalized   *expression.Matrix
	Deduplicated *expression.Matrix
	// Filtered is the detection-filtered matrix on the original scale. Scores
	// and detection proportions are both computed from Scores.Scored, which
	// is Filtered after any log1p.
	Filtered *expression.Matrix
	Scores   score.Result
	// DetectProps is aligned with Scores.Scored row for row.
	DetectProps []float64

	Namespace string
	Ranked    rank.Table
	// Top is nil when TopK < 1.
	Top     rank.Table
	Targets rank.TargetReport

	Warnings []string
}

// Run executes every stage. It fails before any computation if the settings
// do not validate; a gene whitelist that matches nothing is only a warning.
func Run(in Inputs, s config.Settings) (*Result, error) {
	if err := s.Score.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Loaded: in.Matrix}

	normalized, warning, err := expression.Normalize(in.Matrix, in.Whitelists)
	if err != nil {
		return nil, err
	}
	if warning != nil {
		log.Println("Warning:", warning)
		res.Warnings = append(res.Warnings, warning.String())
	}
	res.Normalized = normalized
	log.Printf("%d genes x %d samples after normalization\n", normalized.NRows(), normalized.NCols())

	res.Namespace = s.IDType
	if res.Namespace == "" || res.Namespace == expression.NamespaceAuto {
		res.Namespace = expression.GuessNamespace(normalized.Genes)
	}

	res.Deduplicated, err = dupagg.Resolve(normalized, s.DupAgg)
	if err != nil {
		return nil, err
	}
	log.Printf("%d genes after duplicate resolution (dup_agg=%s)\n", res.Deduplicated.NRows(), s.DupAgg)

	res.Filtered = s.Detection.Apply(res.Deduplicated)
	log.Printf("%d genes after detection filter (detect_thresh=%v, min_detect_prop=%v)\n", res.Filtered.NRows(), s.Detection.Threshold, s.Detection.MinProp)

	res.Scores, err = score.Compute(res.Filtered, s.Score)
	if err != nil {
		return nil, err
	}
	// Filtering uses the original scale, but the reported proportions are
	// taken from the exact matrix that was scored.
	res.DetectProps = s.Detection.Proportions(res.Scores.Scored)

	res.Ranked, err = rank.Build(res.Filtered.Genes, res.Scores.Scores, res.Scores.Means, res.DetectProps)
	if err != nil {
		return nil, err
	}
	if s.TopK > 0 {
		res.Top = res.Ranked.TopK(s.TopK)
	}

	res.Targets = rank.ReportTargets(in.Targets, res.Ranked)
	log.Printf("%d of %d targets found in the ranking\n", len(res.Targets.Found), len(res.Targets.Found)+len(res.Targets.NotFound))

	return res, nil
}
