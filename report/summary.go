package report

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/tank/compileinfo"
	"github.com/carbocation/tank/config"
	"github.com/carbocation/tank/pipeline"
	"github.com/carbocation/tank/score"
)

const (
	summaryTopN      = 10
	histogramBuckets = 20
	histogramWidth   = 40
)

// Summary writes the human-readable run report.
func Summary(w io.Writer, res *pipeline.Result, c config.Config) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "TANK target ranking report")
	fmt.Fprintf(bw, "Expression file: %s\n", c.Expr)
	fmt.Fprintf(bw, "Genes loaded: %d\n", res.Loaded.NRows())
	fmt.Fprintf(bw, "Genes after normalization/gene_list: %d\n", res.Normalized.NRows())
	fmt.Fprintf(bw, "Genes after dup_agg: %d\n", res.Deduplicated.NRows())
	fmt.Fprintf(bw, "Genes after filter: %d\n", len(res.Ranked))
	fmt.Fprintf(bw, "Samples: %d\n", res.Normalized.NCols())
	fmt.Fprintf(bw, "ID namespace: %s\n", res.Namespace)
	fmt.Fprintf(bw, "dup_agg: %s\n", c.DupAgg)
	fmt.Fprintf(bw, "Preprocessing: log1p=%s, min_detect_prop=%v, detect_thresh=%v\n", onOff(c.Log1p), c.MinDetectProp, c.DetectThresh)

	alpha := "NA"
	if st, err := score.ParseStatistic(c.Stat); err == nil && st == score.Winsorized {
		alpha = fmt.Sprint(c.WinsorAlpha)
	}
	fmt.Fprintf(bw, "Statistic: %s (winsor_alpha=%s)\n", c.Stat, alpha)

	if c.GeneList != "" {
		fmt.Fprintf(bw, "Gene whitelist applied: %s\n", c.GeneList)
	}
	if c.SampleKeep != "" {
		fmt.Fprintf(bw, "Sample subset applied: %s\n", c.SampleKeep)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(bw, "Warning: %s\n", warning)
	}

	fmt.Fprintf(bw, "\nTop-%d genes by score:\n", summaryTopN)
	for _, r := range res.Ranked.TopK(summaryTopN) {
		fmt.Fprintf(bw, "%d. %s\t score=%.6g\t mean=%.6g\t detect_prop=%.3f\n", r.Rank, r.Gene, r.Score, r.Mean, r.DetectProp)
	}

	fmt.Fprintln(bw, "\nRequested targets found:")
	if len(res.Targets.Found) == 0 {
		fmt.Fprintln(bw, "  (none)")
	}
	for _, hit := range res.Targets.Found {
		tied := ""
		if hit.TieRank != hit.Rank {
			tied = fmt.Sprintf(" (tied from rank %d)", hit.TieRank)
		}
		fmt.Fprintf(bw, "  %s\t rank=%d%s\t score=%.6g\t mean=%.6g\t detect_prop=%.3f\n", hit.Target, hit.Rank, tied, hit.Score, hit.Mean, hit.DetectProp)
	}

	if len(res.Targets.NotFound) > 0 {
		fmt.Fprintln(bw, "\nRequested targets NOT FOUND in index (check ID namespace and spelling):")
		for _, t := range res.Targets.NotFound {
			fmt.Fprintf(bw, "  %s\n", t)
		}
	}

	if finite := finiteValues(res.Ranked.Scores()); len(finite) > 1 {
		fmt.Fprintln(bw, "\nScore distribution:")
		if err := histogram.Fprint(bw, histogram.Hist(histogramBuckets, finite), histogram.Linear(histogramWidth)); err != nil {
			return err
		}
	}

	fmt.Fprintf(bw, "\n%s\n", compileinfo.Get())

	return bw.Flush()
}

func finiteValues(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}

	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
