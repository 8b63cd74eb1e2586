// Package score computes one variability statistic per gene.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/tank"
	"github.com/carbocation/tank/expression"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

type Statistic int

const (
	// Variance is the unbiased sample variance (divisor n-1).
	Variance Statistic = iota
	// MAD is the median absolute deviation from the median, unscaled.
	MAD
	// Winsorized is the sample variance after clipping to the [alpha, 1-alpha]
	// quantiles of the gene's own values.
	Winsorized
)

var statisticNames = map[Statistic]string{
	Variance:   "var",
	MAD:        "mad",
	Winsorized: "winsor",
}

func (s Statistic) String() string {
	if name, ok := statisticNames[s]; ok {
		return name
	}
	return "invalid"
}

const statisticDomain = "one of {var, mad, winsor}"

func ParseStatistic(s string) (Statistic, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for st, name := range statisticNames {
		if name == s {
			return st, nil
		}
	}

	return Variance, &tank.ConfigurationError{Field: "stat", Value: s, Expected: statisticDomain}
}

type Options struct {
	Statistic   Statistic
	WinsorAlpha float64
	// Log1p transforms the matrix immediately before scoring.
	Log1p bool
}

func (o Options) Validate() error {
	if _, ok := statisticNames[o.Statistic]; !ok {
		return &tank.ConfigurationError{Field: "stat", Value: o.Statistic.String(), Expected: statisticDomain}
	}
	if o.Statistic == Winsorized {
		return ValidateAlpha(o.WinsorAlpha)
	}

	return nil
}

// ValidateAlpha requires alpha in [0, 0.5).
func ValidateAlpha(alpha float64) error {
	if !(alpha >= 0 && alpha < 0.5) {
		return &tank.ConfigurationError{Field: "winsor_alpha", Value: fmt.Sprint(alpha), Expected: "a value in [0, 0.5)"}
	}

	return nil
}

// Result is aligned row for row with the matrix that was scored.
type Result struct {
	// Scored is the matrix the statistic was computed on (after log1p, if
	// requested).
	Scored *expression.Matrix
	Scores []float64
	Means  []float64
}

// Compute scores every row of m. The mean of each row is computed on the
// same (possibly transformed) values.
func Compute(m *expression.Matrix, o Options) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{}, err
	}

	scored := m
	if o.Log1p {
		scored = expression.Log1p(m)
	}

	out := Result{
		Scored: scored,
		Scores: make([]float64, scored.NRows()),
		Means:  make([]float64, scored.NRows()),
	}
	for i, row := range scored.Values {
		out.Scores[i] = Row(row, o)
		out.Means[i] = Mean(row)
	}

	return out, nil
}

// Row computes the configured statistic for a single gene. It assumes o has
// been validated.
func Row(row []float64, o Options) float64 {
	switch o.Statistic {
	case MAD:
		return MedianAbsoluteDeviation(row)
	case Winsorized:
		return SampleVariance(Winsorize(row, o.WinsorAlpha))
	}

	return SampleVariance(row)
}

// SampleVariance is NaN for fewer than two values.
func SampleVariance(row []float64) float64 {
	if len(row) < 2 {
		return math.NaN()
	}

	return stat.Variance(row, nil)
}

func Mean(row []float64) float64 {
	if len(row) == 0 {
		return math.NaN()
	}

	return stat.Mean(row, nil)
}

// MedianAbsoluteDeviation is median(|x - median(x)|), NaN for an empty row.
func MedianAbsoluteDeviation(row []float64) float64 {
	mad, err := stats.MedianAbsoluteDeviation(row)
	if err != nil {
		return math.NaN()
	}

	return mad
}
