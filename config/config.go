// Package config resolves run settings from command-line flags, TANK_*
// environment variables and compiled defaults, in that order of priority.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/tank"
	"github.com/carbocation/tank/dupagg"
	"github.com/carbocation/tank/expression"
	"github.com/carbocation/tank/score"
	"gopkg.in/guregu/null.v3"
)

// Layer holds one source of settings. Unset values are null.
type Layer struct {
	Expr          null.String
	Outdir        null.String
	IDType        null.String
	Log1p         null.Bool
	MinDetectProp null.Float
	DetectThresh  null.Float
	Stat          null.String
	WinsorAlpha   null.Float
	TopK          null.Int
	DupAgg        null.String
	GeneList      null.String
	SampleKeep    null.String
	Targets       []string

	BQProject null.String
	BQDataset null.String
	BQTable   null.String
}

// Config is the resolved, not yet validated, configuration.
type Config struct {
	Expr          string
	Outdir        string
	IDType        string
	Log1p         bool
	MinDetectProp float64
	DetectThresh  float64
	Stat          string
	WinsorAlpha   float64
	TopK          int
	DupAgg        string
	GeneList      string
	SampleKeep    string
	Targets       []string

	BQProject string
	BQDataset string
	BQTable   string
}

// DefaultTargets are CLDN18, ERBB2 and CD274.
var DefaultTargets = []string{"ENSG00000066405", "ENSG00000141736", "ENSG00000120217"}

// Defaults returns a fresh default layer on every call.
func Defaults() Layer {
	return Layer{
		Expr:          null.StringFrom(""),
		Outdir:        null.StringFrom("tank_out"),
		IDType:        null.StringFrom(expression.NamespaceAuto),
		Log1p:         null.BoolFrom(false),
		MinDetectProp: null.FloatFrom(0.10),
		DetectThresh:  null.FloatFrom(1.0),
		Stat:          null.StringFrom("var"),
		WinsorAlpha:   null.FloatFrom(0.01),
		TopK:          null.IntFrom(100),
		DupAgg:        null.StringFrom("none"),
		GeneList:      null.StringFrom(""),
		SampleKeep:    null.StringFrom(""),
		Targets:       append([]string(nil), DefaultTargets...),
		BQProject:     null.StringFrom(""),
		BQDataset:     null.StringFrom(""),
		BQTable:       null.StringFrom(""),
	}
}

// FromEnv reads TANK_* variables through getenv (os.Getenv when nil). Empty
// or unparseable values are left null so the next layer applies.
func FromEnv(getenv func(string) string) Layer {
	if getenv == nil {
		getenv = os.Getenv
	}

	str := func(name string) null.String {
		if v := getenv(name); v != "" {
			return null.StringFrom(v)
		}
		return null.String{}
	}
	flt := func(name string) null.Float {
		if v, err := strconv.ParseFloat(strings.TrimSpace(getenv(name)), 64); err == nil {
			return null.FloatFrom(v)
		}
		return null.Float{}
	}

	out := Layer{
		Expr:          str("TANK_EXPR"),
		Outdir:        str("TANK_OUTDIR"),
		IDType:        str("TANK_IDTYPE"),
		MinDetectProp: flt("TANK_MIN_DETECT_PROP"),
		DetectThresh:  flt("TANK_DETECT_THRESH"),
		Stat:          str("TANK_STAT"),
		WinsorAlpha:   flt("TANK_WINSOR_ALPHA"),
		DupAgg:        str("TANK_DUP_AGG"),
		GeneList:      str("TANK_GENE_LIST"),
		SampleKeep:    str("TANK_SAMPLE_KEEP"),
		Targets:       SplitList(getenv("TANK_TARGETS")),
		BQProject:     str("TANK_BQ_PROJECT"),
		BQDataset:     str("TANK_BQ_DATASET"),
		BQTable:       str("TANK_BQ_TABLE"),
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(getenv("TANK_LOG1P"))); err == nil {
		out.Log1p = null.BoolFrom(v)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(getenv("TANK_TOPK"))); err == nil {
		out.TopK = null.IntFrom(int64(v))
	}

	return out
}

// SplitList splits a comma separated list, dropping blank entries. It
// returns nil when nothing remains.
func SplitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// Resolve takes each field from the first layer in which it is set.
func Resolve(layers ...Layer) Config {
	var c Config

	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		setString(&c.Expr, l.Expr)
		setString(&c.Outdir, l.Outdir)
		setString(&c.IDType, l.IDType)
		if l.Log1p.Valid {
			c.Log1p = l.Log1p.Bool
		}
		setFloat(&c.MinDetectProp, l.MinDetectProp)
		setFloat(&c.DetectThresh, l.DetectThresh)
		setString(&c.Stat, l.Stat)
		setFloat(&c.WinsorAlpha, l.WinsorAlpha)
		if l.TopK.Valid {
			c.TopK = int(l.TopK.Int64)
		}
		setString(&c.DupAgg, l.DupAgg)
		setString(&c.GeneList, l.GeneList)
		setString(&c.SampleKeep, l.SampleKeep)
		if len(l.Targets) > 0 {
			c.Targets = append([]string(nil), l.Targets...)
		}
		setString(&c.BQProject, l.BQProject)
		setString(&c.BQDataset, l.BQDataset)
		setString(&c.BQTable, l.BQTable)
	}

	return c
}

func setString(dst *string, v null.String) {
	if v.Valid {
		*dst = v.String
	}
}

func setFloat(dst *float64, v null.Float) {
	if v.Valid {
		*dst = v.Float64
	}
}

// Settings are the validated, typed parameters of the ranking pipeline.
type Settings struct {
	IDType    string
	DupAgg    dupagg.Policy
	Detection expression.DetectionFilter
	Score     score.Options
	TopK      int
}

// Validate checks every enumerated and bounded value before any input is
// touched.
func (c Config) Validate() (Settings, error) {
	var s Settings

	switch idType := strings.ToLower(c.IDType); idType {
	case expression.NamespaceAuto, expression.NamespaceEnsembl, expression.NamespaceSymbol:
		s.IDType = idType
	default:
		return s, &tank.ConfigurationError{Field: "id_type", Value: c.IDType, Expected: "one of {auto, ensembl, symbol}"}
	}

	st, err := score.ParseStatistic(c.Stat)
	if err != nil {
		return s, err
	}
	s.Score = score.Options{Statistic: st, WinsorAlpha: c.WinsorAlpha, Log1p: c.Log1p}
	if err := s.Score.Validate(); err != nil {
		return s, err
	}

	if s.DupAgg, err = dupagg.ParsePolicy(c.DupAgg); err != nil {
		return s, err
	}

	s.Detection = expression.DetectionFilter{Threshold: c.DetectThresh, MinProp: c.MinDetectProp}
	s.TopK = c.TopK

	if bq := []string{c.BQProject, c.BQDataset, c.BQTable}; !allOrNone(bq) {
		return s, &tank.ConfigurationError{Field: "bigquery destination", Value: strings.Join(bq, "."), Expected: "project, dataset and table all set, or none of them"}
	}

	return s, nil
}

// ExportBigQuery is true when a BigQuery destination is configured.
func (c Config) ExportBigQuery() bool {
	return c.BQProject != "" && c.BQDataset != "" && c.BQTable != ""
}

func allOrNone(vals []string) bool {
	set := 0
	for _, v := range vals {
		if v != "" {
			set++
		}
	}

	return set == 0 || set == len(vals)
}
