package config

import (
	"errors"
	"testing"

	"github.com/carbocation/tank"
	"github.com/carbocation/tank/dupagg"
	"github.com/carbocation/tank/score"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/guregu/null.v3"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestResolvePriority(t *testing.T) {
	cli := Layer{
		Stat:  null.StringFrom("mad"),
		TopK:  null.IntFrom(0),
		Log1p: null.BoolFrom(false),
	}
	fromEnv := FromEnv(env(map[string]string{
		"TANK_STAT":            "winsor",
		"TANK_DUP_AGG":         "max",
		"TANK_TOPK":            "7",
		"TANK_LOG1P":           "1",
		"TANK_DETECT_THRESH":   "not-a-number",
		"TANK_MIN_DETECT_PROP": "0.5",
		"TANK_TARGETS":         " ERBB2, ,TP53 ",
	}))

	c := Resolve(cli, fromEnv, Defaults())

	if c.Stat != "mad" {
		t.Fatalf("flag should win over env, got stat %q", c.Stat)
	}
	if c.TopK != 0 {
		t.Fatalf("an explicit zero flag should win, got topk %d", c.TopK)
	}
	if c.Log1p {
		t.Fatal("an explicit false flag should win over TANK_LOG1P")
	}
	if c.DupAgg != "max" || c.MinDetectProp != 0.5 {
		t.Fatalf("env should win over defaults, got dup_agg %q min_detect_prop %v", c.DupAgg, c.MinDetectProp)
	}
	if c.DetectThresh != 1.0 {
		t.Fatalf("an unparseable env value should fall back to the default, got %v", c.DetectThresh)
	}
	if c.Outdir != "tank_out" || c.WinsorAlpha != 0.01 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if diff := cmp.Diff([]string{"ERBB2", "TP53"}, c.Targets); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDefaultTargets(t *testing.T) {
	c := Resolve(Layer{}, FromEnv(env(nil)), Defaults())
	if diff := cmp.Diff(DefaultTargets, c.Targets); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}

	// Resolved configurations do not share state.
	c.Targets[0] = "CHANGED"
	if again := Resolve(Layer{}, Defaults()); again.Targets[0] == "CHANGED" || DefaultTargets[0] == "CHANGED" {
		t.Fatal("defaults were mutated through a resolved configuration")
	}
}

func TestValidate(t *testing.T) {
	c := Resolve(Layer{
		Stat:        null.StringFrom("winsor"),
		WinsorAlpha: null.FloatFrom(0.05),
		DupAgg:      null.StringFrom("first"),
		IDType:      null.StringFrom("Ensembl"),
	}, Defaults())

	s, err := c.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if s.Score.Statistic != score.Winsorized || s.Score.WinsorAlpha != 0.05 || s.DupAgg != dupagg.First || s.IDType != "ensembl" {
		t.Fatalf("unexpected settings %+v", s)
	}
	if !s.Detection.Enabled() || s.TopK != 100 {
		t.Fatalf("unexpected defaults in settings %+v", s)
	}
}

func TestValidateRejects(t *testing.T) {
	for name, l := range map[string]Layer{
		"stat":         {Stat: null.StringFrom("sd")},
		"dup_agg":      {DupAgg: null.StringFrom("median")},
		"winsor_alpha": {Stat: null.StringFrom("winsor"), WinsorAlpha: null.FloatFrom(0.5)},
		"id_type":      {IDType: null.StringFrom("refseq")},
		"bigquery":     {BQProject: null.StringFrom("proj")},
	} {
		_, err := Resolve(l, Defaults()).Validate()
		var cfgErr *tank.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected a ConfigurationError, got %v", name, err)
		}
	}
}

func TestExportBigQuery(t *testing.T) {
	c := Resolve(Layer{
		BQProject: null.StringFrom("p"),
		BQDataset: null.StringFrom("d"),
		BQTable:   null.StringFrom("t"),
	}, Defaults())
	if !c.ExportBigQuery() {
		t.Fatal("expected BigQuery export to be enabled")
	}
	if Resolve(Defaults()).ExportBigQuery() {
		t.Fatal("BigQuery export should be off by default")
	}
}
