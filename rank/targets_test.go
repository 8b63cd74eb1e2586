package rank

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeTargets(t *testing.T) {
	got := NormalizeTargets([]string{"ENSG01.1", "ERBB2", "ENSG01.2", "ERBB2", "ENSG02"})
	if diff := cmp.Diff([]string{"ENSG01", "ERBB2", "ENSG02"}, got); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestReportTargets(t *testing.T) {
	table, err := Build(
		[]string{"ENSG01", "ENSG02", "ERBB2", "TP53"},
		[]float64{1, 4, 3, 2},
		[]float64{5, 6, 7, 8},
		[]float64{1, 1, 0.5, 1})
	if err != nil {
		t.Fatal(err)
	}

	requested := []string{"TP53", "MISSING", "ENSG02.7", "ENSG01", "ALSO_MISSING", "TP53"}
	report := ReportTargets(requested, table)

	expected := []TargetHit{
		{Target: "ENSG02", Rank: 1, Score: 4, Mean: 6, DetectProp: 1, TieRank: 1},
		{Target: "TP53", Rank: 3, Score: 2, Mean: 8, DetectProp: 1, TieRank: 3},
		{Target: "ENSG01", Rank: 4, Score: 1, Mean: 5, DetectProp: 1, TieRank: 4},
	}
	if diff := cmp.Diff(expected, report.Found); diff != "" {
		t.Fatalf("found mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"MISSING", "ALSO_MISSING"}, report.NotFound); diff != "" {
		t.Fatalf("not found mismatch (-want +got):\n%s", diff)
	}

	// Every normalized target lands in exactly one partition, and found ranks
	// match positions in the table.
	seen := make(map[string]int)
	for _, hit := range report.Found {
		seen[hit.Target]++
		if table[hit.Rank-1].Gene != hit.Target {
			t.Fatalf("%s reported at rank %d but the table has %s there", hit.Target, hit.Rank, table[hit.Rank-1].Gene)
		}
	}
	for _, miss := range report.NotFound {
		seen[miss]++
	}
	for _, target := range NormalizeTargets(requested) {
		if seen[target] != 1 {
			t.Fatalf("%s reported %d times", target, seen[target])
		}
	}
}

func TestReportTargetsDuplicateGenes(t *testing.T) {
	table, _ := Build(
		[]string{"G", "H", "G"},
		[]float64{1, 2, 3},
		make([]float64, 3),
		make([]float64, 3))

	report := ReportTargets([]string{"G"}, table)
	if len(report.Found) != 1 || report.Found[0].Rank != 1 || report.Found[0].Score != 3 {
		t.Fatalf("expected the best-ranked G, got %+v", report.Found)
	}
}

func TestReportTargetsEmptyTable(t *testing.T) {
	report := ReportTargets([]string{"A"}, Table{})
	if len(report.Found) != 0 || len(report.NotFound) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}
