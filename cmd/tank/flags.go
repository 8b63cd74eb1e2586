package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/tank/config"
	"gopkg.in/guregu/null.v3"
)

// parseFlags returns a layer holding only the flags that were set on the
// command line, plus the targets file path. Flags that were not passed stay
// null so the environment and the defaults can fill them in.
func parseFlags(fs *flag.FlagSet, args []string) (config.Layer, string) {
	var (
		expr, outdir, idType, stat, dupAgg, geneList, sampleKeep string
		targets, targetsFile                                     string
		bqProject, bqDataset, bqTable                            string
		log1p                                                    bool
		minDetectProp, detectThresh, winsorAlpha                 float64
		topK                                                     int
	)

	fs.StringVar(&expr, "expr", "", "Expression matrix path (.tsv/.csv, optionally gzip/bzip2/xz/zip compressed; gs:// paths are read from Google Storage). Env: TANK_EXPR")
	fs.StringVar(&targets, "targets", "", "Comma-separated targets, in the same ID namespace as the matrix. Env: TANK_TARGETS")
	fs.StringVar(&targetsFile, "targets_file", "", "File with one target per line; combined with -targets")
	fs.StringVar(&idType, "id_type", "", "ID namespace of the matrix: auto, ensembl or symbol (default auto). Env: TANK_IDTYPE")
	fs.BoolVar(&log1p, "log1p", false, "Apply log1p before scoring. Env: TANK_LOG1P")
	fs.Float64Var(&minDetectProp, "min_detect_prop", 0, "Keep genes detected in at least this fraction of samples (default 0.10; 0 disables). Env: TANK_MIN_DETECT_PROP")
	fs.Float64Var(&detectThresh, "detect_thresh", 0, "Detection threshold on the ORIGINAL scale (default 1.0; 0 disables). Env: TANK_DETECT_THRESH")
	fs.StringVar(&stat, "stat", "", "Score statistic: var, mad or winsor (default var). Env: TANK_STAT")
	fs.Float64Var(&winsorAlpha, "winsor_alpha", 0, "Winsorization alpha in [0, 0.5), for -stat winsor (default 0.01). Env: TANK_WINSOR_ALPHA")
	fs.StringVar(&dupAgg, "dup_agg", "", "Resolve duplicate gene IDs: none, mean, sum, max or first (default none). Env: TANK_DUP_AGG")
	fs.StringVar(&geneList, "gene_list", "", "Keep only genes listed in this file. Env: TANK_GENE_LIST")
	fs.StringVar(&sampleKeep, "sample_keep", "", "Keep only samples (columns) listed in this file. Env: TANK_SAMPLE_KEEP")
	fs.IntVar(&topK, "topk", 0, "If > 0, also write a top-K table (default 100). Env: TANK_TOPK")
	fs.StringVar(&outdir, "outdir", "", "Output directory (default tank_out). Env: TANK_OUTDIR")
	fs.StringVar(&bqProject, "bq_project", "", "Optional: BigQuery project to export the rank table to. Env: TANK_BQ_PROJECT")
	fs.StringVar(&bqDataset, "bq_dataset", "", "Optional: BigQuery dataset for the export. Env: TANK_BQ_DATASET")
	fs.StringVar(&bqTable, "bq_table", "", "Optional: BigQuery table for the export. Env: TANK_BQ_TABLE")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Ranks genes by expression variability and reports the rank of each target gene.")
		fs.PrintDefaults()
	}

	// The default FlagSet exits on error.
	fs.Parse(args)

	out := config.Layer{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "expr":
			out.Expr = null.StringFrom(expr)
		case "outdir":
			out.Outdir = null.StringFrom(outdir)
		case "id_type":
			out.IDType = null.StringFrom(idType)
		case "log1p":
			out.Log1p = null.BoolFrom(log1p)
		case "min_detect_prop":
			out.MinDetectProp = null.FloatFrom(minDetectProp)
		case "detect_thresh":
			out.DetectThresh = null.FloatFrom(detectThresh)
		case "stat":
			out.Stat = null.StringFrom(stat)
		case "winsor_alpha":
			out.WinsorAlpha = null.FloatFrom(winsorAlpha)
		case "topk":
			out.TopK = null.IntFrom(int64(topK))
		case "dup_agg":
			out.DupAgg = null.StringFrom(dupAgg)
		case "gene_list":
			out.GeneList = null.StringFrom(geneList)
		case "sample_keep":
			out.SampleKeep = null.StringFrom(sampleKeep)
		case "targets":
			out.Targets = config.SplitList(targets)
		case "bq_project":
			out.BQProject = null.StringFrom(bqProject)
		case "bq_dataset":
			out.BQDataset = null.StringFrom(bqDataset)
		case "bq_table":
			out.BQTable = null.StringFrom(bqTable)
		}
	})

	return out, strings.TrimSpace(targetsFile)
}
