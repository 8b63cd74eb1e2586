// Package report renders the ranking artifacts: the full and top-K rank
// tables, the target report, the not-found list and a human-readable summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	"github.com/carbocation/tank/config"
	"github.com/carbocation/tank/pipeline"
	"github.com/gocarina/gocsv"
)

const (
	RankedFile   = "TANK_ranked.tsv"
	TargetsFile  = "TANK_targets.tsv"
	NotFoundFile = "TANK_targets_not_found.txt"
	SummaryFile  = "README_targets.txt"
)

// TopKFile names the top-K table for k.
func TopKFile(k int) string {
	return fmt.Sprintf("TANK_top%d.tsv", k)
}

// Paths lists the artifacts that were written. Top is empty when no top-K
// table was requested.
type Paths struct {
	Ranked   string
	Top      string
	Targets  string
	NotFound string
	Summary  string
}

func (p Paths) All() []string {
	out := []string{p.Ranked}
	if p.Top != "" {
		out = append(out, p.Top)
	}
	return append(out, p.Targets, p.NotFound, p.Summary)
}

type artifact struct {
	name   string
	render func(io.Writer) error
}

// Write renders every artifact into a staging directory inside outdir and
// only moves them into outdir once all of them rendered without error, so a
// failed run leaves no partial outputs behind.
func Write(outdir string, res *pipeline.Result, c config.Config) (Paths, error) {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return Paths{}, pfx.Err(err)
	}

	staging, err := ioutil.TempDir(outdir, ".tank-staging-")
	if err != nil {
		return Paths{}, pfx.Err(err)
	}
	defer os.RemoveAll(staging)

	arts := []artifact{
		{RankedFile, func(w io.Writer) error { return WriteTSV(w, res.Ranked) }},
	}
	if res.Top != nil {
		arts = append(arts, artifact{TopKFile(c.TopK), func(w io.Writer) error { return WriteTSV(w, res.Top) }})
	}
	arts = append(arts,
		artifact{TargetsFile, func(w io.Writer) error { return WriteTSV(w, res.Targets.Found) }},
		artifact{NotFoundFile, func(w io.Writer) error { return WriteList(w, res.Targets.NotFound) }},
		artifact{SummaryFile, func(w io.Writer) error { return Summary(w, res, c) }},
	)

	for _, a := range arts {
		if err := renderFile(filepath.Join(staging, a.name), a.render); err != nil {
			return Paths{}, fmt.Errorf("rendering %s: %w", a.name, err)
		}
	}

	out := Paths{}
	for _, a := range arts {
		dst := filepath.Join(outdir, a.name)
		if err := os.Rename(filepath.Join(staging, a.name), dst); err != nil {
			return Paths{}, pfx.Err(err)
		}

		switch a.name {
		case RankedFile:
			out.Ranked = dst
		case TargetsFile:
			out.Targets = dst
		case NotFoundFile:
			out.NotFound = dst
		case SummaryFile:
			out.Summary = dst
		default:
			out.Top = dst
		}
	}

	return out, nil
}

func renderFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := render(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// WriteTSV writes a slice of csv-tagged structs as a tab-delimited table with
// a header row. The header is written even when records is empty.
func WriteTSV(w io.Writer, records interface{}) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(cw))
}

// WriteList writes one entry per line.
func WriteList(w io.Writer, entries []string) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}

	return nil
}
