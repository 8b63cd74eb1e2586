// tank ranks the genes of an expression matrix by variability and reports
// where a set of target genes falls in that ranking. Every flag can also be
// set through a TANK_* environment variable; flags win over the environment,
// which wins over the built-in defaults.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/tank"
	_ "github.com/carbocation/tank/compileinfoprint"
	"github.com/carbocation/tank/config"
	"github.com/carbocation/tank/expression"
	"github.com/carbocation/tank/pipeline"
	"github.com/carbocation/tank/rank"
	"github.com/carbocation/tank/report"
)

func main() {
	cli, targetsFile := parseFlags(flag.CommandLine, os.Args[1:])

	if err := run(context.Background(), cli, targetsFile); err != nil {
		log.Println(err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var notFound *tank.InputNotFoundError
	var overlap *tank.EmptyOverlapError

	switch {
	case errors.As(err, &notFound):
		return 2
	case errors.As(err, &overlap):
		return 3
	}

	return 1
}

func run(ctx context.Context, cli config.Layer, targetsFile string) error {
	c := config.Resolve(cli, config.FromEnv(nil), config.Defaults())

	settings, err := c.Validate()
	if err != nil {
		return err
	}

	var client *storage.Client
	if usesGoogleStorage(c.Expr, c.GeneList, c.SampleKeep, targetsFile) {
		client, err = storage.NewClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()
	}

	// A targets file is combined with -targets. Only a non-empty combined
	// list replaces the environment and the defaults.
	if targetsFile != "" {
		if err := tank.CheckInputExists("targets file", targetsFile); err != nil {
			return err
		}
		fileTargets, err := expression.LoadList(ctx, "targets file", targetsFile, client)
		if err != nil {
			return err
		}
		if combined := append(append([]string(nil), cli.Targets...), fileTargets...); len(combined) > 0 {
			c.Targets = combined
		}
	}

	// Check the remaining inputs before loading any of them.
	if err := tank.CheckInputExists("expression matrix", c.Expr); err != nil {
		return err
	}
	if c.GeneList != "" {
		if err := tank.CheckInputExists("gene list", c.GeneList); err != nil {
			return err
		}
	}
	if c.SampleKeep != "" {
		if err := tank.CheckInputExists("sample list", c.SampleKeep); err != nil {
			return err
		}
	}

	in := pipeline.Inputs{Targets: c.Targets}
	if c.GeneList != "" {
		if in.Whitelists.Genes, err = expression.LoadList(ctx, "gene list", c.GeneList, client); err != nil {
			return err
		}
		log.Println("Loaded", len(in.Whitelists.Genes), "genes from", c.GeneList)
	}
	if c.SampleKeep != "" {
		if in.Whitelists.Samples, err = expression.LoadList(ctx, "sample list", c.SampleKeep, client); err != nil {
			return err
		}
		log.Println("Loaded", len(in.Whitelists.Samples), "samples from", c.SampleKeep)
	}

	log.Println("Loading", c.Expr)
	m, delim, err := expression.Load(ctx, c.Expr, client)
	if err != nil {
		return err
	}
	in.Matrix = m
	log.Printf("Determined delimiter to be %q. Loaded %d genes x %d samples\n", string(delim), m.NRows(), m.NCols())

	res, err := pipeline.Run(in, settings)
	if err != nil {
		return err
	}

	var export exportFunc
	if c.ExportBigQuery() {
		bq, err := bigquery.NewClient(ctx, c.BQProject)
		if err != nil {
			return fmt.Errorf("connecting to BigQuery: %v", err)
		}
		defer bq.Close()

		export = func(ctx context.Context, t rank.Table) error {
			if err := report.ExportBigQuery(ctx, bq, c.BQDataset, c.BQTable, t); err != nil {
				return err
			}
			log.Printf("Exported %d ranked genes to %s:%s.%s\n", len(t), c.BQProject, c.BQDataset, c.BQTable)
			return nil
		}
	}

	paths, err := deliver(ctx, c.Outdir, res, c, export)
	if err != nil {
		return err
	}

	fmt.Println("[TANK] Wrote:")
	for _, p := range paths.All() {
		fmt.Println(" ", p)
	}

	return nil
}

type exportFunc func(context.Context, rank.Table) error

// deliver runs the optional export and then writes the local artifacts, so a
// failed export leaves the output directory untouched.
func deliver(ctx context.Context, outdir string, res *pipeline.Result, c config.Config, export exportFunc) (report.Paths, error) {
	if export != nil {
		if err := export(ctx, res.Ranked); err != nil {
			return report.Paths{}, err
		}
	}

	return report.Write(outdir, res, c)
}

func usesGoogleStorage(paths ...string) bool {
	for _, p := range paths {
		if tank.IsGoogleStoragePath(p) {
			return true
		}
	}

	return false
}
