package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/pfx"
	"github.com/carbocation/tank/rank"
	"google.golang.org/api/googleapi"
)

// bqInsertBatch bounds the rows sent per streaming insert.
const bqInsertBatch = 500

// BQRow is the BigQuery representation of a rank table record. Undefined
// scores become NULL.
type BQRow struct {
	Gene       string               `bigquery:"gene"`
	Rank       int64                `bigquery:"rank"`
	Score      bigquery.NullFloat64 `bigquery:"score"`
	Mean       bigquery.NullFloat64 `bigquery:"mean"`
	DetectProp bigquery.NullFloat64 `bigquery:"detect_prop"`
}

func nullFloat(v float64) bigquery.NullFloat64 {
	return bigquery.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

func BQRows(t rank.Table) []*BQRow {
	out := make([]*BQRow, len(t))
	for i, r := range t {
		out[i] = &BQRow{
			Gene:       r.Gene,
			Rank:       int64(r.Rank),
			Score:      nullFloat(r.Score),
			Mean:       nullFloat(r.Mean),
			DetectProp: nullFloat(r.DetectProp),
		}
	}

	return out
}

// ExportBigQuery streams the rank table into dataset.table, creating the
// table if it does not yet exist.
func ExportBigQuery(ctx context.Context, client *bigquery.Client, dataset, table string, t rank.Table) error {
	tbl := client.Dataset(dataset).Table(table)

	if _, err := tbl.Metadata(ctx); err != nil {
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
			return pfx.Err(err)
		}

		schema, err := bigquery.InferSchema(BQRow{})
		if err != nil {
			return pfx.Err(err)
		}
		if err := tbl.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
			return pfx.Err(fmt.Errorf("creating %s.%s: %w", dataset, table, err))
		}
	}

	rows := BQRows(t)
	ins := tbl.Inserter()
	for start := 0; start < len(rows); start += bqInsertBatch {
		end := start + bqInsertBatch
		if end > len(rows) {
			end = len(rows)
		}
		if err := ins.Put(ctx, rows[start:end]); err != nil {
			return pfx.Err(fmt.Errorf("inserting rows %d-%d into %s.%s: %w", start+1, end, dataset, table, err))
		}
	}

	return nil
}
