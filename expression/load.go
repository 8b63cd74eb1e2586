package expression

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/tank"
)

// Read parses a delimited matrix: a header row whose first cell names the
// identifier column and whose remaining cells are sample identifiers, then one
// row per gene with the identifier first. Row order is preserved and duplicate
// identifiers are kept as separate rows.
func Read(r io.Reader, delim rune) (*Matrix, error) {
	rdr := csv.NewReader(r)
	rdr.Comma = delim
	rdr.LazyQuotes = true
	rdr.Comment = '#'

	header, err := rdr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("matrix is empty: no header row")
	} else if err != nil {
		return nil, pfx.Err(err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("matrix header has %d column(s); expected an identifier column and at least one sample", len(header))
	}

	samples := make([]string, len(header)-1)
	for j, s := range header[1:] {
		samples[j] = strings.TrimSpace(s)
	}

	var genes []string
	var values [][]float64
	for line := 2; ; line++ {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		row := make([]float64, len(rec)-1)
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, gene %q, sample %q: value %q is not a number", line, rec[0], samples[j], cell)
			}
			row[j] = v
		}

		genes = append(genes, strings.TrimSpace(rec[0]))
		values = append(values, row)
	}

	return New(genes, samples, values)
}

// Load reads a matrix from a local or gs:// path, decompressing as needed and
// detecting the delimiter from the data. The matrix is held fully in memory.
func Load(ctx context.Context, path string, client *storage.Client) (*Matrix, rune, error) {
	rc, _, err := tank.ReadCloserFromPath(ctx, "expression matrix", path, client)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	data, err := ioutil.ReadAll(rc)
	if err != nil {
		return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	delim := tank.DetermineDelimiter(bytes.NewReader(data))

	m, err := Read(bytes.NewReader(data), delim)
	if err != nil {
		return nil, delim, fmt.Errorf("%s: %w", path, err)
	}

	return m, delim, nil
}

// ReadList reads one entry per line, trimming whitespace and skipping blank
// lines. The result is non-nil even when the list is empty.
func ReadList(r io.Reader) ([]string, error) {
	out := make([]string, 0)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			out = append(out, s)
		}
	}

	return out, scanner.Err()
}

// LoadList opens a local or gs:// list file (gene whitelist, sample
// whitelist, targets) and reads it with ReadList.
func LoadList(ctx context.Context, kind, path string, client *storage.Client) ([]string, error) {
	rc, _, err := tank.ReadCloserFromPath(ctx, kind, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	out, err := ReadList(rc)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return out, nil
}
