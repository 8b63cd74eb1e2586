package tank

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. When the detector is
// undecided, tab wins over comma if the header has at least as many tabs.
func DetermineDelimiter(r io.Reader) rune {
	var buf bytes.Buffer
	tee := io.TeeReader(r, &buf)

	d := detector.New()
	delimiters := d.DetectDelimiter(tee, '"')
	if len(delimiters) == 1 && delimiters[0] != "" {
		return rune(delimiters[0][0])
	}

	header, _ := bufio.NewReader(io.MultiReader(&buf, r)).ReadString('\n')
	if strings.Count(header, "\t") >= strings.Count(header, ",") {
		return '\t'
	}

	return ','
}
