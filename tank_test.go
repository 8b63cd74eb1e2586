package tank

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectDataType(t *testing.T) {
	for _, v := range []struct {
		Head []byte
		Want DataType
	}{
		{[]byte{0x1f, 0x8b, 0x08, 0x00}, DataTypeGzip},
		{[]byte("PK\x03\x04rest"), DataTypeZip},
		{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, DataTypeXZ},
		{[]byte("BZh91AY"), DataTypeBZip2},
		{[]byte{0x78, 0x9c, 0x01}, DataTypeZ},
		{[]byte("gene\ts1\n"), DataTypeNoCompression},
		{nil, DataTypeNoCompression},
	} {
		if got := DetectDataType(v.Head); got != v.Want {
			t.Fatalf("%x: expected %s, got %s", v.Head, v.Want, got)
		}
	}
}

const tsvPayload = "gene\ts1\ts2\nA\t1\t2\nB\t3\t4\n"

func TestMaybeDecompressReadCloser(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write([]byte(tsvPayload))
	w.Close()

	var zl bytes.Buffer
	zw := zlib.NewWriter(&zl)
	zw.Write([]byte(tsvPayload))
	zw.Close()

	for _, v := range []struct {
		Input []byte
		Want  DataType
	}{
		{gz.Bytes(), DataTypeGzip},
		{zl.Bytes(), DataTypeZ},
		{[]byte(tsvPayload), DataTypeNoCompression},
		{[]byte("x"), DataTypeNoCompression},
		{[]byte("s1\n"), DataTypeNoCompression},
		{[]byte("TP53\n"), DataTypeNoCompression},
		{[]byte{}, DataTypeNoCompression},
	} {
		rc, dt, err := MaybeDecompressReadCloser(ioutil.NopCloser(bytes.NewReader(v.Input)))
		if err != nil {
			t.Fatal(err)
		}
		if dt != v.Want {
			t.Fatalf("expected %s, got %s", v.Want, dt)
		}
		out, err := ioutil.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		if err := rc.Close(); err != nil {
			t.Fatal(err)
		}
		if v.Want != DataTypeNoCompression && string(out) != tsvPayload {
			t.Fatalf("%s: round trip mismatch: %q", dt, out)
		}
		if v.Want == DataTypeNoCompression && !bytes.Equal(out, v.Input) {
			t.Fatalf("uncompressed input was altered: %q", out)
		}
	}
}

func TestDetermineDelimiter(t *testing.T) {
	for _, v := range []struct {
		Input string
		Want  rune
	}{
		{tsvPayload, '\t'},
		{"gene,s1,s2\nA,1,2\nB,3,4\n", ','},
	} {
		if got := DetermineDelimiter(strings.NewReader(v.Input)); got != v.Want {
			t.Fatalf("expected %q, got %q", v.Want, got)
		}
	}
}

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := SplitGoogleStoragePath("gs://my-bucket/path/to/matrix.tsv.gz")
	if err != nil {
		t.Fatal(err)
	}
	if bucket != "my-bucket" || object != "path/to/matrix.tsv.gz" {
		t.Fatalf("unexpected split %q %q", bucket, object)
	}

	if IsGoogleStoragePath("/tmp/matrix.tsv") {
		t.Fatal("a local path was treated as a Google Storage path")
	}
	if _, _, err := SplitGoogleStoragePath("gs://bucket-only"); err == nil {
		t.Fatal("expected an error for a path without an object")
	}
}

func TestCheckInputExists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "genes.txt")
	if err := ioutil.WriteFile(present, []byte("TP53\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CheckInputExists("gene list", present); err != nil {
		t.Fatal(err)
	}
	if err := CheckInputExists("gene list", "gs://bucket/genes.txt"); err != nil {
		t.Fatalf("Google Storage paths are checked on open, got %v", err)
	}

	for _, path := range []string{"", filepath.Join(dir, "missing.txt")} {
		err := CheckInputExists("gene list", path)
		var nf *InputNotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("%q: expected *InputNotFoundError, got %v", path, err)
		}
		if nf.Kind != "gene list" || nf.Path != path {
			t.Fatalf("unexpected error fields %+v", nf)
		}
	}
}

func TestReadCloserFromLocalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matrix.tsv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := gzip.NewWriter(f)
	w.Write([]byte(tsvPayload))
	w.Close()
	f.Close()

	rc, dt, err := ReadCloserFromPath(context.Background(), "expression matrix", path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	if dt != DataTypeGzip {
		t.Fatalf("expected gzip, got %s", dt)
	}
	out, err := ioutil.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != tsvPayload {
		t.Fatalf("unexpected contents %q", out)
	}

	_, _, err = ReadCloserFromPath(context.Background(), "expression matrix", filepath.Join(dir, "nope.tsv"), nil)
	var nf *InputNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *InputNotFoundError, got %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	overlap := &EmptyOverlapError{Requested: 2, Columns: []string{"s1", "s2"}}
	if !errors.Is(overlap, ErrConfiguration) {
		t.Fatal("an empty sample overlap is a configuration error")
	}
	cfg := &ConfigurationError{Field: "stat", Value: "sd", Expected: "one of {var, mad, winsor}"}
	if !errors.Is(cfg, ErrConfiguration) {
		t.Fatal("expected errors.Is to match ErrConfiguration")
	}
	if !strings.Contains(cfg.Error(), "sd") {
		t.Fatalf("the message should name the rejected value: %s", cfg)
	}
	var nf *InputNotFoundError
	if errors.As(cfg, &nf) {
		t.Fatal("a configuration error is not an input-not-found error")
	}
}

func TestShortListFilesLoad(t *testing.T) {
	dir := t.TempDir()
	for _, contents := range []string{"s1\n", "TP53\n", "A"} {
		path := filepath.Join(dir, "list.txt")
		if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}

		rc, dt, err := ReadCloserFromPath(context.Background(), "gene list", path, nil)
		if err != nil {
			t.Fatalf("%q: %v", contents, err)
		}
		out, err := ioutil.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		if dt != DataTypeNoCompression || string(out) != contents {
			t.Fatalf("%q: got %s %q", contents, dt, out)
		}
	}
}
