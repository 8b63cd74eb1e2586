package tank

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}
	return "invalid"
}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x78, 0x9c},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType matches the leading bytes of a stream against known
// compression signatures. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(head []byte) DataType {
	for dt, sig := range byteCodeSigs {
		if bytes.HasPrefix(head, sig) {
			return dt
		}
	}

	return DataTypeNoCompression
}

// MaybeDecompressReadCloser peeks at the head of rc and, if it carries a known
// compression signature, wraps it in the matching decompressor. Closing the
// result closes rc. The stream does not need to be seekable, so this works on
// Google Storage readers too.
func MaybeDecompressReadCloser(rc io.ReadCloser) (io.ReadCloser, DataType, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(6)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, DataTypeInvalid, err
	}
	// Inputs shorter than the longest signature are still valid.
	err = nil

	dt := DetectDataType(head)

	var inner io.Reader
	switch dt {
	case DataTypeGzip:
		inner, err = gzip.NewReader(br)
	case DataTypeZip:
		// Only the first member of an archive is read.
		zr := zipstream.NewReader(br)
		_, err = zr.Next()
		inner = zr
	case DataTypeBZip2:
		inner = bzip2.NewReader(br)
	case DataTypeXZ:
		inner, err = xz.NewReader(br, 0)
	case DataTypeZ:
		inner, err = zlib.NewReader(br)
	default:
		inner = br
	}
	if err != nil {
		return nil, dt, err
	}

	return &chainedReadCloser{Reader: inner, closer: rc}, dt, nil
}

// chainedReadCloser reads from a (possibly decompressing) reader and closes
// the underlying source.
type chainedReadCloser struct {
	io.Reader
	closer io.Closer
}

func (c *chainedReadCloser) Close() error {
	if rc, ok := c.Reader.(io.Closer); ok {
		if err := rc.Close(); err != nil {
			c.closer.Close()
			return err
		}
	}
	return c.closer.Close()
}
