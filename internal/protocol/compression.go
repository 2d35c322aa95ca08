package protocol

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// gzipEncode compresses b with the klauspost/compress drop-in gzip
// implementation, a faster replacement for the standard library
// compress/gzip.
func gzipEncode(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gzipDecode decompresses exactly the bytes gzipEncode produced.
func gzipDecode(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
