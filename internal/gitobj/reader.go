package gitobj

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"
)

// maxDecompressedSize caps the size of any single decompressed object,
// guarding against a corrupt or hostile zlib stream claiming to expand
// far beyond any real source file.
const maxDecompressedSize = 256 * 1024 * 1024 // 256MB

// ReadLooseObjectFile reads the loose object file at path and returns its
// fully decompressed bytes (header + NUL + payload), unmodified.
func ReadLooseObjectFile(path string) ([]byte, error) {
	//nolint:gosec // G304: path is built from a validated repository + fanout hash
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gitobj: reading object file %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only fd, nothing to flush

	return decompress(f)
}

// decompress inflates a zlib-wrapped DEFLATE stream into a single buffer.
func decompress(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer zr.Close() //nolint:errcheck // decoder close failure doesn't invalidate already-read bytes

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(zr, maxDecompressedSize+1)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if buf.Len() > maxDecompressedSize {
		return nil, fmt.Errorf("%w: object exceeds %d bytes", ErrDecompression, maxDecompressedSize)
	}
	return buf.Bytes(), nil
}
