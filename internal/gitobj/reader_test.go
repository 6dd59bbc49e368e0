package gitobj

import (
	"bytes"
	"compress/zlib"
	"os"
	"path/filepath"
	"testing"
)

func writeLooseObject(t *testing.T, dir string, plain []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(plain); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	path := filepath.Join(dir, "object")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadLooseObjectFileRoundTrip(t *testing.T) {
	plain := []byte("blob 14\x00Hello, Glitzer!")
	path := writeLooseObject(t, t.TempDir(), plain)

	got, err := ReadLooseObjectFile(path)
	if err != nil {
		t.Fatalf("ReadLooseObjectFile: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("got %q, want %q", got, plain)
	}
}

func TestReadLooseObjectFileMissing(t *testing.T) {
	_, err := ReadLooseObjectFile(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecompressCorruptStream(t *testing.T) {
	_, err := decompress(bytes.NewReader([]byte("not zlib data")))
	if err == nil {
		t.Fatal("expected decompression error")
	}
}
