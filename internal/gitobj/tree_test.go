package gitobj

import (
	"bytes"
	"errors"
	"testing"
)

func rawTreeEntry(mode, name string, hash [20]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(mode)
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.Write(hash[:])
	return buf.Bytes()
}

func TestParseTreeSortsEntriesByName(t *testing.T) {
	var h1, h2 [20]byte
	h1[0] = 0x01
	h2[0] = 0x02

	var payload bytes.Buffer
	payload.Write(rawTreeEntry("100644", "zebra.txt", h1))
	payload.Write(rawTreeEntry("40000", "apple", h2))

	tree, err := ParseTree("deadbeef", payload.Bytes())
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if len(tree.Entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(tree.Entries))
	}
	if tree.Entries[0].Name != "apple" || tree.Entries[1].Name != "zebra.txt" {
		t.Errorf("entries not sorted: %+v", tree.Entries)
	}
	if tree.Entries[0].Mode != ModeTree {
		t.Errorf("apple mode = %v, want ModeTree", tree.Entries[0].Mode)
	}
	if tree.Entries[1].Mode != ModeText {
		t.Errorf("zebra.txt mode = %v, want ModeText", tree.Entries[1].Mode)
	}
}

func TestParseTreeEmptyPayload(t *testing.T) {
	tree, err := ParseTree("deadbeef", nil)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if len(tree.Entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(tree.Entries))
	}
}

func TestParseTreeUnknownMode(t *testing.T) {
	var h [20]byte
	_, err := ParseTree("deadbeef", rawTreeEntry("999999", "oops", h))
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("err = %v, want ErrUnknownMode", err)
	}
	if !errors.Is(err, ErrMalformedTree) {
		t.Fatalf("err = %v, want it to also satisfy ErrMalformedTree", err)
	}
}

func TestParseTreeTrailingBytes(t *testing.T) {
	_, err := ParseTree("deadbeef", []byte("100644 short.txt\x00abc"))
	if !errors.Is(err, ErrTreeTrailingBytes) {
		t.Fatalf("err = %v, want ErrTreeTrailingBytes", err)
	}
}
