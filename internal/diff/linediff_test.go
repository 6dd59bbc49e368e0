package diff

import "testing"

func TestSplitLinesTrailingNewline(t *testing.T) {
	got := SplitLines("a\nb\nc\n")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitLinesNoTrailingNewline(t *testing.T) {
	got := SplitLines("a\nb")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v", got)
	}
}

func TestSplitLinesEmpty(t *testing.T) {
	if got := SplitLines(""); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestCountsIdentical(t *testing.T) {
	added, removed := Counts([]string{"a", "b"}, []string{"a", "b"})
	if added != 0 || removed != 0 {
		t.Errorf("added=%d removed=%d, want 0,0", added, removed)
	}
}

func TestCountsAllInserted(t *testing.T) {
	added, removed := Counts(nil, []string{"a", "b"})
	if added != 2 || removed != 0 {
		t.Errorf("added=%d removed=%d, want 2,0", added, removed)
	}
}

func TestCountsAllDeleted(t *testing.T) {
	added, removed := Counts([]string{"a", "b"}, nil)
	if added != 0 || removed != 2 {
		t.Errorf("added=%d removed=%d, want 0,2", added, removed)
	}
}

func TestCountsMixed(t *testing.T) {
	added, removed := Counts(
		SplitLines("Hello\nOld\nWorld\n"),
		SplitLines("Hello\nNew\nWorld\n"),
	)
	if added != 1 || removed != 1 {
		t.Errorf("added=%d removed=%d, want 1,1", added, removed)
	}
}
