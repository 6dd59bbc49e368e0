package gitobj

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"
)

// EntryMode is the set of Git tree entry modes this reader recognizes.
type EntryMode int

const (
	// ModeText is a regular, non-executable file (100644).
	ModeText EntryMode = iota
	// ModeExe is an executable file (100755).
	ModeExe
	// ModeSymlink is a symbolic link whose content is the link target (120000).
	ModeSymlink
	// ModeTree is a subdirectory (40000 / 040000).
	ModeTree
	// ModeGitlink is a submodule commit reference (160000).
	ModeGitlink
)

func (m EntryMode) String() string {
	switch m {
	case ModeText:
		return "100644"
	case ModeExe:
		return "100755"
	case ModeSymlink:
		return "120000"
	case ModeTree:
		return "40000"
	case ModeGitlink:
		return "160000"
	default:
		return "unknown"
	}
}

func entryModeFromToken(token string) (EntryMode, bool) {
	switch token {
	case "100644":
		return ModeText, true
	case "100755":
		return ModeExe, true
	case "120000":
		return ModeSymlink, true
	case "40000", "040000":
		return ModeTree, true
	case "160000":
		return ModeGitlink, true
	default:
		return 0, false
	}
}

// TreeEntry is a single named entry of a tree: a mode, a name, and the
// hash of the object (blob, tree, or commit for a gitlink) it names.
type TreeEntry struct {
	Mode EntryMode
	Name string
	Hash Hash
}

// Tree is a directory snapshot: entries sorted ascending by Name.
type Tree struct {
	Hash    Hash
	Entries []TreeEntry
}

// ParseTree decodes a tree object's payload into sorted entries. Each
// entry is "<mode> <name>\x00<20-byte raw hash>" back-to-back, with no
// separator between entries. An empty payload parses to a tree with zero
// entries. Trailing bytes after the last complete entry are rejected.
func ParseTree(hash Hash, payload []byte) (*Tree, error) {
	entries := make([]TreeEntry, 0)
	rest := payload

	for len(rest) > 0 {
		sp := bytes.IndexByte(rest, ' ')
		if sp == -1 {
			return nil, fmt.Errorf("%w: missing mode separator", ErrMalformedTree)
		}
		modeToken := string(rest[:sp])
		rest = rest[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul == -1 {
			return nil, fmt.Errorf("%w: missing name terminator", ErrMalformedTree)
		}
		nameBytes := rest[:nul]
		rest = rest[nul+1:]

		if len(rest) < 20 {
			return nil, fmt.Errorf("%w: %d bytes remain, need 20 for hash", ErrTreeTrailingBytes, len(rest))
		}
		var rawHash [20]byte
		copy(rawHash[:], rest[:20])
		rest = rest[20:]

		if !utf8.Valid(nameBytes) {
			return nil, ErrTreeNameEncoding
		}
		mode, ok := entryModeFromToken(modeToken)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %q", ErrMalformedTree, ErrUnknownMode, modeToken)
		}

		entries = append(entries, TreeEntry{
			Mode: mode,
			Name: string(nameBytes),
			Hash: NewHashFromBytes(rawHash),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return &Tree{Hash: hash, Entries: entries}, nil
}
