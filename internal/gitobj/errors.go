// Package gitobj decodes loose Git objects — blobs, trees, and commits —
// from their on-disk zlib-compressed representation into typed values.
package gitobj

import "errors"

// Sentinel errors for the decoding taxonomy. Wrap with fmt.Errorf("%w: ...")
// to attach detail while keeping errors.Is matching intact.
var (
	// ErrDecompression covers a malformed zlib/DEFLATE stream.
	ErrDecompression = errors.New("gitobj: decompression error")
	// ErrHeaderEncoding covers a non-UTF-8 object header.
	ErrHeaderEncoding = errors.New("gitobj: header is not valid UTF-8")
	// ErrMalformedHeader covers a header missing its type or size token.
	ErrMalformedHeader = errors.New("gitobj: malformed header")
	// ErrUnknownObjectType covers a header naming an unrecognized type token.
	ErrUnknownObjectType = errors.New("gitobj: unknown object type")
	// ErrMalformedSize covers a size token that is not an unsigned decimal.
	ErrMalformedSize = errors.New("gitobj: malformed size")
	// ErrTreeNameEncoding covers a tree entry name that is not valid UTF-8.
	ErrTreeNameEncoding = errors.New("gitobj: tree entry name is not valid UTF-8")
	// ErrTreeTrailingBytes covers leftover bytes after the last tree entry.
	ErrTreeTrailingBytes = errors.New("gitobj: trailing bytes after last tree entry")
	// ErrMalformedTree covers a tree entry that is truncated mid-field.
	ErrMalformedTree = errors.New("gitobj: malformed tree entry")
	// ErrUnknownMode covers a tree entry mode with no EntryMode mapping.
	// ParseTree wraps it together with ErrMalformedTree, so callers that
	// only check for a malformed tree still catch an unknown mode.
	ErrUnknownMode = errors.New("gitobj: unknown entry mode")
	// ErrMalformedCommit covers a commit header line that deviates from the
	// expected grammar (see MalformedCommitError for the offending location).
	ErrMalformedCommit = errors.New("gitobj: malformed commit")
	// ErrTimestamp covers a signature timestamp that doesn't parse as
	// "<epoch> <±HHMM>".
	ErrTimestamp = errors.New("gitobj: malformed timestamp")
	// ErrUnsupportedObjectType covers a request to decode an AnnotatedTag,
	// which this reader recognizes but does not parse.
	ErrUnsupportedObjectType = errors.New("gitobj: unsupported object type")
)

// MalformedCommitError pairs ErrMalformedCommit with the header line or
// section where parsing gave up, so callers can report a precise location.
type MalformedCommitError struct {
	Location string
}

func (e *MalformedCommitError) Error() string {
	return "gitobj: malformed commit: " + e.Location
}

func (e *MalformedCommitError) Unwrap() error { return ErrMalformedCommit }

func malformedCommit(location string) error {
	return &MalformedCommitError{Location: location}
}
