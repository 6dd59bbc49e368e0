package gitobj

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// ObjectType identifies the kind of a decoded Git object.
type ObjectType int

const (
	// TypeBlob is a file's raw content.
	TypeBlob ObjectType = iota
	// TypeTree is a directory snapshot.
	TypeTree
	// TypeCommit is a commit record.
	TypeCommit
	// TypeAnnotatedTag is recognized but never parsed; see ErrUnsupportedObjectType.
	TypeAnnotatedTag
)

func (t ObjectType) String() string {
	switch t {
	case TypeBlob:
		return "blob"
	case TypeTree:
		return "tree"
	case TypeCommit:
		return "commit"
	case TypeAnnotatedTag:
		return "tag"
	default:
		return "unknown"
	}
}

func objectTypeFromToken(token string) (ObjectType, bool) {
	switch token {
	case "blob":
		return TypeBlob, true
	case "tree":
		return TypeTree, true
	case "commit":
		return TypeCommit, true
	case "tag":
		return TypeAnnotatedTag, true
	default:
		return 0, false
	}
}

// ObjectHeader is the decoded "<type> <size>" header of a loose object.
// Size is advisory: callers may cross-check it against len(payload) but
// must not reject a mismatch, per the format's own loose contract.
type ObjectHeader struct {
	Type ObjectType
	Size uint64
}

// RawObject is a loose object split into its header and unmodified payload,
// tagged with the content-address hash of the full decompressed bytes
// (header + NUL separator + payload) it was decoded from.
type RawObject struct {
	Hash    Hash
	Header  ObjectHeader
	Content []byte
}

// DecodeRawObject splits decompressed bytes at the first NUL into a header
// and payload, parses the header, and computes the SHA-1 content address
// over the full buffer. The computed hash is not compared with any
// expected hash. decompressed must be the exact bytes the object file
// inflated to.
func DecodeRawObject(decompressed []byte) (*RawObject, error) {
	hash := Hash(Sha1Hex(decompressed))

	nul := bytes.IndexByte(decompressed, 0)
	if nul == -1 {
		return nil, fmt.Errorf("%w: no NUL separator", ErrMalformedHeader)
	}
	headerBytes := decompressed[:nul]
	payload := decompressed[nul+1:]

	if !utf8.Valid(headerBytes) {
		return nil, ErrHeaderEncoding
	}
	header, err := parseHeader(string(headerBytes))
	if err != nil {
		return nil, err
	}

	return &RawObject{
		Hash:    hash,
		Header:  header,
		Content: payload,
	}, nil
}

func parseHeader(header string) (ObjectHeader, error) {
	sp := bytes.IndexByte([]byte(header), ' ')
	if sp == -1 {
		return ObjectHeader{}, fmt.Errorf("%w: missing object type", ErrMalformedHeader)
	}
	typeToken := header[:sp]
	sizeToken := header[sp+1:]
	if typeToken == "" {
		return ObjectHeader{}, fmt.Errorf("%w: missing object type", ErrMalformedHeader)
	}
	if sizeToken == "" {
		return ObjectHeader{}, fmt.Errorf("%w: missing size", ErrMalformedHeader)
	}

	objType, ok := objectTypeFromToken(typeToken)
	if !ok {
		return ObjectHeader{}, fmt.Errorf("%w: %q", ErrUnknownObjectType, typeToken)
	}

	size, err := strconv.ParseUint(sizeToken, 10, 64)
	if err != nil {
		return ObjectHeader{}, fmt.Errorf("%w: %q", ErrMalformedSize, sizeToken)
	}

	return ObjectHeader{Type: objType, Size: size}, nil
}

// Blob is a file's raw content. No UTF-8 assumption is made until a diff
// is attempted over it.
type Blob struct {
	Hash    Hash
	Content []byte
}

// Object is the tagged union consumers pattern-match on: *Blob, *Tree, or
// *Commit. AnnotatedTag never reaches this type — Dispatch rejects it.
type Object interface {
	Type() ObjectType
}

func (*Blob) Type() ObjectType   { return TypeBlob }
func (*Tree) Type() ObjectType   { return TypeTree }
func (*Commit) Type() ObjectType { return TypeCommit }

// Dispatch routes a decoded RawObject to its typed form: a Blob wraps the
// content verbatim, a Tree or Commit is fully parsed. AnnotatedTag is
// recognized but rejected, per spec.
func Dispatch(raw *RawObject) (Object, error) {
	switch raw.Header.Type {
	case TypeBlob:
		return &Blob{Hash: raw.Hash, Content: raw.Content}, nil
	case TypeTree:
		return ParseTree(raw.Hash, raw.Content)
	case TypeCommit:
		return ParseCommit(raw.Hash, raw.Content)
	case TypeAnnotatedTag:
		return nil, fmt.Errorf("%w: annotated tag %s", ErrUnsupportedObjectType, raw.Hash)
	default:
		return nil, fmt.Errorf("%w: type %d", ErrUnsupportedObjectType, raw.Header.Type)
	}
}

// DecodeObject reads, decompresses, decodes, and dispatches the loose
// object file at path in one step.
func DecodeObject(path string) (Object, error) {
	decompressed, err := ReadLooseObjectFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := DecodeRawObject(decompressed)
	if err != nil {
		return nil, err
	}
	return Dispatch(raw)
}
