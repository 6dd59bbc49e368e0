package gitobj

import (
	"crypto/sha1" //nolint:gosec // G505/G401: content-addressing hash, not used for security
	"encoding/hex"
	"fmt"
)

// Hash is a 40-character lowercase hex-encoded SHA-1 object identifier.
type Hash string

// NewHash validates s as a 40-character hex string and returns it as a Hash.
func NewHash(s string) (Hash, error) {
	if len(s) != 40 {
		return "", fmt.Errorf("gitobj: invalid hash length %d: %q", len(s), s)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("gitobj: invalid hash %q: %w", s, err)
	}
	return Hash(s), nil
}

// NewHashFromBytes hex-encodes a 20-byte raw SHA-1 digest into a Hash.
func NewHashFromBytes(b [20]byte) Hash {
	return Hash(hex.EncodeToString(b[:]))
}

// Short returns the first 7 characters of the hash, or the full hash if
// it is shorter than that (as can happen with the empty hash).
func (h Hash) Short() string {
	if len(h) < 7 {
		return string(h)
	}
	return string(h)[:7]
}

// FanoutPath splits the hash into the {xx}/{remaining 38} loose-object
// directory layout used under .git/objects.
func (h Hash) FanoutPath() (dir, file string) {
	s := string(h)
	if len(s) < 2 {
		return s, ""
	}
	return s[:2], s[2:]
}

// Sha1Hex computes the lowercase hex SHA-1 digest of buf. Used to compute
// a decoded object's content address from its own bytes.
func Sha1Hex(buf []byte) string {
	sum := sha1.Sum(buf) //nolint:gosec // G401: content-addressing hash, not used for security
	return hex.EncodeToString(sum[:])
}
