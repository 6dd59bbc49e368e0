// Package repo exposes a read-only Git repository façade: object lookup
// by hash and head-anchored first-parent commit history.
package repo

import "errors"

// ErrRepositoryOpen covers failures resolving HEAD or a ref during Open.
var ErrRepositoryOpen = errors.New("repo: failed to open repository")

// ErrObjectNotFound covers a fanout path with no corresponding object file.
var ErrObjectNotFound = errors.New("repo: object not found")

// ErrNotACommit covers a hash in the history chain that resolves to a
// non-commit object.
var ErrNotACommit = errors.New("repo: object is not a commit")
