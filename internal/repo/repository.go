package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrherrmann/glitzer/internal/gitobj"
)

// Repository is a resolved handle onto a Git repository's object store.
// head is resolved once at construction and never re-read; a writer
// mutating refs underneath an open Repository is not observed.
type Repository struct {
	path          string
	head          gitobj.Hash
	currentBranch string
}

// Open resolves HEAD → ref → commit hash for the repository rooted at
// path. path is expected to contain a .git directory in the canonical
// non-bare layout.
func Open(path string) (*Repository, error) {
	headPath := filepath.Join(path, ".git", "HEAD")
	//nolint:gosec // G304: path is supplied by the operator running the CLI, not untrusted input
	headBytes, err := os.ReadFile(headPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading HEAD: %v", ErrRepositoryOpen, err)
	}

	headLine := strings.TrimSpace(string(headBytes))
	const refPrefix = "ref: "
	if !strings.HasPrefix(headLine, refPrefix) {
		return nil, fmt.Errorf("%w: HEAD is not a symbolic ref: %q", ErrRepositoryOpen, headLine)
	}
	refPath := strings.TrimPrefix(headLine, refPrefix)

	//nolint:gosec // G304: refPath comes from the repository's own HEAD file
	refBytes, err := os.ReadFile(filepath.Join(path, ".git", filepath.FromSlash(refPath)))
	if err != nil {
		return nil, fmt.Errorf("%w: reading ref %s: %v", ErrRepositoryOpen, refPath, err)
	}
	head, err := gitobj.NewHash(strings.TrimSpace(string(refBytes)))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hash in ref %s: %v", ErrRepositoryOpen, refPath, err)
	}

	currentBranch := strings.TrimPrefix(refPath, "refs/heads/")

	return &Repository{
		path:          path,
		head:          head,
		currentBranch: currentBranch,
	}, nil
}

// Path returns the repository's root directory as passed to Open.
func (r *Repository) Path() string { return r.path }

// Head returns the commit hash HEAD resolved to at construction time.
func (r *Repository) Head() gitobj.Hash { return r.head }

// CurrentBranch returns the tail of the symbolic ref HEAD pointed to, or
// the ref path verbatim if it wasn't under refs/heads/.
func (r *Repository) CurrentBranch() string { return r.currentBranch }

// GetObject decodes the loose object identified by hash.
func (r *Repository) GetObject(hash gitobj.Hash) (gitobj.Object, error) {
	dir, file := hash.FanoutPath()
	objPath := filepath.Join(r.path, ".git", "objects", dir, file)

	obj, err := gitobj.DecodeObject(objPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, hash)
		}
		return nil, fmt.Errorf("repo: %s: %w", hash, err)
	}
	return obj, nil
}

// GetCommit fetches the object at hash and asserts it is a commit.
func (r *Repository) GetCommit(hash gitobj.Hash) (*gitobj.Commit, error) {
	obj, err := r.GetObject(hash)
	if err != nil {
		return nil, err
	}
	commit, ok := obj.(*gitobj.Commit)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotACommit, hash, obj.Type())
	}
	return commit, nil
}

// GetCommits walks the first-parent history from HEAD and returns commits
// newest-first. It aborts and discards collected commits on the first
// failure — a partial walk is never returned, matching the construction
// contract that callers see either a complete result or an error.
func (r *Repository) GetCommits() ([]*gitobj.Commit, error) {
	var commits []*gitobj.Commit

	current := r.head
	for {
		commit, err := r.GetCommit(current)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)

		if commit.Parent == nil {
			break
		}
		current = *commit.Parent
	}

	return commits, nil
}
