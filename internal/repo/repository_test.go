package repo

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1" //nolint:gosec // test fixture builder, not a security use
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// writeObject zlib-compresses "<type> <size>\x00<content>" and writes it
// to the fanout path under gitDir/objects, returning its hash.
func writeObject(t *testing.T, gitDir, objType string, content []byte) string {
	t.Helper()

	header := objType + " " + strconv.Itoa(len(content)) + "\x00"
	full := append([]byte(header), content...)

	sum := sha1.Sum(full) //nolint:gosec
	hash := hex.EncodeToString(sum[:])

	dir := filepath.Join(gitDir, "objects", hash[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(full); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	path := filepath.Join(dir, hash[2:])
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return hash
}

func setupRepo(t *testing.T, branch string, headHash string) (repoPath, gitDir string) {
	t.Helper()
	repoPath = t.TempDir()
	gitDir = filepath.Join(repoPath, ".git")
	if err := os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/"+branch+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile HEAD: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "refs", "heads", branch), []byte(headHash+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile ref: %v", err)
	}
	return repoPath, gitDir
}

func TestOpenResolvesHeadAndBranch(t *testing.T) {
	repoPath, gitDir := setupRepo(t, "main", "0000000000000000000000000000000000000000")
	_ = gitDir

	r, err := Open(repoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.CurrentBranch() != "main" {
		t.Errorf("branch = %q, want main", r.CurrentBranch())
	}
	if string(r.Head()) != "0000000000000000000000000000000000000000" {
		t.Errorf("head = %s", r.Head())
	}
}

func TestOpenMissingHEAD(t *testing.T) {
	repoPath := t.TempDir()
	_, err := Open(repoPath)
	if !errors.Is(err, ErrRepositoryOpen) {
		t.Fatalf("err = %v, want ErrRepositoryOpen", err)
	}
}

func TestGetObjectNotFound(t *testing.T) {
	repoPath, _ := setupRepo(t, "main", "0000000000000000000000000000000000000000")
	r, err := Open(repoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, err = r.GetObject("0000000000000000000000000000000000000000")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestGetCommitsWalksFirstParentChain(t *testing.T) {
	repoPath, gitDir := setupRepo(t, "main", "")

	rootHash := writeObject(t, gitDir, "commit", []byte(
		"tree f170a88dea001046a4705aa4728c7d2fb48238b1\n"+
			"author A <a@x.com> 1000 +0000\n"+
			"committer A <a@x.com> 1000 +0000\n"+
			"\n"+
			"root commit\n"))

	childHash := writeObject(t, gitDir, "commit", []byte(
		"tree f170a88dea001046a4705aa4728c7d2fb48238b1\n"+
			"parent "+rootHash+"\n"+
			"author A <a@x.com> 2000 +0000\n"+
			"committer A <a@x.com> 2000 +0000\n"+
			"\n"+
			"child commit\n"))

	if err := os.WriteFile(filepath.Join(gitDir, "refs", "heads", "main"), []byte(childHash+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile ref: %v", err)
	}

	r, err := Open(repoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	commits, err := r.GetCommits()
	if err != nil {
		t.Fatalf("GetCommits: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("len(commits) = %d, want 2", len(commits))
	}
	if commits[0].Message != "child commit\n" {
		t.Errorf("commits[0].Message = %q", commits[0].Message)
	}
	if commits[1].Message != "root commit\n" {
		t.Errorf("commits[1].Message = %q", commits[1].Message)
	}
	if commits[1].Parent != nil {
		t.Errorf("commits[1].Parent = %v, want nil", commits[1].Parent)
	}
}

func TestGetCommitsAbortsOnFailure(t *testing.T) {
	repoPath, gitDir := setupRepo(t, "main", "")

	childHash := writeObject(t, gitDir, "commit", []byte(
		"tree f170a88dea001046a4705aa4728c7d2fb48238b1\n"+
			"parent 0000000000000000000000000000000000000000\n"+
			"author A <a@x.com> 2000 +0000\n"+
			"committer A <a@x.com> 2000 +0000\n"+
			"\n"+
			"child commit\n"))

	if err := os.WriteFile(filepath.Join(gitDir, "refs", "heads", "main"), []byte(childHash+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile ref: %v", err)
	}

	r, err := Open(repoPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	commits, err := r.GetCommits()
	if err == nil {
		t.Fatal("expected error walking to a missing parent")
	}
	if commits != nil {
		t.Errorf("commits = %v, want nil on failure", commits)
	}
}
