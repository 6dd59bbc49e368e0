// Package watch re-resolves a repository's HEAD whenever the underlying
// ref files change, without coordinating with or blocking a concurrent
// writer: every event triggers a full re-open and re-walk, never an
// incremental patch.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jrherrmann/glitzer/internal/gitobj"
	"github.com/jrherrmann/glitzer/internal/repo"
)

const debounceTime = 100 * time.Millisecond

// HeadChange is delivered whenever a watched repository's resolved HEAD
// hash changes.
type HeadChange struct {
	Repo *repo.Repository
	Head gitobj.Hash
}

// Watcher observes a repository's .git/HEAD and refs/heads tree and
// re-resolves HEAD on every relevant filesystem event.
type Watcher struct {
	repoPath string
	logger   *slog.Logger
}

// New returns a Watcher for the repository at repoPath.
func New(repoPath string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{repoPath: repoPath, logger: logger}
}

// Run blocks, emitting a HeadChange on changes whenever the resolved HEAD
// hash differs from the last one observed, until ctx is canceled. The
// first resolved HEAD is always emitted once at startup.
func (w *Watcher) Run(ctx context.Context, changes chan<- HeadChange) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close() //nolint:errcheck // best-effort cleanup on shutdown

	gitDir := filepath.Join(w.repoPath, ".git")
	if err := fw.Add(gitDir); err != nil {
		return err
	}
	walkAndWatch(fw, filepath.Join(gitDir, "refs", "heads"), w.logger)

	r, err := repo.Open(w.repoPath)
	if err != nil {
		return err
	}
	lastHead := r.Head()
	changes <- HeadChange{Repo: r, Head: lastHead}

	var debounceTimer *time.Timer
	debounced := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, func() {
				select {
				case debounced <- struct{}{}:
				default:
				}
			})

		case <-debounced:
			r, err := repo.Open(w.repoPath)
			if err != nil {
				w.logger.Warn("re-opening repository after change", "err", err)
				continue
			}
			if r.Head() == lastHead {
				continue
			}
			lastHead = r.Head()
			changes <- HeadChange{Repo: r, Head: lastHead}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// walkAndWatch adds fsnotify watches to dir and every subdirectory, so
// that branch creation/deletion under nested paths (refs/heads/feature/x)
// is observed too. Missing directories are silently skipped.
func walkAndWatch(fw *fsnotify.Watcher, dir string, logger *slog.Logger) {
	if err := fw.Add(dir); err != nil {
		return
	}
	entries, err := readDirNames(dir)
	if err != nil {
		return
	}
	for _, name := range entries {
		sub := filepath.Join(dir, name)
		if isDir(sub) {
			walkAndWatch(fw, sub, logger)
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	return false
}
