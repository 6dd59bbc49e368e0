// Package dashboard exposes a small read-only HTTP+WebSocket façade over
// the repository/diff core: a JSON history and commit-diff API, plus a
// socket that pushes the latest aggregate change summary whenever
// internal/watch observes HEAD move. It introduces no new way of
// reading a loose object or deciding commit order — everything here
// calls into internal/repo and internal/diff.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jrherrmann/glitzer/internal/gitobj"
	"github.com/jrherrmann/glitzer/internal/repo"
	"github.com/jrherrmann/glitzer/internal/watch"
)

const defaultCacheSize = 256

// Server serves the dashboard API for a single repository.
type Server struct {
	repoPath string
	addr     string
	logger   *slog.Logger

	rateLimiter *rateLimiter
	hub         *hub
	httpServer  *http.Server

	mu        sync.RWMutex
	current   *repo.Repository
	cacheSize int
	objCache  map[gitobj.Hash]gitobj.Object

	wg sync.WaitGroup
}

// New constructs a Server for the repository at repoPath, bound to addr
// (e.g. "127.0.0.1:8080").
func New(repoPath, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		repoPath:    repoPath,
		addr:        addr,
		logger:      logger,
		rateLimiter: newRateLimiter(100, 200, time.Second),
		hub:         newHub(),
		cacheSize:   readCacheSize(),
		objCache:    make(map[gitobj.Hash]gitobj.Object),
	}
}

func readCacheSize() int {
	size := defaultCacheSize
	if raw := os.Getenv("GLITZER_CACHE_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	return size
}

// Run opens the repository, starts the HEAD watcher and HTTP server, and
// blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	r, err := repo.Open(s.repoPath)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	s.setRepo(r)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/history", s.rateLimiter.middleware(s.handleHistory))
	mux.HandleFunc("GET /api/commit/{hash}", s.rateLimiter.middleware(s.handleCommit))
	mux.HandleFunc("GET /api/object/{hash}", s.rateLimiter.middleware(s.handleObject))
	mux.HandleFunc("GET /api/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	w := watch.New(s.repoPath, s.logger)
	headChanges := make(chan watch.HeadChange, 4)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := w.Run(ctx, headChanges); err != nil {
			s.logger.Warn("watcher stopped", "err", err)
		}
	}()
	go func() {
		defer s.wg.Done()
		s.consumeHeadChanges(ctx, headChanges)
	}()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.addr, "cacheSize", s.cacheSize)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		s.rateLimiter.Close()
		s.wg.Wait()
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) consumeHeadChanges(ctx context.Context, changes <-chan watch.HeadChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			s.setRepo(c.Repo)
			s.broadcastHead(c.Head)
		}
	}
}

func (s *Server) setRepo(r *repo.Repository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = r
	s.objCache = make(map[gitobj.Hash]gitobj.Object)
}

func (s *Server) repository() *repo.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// getObject resolves hash through a small bounded cache before falling
// back to the repository; no eviction policy beyond "clear on HEAD
// change" is mandated, matching spec.md §3's lifecycle note that caching
// is permitted but its consistency is unspecified.
func (s *Server) getObject(hash gitobj.Hash) (gitobj.Object, error) {
	s.mu.RLock()
	if obj, ok := s.objCache[hash]; ok {
		s.mu.RUnlock()
		return obj, nil
	}
	r := s.current
	s.mu.RUnlock()

	obj, err := r.GetObject(hash)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if len(s.objCache) < s.cacheSize {
		s.objCache[hash] = obj
	}
	s.mu.Unlock()

	return obj, nil
}
