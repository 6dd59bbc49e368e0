package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrherrmann/glitzer/internal/dashboard"
)

const defaultServeAddr = "127.0.0.1:8080"

// runServe starts the read-only dashboard HTTP+WebSocket server and
// blocks until interrupted.
func runServe(repoPath string, args []string) int {
	addr := defaultServeAddr
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--addr" && i+1 < len(args):
			i++
			addr = args[i]
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown option: %q\n", args[i])
			return 1
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := dashboard.New(repoPath, addr, slog.Default())
	if err := s.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
