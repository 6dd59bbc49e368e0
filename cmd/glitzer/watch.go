package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrherrmann/glitzer/internal/diff"
	"github.com/jrherrmann/glitzer/internal/termcolor"
	"github.com/jrherrmann/glitzer/internal/watch"
)

// runWatch re-resolves HEAD whenever .git/HEAD or the checked-out ref
// changes, printing the latest commit's line-change summary against its
// parent each time. It runs until interrupted.
func runWatch(repoPath string, _ []string, cw *termcolor.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := watch.New(repoPath, slog.Default())
	changes := make(chan watch.HeadChange, 4)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, changes) }()

	for {
		select {
		case c := <-changes:
			printHeadChange(c, cw)
		case err := <-done:
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			return 0
		}
	}
}

func printHeadChange(c watch.HeadChange, cw *termcolor.Writer) {
	fmt.Printf("%s %s\n", cw.Yellow("HEAD ->"), cw.Yellow(string(c.Head)))

	commit, err := c.Repo.GetCommit(c.Head)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	if commit.Parent == nil {
		fmt.Println("  (root commit, nothing to compare)")
		return
	}
	parent, err := c.Repo.GetCommit(*commit.Parent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	cd, err := diff.DiffCommits(parent, commit, c.Repo.GetObject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	fmt.Printf("  %s %s\n", cw.Green(fmt.Sprintf("+%d", cd.Added)), cw.Red(fmt.Sprintf("-%d", cd.Removed)))
}
