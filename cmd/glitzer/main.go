package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/jrherrmann/glitzer/internal/cli"
	"github.com/jrherrmann/glitzer/internal/repo"
	"github.com/jrherrmann/glitzer/internal/termcolor"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("glitzer", version)
	app.Stderr = os.Stderr

	// r is populated after dispatch determines the matched command needs
	// a pre-opened repository; closures capture the pointer variable.
	var r *repo.Repository

	app.Register(&cli.Command{
		Name:      "object",
		Summary:   "Decode and print a single object",
		Usage:     "glitzer object <hash>",
		Examples:  []string{"glitzer object e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runObject(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "history",
		Summary:   "Show first-parent commit history",
		Usage:     "glitzer history [-n <count>] [--oneline]",
		Examples:  []string{"glitzer history", "glitzer history --oneline -n5"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runHistory(r, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "changes",
		Summary:   "Show added/removed line counts across first-parent history",
		Usage:     "glitzer changes",
		NeedsRepo: true,
		Run:       func(args []string) int { return runChanges(r, args, cw) },
	})

	app.Register(&cli.Command{
		Name:    "watch",
		Summary: "Re-run changes whenever HEAD moves",
		Usage:   "glitzer watch",
		Run:     func(args []string) int { return runWatch(gf.repoPath, args, cw) },
	})

	app.Register(&cli.Command{
		Name:     "serve",
		Summary:  "Start the read-only HTTP+WebSocket dashboard",
		Usage:    "glitzer serve [--addr host:port]",
		Examples: []string{"glitzer serve", "glitzer serve --addr 127.0.0.1:9000"},
		Run:      func(args []string) int { return runServe(gf.repoPath, args) },
	})

	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "glitzer version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	if len(args) > 0 {
		cmd := app.Lookup(args[0])
		if cmd != nil && cmd.NeedsRepo {
			var err error
			r, err = repo.Open(gf.repoPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
	}

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("glitzer %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
