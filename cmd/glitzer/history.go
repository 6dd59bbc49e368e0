package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jrherrmann/glitzer/internal/progress"
	"github.com/jrherrmann/glitzer/internal/repo"
	"github.com/jrherrmann/glitzer/internal/termcolor"
)

func runHistory(r *repo.Repository, args []string, cw *termcolor.Writer) int {
	maxCount := 0
	oneline := false

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--oneline":
			oneline = true
		case args[i] == "-n" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid -n value: %q\n", args[i])
				return 1
			}
			maxCount = n
		case strings.HasPrefix(args[i], "-n"):
			n, err := strconv.Atoi(args[i][2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid -n value: %q\n", args[i][2:])
				return 1
			}
			maxCount = n
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown option: %q\n", args[i])
			return 1
		}
	}

	spin := progress.New("walking first-parent history")
	spin.Start()
	commits, err := r.GetCommits()
	spin.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if maxCount > 0 && len(commits) > maxCount {
		commits = commits[:maxCount]
	}

	for i, c := range commits {
		if oneline {
			fmt.Printf("%s %s\n", cw.Yellow(c.Hash.Short()), firstLine(c.Message))
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s %s\n", cw.Yellow("commit"), cw.Yellow(string(c.Hash)))
		fmt.Printf("Author: %s <%s>\n", c.Author.Name, c.Author.Email)
		fmt.Printf("Date:   %s\n", c.AuthoredAt.Format("Mon Jan 2 15:04:05 2006 -0700"))
		fmt.Println()
		for _, line := range strings.Split(c.Message, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}

	return 0
}

func firstLine(msg string) string {
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		return msg[:idx]
	}
	return msg
}
