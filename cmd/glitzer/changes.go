package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/jrherrmann/glitzer/internal/diff"
	"github.com/jrherrmann/glitzer/internal/progress"
	"github.com/jrherrmann/glitzer/internal/repo"
	"github.com/jrherrmann/glitzer/internal/termcolor"
)

type changeRow struct {
	hash           string
	added, removed uint64
}

// runChanges walks consecutive commit pairs in the first-parent history,
// newest-first, and prints the intersection-only line-change summary for
// each pair plus a running total. The oldest commit (no parent) has
// nothing to compare against and is skipped. With --stat, the per-commit
// breakdown is rendered as a table instead of plain lines.
func runChanges(r *repo.Repository, args []string, cw *termcolor.Writer) int {
	stat := false
	for _, a := range args {
		switch a {
		case "--stat":
			stat = true
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown option: %q\n", a)
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

	var rows []changeRow
	var totalAdded, totalRemoved uint64

	for i := 0; i < len(commits)-1; i++ {
		newer, older := commits[i], commits[i+1]
		cd, err := diff.DiffCommits(older, newer, r.GetObject)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		totalAdded += cd.Added
		totalRemoved += cd.Removed
		rows = append(rows, changeRow{hash: newer.Hash.Short(), added: cd.Added, removed: cd.Removed})
	}

	if stat {
		printChangesTable(rows)
	} else {
		for _, rw := range rows {
			fmt.Printf("%s  %s %s\n",
				cw.Yellow(rw.hash),
				cw.Green(fmt.Sprintf("+%d", rw.added)),
				cw.Red(fmt.Sprintf("-%d", rw.removed)))
		}
	}

	fmt.Printf("\n%d commits, +%d -%d, net %+d\n",
		len(commits), totalAdded, totalRemoved, int64(totalAdded)-int64(totalRemoved))

	return 0
}

func printChangesTable(rows []changeRow) {
	data := pterm.TableData{{"commit", "added", "removed"}}
	for _, rw := range rows {
		data = append(data, []string{rw.hash, strconv.FormatUint(rw.added, 10), strconv.FormatUint(rw.removed, 10)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
