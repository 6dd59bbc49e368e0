package main

import (
	"fmt"
	"os"

	"github.com/jrherrmann/glitzer/internal/gitobj"
	"github.com/jrherrmann/glitzer/internal/repo"
)

func runObject(r *repo.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: glitzer object <hash>")
		return 1
	}

	hash, err := gitobj.NewHash(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	obj, err := r.GetObject(hash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch v := obj.(type) {
	case *gitobj.Blob:
		_, _ = os.Stdout.Write(v.Content)
	case *gitobj.Tree:
		printTree(v)
	case *gitobj.Commit:
		printCommit(v)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported object type %s\n", obj.Type())
		return 1
	}

	return 0
}

func printTree(t *gitobj.Tree) {
	for _, e := range t.Entries {
		fmt.Printf("%s %s\t%s\n", e.Mode, e.Hash, e.Name)
	}
}

func printCommit(c *gitobj.Commit) {
	fmt.Printf("tree %s\n", c.Tree)
	if c.Parent != nil {
		fmt.Printf("parent %s\n", *c.Parent)
	}
	fmt.Printf("author %s <%s> %d +0000\n", c.Author.Name, c.Author.Email, c.AuthoredAt.Unix())
	fmt.Printf("committer %s <%s> %d +0000\n", c.Committer.Name, c.Committer.Email, c.CommittedAt.Unix())
	fmt.Println()
	fmt.Println(c.Message)
}
