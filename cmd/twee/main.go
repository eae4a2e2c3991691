// Command twee reads Twee sources and prints what the compiler sees: the
// parsed commands of every passage. It can also convert the story to
// TiddlyWiki HTML, back to Twee, or to an RSS feed.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/haroldo-ok/twee2sam/pkg/logging"
	"github.com/haroldo-ok/twee2sam/pkg/passage"
	"github.com/haroldo-ok/twee2sam/pkg/twee"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("twee", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		author = fs.String("a", "twee", "story author")
		merge  = fs.String("m", "", "TiddlyWiki HTML file to merge before the sources")
		rss    = fs.String("r", "", "write an RSS feed to this file")
		items  = fs.Int("n", 10, "number of RSS items")
		format = fs.String("f", "tree", "output: tree, twee or html")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: twee [flags] sourcefiles...")
		fs.PrintDefaults()
		return 2
	}

	rec := logging.NewRecorder()
	story := twee.NewStory(*author)
	story.Log = rec.Logger()
	if *merge != "" {
		data, err := os.ReadFile(*merge)
		if err != nil {
			fmt.Fprintln(stderr, "read error:", err)
			return 1
		}
		story.AddHTML(string(data))
	}
	for _, pattern := range fs.Args() {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Fprintln(stderr, "twee:", err)
			return 2
		}
		for _, src := range matches {
			data, err := os.ReadFile(src)
			if err != nil {
				fmt.Fprintln(stderr, "read error:", err)
				return 1
			}
			story.AddTwee(string(data))
		}
	}

	switch *format {
	case "tree":
		doc := passage.FromStory(story, rec.Logger())
		fmt.Fprintf(stdout, "Passages (%d)\n", doc.Len())
		for _, p := range doc.Passages() {
			fmt.Fprintln(stdout, p)
		}
		if entries := rec.Entries(); len(entries) > 0 {
			fmt.Fprintf(stdout, "Diagnostics (%d)\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(stdout, "  '%s': %s\n", e.Passage, e.Message)
			}
		}
	case "twee":
		fmt.Fprint(stdout, story.ToTwee())
	case "html":
		fmt.Fprint(stdout, story.ToHTML())
	default:
		fmt.Fprintf(stderr, "twee: unknown format %q\n", *format)
		return 2
	}

	if *rss != "" {
		feed, err := story.ToRSS(*items)
		if err == nil {
			err = os.WriteFile(*rss, feed, 0644)
		}
		if err != nil {
			fmt.Fprintln(stderr, "rss error:", err)
			return 1
		}
	}
	return 0
}
