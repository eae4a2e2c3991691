// Command twee2sam compiles a Twee story into scripts for the SAM engine.
//
//	twee2sam [flags] sourcefiles destdir
//
// sourcefiles is a glob pattern. Settings not given as flags come from
// twee2sam.yaml in the current directory, or the file named by -config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/haroldo-ok/twee2sam/pkg/config"
	"github.com/haroldo-ok/twee2sam/pkg/logging"
	"github.com/haroldo-ok/twee2sam/pkg/passage"
	"github.com/haroldo-ok/twee2sam/pkg/sam"
	"github.com/haroldo-ok/twee2sam/pkg/twee"
	"github.com/haroldo-ok/twee2sam/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "usage: twee2sam [flags] sourcefiles destdir")
	fs.PrintDefaults()
}

// run is main without the exit, returning the process status: 0 on
// success, 1 when compilation failed and 2 for usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("twee2sam", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "project file (default: "+config.FileName+" if present)")
		author     = fs.String("a", "", "story author")
		merge      = fs.String("m", "", "TiddlyWiki HTML file to merge before the sources")
		rss        = fs.String("r", "", "also write an RSS feed to this file")
		start      = fs.String("s", "", "start passage")
		verbose    = fs.Bool("v", false, "log progress, not only problems")
		dumpRegs   = fs.Bool("regs", false, "print the register table after compiling")
	)
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "twee2sam:", err)
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.Author = *author
		case "m":
			cfg.Merge = *merge
		case "r":
			cfg.RSS = *rss
		case "s":
			cfg.Start = *start
		case "v":
			if *verbose {
				cfg.LogLevel = "info"
			}
		}
	})
	if fs.NArg() > 0 {
		cfg.Sources = []string{fs.Arg(0)}
	}
	if fs.NArg() > 1 {
		cfg.Destination = fs.Arg(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "twee2sam:", err)
		return 2
	}

	var sources []string
	for _, pattern := range cfg.Sources {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Fprintln(stderr, "twee2sam:", err)
			return 2
		}
		sources = append(sources, matches...)
	}
	if len(sources) == 0 {
		fmt.Fprintln(stderr, "twee2sam: no source files specified")
		usage(fs, stderr)
		return 2
	}
	if cfg.Destination == "" {
		fmt.Fprintln(stderr, "twee2sam: no destination directory specified")
		usage(fs, stderr)
		return 2
	}

	log := logging.NewLogger(stderr, cfg.Level())
	story, err := readStory(cfg, sources, log)
	if err != nil {
		fmt.Fprintln(stderr, "twee2sam:", err)
		return 1
	}

	assetDir := cfg.Assets
	if assetDir == "" {
		_, assetDir, err = utils.GetPathInfo(sources[0])
		if err != nil {
			fmt.Fprintln(stderr, "twee2sam:", err)
			return 1
		}
	}

	doc := passage.FromStory(story, log)
	res, err := sam.Compile(doc, cfg.CompileOptions(assetDir), log)
	if err != nil {
		fmt.Fprintln(stderr, "twee2sam:", err)
		return 1
	}
	if err := res.Disk.Flush(cfg.Destination); err != nil {
		fmt.Fprintln(stderr, "twee2sam: cannot write output:", err)
		return 1
	}
	log.Info("compiled", "passages", doc.Len(), "files", len(res.Disk.List()), "free", res.Disk.FreeSpace(), "destination", cfg.Destination)

	if cfg.RSS != "" {
		feed, err := story.ToRSS(cfg.RSSItems)
		if err == nil {
			err = os.WriteFile(cfg.RSS, feed, 0644)
		}
		if err != nil {
			fmt.Fprintln(stderr, "twee2sam: cannot write RSS:", err)
			return 1
		}
	}
	if *dumpRegs {
		fmt.Fprint(stdout, res.Registers)
	}
	return 0
}

// loadConfig reads the named project file, or the default one when it
// exists.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(config.FileName)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// readStory builds the story from the merge file, then every source in
// order.
func readStory(cfg *config.Config, sources []string, log *slog.Logger) (*twee.Story, error) {
	story := twee.NewStory(cfg.Author)
	story.Log = log
	if cfg.Merge != "" {
		data, err := os.ReadFile(cfg.Merge)
		if err != nil {
			return nil, err
		}
		story.AddHTML(string(data))
	}
	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		story.AddTwee(string(data))
	}
	return story, nil
}
