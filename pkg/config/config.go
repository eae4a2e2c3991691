// Package config reads the twee2sam project file, twee2sam.yaml:
//
//	start: Start
//	author: me
//	sources: ["story/*.tw"]
//	destination: out
//	limits:
//	  label_width: 28
//	  buffer_size: 511
//
// Every field is optional; command-line flags override the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/haroldo-ok/twee2sam/pkg/sam"
	"github.com/haroldo-ok/twee2sam/pkg/vfs"
)

// FileName is the project file looked up next to the story sources.
const FileName = "twee2sam.yaml"

// maxRegister is the highest register id of the VM.
const maxRegister = 255

// Config represents a twee2sam project.
type Config struct {
	// Start is the passage the story begins with. It gets index 0.
	Start string `yaml:"start"`

	// Author is recorded in TiddlyWiki and RSS output.
	Author string `yaml:"author"`

	// Sources are glob patterns of Twee files, read in order.
	Sources []string `yaml:"sources"`

	// Merge is an optional TiddlyWiki HTML file whose passages are read
	// before the sources.
	Merge string `yaml:"merge,omitempty"`

	// Destination is the directory the scripts and assets are written to.
	Destination string `yaml:"destination"`

	// Assets is the directory image and music references are relative to.
	// Defaults to the directory of the first source.
	Assets string `yaml:"assets,omitempty"`

	// RSS, when set, is a file receiving an RSS feed of the story.
	RSS      string `yaml:"rss,omitempty"`
	RSSItems int    `yaml:"rss_items,omitempty"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	Manifests Manifests `yaml:"manifests"`
	Limits    Limits    `yaml:"limits"`
}

// Manifests names the generated list files.
type Manifests struct {
	Scripts     string `yaml:"scripts"`
	Images      string `yaml:"images"`
	Music       string `yaml:"music"`
	Placeholder string `yaml:"placeholder"`
}

// Limits describes the target VM.
type Limits struct {
	LabelWidth int `yaml:"label_width"`
	BufferSize int `yaml:"buffer_size"`
	TempBase   int `yaml:"temp_base"`
	TempCount  int `yaml:"temp_count"`
	DiskQuota  int `yaml:"disk_quota"`
}

// Default returns the configuration used when there is no project file.
func Default() *Config {
	opts := sam.DefaultOptions()
	return &Config{
		Start:    opts.Start,
		Author:   "twee",
		LogLevel: "warn",
		RSSItems: 10,
		Manifests: Manifests{
			Scripts:     opts.ScriptList,
			Images:      opts.ImageList,
			Music:       opts.MusicList,
			Placeholder: opts.Placeholder,
		},
		Limits: Limits{
			LabelWidth: opts.LabelWidth,
			BufferSize: opts.BufferSize,
			TempBase:   opts.TempBase,
			TempCount:  opts.TempCount,
			DiskQuota:  opts.Quota,
		},
	}
}

// Load reads a project file. Fields missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses project file content. The path argument is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the compiler or the VM cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Start) == "" {
		return fmt.Errorf("start passage must not be empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	for field, name := range map[string]string{
		"manifests.scripts":     c.Manifests.Scripts,
		"manifests.images":      c.Manifests.Images,
		"manifests.music":       c.Manifests.Music,
		"manifests.placeholder": c.Manifests.Placeholder,
	} {
		if !vfs.ValidFilename(name) {
			return fmt.Errorf("%s: invalid file name %q", field, name)
		}
	}

	l := c.Limits
	switch {
	case l.LabelWidth < 1:
		return fmt.Errorf("limits.label_width must be positive, got %d", l.LabelWidth)
	case l.BufferSize < 1 || l.BufferSize > 511:
		return fmt.Errorf("limits.buffer_size must be between 1 and 511, got %d", l.BufferSize)
	case l.TempBase <= sam.FirstNumeric:
		return fmt.Errorf("limits.temp_base must be above %d, got %d", sam.FirstNumeric, l.TempBase)
	case l.TempCount < 1 || l.TempBase+l.TempCount-1 > maxRegister:
		return fmt.Errorf("limits: temp registers %d..%d out of range", l.TempBase, l.TempBase+l.TempCount-1)
	case l.DiskQuota < 1:
		return fmt.Errorf("limits.disk_quota must be positive, got %d", l.DiskQuota)
	case c.RSSItems < 1:
		return fmt.Errorf("rss_items must be positive, got %d", c.RSSItems)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// CompileOptions converts the project settings for sam.Compile.
func (c *Config) CompileOptions(assetDir string) sam.Options {
	opts := sam.DefaultOptions()
	opts.Start = c.Start
	opts.AssetDir = assetDir
	opts.ScriptList = c.Manifests.Scripts
	opts.ImageList = c.Manifests.Images
	opts.MusicList = c.Manifests.Music
	opts.Placeholder = c.Manifests.Placeholder
	opts.LabelWidth = c.Limits.LabelWidth
	opts.BufferSize = c.Limits.BufferSize
	opts.TempBase = c.Limits.TempBase
	opts.TempCount = c.Limits.TempCount
	opts.Quota = c.Limits.DiskQuota
	return opts
}
