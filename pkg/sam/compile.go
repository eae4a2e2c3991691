package sam

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haroldo-ok/twee2sam/pkg/passage"
	"github.com/haroldo-ok/twee2sam/pkg/utils"
	"github.com/haroldo-ok/twee2sam/pkg/vfs"
)

// ErrMissingStart is returned when the document has no start passage.
var ErrMissingStart = errors.New("missing start passage")

// Options controls a compile. Zero fields take the value of DefaultOptions.
type Options struct {
	Start    string // passage that gets index 0
	AssetDir string // directory image and music references are relative to

	ScriptExt   string
	ScriptList  string
	ImageList   string
	MusicList   string
	Placeholder string // last entry of every asset manifest

	LabelWidth int // menu label characters
	BufferSize int // usable bytes of the VM text buffer
	TempBase   int // first temp register
	TempCount  int
	Quota      int // output disk size in bytes
}

// DefaultOptions returns the settings the VM expects.
func DefaultOptions() Options {
	return Options{
		Start:       "Start",
		AssetDir:    ".",
		ScriptExt:   ".twsam",
		ScriptList:  "Script.list.txt",
		ImageList:   "Images.txt",
		MusicList:   "Music.txt",
		Placeholder: "blank",
		LabelWidth:  28,
		BufferSize:  511,
		TempBase:    DefaultTempBase,
		TempCount:   DefaultTempCount,
		Quota:       vfs.DefaultQuota,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	setString := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setString(&o.Start, d.Start)
	setString(&o.AssetDir, d.AssetDir)
	setString(&o.ScriptExt, d.ScriptExt)
	setString(&o.ScriptList, d.ScriptList)
	setString(&o.ImageList, d.ImageList)
	setString(&o.MusicList, d.MusicList)
	setString(&o.Placeholder, d.Placeholder)
	setInt(&o.LabelWidth, d.LabelWidth)
	setInt(&o.BufferSize, d.BufferSize)
	setInt(&o.TempBase, d.TempBase)
	setInt(&o.TempCount, d.TempCount)
	setInt(&o.Quota, d.Quota)
	return o
}

// Result is the output of a compile, staged in memory.
type Result struct {
	Disk      *vfs.VirtualDisk
	Scripts   []string // script file names in passage index order
	Registers *Registers
}

// compiler is the state shared by every passage of one compile.
type compiler struct {
	doc  *passage.Document
	opts Options
	log  *slog.Logger

	index  map[string]int
	regs   *Registers
	temps  *TempPool
	images *assetList
	music  *assetList
}

// Compile turns a parsed document into VM scripts, manifests and assets on
// an in-memory disk. Problems inside a passage are logged and compilation
// goes on; only a missing start passage or a full disk stop it.
func Compile(doc *passage.Document, opts Options, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	opts = opts.withDefaults()

	order, index, err := indexPassages(doc, opts.Start)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		doc:    doc,
		opts:   opts,
		log:    log,
		index:  index,
		regs:   NewRegisters(opts.TempBase),
		temps:  NewTempPool(opts.TempBase, opts.TempCount),
		images: newAssetList(),
		music:  newAssetList(),
	}
	res := &Result{
		Disk:      vfs.NewVirtualDisk(opts.Quota),
		Scripts:   scriptNames(order, opts.ScriptExt),
		Registers: c.regs,
	}

	// Passages are emitted in index order, which fixes the order registers
	// are handed out in.
	for i, p := range order {
		c.temps.Reset()
		script := newEmitter(c, p.Title).script(p)
		if err := res.Disk.WriteString(res.Scripts[i], script); err != nil {
			return nil, err
		}
	}
	if err := res.Disk.WriteString(opts.ScriptList, strings.Join(res.Scripts, "\n")+"\n"); err != nil {
		return nil, err
	}
	c.reportVariables()

	if err := stageImages(res.Disk, c.images, opts, log); err != nil {
		return nil, err
	}
	if err := stageMusic(res.Disk, c.music, opts, log); err != nil {
		return nil, err
	}
	return res, nil
}

// indexPassages numbers the passages in discovery order, start first.
func indexPassages(doc *passage.Document, start string) ([]*passage.Passage, map[string]int, error) {
	first, ok := doc.Get(start)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingStart, start)
	}
	order := []*passage.Passage{first}
	index := map[string]int{start: 0}
	for _, p := range doc.Passages() {
		if _, seen := index[p.Title]; seen {
			continue
		}
		index[p.Title] = len(order)
		order = append(order, p)
	}
	return order, index, nil
}

// scriptNames derives a file name from every title. Titles that sanitize
// to the same identifier get the passage index appended.
func scriptNames(order []*passage.Passage, ext string) []string {
	names := make(nameSet)
	out := make([]string, len(order))
	for i, p := range order {
		out[i] = names.claim(utils.NameToIdentifier(p.Title), i) + ext
	}
	return out
}

func (c *compiler) reportVariables() {
	for _, name := range c.regs.Unset() {
		c.log.Warn("variable read but never set", "variable", name)
	}
	for _, name := range c.regs.Unused() {
		c.log.Warn("variable set but never read", "variable", name)
	}
}
