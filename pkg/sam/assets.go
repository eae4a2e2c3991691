package sam

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/haroldo-ok/twee2sam/pkg/utils"
	"github.com/haroldo-ok/twee2sam/pkg/vfs"
)

// assetList keeps asset references deduplicated, in first-reference order.
// The position of a reference is the number the VM uses for it.
type assetList struct {
	refs  []string
	index map[string]int
}

func newAssetList() *assetList {
	return &assetList{index: make(map[string]int)}
}

func (l *assetList) add(ref string) int {
	if n, ok := l.index[ref]; ok {
		return n
	}
	n := len(l.refs)
	l.index[ref] = n
	l.refs = append(l.refs, ref)
	return n
}

// nameSet hands out identifiers, suffixing repeats so that two different
// sources never end up under the same file name.
type nameSet map[string]bool

func (s nameSet) claim(name string, n int) string {
	for s[name] {
		name = fmt.Sprintf("%s_%d", name, n)
	}
	s[name] = true
	return name
}

// stageImages copies the referenced images to the disk as PNG files named
// after their identifiers and writes the manifest. Images in another format
// the decoders understand are converted; anything else is copied verbatim.
func stageImages(disk *vfs.VirtualDisk, list *assetList, opts Options, log *slog.Logger) error {
	names := make(nameSet)
	var manifest strings.Builder
	for i, ref := range list.refs {
		name := names.claim(utils.AssetIdentifier(ref), i)
		manifest.WriteString(name + "\n")

		data, ok := readAsset(opts.AssetDir, ref, log)
		if !ok {
			continue
		}
		if !strings.EqualFold(path.Ext(ref), ".png") {
			data = toPNG(ref, data, log)
		}
		if err := disk.Write(name+".png", data); err != nil {
			return err
		}
	}
	manifest.WriteString(opts.Placeholder + "\n")
	return disk.WriteString(opts.ImageList, manifest.String())
}

// stageMusic copies the referenced tunes, keeping their extension, and
// writes the manifest.
func stageMusic(disk *vfs.VirtualDisk, list *assetList, opts Options, log *slog.Logger) error {
	names := make(nameSet)
	var manifest strings.Builder
	for i, ref := range list.refs {
		name := names.claim(utils.AssetIdentifier(ref), i)
		manifest.WriteString(name + "\n")

		data, ok := readAsset(opts.AssetDir, ref, log)
		if !ok {
			continue
		}
		file := name + strings.ToLower(path.Ext(ref))
		if !vfs.ValidFilename(file) {
			file = name
		}
		if err := disk.Write(file, data); err != nil {
			return err
		}
	}
	manifest.WriteString(opts.Placeholder + "\n")
	return disk.WriteString(opts.MusicList, manifest.String())
}

// readAsset loads a referenced file relative to dir. A missing file keeps
// its manifest slot, so the numbers in the scripts stay valid, and is
// reported.
func readAsset(dir, ref string, log *slog.Logger) ([]byte, bool) {
	p := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/")))
	data, err := os.ReadFile(p)
	if err != nil {
		log.Warn("cannot read asset", "asset", ref, "error", err)
		return nil, false
	}
	return data, true
}

func toPNG(ref string, data []byte, log *slog.Logger) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn("unknown image format, copied as is", "asset", ref)
		return data
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Warn("cannot convert image", "asset", ref, "format", format, "error", err)
		return data
	}
	return buf.Bytes()
}
