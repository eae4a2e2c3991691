// Package vfs is the in-memory disk the compiler writes its output to.
// Nothing touches the destination directory until the whole story compiled,
// then Flush copies the disk out in one go.
package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
)

// DefaultQuota is the default disk size in bytes (8MB), well above what a
// story for the target usually needs.
const DefaultQuota = 8 << 20

// validFilename accepts identifier-like names with dotted extensions, as
// produced for scripts, manifests and assets. No directories.
var validFilename = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)*$`)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrQuotaExceeded   = errors.New("disk quota exceeded")
)

type FileEntry struct {
	Data []byte
}

// VirtualDisk represents an in-memory virtual file system.
type VirtualDisk struct {
	Mu        sync.RWMutex
	Files     map[string]*FileEntry
	UsedBytes int
	Quota     int
}

// NewVirtualDisk creates an empty disk holding at most quota bytes. A
// quota of zero or less means DefaultQuota.
func NewVirtualDisk(quota int) *VirtualDisk {
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &VirtualDisk{
		Files: make(map[string]*FileEntry),
		Quota: quota,
	}
}

// ValidFilename reports whether name can be stored on the disk.
func ValidFilename(name string) bool {
	return validFilename.MatchString(name)
}

// Write writes data to a file on the virtual disk.
// It validates the filename, checks for disk quota, and deep copies the data.
// If the file already exists, it is overwritten, and the quota usage is updated accordingly.
func (vd *VirtualDisk) Write(filename string, data []byte) error {
	vd.Mu.Lock()
	defer vd.Mu.Unlock()

	if !validFilename.MatchString(filename) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	oldSize := 0
	if existing, ok := vd.Files[filename]; ok {
		oldSize = len(existing.Data)
	}

	newSize := len(data)
	if free := vd.free() + oldSize; newSize > free {
		return fmt.Errorf("%w: writing %s needs %d bytes, %d free", ErrQuotaExceeded, filename, newSize, free)
	}

	// Deep copy data to prevent external mutations
	newData := make([]byte, newSize)
	copy(newData, data)

	vd.Files[filename] = &FileEntry{Data: newData}
	vd.UsedBytes = vd.UsedBytes - oldSize + newSize
	return nil
}

// WriteString is Write for text files.
func (vd *VirtualDisk) WriteString(filename, s string) error {
	return vd.Write(filename, []byte(s))
}

// Read reads data from a file on the virtual disk.
// It returns the file data if it exists, or an error if the file is not found or the filename is invalid.
func (vd *VirtualDisk) Read(filename string) ([]byte, error) {
	vd.Mu.RLock()
	defer vd.Mu.RUnlock()

	if !validFilename.MatchString(filename) {
		return nil, ErrInvalidFilename
	}

	entry, ok := vd.Files[filename]
	if !ok {
		return nil, ErrFileNotFound
	}

	return entry.Data, nil
}

// FreeSpace returns the number of free bytes on the disk.
func (vd *VirtualDisk) FreeSpace() int {
	vd.Mu.RLock()
	defer vd.Mu.RUnlock()
	return vd.free()
}

// free is FreeSpace for callers already holding the lock.
func (vd *VirtualDisk) free() int {
	return vd.Quota - vd.UsedBytes
}

// List returns a sorted list of all filenames in the VFS.
func (vd *VirtualDisk) List() []string {
	vd.Mu.RLock()
	defer vd.Mu.RUnlock()

	keys := make([]string, 0, len(vd.Files))
	for k := range vd.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flush writes every file of the disk into the host directory dir, which
// is created if it does not exist. Files are written in name order; the
// first failure stops the flush.
func (vd *VirtualDisk) Flush(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Snapshot under the read lock, then release before doing I/O.
	vd.Mu.RLock()
	names := make([]string, 0, len(vd.Files))
	snapshot := make(map[string][]byte, len(vd.Files))
	for name, entry := range vd.Files {
		names = append(names, name)
		snapshot[name] = entry.Data
	}
	vd.Mu.RUnlock()
	sort.Strings(names)

	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), snapshot[name], 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
