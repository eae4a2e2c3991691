package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestVirtualDisk_Write(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		data         []byte
		expectError  error
		expectedUsed int
	}{
		{
			name:         "Script",
			filename:     "The_Cave.twsam",
			data:         []byte("\"Hi\"\n!\n"),
			expectedUsed: 7,
		},
		{
			name:         "Manifest with two dots",
			filename:     "Script.list.txt",
			data:         []byte("Start.twsam\n"),
			expectedUsed: 12,
		},
		{
			name:        "Spaces",
			filename:    "The Cave.twsam",
			data:        []byte{1},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "Path traversal",
			filename:    "../passwd",
			data:        []byte{1},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "Subdirectory",
			filename:    "img/cave.png",
			data:        []byte{1},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "Quota exceeded",
			filename:    "big.bin",
			data:        make([]byte, DefaultQuota+1),
			expectError: ErrQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vd := NewVirtualDisk(0)
			err := vd.Write(tt.filename, tt.data)

			if !errors.Is(err, tt.expectError) {
				t.Fatalf("Write() error = %v, want %v", err, tt.expectError)
			}
			if tt.expectError != nil {
				if vd.UsedBytes != 0 {
					t.Errorf("failed write used %d bytes", vd.UsedBytes)
				}
				return
			}
			if vd.UsedBytes != tt.expectedUsed {
				t.Errorf("UsedBytes = %d, expected %d", vd.UsedBytes, tt.expectedUsed)
			}
			stored, ok := vd.Files[tt.filename]
			if !ok {
				t.Fatalf("File %s not found in map", tt.filename)
			}
			if !reflect.DeepEqual(stored.Data, tt.data) {
				t.Errorf("Stored data = %v, expected %v", stored.Data, tt.data)
			}
		})
	}
}

func TestVirtualDisk_Read(t *testing.T) {
	vd := NewVirtualDisk(0)
	data := []byte{10, 20, 30}
	if err := vd.Write("test.txt", data); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		filename    string
		expectError error
	}{
		{"Read existing file", "test.txt", nil},
		{"Read non-existent file", "missing.txt", ErrFileNotFound},
		{"Read invalid filename", "../passwd", ErrInvalidFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vd.Read(tt.filename)
			if err != tt.expectError {
				t.Fatalf("Read() error = %v, want %v", err, tt.expectError)
			}
			if err == nil && !reflect.DeepEqual(got, data) {
				t.Errorf("Read() got = %v, want %v", got, data)
			}
		})
	}

}

func TestVirtualDisk_UpdateFileSize(t *testing.T) {
	vd := NewVirtualDisk(0)
	filename := "update.txt"

	steps := []struct {
		data []byte
		used int
	}{
		{[]byte{1, 2, 3, 4, 5}, 5},
		{[]byte{1, 2, 3, 4, 5, 6, 7}, 7},
		{[]byte{1, 2}, 2},
	}
	for i, s := range steps {
		if err := vd.Write(filename, s.data); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
		if vd.UsedBytes != s.used {
			t.Errorf("UsedBytes after write %d = %d, expected %d", i, vd.UsedBytes, s.used)
		}
	}
}

func TestVirtualDisk_DeepCopy(t *testing.T) {
	vd := NewVirtualDisk(0)
	data := []byte{1, 2, 3}

	if err := vd.Write("mutable.txt", data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data[0] = 99

	readData, err := vd.Read("mutable.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if readData[0] == 99 {
		t.Error("Write did not perform a deep copy; mutation of source affected stored data")
	}
}

func TestVirtualDisk_QuotaExact(t *testing.T) {
	vd := NewVirtualDisk(10)

	if err := vd.Write("file1.bin", make([]byte, 9)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	err := vd.Write("file2.bin", []byte{1, 2})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Expected quota error, got %v", err)
	} else if !strings.Contains(err.Error(), "needs 2 bytes, 1 free") {
		t.Errorf("quota error should tell the free space: %v", err)
	}
	if err := vd.Write("file2.bin", []byte{1}); err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if vd.UsedBytes != 10 || vd.FreeSpace() != 0 {
		t.Errorf("UsedBytes = %d, FreeSpace = %d", vd.UsedBytes, vd.FreeSpace())
	}
}

func TestVirtualDisk_List(t *testing.T) {
	vd := NewVirtualDisk(0)
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		vd.WriteString(name, "x")
	}

	expected := []string{"a.txt", "b.txt", "c.txt"}
	if list := vd.List(); !reflect.DeepEqual(list, expected) {
		t.Errorf("List = %v, expected %v", list, expected)
	}
	if vd.UsedBytes != 3 || vd.FreeSpace() != DefaultQuota-3 {
		t.Errorf("UsedBytes = %d, FreeSpace = %d", vd.UsedBytes, vd.FreeSpace())
	}
}

func TestVirtualDisk_Flush(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	vd := NewVirtualDisk(0)
	vd.WriteString("Start.twsam", "1[1]\n")
	vd.WriteString("Script.list.txt", "Start.twsam\n")

	if err := vd.Flush(dir); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	for name, want := range map[string]string{
		"Start.twsam":     "1[1]\n",
		"Script.list.txt": "Start.twsam\n",
	} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not flushed: %v", name, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestVirtualDisk_FlushUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	vd := NewVirtualDisk(0)
	vd.WriteString("Start.twsam", "1[1]\n")
	if err := vd.Flush(filepath.Join(blocker, "out")); err == nil {
		t.Error("expected an error flushing below a regular file")
	}
}
