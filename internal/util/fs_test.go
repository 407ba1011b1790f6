package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("EnsureDir() did not create %s", dir)
	}
	if err := EnsureDir(""); err == nil {
		t.Error("EnsureDir(\"\") expected error")
	}
}

func TestFileSizeAndReadable(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "clip.mov")
	if err := os.WriteFile(p, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := FileSize(p); got != 2048 {
		t.Errorf("FileSize() = %d, want 2048", got)
	}
	if got := FileSize(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("FileSize(missing) = %d, want 0", got)
	}
	if err := IsReadableFile(p); err != nil {
		t.Errorf("IsReadableFile() error: %v", err)
	}
	if err := IsReadableFile(dir); err == nil {
		t.Error("IsReadableFile(dir) expected error")
	}
	if err := IsReadableFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("IsReadableFile(missing) expected error")
	}
}
