package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tftdatascientist/drdoc/internal/apperr"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func mustAbs(t *testing.T, s *FS) string {
	t.Helper()
	abs, err := s.Abs("")
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	return abs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("README.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("README.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("proj/docs/usage.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("proj/docs/usage.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("del.md", []byte("bye"))
	if err := s.Delete("del.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.md"); err == nil {
		t.Error("expected error reading deleted file")
	}
	if err := s.Delete("del.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(""); !errors.Is(err, apperr.ErrInvalidPath) {
		t.Errorf("Delete root = %v, want ErrInvalidPath", err)
	}
}

func TestList(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("p/b.md", []byte("b"))
	_ = s.Write("p/a.txt", []byte("aa"))
	_ = s.Write("q/c.md", []byte("c"))

	items, err := s.List("p")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Path != "p/a.txt" || items[1].Path != "p/b.md" {
		t.Errorf("paths = %s, %s", items[0].Path, items[1].Path)
	}
	if items[0].Size != 2 {
		t.Errorf("size = %d, want 2", items[0].Size)
	}

	if _, err := s.List("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("List(missing) err = %v, want ErrNotFound", err)
	}
}

func TestMkdirAllAndRemoveAll(t *testing.T) {
	s := tempRoot(t)
	if err := s.MkdirAll("proj/src"); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if info, err := os.Stat(filepath.Join(mustAbs(t, s), "proj", "src")); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if err := s.RemoveAll("proj"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mustAbs(t, s), "proj")); !os.IsNotExist(err) {
		t.Errorf("proj still exists: %v", err)
	}
	if err := s.RemoveAll("proj"); err != nil {
		t.Errorf("RemoveAll on missing dir: %v", err)
	}
	if err := s.RemoveAll(""); !errors.Is(err, apperr.ErrInvalidPath) {
		t.Errorf("RemoveAll(root) err = %v, want ErrInvalidPath", err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("expected ErrInvalidPath for path %q, got %v", p, err)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if err := s.RemoveAll(p); err == nil {
			t.Errorf("expected error for remove of %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("atomic.md", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.md", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".drdoc-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestOpenFS_CreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	s, err := OpenFS(dir)
	if err != nil {
		t.Fatalf("OpenFS: %v", err)
	}
	if mustAbs(t, s) == "" {
		t.Error("empty root")
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "drdoc-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
