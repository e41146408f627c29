package fsops

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCopyFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "hello")
	writeFile(t, filepath.Join(src, "b.txt"), "world!")

	e := NewEngine(nil)
	result := e.Copy(context.Background(),
		[]string{filepath.Join(src, "a.txt"), filepath.Join(src, "b.txt")},
		dst, CopyOptions{})

	if !result.AllOK() {
		t.Fatalf("Copy: %s (first error: %v)", result.Summary(), result.FirstError())
	}
	if result.Bytes != 11 {
		t.Errorf("Bytes = %d, want 11", result.Bytes)
	}
	if got := readFile(t, filepath.Join(dst, "a.txt")); got != "hello" {
		t.Errorf("Copied content = %q", got)
	}
	// Source must be untouched
	if got := readFile(t, filepath.Join(src, "a.txt")); got != "hello" {
		t.Errorf("Source content = %q", got)
	}
}

func TestCopyDirectoryRecursive(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "tree", "x.txt"), "x")
	writeFile(t, filepath.Join(src, "tree", "deep", "y.txt"), "yy")

	e := NewEngine(nil)
	result := e.Copy(context.Background(), []string{filepath.Join(src, "tree")}, dst, CopyOptions{})

	if !result.AllOK() {
		t.Fatalf("Copy: %s (first error: %v)", result.Summary(), result.FirstError())
	}
	if got := readFile(t, filepath.Join(dst, "tree", "deep", "y.txt")); got != "yy" {
		t.Errorf("Nested content = %q", got)
	}
}

func TestCopySkipsExistingDest(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "new")
	writeFile(t, filepath.Join(dst, "a.txt"), "old")

	e := NewEngine(nil)
	result := e.Copy(context.Background(), []string{filepath.Join(src, "a.txt")}, dst, CopyOptions{})

	if len(result.Skipped) != 1 {
		t.Fatalf("Expected 1 skipped, got %s", result.Summary())
	}
	if got := readFile(t, filepath.Join(dst, "a.txt")); got != "old" {
		t.Errorf("Existing destination was modified: %q", got)
	}

	// With overwrite the copy goes through
	result = e.Copy(context.Background(), []string{filepath.Join(src, "a.txt")}, dst,
		CopyOptions{Overwrite: true})
	if !result.AllOK() {
		t.Fatalf("Overwrite copy: %s", result.Summary())
	}
	if got := readFile(t, filepath.Join(dst, "a.txt")); got != "new" {
		t.Errorf("Destination after overwrite = %q", got)
	}
}

func TestCopyPreserveAttrs(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	path := filepath.Join(src, "a.txt")
	writeFile(t, path, "data")

	mtime := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chmod(path, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(nil)
	result := e.Copy(context.Background(), []string{path}, dst, CopyOptions{PreserveAttrs: true})
	if !result.AllOK() {
		t.Fatalf("Copy: %s", result.Summary())
	}

	info, err := os.Stat(filepath.Join(dst, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Mode = %v, want 0600", info.Mode().Perm())
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestCopyCancellation(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	paths := make([]string, 3)
	for i, name := range []string{"a", "b", "c"} {
		paths[i] = filepath.Join(src, name)
		writeFile(t, paths[i], "x")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine(nil)
	result := e.Copy(ctx, paths, dst, CopyOptions{})
	if len(result.Skipped) != 3 {
		t.Errorf("Cancelled batch: %s, want all skipped", result.Summary())
	}
}

func TestMoveFile(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	path := filepath.Join(src, "a.txt")
	writeFile(t, path, "moved")

	e := NewEngine(nil)
	result := e.Move(context.Background(), []string{path}, dst, CopyOptions{})

	if !result.AllOK() {
		t.Fatalf("Move: %s (first error: %v)", result.Summary(), result.FirstError())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Source should be gone after move")
	}
	if got := readFile(t, filepath.Join(dst, "a.txt")); got != "moved" {
		t.Errorf("Moved content = %q", got)
	}
	if result.Bytes != 5 {
		t.Errorf("Bytes = %d, want 5", result.Bytes)
	}
}

func TestMoveSkipsExistingDest(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "new")
	writeFile(t, filepath.Join(dst, "a.txt"), "old")

	e := NewEngine(nil)
	result := e.Move(context.Background(), []string{filepath.Join(src, "a.txt")}, dst, CopyOptions{})
	if len(result.Skipped) != 1 {
		t.Fatalf("Move onto existing: %s, want skipped", result.Summary())
	}
	if _, err := os.Stat(filepath.Join(src, "a.txt")); err != nil {
		t.Error("Source must survive a skipped move")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "f.txt"), "12345")
	writeFile(t, filepath.Join(dir, "tree", "g.txt"), "123")

	e := NewEngine(nil)
	result := e.Delete(context.Background(),
		[]string{filepath.Join(dir, "f.txt"), filepath.Join(dir, "tree")},
		DeleteOptions{})

	if !result.AllOK() {
		t.Fatalf("Delete: %s (first error: %v)", result.Summary(), result.FirstError())
	}
	if result.Bytes != 8 {
		t.Errorf("Bytes freed = %d, want 8", result.Bytes)
	}
	if _, err := os.Stat(filepath.Join(dir, "tree")); !os.IsNotExist(err) {
		t.Error("Directory should be removed")
	}
}

func TestDeleteMissingSkipped(t *testing.T) {
	e := NewEngine(nil)
	result := e.Delete(context.Background(),
		[]string{filepath.Join(t.TempDir(), "nope")}, DeleteOptions{})
	if len(result.Skipped) != 1 {
		t.Errorf("Missing path: %s, want skipped", result.Summary())
	}
}

func TestSecureDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.bin")
	writeFile(t, path, "sensitive data that must not survive")

	e := NewEngine(nil)
	result := e.Delete(context.Background(), []string{path},
		DeleteOptions{Secure: true, Passes: 2})

	if !result.AllOK() {
		t.Fatalf("Secure delete: %s (first error: %v)", result.Summary(), result.FirstError())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("File should be removed after secure delete")
	}
}

func TestSecureDeleteEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	writeFile(t, path, "")

	if err := SecureDelete(context.Background(), path, 3); err != nil {
		t.Fatalf("SecureDelete on empty file: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Empty file should be removed")
	}
}

func TestSecureDeleteRejectsDir(t *testing.T) {
	if err := SecureDelete(context.Background(), t.TempDir(), 1); err == nil {
		t.Error("SecureDelete must refuse directories")
	}
}

func TestRenameExplicit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.txt"), "x")

	e := NewEngine(nil)
	result := e.Rename(context.Background(),
		map[string]string{filepath.Join(dir, "old.txt"): "new.txt"})

	if !result.AllOK() {
		t.Fatalf("Rename: %s (first error: %v)", result.Summary(), result.FirstError())
	}
	if _, err := os.Stat(filepath.Join(dir, "new.txt")); err != nil {
		t.Error("Renamed file missing")
	}
}

func TestRenameRefusesExistingDest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "b.txt"), "b")

	e := NewEngine(nil)
	result := e.Rename(context.Background(),
		map[string]string{filepath.Join(dir, "a.txt"): "b.txt"})
	if len(result.Skipped) != 1 {
		t.Errorf("Rename onto existing: %s, want skipped", result.Summary())
	}
	if got := readFile(t, filepath.Join(dir, "b.txt")); got != "b" {
		t.Errorf("Existing destination clobbered: %q", got)
	}
}

func TestRenamePattern(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "track-one.mp3"),
		filepath.Join(dir, "track-two.mp3"),
	}
	for _, p := range paths {
		writeFile(t, p, "x")
	}

	e := NewEngine(nil)
	result := e.RenamePattern(context.Background(), paths, "{n:02d}-{name}{ext}")
	if !result.AllOK() {
		t.Fatalf("RenamePattern: %s (first error: %v)", result.Summary(), result.FirstError())
	}
	if _, err := os.Stat(filepath.Join(dir, "01-track-one.mp3")); err != nil {
		t.Error("Pattern-renamed file missing")
	}
	if _, err := os.Stat(filepath.Join(dir, "02-track-two.mp3")); err != nil {
		t.Error("Pattern-renamed file missing")
	}
}

func TestChmod(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tree", "f.txt"), "x")

	e := NewEngine(nil)
	result := e.Chmod(context.Background(), []string{filepath.Join(dir, "tree")}, 0700, true)
	if !result.AllOK() {
		t.Fatalf("Chmod: %s (first error: %v)", result.Summary(), result.FirstError())
	}

	info, err := os.Stat(filepath.Join(dir, "tree", "f.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("Mode = %v, want 0700", info.Mode().Perm())
	}
}

func TestProgressCallback(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a"), "xx")
	writeFile(t, filepath.Join(src, "b"), "yy")

	var calls int
	var lastDone, lastTotal int
	e := NewEngine(nil)
	e.SetProgress(func(done, total int, bytes int64, current string) {
		calls++
		lastDone, lastTotal = done, total
	})

	e.Copy(context.Background(),
		[]string{filepath.Join(src, "a"), filepath.Join(src, "b")},
		dst, CopyOptions{})

	if calls == 0 {
		t.Fatal("Progress callback never invoked")
	}
	if lastDone != 2 || lastTotal != 2 {
		t.Errorf("Final progress = %d/%d, want 2/2", lastDone, lastTotal)
	}
}
