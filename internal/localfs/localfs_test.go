package localfs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsHiddenName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{".hidden", true},
		{".gitignore", true},
		{"visible.txt", false},
		{"normal", false},
		{"..", false}, // Parent dir reference starts with . but is special
		{".", false},  // Current dir reference
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHiddenName(tt.name); got != tt.expected {
				t.Errorf("IsHiddenName(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func mkTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"bbb.txt":    "12345",
		"aaa.txt":    "1",
		".hidden":    "x",
		"ccc.log":    "123",
		"sub/in.txt": "12",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestListHiddenAndSort(t *testing.T) {
	dir := mkTree(t)

	entries, err := List(dir, ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	// Directories first, then files by name; .hidden excluded
	want := []string{"sub", "aaa.txt", "bbb.txt", "ccc.log"}
	got := names(entries)
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List = %v, want %v", got, want)
		}
	}

	entries, err = List(dir, ListOptions{IncludeHidden: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Errorf("List with hidden = %d entries, want 5", len(entries))
	}
}

func TestListPattern(t *testing.T) {
	dir := mkTree(t)

	entries, err := List(dir, ListOptions{Pattern: "*.txt"})
	if err != nil {
		t.Fatal(err)
	}
	got := names(entries)
	if len(got) != 2 || got[0] != "aaa.txt" || got[1] != "bbb.txt" {
		t.Errorf("List *.txt = %v", got)
	}
}

func TestListSortBySize(t *testing.T) {
	dir := mkTree(t)

	entries, err := List(dir, ListOptions{SortBy: SortBySize, Descending: true})
	if err != nil {
		t.Fatal(err)
	}
	// sub dir first, then files by size descending: bbb(5), ccc(3), aaa(1)
	got := names(entries)
	want := []string{"sub", "bbb.txt", "ccc.log", "aaa.txt"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List by size desc = %v, want %v", got, want)
		}
	}
}

func TestWalk(t *testing.T) {
	dir := mkTree(t)

	var files []string
	err := WalkFiles(dir, WalkOptions{}, func(e Entry) error {
		files = append(files, e.Name)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// .hidden excluded, sub/in.txt included
	if len(files) != 4 {
		t.Errorf("WalkFiles visited %v, want 4 files", files)
	}

	files = nil
	err = WalkFiles(dir, WalkOptions{IncludeHidden: true}, func(e Entry) error {
		files = append(files, e.Name)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 5 {
		t.Errorf("WalkFiles with hidden visited %v, want 5 files", files)
	}
}

func TestWalkSkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "objects", "blob"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var seen []string
	if err := WalkFiles(dir, WalkOptions{}, func(e Entry) error {
		seen = append(seen, e.Name)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0] != "keep.txt" {
		t.Errorf("Walk should skip hidden dirs, saw %v", seen)
	}
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("12345"), 0644); err != nil {
		t.Fatal(err)
	}

	e, err := Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if e.Name != "f.txt" || e.Size != 5 || e.IsDir {
		t.Errorf("Stat = %+v", e)
	}
	if time.Since(e.ModTime) > time.Minute {
		t.Errorf("ModTime looks wrong: %v", e.ModTime)
	}
}
