// Package localfs provides the shared local filesystem primitives used by
// the panes, the batch engine and the CLI: hidden-file rules, directory
// listing with sort and pattern options, and tree walking.
package localfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry represents a file or directory in the local filesystem.
type Entry struct {
	Path    string      // Full path
	Name    string      // Base name
	Size    int64       // Size in bytes (0 for directories)
	IsDir   bool        // True for directories
	ModTime time.Time   // Last modification time
	Mode    fs.FileMode // Mode and permissions
}

// IsHidden reports whether the entry at path is hidden (dotfile rule).
func IsHidden(path string) bool {
	return IsHiddenName(filepath.Base(path))
}

// IsHiddenName reports whether a bare filename is hidden. The special
// entries "." and ".." are not considered hidden.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// SortKey selects the pane sort order.
type SortKey string

const (
	SortByName SortKey = "name"
	SortBySize SortKey = "size"
	SortByTime SortKey = "mtime"
)

// ListOptions configures List.
type ListOptions struct {
	// IncludeHidden includes dotfiles in results.
	IncludeHidden bool

	// Pattern filters names with filepath.Match; empty matches everything.
	Pattern string

	// SortBy orders results; directories always sort before files.
	// Empty means name order.
	SortBy SortKey

	// Descending reverses the sort within each group.
	Descending bool
}

// List returns the contents of a directory, filtered and sorted per opts.
// Entries that cannot be stat'ed (permissions, races with deletion) are
// skipped.
func List(path string, opts ListOptions) ([]Entry, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		name := de.Name()

		if !opts.IncludeHidden && IsHiddenName(name) {
			continue
		}
		if opts.Pattern != "" {
			if ok, err := filepath.Match(opts.Pattern, name); err != nil || !ok {
				continue
			}
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		result = append(result, Entry{
			Path:    filepath.Join(path, name),
			Name:    name,
			Size:    info.Size(),
			IsDir:   de.IsDir(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
	}

	sortEntries(result, opts.SortBy, opts.Descending)
	return result, nil
}

// sortEntries orders directories first, then files, each group by key.
func sortEntries(entries []Entry, key SortKey, descending bool) {
	less := func(a, b Entry) bool {
		switch key {
		case SortBySize:
			if a.Size != b.Size {
				return a.Size < b.Size
			}
		case SortByTime:
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.Before(b.ModTime)
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir // Directories first, regardless of direction
		}
		if descending {
			return less(b, a)
		}
		return less(a, b)
	})
}

// WalkOptions configures Walk.
type WalkOptions struct {
	// IncludeHidden includes dotfiles and dot-directories in the walk.
	IncludeHidden bool
}

// WalkFunc is the callback for Walk. Returning filepath.SkipDir skips a
// directory's contents; any other error stops the walk.
type WalkFunc func(entry Entry) error

// Walk traverses a directory tree depth-first, directories before their
// contents. Unreadable entries are skipped rather than aborting the walk.
func Walk(root string, opts WalkOptions, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		name := d.Name()
		if !opts.IncludeHidden && path != root && IsHiddenName(name) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		return fn(Entry{
			Path:    path,
			Name:    name,
			Size:    info.Size(),
			IsDir:   d.IsDir(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
	})
}

// WalkFiles walks only regular files, skipping directory entries.
func WalkFiles(root string, opts WalkOptions, fn WalkFunc) error {
	return Walk(root, opts, func(entry Entry) error {
		if entry.IsDir {
			return nil
		}
		return fn(entry)
	})
}

// Stat returns the Entry for a single path.
func Stat(path string) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}, nil
}
