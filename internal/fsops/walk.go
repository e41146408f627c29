package fsops

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/westy/filemaster/internal/localfs"
	"github.com/westy/filemaster/internal/units"
)

// DirSize returns the total size of all regular files under path,
// hidden files included.
func DirSize(ctx context.Context, path string) (int64, error) {
	var total int64
	err := localfs.WalkFiles(path, localfs.WalkOptions{IncludeHidden: true}, func(e localfs.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		total += e.Size
		return nil
	})
	return total, err
}

// Summary describes a set of paths: counts, sizes and modification
// range, as shown by the info command and pane detail views.
type Summary struct {
	Files       int
	Dirs        int
	TotalSize   int64
	LargestFile string
	LargestSize int64
	Extensions  map[string]int // lowercase ext (with dot) -> count
	Oldest      time.Time
	Newest      time.Time
}

// Summarize walks the given paths (recursively for directories) and
// aggregates their statistics. Hidden files are included.
func Summarize(ctx context.Context, paths []string) (*Summary, error) {
	s := &Summary{Extensions: make(map[string]int)}

	collect := func(e localfs.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir {
			s.Dirs++
			return nil
		}
		s.Files++
		s.TotalSize += e.Size
		if e.Size > s.LargestSize {
			s.LargestSize = e.Size
			s.LargestFile = e.Path
		}
		ext := strings.ToLower(filepath.Ext(e.Name))
		if ext == "" {
			ext = "(none)"
		}
		s.Extensions[ext]++
		if s.Oldest.IsZero() || e.ModTime.Before(s.Oldest) {
			s.Oldest = e.ModTime
		}
		if e.ModTime.After(s.Newest) {
			s.Newest = e.ModTime
		}
		return nil
	}

	for _, path := range paths {
		entry, err := localfs.Stat(path)
		if err != nil {
			return nil, err
		}
		if !entry.IsDir {
			if err := collect(entry); err != nil {
				return nil, err
			}
			continue
		}
		s.Dirs++
		err = localfs.Walk(path, localfs.WalkOptions{IncludeHidden: true}, func(e localfs.Entry) error {
			if e.Path == path {
				return nil
			}
			return collect(e)
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Lines renders the summary for display, one fact per line.
func (s *Summary) Lines(scaler *units.Scaler) []string {
	lines := []string{
		fmt.Sprintf("Files: %d", s.Files),
		fmt.Sprintf("Directories: %d", s.Dirs),
		fmt.Sprintf("Total size: %s", scaler.FormatSize(s.TotalSize)),
	}
	if s.LargestFile != "" {
		lines = append(lines, fmt.Sprintf("Largest: %s (%s)",
			s.LargestFile, scaler.FormatSize(s.LargestSize)))
	}
	if !s.Oldest.IsZero() {
		lines = append(lines,
			fmt.Sprintf("Oldest: %s", s.Oldest.Format("2006-01-02 15:04")),
			fmt.Sprintf("Newest: %s", s.Newest.Format("2006-01-02 15:04")))
	}

	exts := make([]string, 0, len(s.Extensions))
	for ext := range s.Extensions {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if s.Extensions[exts[i]] != s.Extensions[exts[j]] {
			return s.Extensions[exts[i]] > s.Extensions[exts[j]]
		}
		return exts[i] < exts[j]
	})
	for _, ext := range exts {
		lines = append(lines, fmt.Sprintf("  %s: %d", ext, s.Extensions[ext]))
	}
	return lines
}

func sortStrings(s []string) {
	sort.Strings(s)
}

// sortGroups orders duplicate groups by their first member for stable
// output.
func sortGroups(groups [][]string) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
}
