// Package archive creates and extracts zip and tar archives for the
// compress and extract commands. Extraction guards against path
// traversal in entry names.
package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects the archive container.
type Format string

const (
	Zip   Format = "zip"
	Tar   Format = "tar"
	TarGz Format = "tar.gz"
)

// FormatForPath guesses the archive format from a filename extension.
func FormatForPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return Zip, nil
	case strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz"):
		return TarGz, nil
	case strings.HasSuffix(lower, ".tar"):
		return Tar, nil
	}
	return "", fmt.Errorf("unrecognized archive extension: %s", filepath.Base(path))
}

// Options configures archive creation.
type Options struct {
	// Include restricts entries to files matching at least one pattern
	// (filepath.Match on the base name). Mutually exclusive with Exclude;
	// Include wins when both are set.
	Include []string

	// Exclude drops files matching any pattern.
	Exclude []string

	// Flatten stores files by base name only, no directory structure.
	// Duplicate base names are an error.
	Flatten bool
}

// Stats reports what a create or extract operation processed.
type Stats struct {
	Files int
	Bytes int64
}

// shouldInclude applies the include/exclude pattern rules to a base name.
func (o Options) shouldInclude(name string) bool {
	if len(o.Include) > 0 {
		for _, pattern := range o.Include {
			if ok, err := filepath.Match(pattern, name); err == nil && ok {
				return true
			}
		}
		return false
	}
	for _, pattern := range o.Exclude {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return false
		}
	}
	return true
}

// safeJoin joins an archive entry name onto destDir, rejecting names
// that would escape it.
func safeJoin(destDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("absolute path in archive entry: %s", name)
	}
	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}
