package fsops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/westy/filemaster/internal/constants"
	"github.com/westy/filemaster/internal/logging"
)

// ProgressFunc receives per-item progress: done items out of total,
// cumulative bytes processed, and the path currently being worked on.
// It is invoked synchronously from the batch goroutine.
type ProgressFunc func(done, total int, bytes int64, current string)

// Engine runs batch operations. The zero value is usable; Progress may
// be set before running an operation.
type Engine struct {
	log      *logging.Logger
	progress ProgressFunc
}

// NewEngine creates a batch engine. logger may be nil for silent
// operation (tests, library use).
func NewEngine(logger *logging.Logger) *Engine {
	return &Engine{log: logger}
}

// SetProgress installs the progress callback for subsequent operations.
func (e *Engine) SetProgress(fn ProgressFunc) {
	e.progress = fn
}

func (e *Engine) report(done, total int, bytes int64, current string) {
	if e.progress != nil {
		e.progress(done, total, bytes, current)
	}
}

func (e *Engine) debugf(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Debugf(format, args...)
	}
}

// skipRemaining marks every not-yet-processed path as skipped. Used when
// the context is cancelled mid-batch.
func skipRemaining(result *Result, paths []string, from int) {
	for _, p := range paths[from:] {
		result.addSkipped(p, "cancelled")
	}
}

// CopyOptions configures Copy and Move.
type CopyOptions struct {
	// Overwrite replaces existing destinations; otherwise they are skipped.
	Overwrite bool

	// PreserveAttrs carries mode and mtime over to the destination.
	PreserveAttrs bool
}

// Copy copies each path into destDir, recursively for directories. The
// destination directory is created if missing. Existing destinations are
// skipped unless opts.Overwrite is set.
func (e *Engine) Copy(ctx context.Context, paths []string, destDir string, opts CopyOptions) *Result {
	result := &Result{Total: len(paths)}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		for _, p := range paths {
			result.addFailed(p, err)
		}
		return result
	}

	for i, src := range paths {
		if ctx.Err() != nil {
			skipRemaining(result, paths, i)
			break
		}

		dst := filepath.Join(destDir, filepath.Base(src))
		e.report(i, len(paths), result.Bytes, src)

		if skip, reason := checkDest(src, dst, opts.Overwrite); skip {
			result.addSkipped(src, reason)
			continue
		}

		n, err := copyAny(ctx, src, dst, opts.PreserveAttrs, nil)
		result.Bytes += n
		if err != nil {
			if errors.Is(err, context.Canceled) {
				result.addSkipped(src, "cancelled")
				skipRemaining(result, paths, i+1)
				break
			}
			e.debugf("copy %s: %v", src, err)
			result.addFailed(src, err)
			continue
		}
		result.addSuccess(ItemResult{Path: src, Dest: dst})
	}

	e.report(len(paths), len(paths), result.Bytes, "")
	return result
}

// Move moves each path into destDir. A same-filesystem move is a rename;
// cross-device moves fall back to copy followed by delete.
func (e *Engine) Move(ctx context.Context, paths []string, destDir string, opts CopyOptions) *Result {
	result := &Result{Total: len(paths)}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		for _, p := range paths {
			result.addFailed(p, err)
		}
		return result
	}

	for i, src := range paths {
		if ctx.Err() != nil {
			skipRemaining(result, paths, i)
			break
		}

		dst := filepath.Join(destDir, filepath.Base(src))
		e.report(i, len(paths), result.Bytes, src)

		if skip, reason := checkDest(src, dst, opts.Overwrite); skip {
			result.addSkipped(src, reason)
			continue
		}
		if opts.Overwrite {
			if err := os.RemoveAll(dst); err != nil {
				result.addFailed(src, err)
				continue
			}
		}

		size := pathSize(src)
		err := os.Rename(src, dst)
		if err != nil && isCrossDevice(err) {
			e.debugf("cross-device move %s, falling back to copy", src)
			_, err = copyAny(ctx, src, dst, true, nil)
			if err == nil {
				err = os.RemoveAll(src)
			} else {
				os.RemoveAll(dst)
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				result.addSkipped(src, "cancelled")
				skipRemaining(result, paths, i+1)
				break
			}
			result.addFailed(src, err)
			continue
		}
		result.Bytes += size
		result.addSuccess(ItemResult{Path: src, Dest: dst})
	}

	e.report(len(paths), len(paths), result.Bytes, "")
	return result
}

// checkDest decides whether a copy/move target should be skipped.
func checkDest(src, dst string, overwrite bool) (bool, string) {
	if src == dst {
		return true, "source and destination are the same"
	}
	if _, err := os.Lstat(dst); err == nil && !overwrite {
		return true, "destination exists"
	}
	return false, ""
}

// pathSize returns the total size of a file or tree, 0 on error.
func pathSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}
	size, _ := DirSize(context.Background(), path)
	return size
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err == syscall.EXDEV
	}
	return errors.Is(err, syscall.EXDEV)
}

// DeleteOptions configures Delete.
type DeleteOptions struct {
	// Secure overwrites file contents before unlinking. Only regular
	// files are overwritten; directory entries are removed normally.
	Secure bool

	// Passes is the number of random-overwrite passes for secure mode.
	// Values outside [1, MaxSecurePasses] fall back to the default.
	Passes int
}

// Delete removes each path, recursively for directories. Bytes counts
// the space freed.
func (e *Engine) Delete(ctx context.Context, paths []string, opts DeleteOptions) *Result {
	result := &Result{Total: len(paths)}

	passes := opts.Passes
	if passes < 1 || passes > constants.MaxSecurePasses {
		passes = constants.DefaultSecurePasses
	}

	for i, path := range paths {
		if ctx.Err() != nil {
			skipRemaining(result, paths, i)
			break
		}
		e.report(i, len(paths), result.Bytes, path)

		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				result.addSkipped(path, "does not exist")
			} else {
				result.addFailed(path, err)
			}
			continue
		}

		size := pathSize(path)
		if opts.Secure && info.Mode().IsRegular() {
			err = SecureDelete(ctx, path, passes)
		} else {
			err = os.RemoveAll(path)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				result.addSkipped(path, "cancelled")
				skipRemaining(result, paths, i+1)
				break
			}
			result.addFailed(path, err)
			continue
		}
		result.Bytes += size
		result.addSuccess(ItemResult{Path: path})
	}

	e.report(len(paths), len(paths), result.Bytes, "")
	return result
}

// Rename renames paths according to the explicit old-to-new mapping.
// New names are bare filenames resolved in the source's directory.
// Existing destinations are refused.
func (e *Engine) Rename(ctx context.Context, renames map[string]string) *Result {
	// Deterministic order for progress and tests
	paths := make([]string, 0, len(renames))
	for p := range renames {
		paths = append(paths, p)
	}
	sortStrings(paths)

	return e.renamePaths(ctx, paths, func(path string, _ int) string {
		return renames[path]
	})
}

// RenamePattern renames paths using a substitution pattern. Supported
// placeholders: {name} {ext} {fullname} {n} {n:03d} {date} {time}.
func (e *Engine) RenamePattern(ctx context.Context, paths []string, pattern string) *Result {
	return e.renamePaths(ctx, paths, func(path string, i int) string {
		return ApplyPattern(pattern, filepath.Base(path), i+1)
	})
}

func (e *Engine) renamePaths(ctx context.Context, paths []string, newName func(path string, i int) string) *Result {
	result := &Result{Total: len(paths)}

	for i, path := range paths {
		if ctx.Err() != nil {
			skipRemaining(result, paths, i)
			break
		}
		e.report(i, len(paths), 0, path)

		name := newName(path, i)
		if name == "" || strings.ContainsRune(name, os.PathSeparator) {
			result.addFailed(path, fmt.Errorf("invalid new name %q", name))
			continue
		}
		dst := filepath.Join(filepath.Dir(path), name)
		if dst == path {
			result.addSkipped(path, "name unchanged")
			continue
		}
		if _, err := os.Lstat(dst); err == nil {
			result.addSkipped(path, "destination exists")
			continue
		}

		if err := os.Rename(path, dst); err != nil {
			result.addFailed(path, err)
			continue
		}
		result.addSuccess(ItemResult{Path: path, Dest: dst})
	}

	e.report(len(paths), len(paths), 0, "")
	return result
}

// Chmod applies mode to each path, best-effort per item. With recursive
// set, directory trees are walked and every entry changed.
func (e *Engine) Chmod(ctx context.Context, paths []string, mode fs.FileMode, recursive bool) *Result {
	result := &Result{Total: len(paths)}

	for i, path := range paths {
		if ctx.Err() != nil {
			skipRemaining(result, paths, i)
			break
		}
		e.report(i, len(paths), 0, path)

		var err error
		if recursive {
			err = filepath.WalkDir(path, func(p string, d fs.DirEntry, werr error) error {
				if werr != nil {
					return werr
				}
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				return os.Chmod(p, mode)
			})
		} else {
			err = os.Chmod(path, mode)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				result.addSkipped(path, "cancelled")
				skipRemaining(result, paths, i+1)
				break
			}
			result.addFailed(path, err)
			continue
		}
		result.addSuccess(ItemResult{Path: path})
	}

	e.report(len(paths), len(paths), 0, "")
	return result
}
