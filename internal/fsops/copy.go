package fsops

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/westy/filemaster/internal/diskspace"
	"github.com/westy/filemaster/internal/util/buffers"
)

// CopyFile copies a single regular file in chunks, checking for
// cancellation between chunks. onBytes, if non-nil, receives the size of
// each written chunk. When preserve is set the destination gets the
// source's mode and modification time.
//
// The destination is written in place (no temp file); a cancelled or
// failed copy removes the partial destination.
func CopyFile(ctx context.Context, src, dst string, preserve bool, onBytes func(int64)) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", src)
	}

	if err := diskspace.CheckSpaceForCopy(dst, info.Size()); err != nil {
		return 0, err
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	written, err := copyChunks(ctx, out, in, onBytes)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return written, err
	}

	if preserve {
		if err := preserveAttrs(dst, info); err != nil {
			return written, err
		}
	}
	return written, nil
}

// copyChunks is the shared chunked copy loop with cooperative cancel.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, onBytes func(int64)) (int64, error) {
	buf := buffers.GetCopyBuffer()
	defer buffers.PutCopyBuffer(buf)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := src.Read(*buf)
		if n > 0 {
			w, werr := dst.Write((*buf)[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
			if w < n {
				return written, io.ErrShortWrite
			}
			if onBytes != nil {
				onBytes(int64(w))
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// preserveAttrs applies the source's mode and timestamps to dst.
func preserveAttrs(dst string, info os.FileInfo) error {
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	// Access time is not tracked separately; reuse mtime for both.
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// copyTree copies a directory recursively into dst (dst is the new
// directory itself, not its parent). Symlinks are recreated, not
// followed.
func copyTree(ctx context.Context, src, dst string, preserve bool, onBytes func(int64)) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return 0, err
	}

	var total int64
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return total, err
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return total, err
			}
		case entry.IsDir():
			n, err := copyTree(ctx, srcPath, dstPath, preserve, onBytes)
			total += n
			if err != nil {
				return total, err
			}
		default:
			n, err := CopyFile(ctx, srcPath, dstPath, preserve, onBytes)
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	if preserve {
		if err := preserveAttrs(dst, srcInfo); err != nil {
			return total, err
		}
	}
	return total, nil
}

// copyAny dispatches to CopyFile or copyTree based on the source type.
func copyAny(ctx context.Context, src, dst string, preserve bool, onBytes func(int64)) (int64, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return copyTree(ctx, src, dst, preserve, onBytes)
	}
	return CopyFile(ctx, src, dst, preserve, onBytes)
}
