package fsops

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/westy/filemaster/internal/util/buffers"
)

// SecureDelete overwrites a regular file with random data the given
// number of passes, syncing after each pass, then removes it. This
// defeats casual recovery on conventional storage; flash wear leveling
// can retain stale blocks regardless.
func SecureDelete(ctx context.Context, path string, passes int) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("secure delete: %s is not a regular file", path)
	}

	if info.Size() > 0 {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}

		for pass := 0; pass < passes; pass++ {
			if err := overwritePass(ctx, f, info.Size()); err != nil {
				f.Close()
				return fmt.Errorf("secure delete pass %d of %s: %w", pass+1, path, err)
			}
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	return os.Remove(path)
}

// overwritePass writes size bytes of random data from offset 0 and
// syncs, checking for cancellation between chunks.
func overwritePass(ctx context.Context, f *os.File, size int64) error {
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	buf := buffers.GetCopyBuffer()
	defer buffers.PutCopyBuffer(buf)

	remaining := size
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk := *buf
		if remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		if _, err := rand.Read(chunk); err != nil {
			return err
		}
		n, err := f.Write(chunk)
		if err != nil {
			return err
		}
		remaining -= int64(n)
	}

	return f.Sync()
}
