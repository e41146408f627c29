package fsops

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/westy/filemaster/internal/localfs"
	"github.com/westy/filemaster/internal/util/buffers"
)

// Algorithm selects the checksum hash.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
)

func newHash(algo Algorithm) (hash.Hash, error) {
	switch algo {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unknown checksum algorithm %q", algo)
	}
}

// Checksum computes the hex digest of a file, reading in small chunks
// with cancellation checks between them.
func Checksum(ctx context.Context, path string, algo Algorithm) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := buffers.GetChecksumBuffer()
	defer buffers.PutChecksumBuffer(buf)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, rerr := f.Read(*buf)
		if n > 0 {
			h.Write((*buf)[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComparePaths reports whether two files have identical content. Sizes
// are compared first so differing files usually avoid any hashing.
func ComparePaths(ctx context.Context, a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	sumA, err := Checksum(ctx, a, MD5)
	if err != nil {
		return false, err
	}
	sumB, err := Checksum(ctx, b, MD5)
	if err != nil {
		return false, err
	}
	return sumA == sumB, nil
}

// FindDuplicates walks root and returns groups of paths with identical
// content. Files are grouped by size first; only groups with more than
// one member are hashed.
func FindDuplicates(ctx context.Context, root string) ([][]string, error) {
	bySize := make(map[int64][]string)
	err := localfs.WalkFiles(root, localfs.WalkOptions{}, func(e localfs.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		bySize[e.Size] = append(bySize[e.Size], e.Path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var groups [][]string
	for _, paths := range bySize {
		if len(paths) < 2 {
			continue
		}

		byHash := make(map[string][]string)
		for _, p := range paths {
			sum, err := Checksum(ctx, p, MD5)
			if err != nil {
				// Unreadable file; leave it out of any group
				continue
			}
			byHash[sum] = append(byHash[sum], p)
		}
		for _, group := range byHash {
			if len(group) > 1 {
				sortStrings(group)
				groups = append(groups, group)
			}
		}
	}

	sortGroups(groups)
	return groups, nil
}
