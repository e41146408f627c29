package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CreateTar writes a tar archive (gzipped for TarGz) containing the
// given paths, recursively for directories. Entry names are relative to
// each path's parent directory so extraction recreates the named trees.
func CreateTar(ctx context.Context, outputPath string, paths []string, format Format, opts Options) (Stats, error) {
	var stats Stats

	if format != Tar && format != TarGz {
		return stats, fmt.Errorf("CreateTar: unsupported format %q", format)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return stats, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return stats, err
	}

	var tw *tar.Writer
	var gz *gzip.Writer
	if format == TarGz {
		gz = gzip.NewWriter(out)
		tw = tar.NewWriter(gz)
	} else {
		tw = tar.NewWriter(out)
	}

	seen := make(map[string]string)
	err = addAll(ctx, paths, opts, seen, &stats, func(entryName string, info os.FileInfo, path string) error {
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = entryName
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})

	if cerr := tw.Close(); err == nil {
		err = cerr
	}
	if gz != nil {
		if cerr := gz.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outputPath)
		return stats, fmt.Errorf("create %s: %w", outputPath, err)
	}
	return stats, nil
}

// addAll walks the source paths and invokes add for every included
// entry, maintaining stats and the flatten duplicate check.
func addAll(ctx context.Context, paths []string, opts Options, seen map[string]string, stats *Stats,
	add func(entryName string, info os.FileInfo, path string) error) error {

	for _, root := range paths {
		rootInfo, err := os.Stat(root)
		if err != nil {
			return err
		}
		base := filepath.Dir(root)

		walk := func(path string, info os.FileInfo) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if !info.IsDir() && !opts.shouldInclude(filepath.Base(path)) {
				return nil
			}

			var entryName string
			if opts.Flatten {
				if info.IsDir() {
					return nil
				}
				entryName = filepath.Base(path)
				if prev, dup := seen[entryName]; dup {
					return fmt.Errorf("duplicate filename %q in %s and %s", entryName, prev, path)
				}
				seen[entryName] = path
			} else {
				rel, err := filepath.Rel(base, path)
				if err != nil {
					return err
				}
				entryName = filepath.ToSlash(rel)
			}

			if err := add(entryName, info, path); err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				stats.Files++
				stats.Bytes += info.Size()
			}
			return nil
		}

		if !rootInfo.IsDir() {
			if err := walk(root, rootInfo); err != nil {
				return err
			}
			continue
		}
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			return walk(path, info)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ExtractTar unpacks a tar (or tar.gz) archive into destDir, refusing
// entries whose names would land outside it.
func ExtractTar(ctx context.Context, archivePath, destDir string, format Format) (Stats, error) {
	var stats Stats

	f, err := os.Open(archivePath)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	var r io.Reader = f
	if format == TarGz {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return stats, fmt.Errorf("extract %s: %w", archivePath, err)
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		header, err := tr.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("extract %s: %w", archivePath, err)
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return stats, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode).Perm()|0700); err != nil {
				return stats, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return stats, err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return stats, err
			}
			n, err := io.Copy(out, tr)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return stats, err
			}
			stats.Files++
			stats.Bytes += n
		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) {
				return stats, fmt.Errorf("absolute symlink target in archive: %s", header.Linkname)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return stats, err
			}
		default:
			// Hard links, devices and the rest are skipped
		}
	}
}
