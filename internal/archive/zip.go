package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CreateZip writes a zip archive containing the given paths,
// recursively for directories, with the same entry naming and filtering
// rules as CreateTar.
func CreateZip(ctx context.Context, outputPath string, paths []string, opts Options) (Stats, error) {
	var stats Stats

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return stats, err
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return stats, err
	}

	zw := zip.NewWriter(out)
	seen := make(map[string]string)
	err = addAll(ctx, paths, opts, seen, &stats, func(entryName string, info os.FileInfo, path string) error {
		if info.IsDir() {
			// Directory entries keep empty dirs restorable
			_, err := zw.Create(entryName + "/")
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = entryName
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})

	if cerr := zw.Close(); err == nil {
		err = cerr
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

// ExtractZip unpacks a zip archive into destDir with path traversal
// protection.
func ExtractZip(ctx context.Context, archivePath, destDir string) (Stats, error) {
	var stats Stats

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return stats, fmt.Errorf("extract %s: %w", archivePath, err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return stats, err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, file.Mode().Perm()|0700); err != nil {
				return stats, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return stats, err
		}
		in, err := file.Open()
		if err != nil {
			return stats, err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode().Perm())
		if err != nil {
			in.Close()
			return stats, err
		}
		n, err := io.Copy(out, in)
		in.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return stats, err
		}
		stats.Files++
		stats.Bytes += n
	}
	return stats, nil
}

// Extract dispatches on format, guessing from the filename when format
// is empty.
func Extract(ctx context.Context, archivePath, destDir string, format Format) (Stats, error) {
	if format == "" {
		var err error
		format, err = FormatForPath(archivePath)
		if err != nil {
			return Stats{}, err
		}
	}
	switch format {
	case Zip:
		return ExtractZip(ctx, archivePath, destDir)
	case Tar, TarGz:
		return ExtractTar(ctx, archivePath, destDir, format)
	}
	return Stats{}, fmt.Errorf("unsupported archive format %q", format)
}

// Create dispatches on format, guessing from the filename when format
// is empty.
func Create(ctx context.Context, outputPath string, paths []string, format Format, opts Options) (Stats, error) {
	if format == "" {
		var err error
		format, err = FormatForPath(outputPath)
		if err != nil {
			return Stats{}, err
		}
	}
	switch format {
	case Zip:
		return CreateZip(ctx, outputPath, paths, opts)
	case Tar, TarGz:
		return CreateTar(ctx, outputPath, paths, format, opts)
	}
	return Stats{}, fmt.Errorf("unsupported archive format %q", format)
}
