// Package cli: archive commands (compress, extract).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/westy/filemaster/internal/archive"
)

// newCompressCmd creates the 'compress' command.
func newCompressCmd() *cobra.Command {
	var include, exclude []string
	var flatten bool

	cmd := &cobra.Command{
		Use:   "compress <archive> <path> [path...]",
		Short: "Create a zip or tar archive",
		Long: `Create an archive from files and directories. The format is chosen
from the archive extension: .zip, .tar, .tar.gz or .tgz.

Examples:
  # Zip a directory
  filemaster compress backup.zip /media/hdd/pictures

  # Compressed tar of selected types
  filemaster compress logs.tar.gz /var/log --include "*.log"

  # Flat archive without directory structure
  filemaster compress tracks.zip /media/hdd/music --include "*.mp3" --flatten`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			output := args[0]
			format, err := archive.FormatForPath(output)
			if err != nil {
				return err
			}

			stats, err := archive.Create(GetContext(), output, args[1:], format, archive.Options{
				Include: include,
				Exclude: exclude,
				Flatten: flatten,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d files, %s\n", output, stats.Files, newScaler(cfg).FormatSize(stats.Bytes))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "Only files matching these globs")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Skip files matching these globs")
	cmd.Flags().BoolVar(&flatten, "flatten", false, "Store files by base name only")

	return cmd
}

// newExtractCmd creates the 'extract' command.
func newExtractCmd() *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract a zip or tar archive",
		Long: `Extract an archive into a directory. Entries that would escape the
destination are rejected.

Examples:
  filemaster extract backup.zip
  filemaster extract logs.tar.gz --outdir /tmp/logs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			format, err := archive.FormatForPath(args[0])
			if err != nil {
				return err
			}

			stats, err := archive.Extract(GetContext(), args[0], destDir, format)
			if err != nil {
				return err
			}

			fmt.Printf("extracted %d files (%s) to %s\n",
				stats.Files, newScaler(cfg).FormatSize(stats.Bytes), destDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&destDir, "outdir", ".", "Destination directory")
	return cmd
}
