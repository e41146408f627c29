// Package cli: inspection commands (ls, info, df, checksum, dupes).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/westy/filemaster/internal/diskspace"
	"github.com/westy/filemaster/internal/fsops"
	"github.com/westy/filemaster/internal/localfs"
)

// newLsCmd creates the 'ls' command.
func newLsCmd() *cobra.Command {
	var showHidden bool
	var sortBy string
	var descending bool
	var pattern string

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory, directories first",
		Long: `List the contents of a directory the way the browser panes do:
directories before files, hidden entries excluded unless requested.

Examples:
  # Current directory
  filemaster ls

  # Largest files first
  filemaster ls /media/hdd --sort size --desc

  # Only matching names
  filemaster ls /recordings --pattern "*.ts"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			if sortBy != "name" && sortBy != "size" && sortBy != "mtime" {
				return fmt.Errorf("--sort must be name, size or mtime, got %q", sortBy)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scaler := newScaler(cfg)

			entries, err := localfs.List(path, localfs.ListOptions{
				IncludeHidden: showHidden || cfg.UI.ShowHidden,
				Pattern:       pattern,
				SortBy:        localfs.SortKey(sortBy),
				Descending:    descending,
			})
			if err != nil {
				return err
			}

			for _, e := range entries {
				size := scaler.FormatSize(e.Size)
				if e.IsDir {
					size = "<dir>"
				}
				fmt.Printf("%s  %10s  %s  %s\n",
					e.Mode, size, e.ModTime.Format("2006-01-02 15:04"), e.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showHidden, "all", "a", false, "Include hidden entries")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "Sort key: name, size or mtime")
	cmd.Flags().BoolVar(&descending, "desc", false, "Reverse sort order")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Only names matching this glob")

	return cmd
}

// newInfoCmd creates the 'info' command.
func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <path> [path...]",
		Short: "Summarize files and directory trees",
		Long: `Walk the given paths and report file and directory counts, total
size, the largest file, extension breakdown and modification range.

Examples:
  filemaster info /media/hdd/movie
  filemaster info *.ts`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			summary, err := fsops.Summarize(GetContext(), args)
			if err != nil {
				return err
			}
			for _, line := range summary.Lines(newScaler(cfg)) {
				fmt.Println(line)
			}
			return nil
		},
	}
	return cmd
}

// newDfCmd creates the 'df' command.
func newDfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "df [path...]",
		Short: "Show disk usage for the filesystems holding the paths",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scaler := newScaler(cfg)

			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			fmt.Printf("%-30s %10s %10s %10s %6s\n", "Path", "Total", "Used", "Avail", "Use%")
			for _, path := range paths {
				usage, err := diskspace.GetUsage(path)
				if err != nil {
					fmt.Printf("%-30s %v\n", path, err)
					continue
				}
				fmt.Printf("%-30s %10s %10s %10s %5.1f%%\n",
					path,
					scaler.FormatSize(usage.Total),
					scaler.FormatSize(usage.Used()),
					scaler.FormatSize(usage.Available),
					usage.UsedPercent(),
				)
			}
			return nil
		},
	}
	return cmd
}

// newChecksumCmd creates the 'checksum' command.
func newChecksumCmd() *cobra.Command {
	var algo string

	cmd := &cobra.Command{
		Use:   "checksum <file> [file...]",
		Short: "Compute file checksums",
		Long: `Compute checksums for one or more files.

Examples:
  filemaster checksum image.iso
  filemaster checksum --algo sha256 *.img`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm := fsops.Algorithm(algo)
			ctx := GetContext()

			var firstErr error
			for _, path := range args {
				sum, err := fsops.Checksum(ctx, path, algorithm)
				if err != nil {
					fmt.Printf("%s: %v\n", path, err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				fmt.Printf("%s  %s\n", sum, path)
			}
			return firstErr
		},
	}

	cmd.Flags().StringVar(&algo, "algo", "md5", "Checksum algorithm: md5, sha1 or sha256")
	return cmd
}

// newDupesCmd creates the 'dupes' command.
func newDupesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupes <dir>",
		Short: "Find duplicate files under a directory",
		Long: `Find files with identical content under a directory. Candidates are
grouped by size first, so only same-sized files are hashed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scaler := newScaler(cfg)

			groups, err := fsops.FindDuplicates(GetContext(), args[0])
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				fmt.Println("No duplicates found.")
				return nil
			}

			var wasted int64
			for i, group := range groups {
				entry, err := localfs.Stat(group[0])
				size := int64(0)
				if err == nil {
					size = entry.Size
				}
				wasted += size * int64(len(group)-1)

				fmt.Printf("Group %d (%s each):\n", i+1, scaler.FormatSize(size))
				for _, path := range group {
					fmt.Printf("  %s\n", path)
				}
			}
			fmt.Printf("\n%d duplicate groups, %s reclaimable.\n", len(groups), scaler.FormatSize(wasted))
			return nil
		},
	}
	return cmd
}
