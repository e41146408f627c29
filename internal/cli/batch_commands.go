// Package cli: batch operation commands (copy, move, delete, rename, chmod).
package cli

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/westy/filemaster/internal/constants"
	"github.com/westy/filemaster/internal/fsops"
	"github.com/westy/filemaster/internal/progress"
	"github.com/westy/filemaster/internal/transfer"
)

// engineProgress adapts the single-bar reporter to the batch engine's
// per-item callback.
func engineProgress(verb string) fsops.ProgressFunc {
	bar := progress.NewCLIProgress()
	started := false
	return func(done, total int, bytes int64, current string) {
		if !started {
			bar.Start(int64(total), verb)
			started = true
		}
		bar.Update(int64(done))
		if done == total {
			bar.Finish()
		}
	}
}

// printResult reports per-item outcomes and returns an error when any
// item failed, so the process exits non-zero.
func printResult(verb string, result *fsops.Result) error {
	for _, item := range result.Skipped {
		fmt.Printf("skipped %s (%s)\n", item.Path, item.Reason)
	}
	for _, item := range result.Failed {
		fmt.Printf("failed  %s: %v\n", item.Path, item.Err)
	}
	fmt.Printf("%s: %s\n", verb, result.Summary())

	if len(result.Failed) > 0 {
		return fmt.Errorf("%s: %d of %d items failed", verb, len(result.Failed), result.Total)
	}
	return nil
}

// newCopyCmd creates the 'copy' command.
func newCopyCmd() *cobra.Command {
	var overwrite, preserve, parallel, verify bool
	var workers int

	cmd := &cobra.Command{
		Use:   "copy <source> [source...] <dest-dir>",
		Short: "Copy files and directories",
		Long: `Copy one or more files or directories into a destination directory.
Directories are copied recursively. Existing destinations are skipped
unless --overwrite is given.

With --parallel, directories are expanded and the files are copied on a
worker pool with one progress bar per in-flight transfer.

Examples:
  # Copy a recording to a USB stick
  filemaster copy /media/hdd/movie.ts /media/usb

  # Parallel copy with verification
  filemaster copy *.ts /media/usb --parallel --verify`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransferCmd(transfer.TaskTypeCopy, "copy", args, overwrite, preserve, parallel, verify, workers)
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing destinations")
	cmd.Flags().BoolVar(&preserve, "preserve", true, "Preserve mode and modification time")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Copy files concurrently on a worker pool")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify checksums after copying (parallel mode)")
	cmd.Flags().IntVar(&workers, "workers", 0,
		fmt.Sprintf("Concurrent transfers for --parallel (1-%d, 0 = from config)", constants.MaxTransferWorkers))

	return cmd
}

// newMoveCmd creates the 'move' command.
func newMoveCmd() *cobra.Command {
	var overwrite, parallel bool
	var workers int

	cmd := &cobra.Command{
		Use:   "move <source> [source...] <dest-dir>",
		Short: "Move files and directories",
		Long: `Move one or more files or directories into a destination directory.
Same-filesystem moves are instant renames; cross-device moves fall back
to copy followed by delete.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransferCmd(transfer.TaskTypeMove, "move", args, overwrite, true, parallel, false, workers)
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing destinations")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Move files concurrently on a worker pool")
	cmd.Flags().IntVar(&workers, "workers", 0,
		fmt.Sprintf("Concurrent transfers for --parallel (1-%d, 0 = from config)", constants.MaxTransferWorkers))

	return cmd
}

func runTransferCmd(taskType transfer.TaskType, verb string, args []string, overwrite, preserve, parallel, verify bool, workers int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sources := args[:len(args)-1]
	destDir := args[len(args)-1]

	if parallel {
		if workers == 0 {
			workers = cfg.Operations.Workers
		}
		if workers < 1 || workers > constants.MaxTransferWorkers {
			return fmt.Errorf("--workers must be between 1 and %d, got %d", constants.MaxTransferWorkers, workers)
		}
		srcs, dests, err := expandSources(sources, destDir)
		if err != nil {
			return err
		}
		return executeParallelTransfer(taskType, srcs, dests, workers, preserve, verify)
	}

	engine := fsops.NewEngine(GetLogger())
	engine.SetProgress(engineProgress(verb))

	opts := fsops.CopyOptions{Overwrite: overwrite || cfg.Operations.Overwrite, PreserveAttrs: preserve}
	var result *fsops.Result
	if taskType == transfer.TaskTypeMove {
		result = engine.Move(GetContext(), sources, destDir, opts)
	} else {
		result = engine.Copy(GetContext(), sources, destDir, opts)
	}
	return printResult(verb, result)
}

// newDeleteCmd creates the 'delete' command.
func newDeleteCmd() *cobra.Command {
	var secure, assumeYes bool
	var passes int

	cmd := &cobra.Command{
		Use:   "delete <path> [path...]",
		Short: "Delete files and directories",
		Long: `Delete one or more files or directories, recursively for directories.

With --secure, regular files are overwritten with random data before
unlinking so the contents cannot be recovered from the disk.

Examples:
  filemaster delete old_recording.ts
  filemaster delete secrets.db --secure --passes 7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			noun := "items"
			if len(args) == 1 {
				noun = "item"
			}
			ok, err := confirm(fmt.Sprintf("Delete %d %s?", len(args), noun), assumeYes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}

			if passes == 0 {
				passes = cfg.Operations.SecurePasses
			}
			engine := fsops.NewEngine(GetLogger())
			engine.SetProgress(engineProgress("delete"))

			result := engine.Delete(GetContext(), args, fsops.DeleteOptions{
				Secure: secure,
				Passes: passes,
			})
			return printResult("delete", result)
		},
	}

	cmd.Flags().BoolVar(&secure, "secure", false, "Overwrite file contents before deleting")
	cmd.Flags().IntVar(&passes, "passes", 0,
		fmt.Sprintf("Overwrite passes for --secure (1-%d, 0 = from config)", constants.MaxSecurePasses))
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// newRenameCmd creates the 'rename' command.
func newRenameCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "rename --pattern <pattern> <file> [file...]",
		Short: "Batch-rename files with a substitution pattern",
		Long: `Rename files using a pattern with placeholders:

  {name}      Original name without extension
  {ext}       Original extension (with dot)
  {fullname}  Original full name
  {n}         1-based index
  {n:03d}     Zero-padded index
  {date}      Current date (YYYYMMDD)
  {time}      Current time (HHMMSS)

Examples:
  # episode_001.ts, episode_002.ts, ...
  filemaster rename --pattern "episode_{n:03d}{ext}" *.ts

  # Prefix everything with the date
  filemaster rename --pattern "{date}_{fullname}" *.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pattern == "" {
				return fmt.Errorf("--pattern is required")
			}

			engine := fsops.NewEngine(GetLogger())
			result := engine.RenamePattern(GetContext(), args, pattern)

			for _, item := range result.Success {
				fmt.Printf("%s -> %s\n", item.Path, item.Dest)
			}
			return printResult("rename", result)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Rename pattern (required)")
	return cmd
}

// newChmodCmd creates the 'chmod' command.
func newChmodCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "chmod <octal-mode> <path> [path...]",
		Short: "Change file permissions",
		Long: `Set permissions on files and directories from an octal mode.

Examples:
  filemaster chmod 644 script.sh
  filemaster chmod 755 /media/hdd/tools --recursive`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := strconv.ParseUint(args[0], 8, 32)
			if err != nil || mode > 0o7777 {
				return fmt.Errorf("invalid octal mode %q", args[0])
			}

			engine := fsops.NewEngine(GetLogger())
			result := engine.Chmod(GetContext(), args[1:], fs.FileMode(mode), recursive)
			return printResult("chmod", result)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "Apply to directory trees")
	return cmd
}
