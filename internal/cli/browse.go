// Package cli: interactive browser launcher.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/westy/filemaster/internal/config"
	"github.com/westy/filemaster/internal/logging"
	"github.com/westy/filemaster/internal/tui"
)

// newBrowseCmd creates the 'browse' command.
func newBrowseCmd() *cobra.Command {
	var leftDir, rightDir string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive dual-pane browser",
		Long: `Open the dual-pane file browser. Tab switches panes, space selects,
F5/F6 copy and move to the other pane, F8 deletes with confirmation.

Examples:
  filemaster browse
  filemaster browse --left /media/hdd --right /media/usb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if leftDir != "" {
				cfg.UI.LeftDir = leftDir
			}
			if rightDir != "" {
				cfg.UI.RightDir = rightDir
			}

			// The alternate screen owns the terminal, so the browser logs
			// to a file instead of stderr.
			var browseLog *logging.Logger
			logPath := filepath.Join(config.LogDirectory(), "browse.log")
			if err := config.EnsureConfigDir(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: no log directory for %s: %v\n", logPath, err)
			} else if browseLog, err = logging.NewFileLogger(logPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: no log file at %s: %v\n", logPath, err)
				browseLog = nil
			}

			return tui.Run(cfg, browseLog)
		},
	}

	cmd.Flags().StringVar(&leftDir, "left", "", "Start directory for the left pane")
	cmd.Flags().StringVar(&rightDir, "right", "", "Start directory for the right pane")

	return cmd
}
