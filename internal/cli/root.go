// Package cli provides the command-line interface for filemaster.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/westy/filemaster/internal/config"
	"github.com/westy/filemaster/internal/logging"
	"github.com/westy/filemaster/internal/units"
	"github.com/westy/filemaster/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	debug   bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filemaster",
		Short: "Dual-pane file manager and batch operation toolkit",
		Long: `FileMaster ` + version.Version + ` - Built: ` + version.BuildTime + `

File management from the terminal: batch copy/move/delete with
progress, checksums and duplicate detection, zip/tar archives,
playlist editing, and push/pull against S3 or Azure Blob remotes.

Run without arguments for command help, or use 'filemaster browse'
for the interactive dual-pane browser.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultLogger()
			if verbose || debug {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling operations...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newDfCmd())
	rootCmd.AddCommand(newChecksumCmd())
	rootCmd.AddCommand(newDupesCmd())
	rootCmd.AddCommand(newCopyCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newChmodCmd())
	rootCmd.AddCommand(newCompressCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newPlaylistCmd())
	rootCmd.AddCommand(newRemoteCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling. It is
// cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadConfig reads the configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.ConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// configPath returns the effective configuration file path.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigFile()
}

// newScaler builds the display scaler from configuration.
func newScaler(cfg *config.Config) *units.Scaler {
	if cfg.UI.UnitSystem == "si" {
		return units.NewScaler(units.SI)
	}
	return units.NewScaler(units.IEC)
}
