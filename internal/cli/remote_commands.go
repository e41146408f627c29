// Package cli: remote storage commands (ls, push, pull, rm, profiles).
package cli

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/westy/filemaster/internal/config"
	"github.com/westy/filemaster/internal/localfs"
	"github.com/westy/filemaster/internal/progress"
	"github.com/westy/filemaster/internal/remote"
	"github.com/westy/filemaster/internal/units"
)

// newRemoteCmd creates the 'remote' command group.
func newRemoteCmd() *cobra.Command {
	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Push and pull files against S3 or Azure Blob storage",
		Long: `Remote storage operations against profiles defined in ` + config.ProfilesFile() + `.

A profile is an INI section naming the provider and credentials:

  [nas]
  provider = s3
  access_key = ...
  secret_key = ...
  host_base = minio.local:9000
  bucket = backups
  use_https = False

Commands:
  profiles - List configured profiles
  ls       - List objects under a prefix
  push     - Upload local files
  pull     - Download objects
  rm       - Delete objects`,
	}

	remoteCmd.AddCommand(newRemoteProfilesCmd())
	remoteCmd.AddCommand(newRemoteLsCmd())
	remoteCmd.AddCommand(newRemotePushCmd())
	remoteCmd.AddCommand(newRemotePullCmd())
	remoteCmd.AddCommand(newRemoteRmCmd())

	return remoteCmd
}

// openBackend resolves a profile by name and builds its backend.
func openBackend(name string) (remote.Backend, *config.Profile, error) {
	profiles, err := config.LoadProfiles(config.ProfilesFile())
	if err != nil {
		return nil, nil, err
	}
	profile, ok := profiles[name]
	if !ok {
		return nil, nil, fmt.Errorf("no profile %q in %s", name, config.ProfilesFile())
	}
	backend, err := remote.New(GetContext(), profile)
	if err != nil {
		return nil, nil, err
	}
	return backend, profile, nil
}

func newRemoteProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured remote profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := config.LoadProfiles(config.ProfilesFile())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Printf("No profiles in %s\n", config.ProfilesFile())
				return nil
			}

			names := make([]string, 0, len(profiles))
			for name := range profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				p := profiles[name]
				endpoint := p.Endpoint
				if endpoint == "" {
					endpoint = "(provider default)"
				}
				fmt.Printf("%-15s %-6s %-20s %s\n", name, p.Provider, p.Bucket, endpoint)
			}
			return nil
		},
	}
}

func newRemoteLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <profile> [prefix]",
		Short: "List objects under a prefix",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			backend, _, err := openBackend(args[0])
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) == 2 {
				prefix = args[1]
			}

			objects, err := backend.List(GetContext(), prefix)
			if err != nil {
				return err
			}

			scaler := newScaler(cfg)
			for _, obj := range objects {
				if obj.IsDir {
					fmt.Printf("%10s  %16s  %s/\n", "<dir>", "", obj.Key)
					continue
				}
				fmt.Printf("%10s  %16s  %s\n",
					scaler.FormatSize(obj.Size),
					obj.LastModified.Format("2006-01-02 15:04"),
					obj.Key)
			}
			return nil
		},
	}
}

func newRemotePushCmd() *cobra.Command {
	var keyPrefix string

	cmd := &cobra.Command{
		Use:   "push <profile> <file> [file...]",
		Short: "Upload local files to a remote",
		Long: `Upload files to the profile's bucket or container. Keys are the file
base names, optionally below --prefix.

Examples:
  filemaster remote push nas backup.tar.gz
  filemaster remote push nas *.ts --prefix recordings/2026`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, profile, err := openBackend(args[0])
			if err != nil {
				return err
			}
			ctx := GetContext()

			for _, local := range args[1:] {
				entry, err := localfs.Stat(local)
				if err != nil {
					return err
				}
				if entry.IsDir {
					return fmt.Errorf("%s is a directory; push files individually", local)
				}

				key := entry.Name
				if keyPrefix != "" {
					key = path.Join(keyPrefix, key)
				}

				bar := progress.NewCLIProgress()
				bar.Start(entry.Size, "push "+entry.Name)
				rate := units.NewRateCalculator(0)
				var sent int64
				err = backend.Upload(ctx, local, key, func(n int64) {
					sent += n
					rate.AddSample(sent)
					bar.Update(sent)
				})
				if err != nil {
					bar.Error(err)
					return err
				}
				bar.Finish()
				fmt.Printf("pushed %s -> %s/%s (%s)\n",
					local, profile.Bucket, key, units.FormatSpeed(rate.AverageRate()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&keyPrefix, "prefix", "", "Key prefix for uploaded files")
	return cmd
}

func newRemotePullCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "pull <profile> <key> [key...]",
		Short: "Download objects from a remote",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := openBackend(args[0])
			if err != nil {
				return err
			}
			ctx := GetContext()

			for _, key := range args[1:] {
				obj, err := backend.Stat(ctx, key)
				if err != nil {
					return err
				}
				local := filepath.Join(outDir, path.Base(key))

				bar := progress.NewCLIProgress()
				bar.Start(obj.Size, "pull "+path.Base(key))
				rate := units.NewRateCalculator(0)
				var got int64
				err = backend.Download(ctx, key, local, func(n int64) {
					got += n
					rate.AddSample(got)
					bar.Update(got)
				})
				if err != nil {
					bar.Error(err)
					return err
				}
				bar.Finish()
				fmt.Printf("pulled %s -> %s (%s)\n", key, local, units.FormatSpeed(rate.AverageRate()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", ".", "Destination directory")
	return cmd
}

func newRemoteRmCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "rm <profile> <key> [key...]",
		Short: "Delete objects from a remote",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, profile, err := openBackend(args[0])
			if err != nil {
				return err
			}

			keys := args[1:]
			noun := "objects"
			if len(keys) == 1 {
				noun = "object"
			}
			ok, err := confirm(fmt.Sprintf("Delete %d %s from %s?", len(keys), noun, profile.Bucket), assumeYes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}

			ctx := GetContext()
			for _, key := range keys {
				if err := backend.Delete(ctx, key); err != nil {
					return err
				}
				fmt.Printf("deleted %s\n", key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
