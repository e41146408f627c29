// Package cli: playlist commands.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/westy/filemaster/internal/media"
	"github.com/westy/filemaster/internal/playlist"
)

// newPlaylistCmd creates the 'playlist' command group.
func newPlaylistCmd() *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:   "playlist",
		Short: "Show, edit and convert playlists",
		Long: `Playlist management for M3U, M3U8 and PLS files.

Commands:
  show    - List the tracks of a playlist
  create  - Build a new M3U playlist from locations
  add     - Append tracks to a playlist
  remove  - Remove a track by position
  dedupe  - Drop duplicate locations
  convert - Rewrite a playlist as M3U
  fetch   - Download the stream entries of a playlist`,
	}

	playlistCmd.AddCommand(newPlaylistShowCmd())
	playlistCmd.AddCommand(newPlaylistCreateCmd())
	playlistCmd.AddCommand(newPlaylistAddCmd())
	playlistCmd.AddCommand(newPlaylistRemoveCmd())
	playlistCmd.AddCommand(newPlaylistDedupeCmd())
	playlistCmd.AddCommand(newPlaylistConvertCmd())
	playlistCmd.AddCommand(newPlaylistFetchCmd())

	return playlistCmd
}

// requireM3U refuses edit targets we cannot write back.
func requireM3U(path string) error {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".m3u") || strings.HasSuffix(lower, ".m3u8") {
		return nil
	}
	return fmt.Errorf("%s: only M3U playlists can be written; use 'playlist convert' first", path)
}

func newPlaylistShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <playlist>",
		Short: "List the tracks of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := playlist.Load(args[0])
			if err != nil {
				return err
			}

			for i, track := range pl.Tracks {
				title := track.Title
				if title == "" {
					title = track.Location
				}
				duration := ""
				if track.Duration >= 0 {
					duration = " [" + media.FormatDuration(float64(track.Duration)) + "]"
				}
				marker := " "
				if playlist.IsStreamURL(track.Location) {
					marker = "~"
				}
				fmt.Printf("%3d %s %s%s\n", i+1, marker, title, duration)
			}
			fmt.Printf("%d tracks\n", len(pl.Tracks))
			return nil
		},
	}
}

func newPlaylistCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <playlist.m3u> <location> [location...]",
		Short: "Build a new M3U playlist from files or stream URLs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireM3U(args[0]); err != nil {
				return err
			}

			pl := &playlist.Playlist{Path: args[0]}
			for _, location := range args[1:] {
				pl.Append(playlist.Track{Location: location, Duration: -1})
			}
			if err := pl.SaveM3U(args[0]); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d tracks)\n", args[0], len(pl.Tracks))
			return nil
		},
	}
}

func newPlaylistAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <playlist.m3u> <location> [location...]",
		Short: "Append tracks to a playlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireM3U(args[0]); err != nil {
				return err
			}

			pl, err := playlist.Load(args[0])
			if err != nil {
				return err
			}
			for _, location := range args[1:] {
				pl.Append(playlist.Track{Location: location, Duration: -1})
			}
			if err := pl.SaveM3U(args[0]); err != nil {
				return err
			}
			fmt.Printf("added %d tracks, now %d\n", len(args)-1, len(pl.Tracks))
			return nil
		},
	}
}

func newPlaylistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <playlist.m3u> <position>",
		Short: "Remove the track at a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireM3U(args[0]); err != nil {
				return err
			}

			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}

			pl, err := playlist.Load(args[0])
			if err != nil {
				return err
			}
			if pos < 1 || pos > len(pl.Tracks) {
				return fmt.Errorf("position %d out of range 1..%d", pos, len(pl.Tracks))
			}

			removed := pl.Tracks[pos-1].Location
			pl.Remove(pos - 1)
			if err := pl.SaveM3U(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s, %d tracks left\n", removed, len(pl.Tracks))
			return nil
		},
	}
}

func newPlaylistDedupeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe <playlist.m3u>",
		Short: "Drop tracks with duplicate locations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireM3U(args[0]); err != nil {
				return err
			}

			pl, err := playlist.Load(args[0])
			if err != nil {
				return err
			}
			removed := pl.Dedupe()
			if removed == 0 {
				fmt.Println("no duplicates")
				return nil
			}
			if err := pl.SaveM3U(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %d duplicates, %d tracks left\n", removed, len(pl.Tracks))
			return nil
		},
	}
}

func newPlaylistConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <source> <target.m3u>",
		Short: "Rewrite a playlist (M3U, M3U8 or PLS) as M3U",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireM3U(args[1]); err != nil {
				return err
			}

			pl, err := playlist.Load(args[0])
			if err != nil {
				return err
			}
			if err := pl.SaveM3U(args[1]); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d tracks)\n", args[1], len(pl.Tracks))
			return nil
		},
	}
}

func newPlaylistFetchCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "fetch <playlist>",
		Short: "Download the stream entries of a playlist",
		Long: `Download every http(s) entry of a playlist into a directory. Local
entries are skipped; existing files are not overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := playlist.Load(args[0])
			if err != nil {
				return err
			}

			fetcher := playlist.NewFetcher(GetLogger())
			results := fetcher.FetchStreams(GetContext(), pl, outDir)

			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Printf("fail  %s: %v\n", res.URL, res.Err)
					continue
				}
				fmt.Printf("done  %s -> %s\n", res.URL, res.Dest)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(results))
			}
			if len(results) == 0 {
				fmt.Println("no stream entries")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", ".", "Destination directory")
	return cmd
}
