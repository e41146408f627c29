package playlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/westy/filemaster/internal/version"
)

// LoadM3U parses an M3U/M3U8 playlist. The #EXTM3U header is optional.
// #EXTINF lines attach duration and title to the following entry; other
// comment lines are ignored. Relative paths are resolved against the
// playlist's directory when the target exists, otherwise kept verbatim
// so the reference survives a round trip. Absolute paths that no longer
// exist are dropped.
func LoadM3U(path string) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pl := &Playlist{Path: path}
	baseDir := filepath.Dir(path)

	pending := Track{Duration: -1}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if strings.HasPrefix(line, "#EXTINF:") {
				pending = parseExtInf(line)
			}
			continue
		}

		track := pending
		pending = Track{Duration: -1}

		switch {
		case IsStreamURL(line):
			track.Location = line
		case filepath.IsAbs(line):
			if _, err := os.Stat(line); err != nil {
				continue
			}
			track.Location = line
		default:
			resolved := filepath.Join(baseDir, line)
			if _, err := os.Stat(resolved); err == nil {
				track.Location = resolved
			} else {
				track.Location = line
			}
		}
		pl.Tracks = append(pl.Tracks, track)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pl, nil
}

// parseExtInf extracts duration and title from an #EXTINF line.
// Format: #EXTINF:<seconds>,<title>
func parseExtInf(line string) Track {
	track := Track{Duration: -1}
	body := strings.TrimPrefix(line, "#EXTINF:")
	idx := strings.Index(body, ",")
	if idx < 0 {
		return track
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(body[:idx])); err == nil {
		track.Duration = secs
	}
	track.Title = strings.TrimSpace(body[idx+1:])
	return track
}

// SaveM3U writes the playlist in extended M3U format. Tracks with a
// title or known duration get an #EXTINF line.
func (p *Playlist) SaveM3U(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "#EXTM3U")
	fmt.Fprintf(w, "# Created by filemaster %s\n", version.Version)
	fmt.Fprintf(w, "# Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	for _, track := range p.Tracks {
		if track.Title != "" || track.Duration >= 0 {
			duration := track.Duration
			if duration < 0 {
				duration = -1
			}
			fmt.Fprintf(w, "#EXTINF:%d,%s\n", duration, track.Title)
		}
		fmt.Fprintln(w, track.Location)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
