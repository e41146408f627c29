// Package playlist reads, writes and edits M3U and PLS playlists.
// Local entries are resolved against the playlist's directory; stream
// URLs pass through untouched.
package playlist

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Track is a single playlist entry.
type Track struct {
	Location string // Absolute path, verbatim relative path, or stream URL
	Title    string // From #EXTINF, empty if absent
	Duration int    // Seconds from #EXTINF, -1 when unknown
}

// Playlist holds an ordered track list and the file it came from.
type Playlist struct {
	Path   string
	Tracks []Track
}

// IsStreamURL reports whether a location is an http(s) URL.
func IsStreamURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load reads a playlist, dispatching on the file extension.
func Load(path string) (*Playlist, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		return LoadM3U(path)
	case ".pls":
		return LoadPLS(path)
	}
	return nil, fmt.Errorf("unsupported playlist format: %s", filepath.Base(path))
}

// Append adds a track at the end.
func (p *Playlist) Append(track Track) {
	p.Tracks = append(p.Tracks, track)
}

// Insert places a track at the given index; out-of-range indexes clamp
// to the ends.
func (p *Playlist) Insert(index int, track Track) {
	if index < 0 {
		index = 0
	}
	if index > len(p.Tracks) {
		index = len(p.Tracks)
	}
	p.Tracks = append(p.Tracks, Track{})
	copy(p.Tracks[index+1:], p.Tracks[index:])
	p.Tracks[index] = track
}

// Remove deletes the track at index. Out-of-range indexes are ignored.
func (p *Playlist) Remove(index int) {
	if index < 0 || index >= len(p.Tracks) {
		return
	}
	p.Tracks = append(p.Tracks[:index], p.Tracks[index+1:]...)
}

// Move relocates the track at from to position to, preserving the order
// of everything else.
func (p *Playlist) Move(from, to int) {
	if from < 0 || from >= len(p.Tracks) || to < 0 || to >= len(p.Tracks) || from == to {
		return
	}
	track := p.Tracks[from]
	p.Remove(from)
	p.Insert(to, track)
}

// Dedupe removes tracks with duplicate locations, keeping the first
// occurrence. Returns the number removed.
func (p *Playlist) Dedupe() int {
	seen := make(map[string]bool, len(p.Tracks))
	kept := p.Tracks[:0]
	removed := 0
	for _, track := range p.Tracks {
		if seen[track.Location] {
			removed++
			continue
		}
		seen[track.Location] = true
		kept = append(kept, track)
	}
	p.Tracks = kept
	return removed
}

// Locations returns just the track locations, in order.
func (p *Playlist) Locations() []string {
	out := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		out[i] = t.Location
	}
	return out
}
