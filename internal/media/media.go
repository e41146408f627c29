// Package media classifies files by media type and provides display
// helpers for track names and durations.
package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	audioExts = map[string]bool{
		".mp3": true, ".flac": true, ".ogg": true, ".wav": true,
		".aac": true, ".m4a": true, ".wma": true, ".opus": true,
	}
	videoExts = map[string]bool{
		".mp4": true, ".avi": true, ".mkv": true, ".mov": true,
		".wmv": true, ".flv": true, ".m4v": true, ".mpg": true, ".mpeg": true,
	}
	playlistExts = map[string]bool{
		".m3u": true, ".m3u8": true, ".pls": true, ".xspf": true,
	}
)

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsAudio reports whether the filename has a supported audio extension.
func IsAudio(filename string) bool {
	return audioExts[ext(filename)]
}

// IsVideo reports whether the filename has a supported video extension.
func IsVideo(filename string) bool {
	return videoExts[ext(filename)]
}

// IsMedia reports whether the filename is audio or video.
func IsMedia(filename string) bool {
	return IsAudio(filename) || IsVideo(filename)
}

// IsPlaylist reports whether the filename has a playlist extension.
func IsPlaylist(filename string) bool {
	return playlistExts[ext(filename)]
}

// Kind returns a short type label for display: "audio", "video",
// "playlist" or "other".
func Kind(filename string) string {
	switch {
	case IsAudio(filename):
		return "audio"
	case IsVideo(filename):
		return "video"
	case IsPlaylist(filename):
		return "playlist"
	}
	return "other"
}

// FormatDuration renders seconds as MM:SS, or HH:MM:SS above an hour.
// Negative durations render as 00:00.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		return "00:00"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

var leadingTrackNumber = regexp.MustCompile(`^\d{1,3}\s*[.-]\s*`)

const maxDisplayLength = 50

// SanitizeFilename turns a filename into a readable track title: the
// extension is dropped, underscores become spaces, a leading track
// number is stripped, and long names are truncated with an ellipsis.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return "Unknown Track"
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " - ")
	name = leadingTrackNumber.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	if name == "" {
		return "Unknown Track"
	}
	// Truncate on rune boundaries; titles are often non-ASCII
	if runes := []rune(name); len(runes) > maxDisplayLength {
		name = string(runes[:maxDisplayLength-3]) + "..."
	}
	return name
}
