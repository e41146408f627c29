package fsops

import (
	"testing"
	"time"
)

func TestApplyPattern(t *testing.T) {
	now := time.Date(2026, 8, 27, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		pattern  string
		original string
		index    int
		want     string
	}{
		{"{name}{ext}", "song.mp3", 1, "song.mp3"},
		{"{fullname}", "song.mp3", 1, "song.mp3"},
		{"{n}-{name}{ext}", "song.mp3", 7, "7-song.mp3"},
		{"{n:03d}_{name}{ext}", "song.mp3", 7, "007_song.mp3"},
		{"{n:2d}{ext}", "song.mp3", 4, "04.mp3"},
		{"{date}-{name}{ext}", "song.mp3", 1, "20260827-song.mp3"},
		{"{time}{ext}", "song.mp3", 1, "143045.mp3"},
		{"{name}_backup{ext}", "archive.tar.gz", 1, "archive.tar_backup.gz"},
		{"fixed.txt", "song.mp3", 1, "fixed.txt"},
		{"{name}", "noext", 1, "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := applyPatternAt(tt.pattern, tt.original, tt.index, now)
			if got != tt.want {
				t.Errorf("applyPatternAt(%q, %q, %d) = %q, want %q",
					tt.pattern, tt.original, tt.index, got, tt.want)
			}
		})
	}
}
