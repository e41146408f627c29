package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadM3U(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local.mp3")
	if err := os.WriteFile(local, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	content := strings.Join([]string{
		"#EXTM3U",
		"# a comment",
		"#EXTINF:215,Artist - Song",
		"local.mp3",
		"missing-relative.mp3",
		"http://radio.example.com/stream.mp3",
		"",
	}, "\n")
	plPath := filepath.Join(dir, "list.m3u")
	if err := os.WriteFile(plPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	pl, err := LoadM3U(plPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(pl.Tracks) != 3 {
		t.Fatalf("Loaded %d tracks, want 3: %v", len(pl.Tracks), pl.Locations())
	}

	// Existing relative path resolved against playlist dir
	if pl.Tracks[0].Location != local {
		t.Errorf("Track 0 = %q, want %q", pl.Tracks[0].Location, local)
	}
	if pl.Tracks[0].Title != "Artist - Song" || pl.Tracks[0].Duration != 215 {
		t.Errorf("EXTINF not applied: %+v", pl.Tracks[0])
	}

	// Missing relative path kept verbatim
	if pl.Tracks[1].Location != "missing-relative.mp3" {
		t.Errorf("Track 1 = %q, want verbatim relative", pl.Tracks[1].Location)
	}
	if pl.Tracks[1].Duration != -1 {
		t.Errorf("EXTINF must not leak to next track: %+v", pl.Tracks[1])
	}

	// Stream URL untouched
	if pl.Tracks[2].Location != "http://radio.example.com/stream.mp3" {
		t.Errorf("Track 2 = %q", pl.Tracks[2].Location)
	}
}

func TestLoadM3UDropsMissingAbsolute(t *testing.T) {
	dir := t.TempDir()
	content := "/definitely/not/there.mp3\n"
	plPath := filepath.Join(dir, "list.m3u")
	os.WriteFile(plPath, []byte(content), 0644)

	pl, err := LoadM3U(plPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(pl.Tracks) != 0 {
		t.Errorf("Missing absolute paths should be dropped, got %v", pl.Locations())
	}
}

func TestSaveM3URoundTrip(t *testing.T) {
	dir := t.TempDir()
	track := filepath.Join(dir, "song.mp3")
	os.WriteFile(track, []byte("x"), 0644)

	pl := &Playlist{Tracks: []Track{
		{Location: track, Title: "A Song", Duration: 120},
		{Location: "http://radio.example.com/live", Duration: -1},
	}}

	out := filepath.Join(dir, "out.m3u")
	if err := pl.SaveM3U(out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "#EXTM3U\n") {
		t.Error("Saved playlist missing #EXTM3U header")
	}
	if !strings.Contains(text, "#EXTINF:120,A Song") {
		t.Errorf("Saved playlist missing EXTINF:\n%s", text)
	}

	loaded, err := LoadM3U(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Tracks) != 2 {
		t.Fatalf("Round trip lost tracks: %v", loaded.Locations())
	}
	if loaded.Tracks[0].Location != track || loaded.Tracks[0].Title != "A Song" {
		t.Errorf("Round trip track 0 = %+v", loaded.Tracks[0])
	}
}

func TestLoadPLS(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"[playlist]",
		"NumberOfEntries=2",
		"File2=http://radio.example.com/b",
		"Title2=Station B",
		"File1=http://radio.example.com/a",
		"Title1=Station A",
		"Length1=300",
	}, "\n")
	plPath := filepath.Join(dir, "list.pls")
	os.WriteFile(plPath, []byte(content), 0644)

	pl, err := Load(plPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(pl.Tracks) != 2 {
		t.Fatalf("Loaded %d tracks, want 2", len(pl.Tracks))
	}
	// Ordered by entry number, not file order
	if pl.Tracks[0].Title != "Station A" || pl.Tracks[0].Duration != 300 {
		t.Errorf("Track 0 = %+v", pl.Tracks[0])
	}
	if pl.Tracks[1].Location != "http://radio.example.com/b" {
		t.Errorf("Track 1 = %+v", pl.Tracks[1])
	}
}

func TestLoadPLSMissingHeader(t *testing.T) {
	plPath := filepath.Join(t.TempDir(), "bad.pls")
	os.WriteFile(plPath, []byte("File1=x\n"), 0644)
	if _, err := LoadPLS(plPath); err == nil {
		t.Error("PLS without [playlist] section should fail")
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	if _, err := Load("list.xspf"); err == nil {
		t.Error("Unsupported format should fail")
	}
}

func TestEditing(t *testing.T) {
	pl := &Playlist{Tracks: []Track{
		{Location: "a"}, {Location: "b"}, {Location: "c"},
	}}

	pl.Append(Track{Location: "d"})
	pl.Insert(0, Track{Location: "z"})
	if got := strings.Join(pl.Locations(), ","); got != "z,a,b,c,d" {
		t.Fatalf("After append+insert: %s", got)
	}

	pl.Move(0, 4)
	if got := strings.Join(pl.Locations(), ","); got != "a,b,c,d,z" {
		t.Fatalf("After move: %s", got)
	}

	pl.Remove(2)
	if got := strings.Join(pl.Locations(), ","); got != "a,b,d,z" {
		t.Fatalf("After remove: %s", got)
	}

	// Out-of-range edits are no-ops
	pl.Remove(99)
	pl.Move(-1, 2)
	if len(pl.Tracks) != 4 {
		t.Error("Out-of-range edits must not change the list")
	}
}

func TestDedupe(t *testing.T) {
	pl := &Playlist{Tracks: []Track{
		{Location: "a"}, {Location: "b"}, {Location: "a"}, {Location: "c"}, {Location: "b"},
	}}
	if removed := pl.Dedupe(); removed != 2 {
		t.Errorf("Dedupe removed %d, want 2", removed)
	}
	if got := strings.Join(pl.Locations(), ","); got != "a,b,c" {
		t.Errorf("After dedupe: %s", got)
	}
}

func TestIsStreamURL(t *testing.T) {
	tests := []struct {
		loc  string
		want bool
	}{
		{"http://x/y", true},
		{"https://x/y", true},
		{"HTTP://X/Y", true},
		{"/local/path.mp3", false},
		{"relative.mp3", false},
		{"ftp://x/y", false},
	}
	for _, tt := range tests {
		if got := IsStreamURL(tt.loc); got != tt.want {
			t.Errorf("IsStreamURL(%q) = %v, want %v", tt.loc, got, tt.want)
		}
	}
}

func TestFilenameForURL(t *testing.T) {
	name, err := filenameForURL("http://example.com/music/track.mp3?auth=1")
	if err != nil || name != "track.mp3" {
		t.Errorf("filenameForURL = %q, %v", name, err)
	}
	if _, err := filenameForURL("http://example.com/"); err == nil {
		t.Error("Bare host URL should not yield a filename")
	}
}
