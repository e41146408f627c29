package playlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// LoadPLS parses a PLS playlist ([playlist] section with FileN, TitleN
// and LengthN keys). Entries are ordered by N regardless of their order
// in the file. Relative paths resolve against the playlist directory
// like M3U entries.
func LoadPLS(path string) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	baseDir := filepath.Dir(path)
	entries := make(map[int]*Track)
	entry := func(n int) *Track {
		if entries[n] == nil {
			entries[n] = &Track{Duration: -1}
		}
		return entries[n]
	}

	sawHeader := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if strings.EqualFold(line, "[playlist]") {
				sawHeader = true
			}
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case hasNumberedPrefix(key, "File"):
			n, _ := strconv.Atoi(key[4:])
			if !IsStreamURL(value) && !filepath.IsAbs(value) {
				resolved := filepath.Join(baseDir, value)
				if _, err := os.Stat(resolved); err == nil {
					value = resolved
				}
			}
			entry(n).Location = value
		case hasNumberedPrefix(key, "Title"):
			n, _ := strconv.Atoi(key[5:])
			entry(n).Title = value
		case hasNumberedPrefix(key, "Length"):
			n, _ := strconv.Atoi(key[6:])
			if secs, err := strconv.Atoi(value); err == nil {
				entry(n).Duration = secs
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, fmt.Errorf("%s: missing [playlist] section", filepath.Base(path))
	}

	numbers := make([]int, 0, len(entries))
	for n := range entries {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	pl := &Playlist{Path: path}
	for _, n := range numbers {
		if entries[n].Location != "" {
			pl.Tracks = append(pl.Tracks, *entries[n])
		}
	}
	return pl, nil
}

func hasNumberedPrefix(key, prefix string) bool {
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return false
	}
	_, err := strconv.Atoi(key[len(prefix):])
	return err == nil
}
