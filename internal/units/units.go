// Package units formats byte counts, transfer rates and durations for
// display, and parses human-entered sizes back into byte counts.
package units

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// System selects the unit family used for formatting.
type System string

const (
	// IEC uses 1024-based units (KiB, MiB, ...). The default.
	IEC System = "IEC"
	// SI uses 1000-based units (KB, MB, ...).
	SI System = "SI"
)

var (
	iecSuffixes = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}
	siSuffixes  = []string{"B", "KB", "MB", "GB", "TB", "PB"}
)

// Scaler formats values in a fixed unit system with a fixed precision.
type Scaler struct {
	System        System
	DecimalPlaces int
}

// NewScaler returns a scaler for the given system with one decimal place.
func NewScaler(system System) *Scaler {
	if system != SI {
		system = IEC
	}
	return &Scaler{System: system, DecimalPlaces: 1}
}

func (s *Scaler) base() float64 {
	if s.System == SI {
		return 1000
	}
	return 1024
}

func (s *Scaler) suffixes() []string {
	if s.System == SI {
		return siSuffixes
	}
	return iecSuffixes
}

// FormatSize renders a byte count, e.g. 1536 -> "1.5 KiB".
// Negative values format as "-" plus the absolute value.
func (s *Scaler) FormatSize(bytes int64) string {
	neg := ""
	v := float64(bytes)
	if v < 0 {
		neg = "-"
		v = -v
	}

	base := s.base()
	suffixes := s.suffixes()
	i := 0
	for v >= base && i < len(suffixes)-1 {
		v /= base
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%s%d B", neg, int64(v))
	}
	return fmt.Sprintf("%s%.*f %s", neg, s.DecimalPlaces, v, suffixes[i])
}

// FormatSpeed renders a transfer rate, e.g. "12.4 MiB/s".
func (s *Scaler) FormatSpeed(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	return s.FormatSize(int64(bytesPerSec)) + "/s"
}

// FormatETA renders a remaining-time estimate in words: "1h 02m", "3m 05s",
// "12s". Negative or unknown durations render as "--".
func (s *Scaler) FormatETA(d time.Duration) string {
	if d < 0 {
		return "--"
	}
	secs := int64(d.Seconds())
	switch {
	case secs >= 3600:
		return fmt.Sprintf("%dh %02dm", secs/3600, (secs%3600)/60)
	case secs >= 60:
		return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// FormatSelectionSummary renders the footer line for a selection:
// "3 items (1.2 MiB)" or "2 items, 1 dir (300 B)".
func (s *Scaler) FormatSelectionSummary(fileCount int, totalSize int64, dirCount int) string {
	count := fileCount + dirCount
	if count == 0 {
		return "No selection"
	}

	plural := "s"
	if count == 1 {
		plural = ""
	}
	if dirCount > 0 {
		dirPlural := "s"
		if dirCount == 1 {
			dirPlural = ""
		}
		return fmt.Sprintf("%d item%s, %d dir%s (%s)", count, plural, dirCount, dirPlural, s.FormatSize(totalSize))
	}
	return fmt.Sprintf("%d item%s (%s)", count, plural, s.FormatSize(totalSize))
}

// Parse converts a human-entered size such as "512", "1.5 GiB" or "2 MB"
// into bytes. Both unit families are accepted regardless of the scaler's
// configured system; a bare number means bytes.
func (s *Scaler) Parse(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("empty size")
	}

	// Split number and suffix
	i := 0
	for i < len(text) && (text[i] == '.' || text[i] == '-' || (text[i] >= '0' && text[i] <= '9')) {
		i++
	}
	numPart := text[:i]
	suffix := strings.TrimSpace(text[i:])

	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", text, err)
	}

	if suffix == "" || strings.EqualFold(suffix, "B") {
		return int64(value), nil
	}

	for idx, sfx := range iecSuffixes {
		if strings.EqualFold(suffix, sfx) {
			mult := 1.0
			for j := 0; j < idx; j++ {
				mult *= 1024
			}
			return int64(value * mult), nil
		}
	}
	for idx, sfx := range siSuffixes {
		if strings.EqualFold(suffix, sfx) {
			mult := 1.0
			for j := 0; j < idx; j++ {
				mult *= 1000
			}
			return int64(value * mult), nil
		}
	}
	// Accept shorthand like "1.5G" or "512k"
	for idx, letter := range []string{"", "K", "M", "G", "T", "P"} {
		if idx > 0 && strings.EqualFold(suffix, letter) {
			mult := 1.0
			for j := 0; j < idx; j++ {
				mult *= 1024
			}
			return int64(value * mult), nil
		}
	}

	return 0, fmt.Errorf("unknown size suffix %q", suffix)
}

// FormatSize formats with the default IEC scaler.
func FormatSize(bytes int64) string {
	return defaultScaler.FormatSize(bytes)
}

// FormatSpeed formats with the default IEC scaler.
func FormatSpeed(bytesPerSec float64) string {
	return defaultScaler.FormatSpeed(bytesPerSec)
}

// FormatETA formats with the default IEC scaler.
func FormatETA(d time.Duration) string {
	return defaultScaler.FormatETA(d)
}

var defaultScaler = NewScaler(IEC)
