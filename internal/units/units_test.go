package units

import (
	"testing"
	"time"
)

func TestFormatSizeIEC(t *testing.T) {
	s := NewScaler(IEC)
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := s.FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatSizeSI(t *testing.T) {
	s := NewScaler(SI)
	if got := s.FormatSize(1500); got != "1.5 KB" {
		t.Errorf("FormatSize(1500) = %q, want %q", got, "1.5 KB")
	}
	if got := s.FormatSize(2000000); got != "2.0 MB" {
		t.Errorf("FormatSize(2000000) = %q, want %q", got, "2.0 MB")
	}
}

func TestFormatSpeed(t *testing.T) {
	s := NewScaler(IEC)
	if got := s.FormatSpeed(0); got != "0 B/s" {
		t.Errorf("FormatSpeed(0) = %q", got)
	}
	if got := s.FormatSpeed(2048); got != "2.0 KiB/s" {
		t.Errorf("FormatSpeed(2048) = %q, want %q", got, "2.0 KiB/s")
	}
}

func TestFormatETA(t *testing.T) {
	s := NewScaler(IEC)
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-1 * time.Second, "--"},
		{12 * time.Second, "12s"},
		{185 * time.Second, "3m 05s"},
		{3720 * time.Second, "1h 02m"},
	}
	for _, tt := range tests {
		if got := s.FormatETA(tt.d); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSelectionSummary(t *testing.T) {
	s := NewScaler(IEC)
	if got := s.FormatSelectionSummary(0, 0, 0); got != "No selection" {
		t.Errorf("Empty summary = %q", got)
	}
	if got := s.FormatSelectionSummary(1, 1024, 0); got != "1 item (1.0 KiB)" {
		t.Errorf("Single item summary = %q", got)
	}
	if got := s.FormatSelectionSummary(2, 300, 1); got != "3 items, 1 dir (300 B)" {
		t.Errorf("Mixed summary = %q", got)
	}
}

func TestParse(t *testing.T) {
	s := NewScaler(IEC)
	tests := []struct {
		text string
		want int64
	}{
		{"512", 512},
		{"512 B", 512},
		{"1 KiB", 1024},
		{"1.5 KiB", 1536},
		{"2 MB", 2000000},
		{"1.5G", 1610612736},
		{"1 GiB", 1073741824},
	}
	for _, tt := range tests {
		got, err := s.Parse(tt.text)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	s := NewScaler(IEC)
	for _, text := range []string{"", "abc", "1.5 XB"} {
		if _, err := s.Parse(text); err == nil {
			t.Errorf("Parse(%q) should fail", text)
		}
	}
}

func TestRateCalculator(t *testing.T) {
	r := NewRateCalculator(10)

	if r.CurrentRate() != 0 {
		t.Error("Rate with no samples should be 0")
	}

	r.AddSample(0)
	time.Sleep(20 * time.Millisecond)
	r.AddSample(100000)

	rate := r.CurrentRate()
	if rate <= 0 {
		t.Errorf("Expected positive rate, got %f", rate)
	}

	if eta := r.ETA(100000); eta != 0 {
		t.Errorf("ETA with everything transferred should be 0, got %v", eta)
	}
	if eta := r.ETA(200000); eta <= 0 {
		t.Errorf("Expected positive ETA, got %v", eta)
	}

	if p := r.Progress(200000); p != 0.5 {
		t.Errorf("Progress = %f, want 0.5", p)
	}

	r.Reset()
	if r.CurrentRate() != 0 {
		t.Error("Rate after Reset should be 0")
	}
}

func TestRateCalculatorWindow(t *testing.T) {
	r := NewRateCalculator(3)
	for i := 0; i < 10; i++ {
		r.AddSample(int64(i * 1000))
	}
	r.mu.Lock()
	n := len(r.samples)
	r.mu.Unlock()
	if n != 3 {
		t.Errorf("Window should cap samples at 3, got %d", n)
	}
}
