package diskspace

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetUsage(t *testing.T) {
	usage, err := GetUsage(t.TempDir())
	if err != nil {
		t.Fatalf("GetUsage: %v", err)
	}
	if usage.Total <= 0 {
		t.Errorf("Total = %d, want > 0", usage.Total)
	}
	if usage.Available < 0 || usage.Available > usage.Total {
		t.Errorf("Available = %d out of range (total %d)", usage.Available, usage.Total)
	}
	if p := usage.UsedPercent(); p < 0 || p > 100 {
		t.Errorf("UsedPercent = %f out of range", p)
	}
}

func TestUsedPercentEmpty(t *testing.T) {
	if p := (Usage{}).UsedPercent(); p != 0 {
		t.Errorf("UsedPercent on zero usage = %f, want 0", p)
	}
}

func TestCheckAvailableSpace(t *testing.T) {
	target := filepath.Join(t.TempDir(), "new-file.bin")

	// A tiny requirement must always pass
	if err := CheckAvailableSpace(target, 1, 1.1); err != nil {
		t.Errorf("CheckAvailableSpace(1 byte) = %v", err)
	}

	// An absurd requirement must fail with the typed error
	const petabyte = int64(1) << 50
	err := CheckAvailableSpace(target, petabyte, 1.0)
	if err == nil {
		t.Fatal("Expected insufficient space error for 1 PiB requirement")
	}
	var ise *InsufficientSpaceError
	if !errors.As(err, &ise) {
		t.Fatalf("Error type = %T, want *InsufficientSpaceError", err)
	}
	if !IsInsufficientSpaceError(err) {
		t.Error("IsInsufficientSpaceError should report true")
	}
	if !strings.Contains(err.Error(), "insufficient disk space") {
		t.Errorf("Error message = %q", err.Error())
	}
	if ise.Path != target {
		t.Errorf("Error path = %q, want %q", ise.Path, target)
	}
}

func TestCheckAvailableSpaceUnstattablePath(t *testing.T) {
	// A nonexistent parent cannot be statted; the check must not block
	// the operation.
	if err := CheckAvailableSpace("/nonexistent-root-dir/sub/file", 1, 1.1); err != nil {
		t.Errorf("Unstattable path should pass the check, got %v", err)
	}
}

func TestGetAvailableSpace(t *testing.T) {
	target := filepath.Join(t.TempDir(), "f")
	if avail := GetAvailableSpace(target); avail <= 0 {
		t.Errorf("GetAvailableSpace = %d, want > 0", avail)
	}
	if avail := GetAvailableSpace("/nonexistent-root-dir/f"); avail != 0 {
		t.Errorf("GetAvailableSpace on bad path = %d, want 0", avail)
	}
}
