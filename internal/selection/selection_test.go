package selection

import (
	"math/rand"
	"testing"

	"github.com/westy/filemaster/internal/units"
)

func TestSelectDeselect(t *testing.T) {
	m := NewManager()

	item := Item{Name: "test.txt", Path: "/tmp/test.txt", Size: 1024}
	if !m.Select(PaneLeft, item) {
		t.Error("First Select should return true")
	}
	if m.Select(PaneLeft, item) {
		t.Error("Duplicate Select should return false")
	}
	if !m.IsSelected(PaneLeft, "/tmp/test.txt") {
		t.Error("Item should be selected")
	}
	if m.IsSelected(PaneRight, "/tmp/test.txt") {
		t.Error("Selection must be pane-scoped")
	}
	if m.TotalSize() != 1024 {
		t.Errorf("TotalSize = %d, want 1024", m.TotalSize())
	}

	if !m.Deselect(PaneLeft, "/tmp/test.txt") {
		t.Error("Deselect should return true")
	}
	if m.Deselect(PaneLeft, "/tmp/test.txt") {
		t.Error("Deselect of missing item should return false")
	}
	if m.TotalSize() != 0 {
		t.Errorf("TotalSize after deselect = %d, want 0", m.TotalSize())
	}
}

func TestToggle(t *testing.T) {
	m := NewManager()
	item := Item{Name: "a", Path: "/a", Size: 10}

	if !m.Toggle(PaneLeft, item) {
		t.Error("Toggle on unselected item should select it")
	}
	if m.Toggle(PaneLeft, item) {
		t.Error("Toggle on selected item should deselect it")
	}
	if m.Count("") != 0 || m.TotalSize() != 0 {
		t.Error("Double toggle should leave empty selection")
	}
}

func TestPaneScoping(t *testing.T) {
	m := NewManager()
	m.Select(PaneLeft, Item{Path: "/a", Size: 1})
	m.Select(PaneLeft, Item{Path: "/b", Size: 2})
	m.Select(PaneRight, Item{Path: "/a", Size: 4})

	if got := m.Count(PaneLeft); got != 2 {
		t.Errorf("Left count = %d, want 2", got)
	}
	if got := m.Count(PaneRight); got != 1 {
		t.Errorf("Right count = %d, want 1", got)
	}
	if got := m.Count(""); got != 3 {
		t.Errorf("Total count = %d, want 3", got)
	}
	if got := m.TotalSize(); got != 7 {
		t.Errorf("TotalSize = %d, want 7", got)
	}

	m.Clear(PaneLeft)
	if got := m.Count(""); got != 1 {
		t.Errorf("Count after Clear(left) = %d, want 1", got)
	}
	if got := m.TotalSize(); got != 4 {
		t.Errorf("TotalSize after Clear(left) = %d, want 4", got)
	}

	m.ClearAll()
	if m.Count("") != 0 || m.TotalSize() != 0 {
		t.Error("ClearAll should empty the selection")
	}
}

func TestCurrentPaneDefault(t *testing.T) {
	m := NewManager()
	m.SetCurrentPane(PaneRight)

	// Empty pane argument resolves to the current pane
	m.Select("", Item{Path: "/x", Size: 5})
	if !m.IsSelected(PaneRight, "/x") {
		t.Error("Select with empty pane should target the current pane")
	}
}

func TestSelectAll(t *testing.T) {
	m := NewManager()
	m.Select(PaneLeft, Item{Path: "/a", Size: 1})

	items := []Item{
		{Path: "/a", Size: 1},
		{Path: "/b", Size: 2},
		{Path: "/c", Size: 3},
	}
	if got := m.SelectAll(PaneLeft, items); got != 2 {
		t.Errorf("SelectAll newly selected = %d, want 2", got)
	}
	if got := m.TotalSize(); got != 6 {
		t.Errorf("TotalSize = %d, want 6", got)
	}
}

func TestSummary(t *testing.T) {
	m := NewManager()
	scaler := units.NewScaler(units.IEC)

	if got := m.Summary(scaler); got != "No selection" {
		t.Errorf("Empty summary = %q", got)
	}

	m.Select(PaneLeft, Item{Path: "/a", Size: 1024})
	m.Select(PaneLeft, Item{Path: "/d", Size: 0, IsDir: true})
	if got := m.Summary(scaler); got != "2 items, 1 dir (1.0 KiB)" {
		t.Errorf("Summary = %q", got)
	}
}

// The total size invariant must hold after any sequence of operations.
func TestTotalSizeInvariantRandomOps(t *testing.T) {
	m := NewManager()
	rng := rand.New(rand.NewSource(1))

	paths := []string{"/a", "/b", "/c", "/d", "/e"}
	sizes := map[string]int64{"/a": 3, "/b": 17, "/c": 101, "/d": 0, "/e": 4096}
	panes := []Pane{PaneLeft, PaneRight}

	for i := 0; i < 2000; i++ {
		p := paths[rng.Intn(len(paths))]
		pane := panes[rng.Intn(2)]
		switch rng.Intn(4) {
		case 0:
			m.Select(pane, Item{Path: p, Size: sizes[p]})
		case 1:
			m.Deselect(pane, p)
		case 2:
			m.Toggle(pane, Item{Path: p, Size: sizes[p]})
		case 3:
			if rng.Intn(10) == 0 {
				m.Clear(pane)
			}
		}

		var want int64
		for _, item := range m.Items("") {
			want += item.Size
		}
		if got := m.TotalSize(); got != want {
			t.Fatalf("Invariant broken at op %d: TotalSize = %d, sum of items = %d", i, got, want)
		}
	}
}
