// Package selection tracks multi-selected files and directories across the
// two browser panes and maintains the running total of selected bytes.
package selection

import (
	"sync"

	"github.com/westy/filemaster/internal/units"
)

// Pane identifies one of the two browser panels.
type Pane string

const (
	PaneLeft  Pane = "left"
	PaneRight Pane = "right"
)

// Item holds the metadata recorded for a selected entry.
type Item struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

type key struct {
	pane Pane
	path string
}

// Manager is the selection bookkeeping for both panes. Safe for concurrent
// use; the TUI and transfer workers both read it.
//
// Invariant: totalSize is always the exact sum of the sizes of the entries
// currently in items. Every mutation adjusts it by the affected entry's size
// exactly once.
type Manager struct {
	mu          sync.RWMutex
	items       map[key]Item
	totalSize   int64
	currentPane Pane
}

// NewManager creates an empty selection with the left pane active.
func NewManager() *Manager {
	return &Manager{
		items:       make(map[key]Item),
		currentPane: PaneLeft,
	}
}

// SetCurrentPane records which pane is active. Operations that take an empty
// pane default to it.
func (m *Manager) SetCurrentPane(pane Pane) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPane = pane
}

// CurrentPane returns the active pane.
func (m *Manager) CurrentPane() Pane {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentPane
}

func (m *Manager) resolve(pane Pane) Pane {
	if pane == "" {
		return m.currentPane
	}
	return pane
}

// Select adds an item to the selection. Returns false if it was already
// selected (a no-op).
func (m *Manager) Select(pane Pane, item Item) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{m.resolve(pane), item.Path}
	if _, ok := m.items[k]; ok {
		return false
	}
	m.items[k] = item
	m.totalSize += item.Size
	return true
}

// Deselect removes an item from the selection. Returns false if it was not
// selected (a no-op).
func (m *Manager) Deselect(pane Pane, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{m.resolve(pane), path}
	item, ok := m.items[k]
	if !ok {
		return false
	}
	delete(m.items, k)
	m.totalSize -= item.Size
	return true
}

// Toggle flips the selection state of an item. Returns true if the item is
// selected after the call.
func (m *Manager) Toggle(pane Pane, item Item) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{m.resolve(pane), item.Path}
	if old, ok := m.items[k]; ok {
		delete(m.items, k)
		m.totalSize -= old.Size
		return false
	}
	m.items[k] = item
	m.totalSize += item.Size
	return true
}

// IsSelected reports whether the path is selected in the pane.
func (m *Manager) IsSelected(pane Pane, path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key{m.resolve(pane), path}]
	return ok
}

// Clear removes selections for the given pane, or all selections when pane
// is empty and allPanes is true.
func (m *Manager) Clear(pane Pane) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, item := range m.items {
		if k.pane == pane {
			delete(m.items, k)
			m.totalSize -= item.Size
		}
	}
}

// ClearAll removes every selection from both panes.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[key]Item)
	m.totalSize = 0
}

// Paths returns the selected paths for a pane, or all panes when pane is "".
func (m *Manager) Paths(pane Pane) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.items))
	for k := range m.items {
		if pane == "" || k.pane == pane {
			paths = append(paths, k.path)
		}
	}
	return paths
}

// Items returns the selected items for a pane, or all panes when pane is "".
func (m *Manager) Items(pane Pane) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Item, 0, len(m.items))
	for k, item := range m.items {
		if pane == "" || k.pane == pane {
			items = append(items, item)
		}
	}
	return items
}

// ByPane returns the selected items grouped by pane.
func (m *Manager) ByPane() map[Pane][]Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[Pane][]Item)
	for k, item := range m.items {
		result[k.pane] = append(result[k.pane], item)
	}
	return result
}

// Count returns the number of selected items for a pane, or all panes when
// pane is "".
func (m *Manager) Count(pane Pane) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if pane == "" {
		return len(m.items)
	}
	n := 0
	for k := range m.items {
		if k.pane == pane {
			n++
		}
	}
	return n
}

// TotalSize returns the total size in bytes of all selected items.
func (m *Manager) TotalSize() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalSize
}

// SelectAll selects every item in the list for the pane, skipping entries
// already selected. Returns how many were newly selected.
func (m *Manager) SelectAll(pane Pane, items []Item) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.resolve(pane)
	count := 0
	for _, item := range items {
		k := key{p, item.Path}
		if _, ok := m.items[k]; ok {
			continue
		}
		m.items[k] = item
		m.totalSize += item.Size
		count++
	}
	return count
}

// Summary renders the selection for display, e.g. "3 items, 1 dir (1.2 MiB)".
func (m *Manager) Summary(scaler *units.Scaler) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files, dirs := 0, 0
	for _, item := range m.items {
		if item.IsDir {
			dirs++
		} else {
			files++
		}
	}
	return scaler.FormatSelectionSummary(files, m.totalSize, dirs)
}
