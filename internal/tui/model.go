// Package tui is the dual-pane file browser. Two independent directory
// panes, multi-selection, and the batch engine's copy/move/delete wired
// to function keys.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/westy/filemaster/internal/cache"
	"github.com/westy/filemaster/internal/config"
	"github.com/westy/filemaster/internal/constants"
	"github.com/westy/filemaster/internal/diskspace"
	"github.com/westy/filemaster/internal/fsops"
	"github.com/westy/filemaster/internal/localfs"
	"github.com/westy/filemaster/internal/logging"
	"github.com/westy/filemaster/internal/selection"
	"github.com/westy/filemaster/internal/units"
)

const (
	paneLeft = iota
	paneRight
)

// pane is one side of the browser.
type pane struct {
	side    selection.Pane
	path    string
	entries []localfs.Entry
	cursor  int
	offset  int
	free    int64
	err     error
}

func (p *pane) current() (localfs.Entry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return localfs.Entry{}, false
	}
	return p.entries[p.cursor], true
}

// clampCursor keeps cursor and scroll offset inside the listing after a
// reload or resize.
func (p *pane) clampCursor(visible int) {
	if p.cursor >= len(p.entries) {
		p.cursor = len(p.entries) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if visible < 1 {
		visible = 1
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}
}

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
)

type confirmState struct {
	active bool
	action confirmAction
	paths  []string
}

// Messages for async pane loads and batch operations.
type listLoadedMsg struct {
	pane    int
	path    string
	entries []localfs.Entry
	free    int64
	err     error
}

type opDoneMsg struct {
	verb   string
	result *fsops.Result
}

// Model is the browser state.
type Model struct {
	panes      [2]pane
	active     int
	sel        *selection.Manager
	engine     *fsops.Engine
	scaler     *units.Scaler
	log        *logging.Logger
	keys       keyMap
	help       help.Model
	listCache  *cache.LRU
	watcher    *cache.Watcher
	showHidden bool
	sortBy     localfs.SortKey
	confirm    confirmState
	status     string
	err        error
	busy       bool
	width      int
	height     int
}

// NewModel builds the browser from configuration. Pane start directories
// fall back to the working directory when unset or missing.
func NewModel(cfg *config.Config, log *logging.Logger) Model {
	sortBy := localfs.SortKey(cfg.UI.SortBy)
	if sortBy == "" {
		sortBy = localfs.SortByName
	}
	system := units.IEC
	if cfg.UI.UnitSystem == "si" {
		system = units.SI
	}

	m := Model{
		sel:        selection.NewManager(),
		engine:     fsops.NewEngine(log),
		scaler:     units.NewScaler(system),
		log:        log,
		keys:       newKeyMap(),
		help:       help.New(),
		listCache:  cache.NewLRU(constants.FileInfoCacheSize, constants.FileInfoCacheTTL),
		showHidden: cfg.UI.ShowHidden,
		sortBy:     sortBy,
	}
	// Another process writing to a displayed directory invalidates the
	// cached listing; the next refresh rereads it.
	if w, err := cache.NewWatcher(m.listCache, log); err == nil {
		m.watcher = w
	}
	m.panes[paneLeft] = pane{side: selection.PaneLeft, path: startDir(cfg.UI.LeftDir)}
	m.panes[paneRight] = pane{side: selection.PaneRight, path: startDir(cfg.UI.RightDir)}
	return m
}

func startDir(configured string) string {
	if configured != "" {
		if info, err := os.Stat(configured); err == nil && info.IsDir() {
			return configured
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return string(os.PathSeparator)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPane(paneLeft), m.loadPane(paneRight))
}

// loadPane lists a pane's directory off the update loop. Listings are
// cached; the watcher drops a directory's entries when it changes on disk.
func (m Model) loadPane(idx int) tea.Cmd {
	path := m.panes[idx].path
	opts := localfs.ListOptions{
		IncludeHidden: m.showHidden,
		SortBy:        m.sortBy,
	}
	key := listKey(path, opts)
	listCache := m.listCache
	return func() tea.Msg {
		v, err := listCache.Get(key, func(string) (interface{}, error) {
			entries, err := localfs.List(path, opts)
			return entries, err
		})
		var entries []localfs.Entry
		if err == nil {
			entries = v.([]localfs.Entry)
		}
		return listLoadedMsg{
			pane:    idx,
			path:    path,
			entries: entries,
			free:    diskspace.GetAvailableSpace(path),
			err:     err,
		}
	}
}

// listKey keys cached listings under the directory path so that the
// watcher's per-directory invalidation covers them.
func listKey(path string, opts localfs.ListOptions) string {
	return filepath.Join(path, fmt.Sprintf(".listing?hidden=%t&sort=%s", opts.IncludeHidden, opts.SortBy))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case listLoadedMsg:
		p := &m.panes[msg.pane]
		p.path = msg.path
		p.err = msg.err
		p.free = msg.free
		if msg.err == nil {
			p.entries = msg.entries
			if m.watcher != nil {
				m.watcher.Watch(msg.path)
			}
		}
		p.clampCursor(m.listHeight())
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.listCache.Clear()
		m.status = msg.verb + ": " + msg.result.Summary()
		if err := msg.result.FirstError(); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
		m.sel.ClearAll()
		return m, tea.Batch(m.loadPane(paneLeft), m.loadPane(paneRight))

	case tea.KeyMsg:
		if m.confirm.active {
			return m.updateConfirm(msg)
		}
		return m.updateBrowser(msg)
	}

	return m, nil
}

func (m Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.panes[m.active]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
		p.clampCursor(m.listHeight())

	case key.Matches(msg, m.keys.Down):
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
		p.clampCursor(m.listHeight())

	case key.Matches(msg, m.keys.PageUp):
		p.cursor -= m.listHeight()
		p.clampCursor(m.listHeight())

	case key.Matches(msg, m.keys.PageDown):
		p.cursor += m.listHeight()
		p.clampCursor(m.listHeight())

	case key.Matches(msg, m.keys.Enter):
		if entry, ok := p.current(); ok && entry.IsDir {
			p.path = entry.Path
			p.cursor, p.offset = 0, 0
			return m, m.loadPane(m.active)
		}

	case key.Matches(msg, m.keys.Back):
		parent := filepath.Dir(p.path)
		if parent != p.path {
			p.path = parent
			p.cursor, p.offset = 0, 0
			return m, m.loadPane(m.active)
		}

	case key.Matches(msg, m.keys.SwitchPane):
		m.active = 1 - m.active
		m.sel.SetCurrentPane(m.panes[m.active].side)

	case key.Matches(msg, m.keys.Toggle):
		if entry, ok := p.current(); ok {
			m.sel.Toggle(p.side, selectionItem(entry))
			if p.cursor < len(p.entries)-1 {
				p.cursor++
			}
			p.clampCursor(m.listHeight())
		}

	case key.Matches(msg, m.keys.SelectAll):
		items := make([]selection.Item, 0, len(p.entries))
		for _, e := range p.entries {
			items = append(items, selectionItem(e))
		}
		m.sel.SelectAll(p.side, items)

	case key.Matches(msg, m.keys.ClearSel):
		m.sel.ClearAll()
		m.status = ""

	case key.Matches(msg, m.keys.Copy):
		return m.startTransfer("copy")

	case key.Matches(msg, m.keys.Move):
		return m.startTransfer("move")

	case key.Matches(msg, m.keys.Delete):
		paths := m.operationPaths()
		if len(paths) == 0 {
			break
		}
		m.confirm = confirmState{active: true, action: confirmDelete, paths: paths}

	case key.Matches(msg, m.keys.Mkdir):
		// Directory names come from a generated sequence; renaming is a
		// pane-level follow-up via the rename command.
		name := nextDirName(p.path)
		if err := os.Mkdir(filepath.Join(p.path, name), 0755); err != nil {
			m.err = err
		} else {
			m.status = "created " + name
			m.listCache.InvalidatePrefix(p.path + string(os.PathSeparator))
			return m, m.loadPane(m.active)
		}

	case key.Matches(msg, m.keys.Refresh):
		m.listCache.Clear()
		return m, tea.Batch(m.loadPane(paneLeft), m.loadPane(paneRight))

	case key.Matches(msg, m.keys.Hidden):
		m.showHidden = !m.showHidden
		return m, tea.Batch(m.loadPane(paneLeft), m.loadPane(paneRight))

	case key.Matches(msg, m.keys.Sort):
		m.sortBy = nextSortKey(m.sortBy)
		m.status = "sort: " + string(m.sortBy)
		return m, tea.Batch(m.loadPane(paneLeft), m.loadPane(paneRight))

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		confirm := m.confirm
		m.confirm = confirmState{}
		if confirm.action == confirmDelete {
			return m.runOp("delete", func(ctx context.Context) *fsops.Result {
				return m.engine.Delete(ctx, confirm.paths, fsops.DeleteOptions{})
			})
		}
	case "n", "N", "esc", "q":
		m.confirm = confirmState{}
		m.status = "cancelled"
	}
	return m, nil
}

// operationPaths returns the active selection, falling back to the entry
// under the cursor.
func (m *Model) operationPaths() []string {
	if paths := m.sel.Paths(m.panes[m.active].side); len(paths) > 0 {
		return paths
	}
	if entry, ok := m.panes[m.active].current(); ok {
		return []string{entry.Path}
	}
	return nil
}

func (m Model) startTransfer(verb string) (tea.Model, tea.Cmd) {
	paths := m.operationPaths()
	if len(paths) == 0 {
		return m, nil
	}
	dest := m.panes[1-m.active].path

	if verb == "move" {
		return m.runOp(verb, func(ctx context.Context) *fsops.Result {
			return m.engine.Move(ctx, paths, dest, fsops.CopyOptions{PreserveAttrs: true})
		})
	}
	return m.runOp(verb, func(ctx context.Context) *fsops.Result {
		return m.engine.Copy(ctx, paths, dest, fsops.CopyOptions{PreserveAttrs: true})
	})
}

func (m Model) runOp(verb string, op func(context.Context) *fsops.Result) (tea.Model, tea.Cmd) {
	if m.busy {
		m.status = "operation already running"
		return m, nil
	}
	m.busy = true
	m.status = verb + "..."
	return m, func() tea.Msg {
		return opDoneMsg{verb: verb, result: op(context.Background())}
	}
}

func selectionItem(e localfs.Entry) selection.Item {
	return selection.Item{Name: e.Name, Path: e.Path, IsDir: e.IsDir, Size: e.Size}
}

func nextSortKey(key localfs.SortKey) localfs.SortKey {
	switch key {
	case localfs.SortByName:
		return localfs.SortBySize
	case localfs.SortBySize:
		return localfs.SortByTime
	default:
		return localfs.SortByName
	}
}

// nextDirName returns the first free "new_dir", "new_dir_2", ... name.
func nextDirName(dir string) string {
	name := "new_dir"
	for i := 2; ; i++ {
		if _, err := os.Lstat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("new_dir_%d", i)
	}
}

// listHeight is the number of entry rows each pane can show.
func (m Model) listHeight() int {
	// Title, pane header, footer lines
	h := m.height - 7
	if h < 5 {
		h = 5
	}
	return h
}

func shortenPath(path string, max int) string {
	if len(path) <= max || max < 4 {
		return path
	}
	parts := strings.Split(path, string(os.PathSeparator))
	for len(parts) > 2 && len(strings.Join(parts, string(os.PathSeparator)))+1 > max {
		parts = parts[1:]
	}
	return "…" + string(os.PathSeparator) + strings.Join(parts, string(os.PathSeparator))
}
