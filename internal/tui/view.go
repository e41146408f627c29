package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	activePaneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#00afff"))

	inactivePaneStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#666666"))

	directoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0087d7")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbbbbb"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#005f87"))

	selectedMarkStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffaf00")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d70000")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5faf5f"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d70000")).
			Padding(1, 2)
)

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("filemaster"))
	s.WriteString("\n")

	paneWidth := m.width/2 - 2
	left := m.renderPane(paneLeft, paneWidth)
	right := m.renderPane(paneRight, paneWidth)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	s.WriteString("\n")

	if m.confirm.active {
		s.WriteString(m.renderConfirm())
		s.WriteString("\n")
	}

	s.WriteString(m.renderFooter())
	return s.String()
}

func (m Model) renderPane(idx, width int) string {
	p := &m.panes[idx]
	var s strings.Builder

	header := shortenPath(p.path, width-2)
	if idx == m.active {
		header = "▶ " + header
	} else {
		header = "  " + header
	}
	s.WriteString(header)
	s.WriteString("\n")

	switch {
	case p.err != nil:
		s.WriteString(errorStyle.Render(p.err.Error()))
		s.WriteString("\n")
	case len(p.entries) == 0:
		s.WriteString(fileStyle.Render("(empty)"))
		s.WriteString("\n")
	default:
		visible := m.listHeight()
		end := p.offset + visible
		if end > len(p.entries) {
			end = len(p.entries)
		}
		for i := p.offset; i < end; i++ {
			s.WriteString(m.renderEntry(idx, i, width))
			s.WriteString("\n")
		}
	}

	style := inactivePaneStyle
	if idx == m.active {
		style = activePaneStyle
	}
	return style.Width(width).Height(m.listHeight() + 1).Render(s.String())
}

func (m Model) renderEntry(paneIdx, i, width int) string {
	p := &m.panes[paneIdx]
	entry := p.entries[i]

	mark := " "
	if m.sel.IsSelected(p.side, entry.Path) {
		mark = selectedMarkStyle.Render("*")
	}

	name := entry.Name
	size := m.scaler.FormatSize(entry.Size)
	if entry.IsDir {
		name += "/"
		size = "<dir>"
	}

	nameWidth := width - len(size) - 5
	if nameWidth < 8 {
		nameWidth = 8
	}
	if runes := []rune(name); len(runes) > nameWidth {
		name = string(runes[:nameWidth-1]) + "…"
	}

	line := fmt.Sprintf("%s %-*s %s", mark, nameWidth, name, size)
	if i == p.cursor && paneIdx == m.active {
		return cursorStyle.Render(line)
	}
	if entry.IsDir {
		return directoryStyle.Render(line)
	}
	return fileStyle.Render(line)
}

func (m Model) renderConfirm() string {
	n := len(m.confirm.paths)
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	return confirmStyle.Render(fmt.Sprintf("Delete %d %s? (y/n)", n, noun))
}

func (m Model) renderFooter() string {
	var parts []string

	parts = append(parts, m.sel.Summary(m.scaler))
	parts = append(parts, "free: "+m.scaler.FormatSize(m.panes[m.active].free))

	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	} else if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}

	line := footerStyle.Render(strings.Join(parts, "  │  "))
	return line + "\n" + m.help.View(m.keys)
}
