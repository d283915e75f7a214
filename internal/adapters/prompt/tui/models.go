package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/random-video-picker/internal/domain"
)

const historyTimeLayout = "2006-01-02 15:04"

type rootModel struct {
	input     textinput.Model
	styles    styles
	value     string
	done      bool
	cancelled bool
}

func newRootModel(placeholder string) rootModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Prompt = "> "
	ti.Focus()

	return rootModel{input: ti, styles: newStyles()}
}

func (m rootModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m rootModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s\n%s\n%s\n",
		m.styles.title.Render("Enter the path to your video folder:"),
		m.input.View(),
		m.styles.help.Render("enter confirm • esc quit"),
	)
}

type chooseModel struct {
	title     string
	options   []string
	cursor    int
	styles    styles
	chosen    int
	done      bool
	cancelled bool
}

func newChooseModel(title string, options []string) chooseModel {
	return chooseModel{
		title:   title,
		options: options,
		styles:  newStyles(),
		chosen:  -1,
	}
}

func (m chooseModel) Init() tea.Cmd {
	return nil
}

func (m chooseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.cursor = moveCursor(m.cursor, -1, len(m.options))
	case "down", "j":
		m.cursor = moveCursor(m.cursor, 1, len(m.options))
	case "enter":
		if len(m.options) > 0 {
			m.chosen = m.cursor
		}
		m.done = true
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m chooseModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.title))
	b.WriteString("\n")
	for i, option := range m.options {
		if i == m.cursor {
			b.WriteString(m.styles.cursor.Render("> "))
			b.WriteString(m.styles.selected.Render(option))
		} else {
			b.WriteString("  ")
			b.WriteString(m.styles.item.Render(option))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render("↑/↓ move • enter select • esc quit"))
	b.WriteString("\n")

	return b.String()
}

type historyModel struct {
	entries  domain.Ledger
	location *time.Location
	cursor   int
	expanded bool
	styles   styles
	done     bool
}

func newHistoryModel(entries domain.Ledger, location *time.Location) historyModel {
	if location == nil {
		location = time.Local
	}
	return historyModel{
		entries:  entries,
		location: location,
		styles:   newStyles(),
	}
}

func (m historyModel) Init() tea.Cmd {
	return nil
}

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		m.cursor = moveCursor(m.cursor, -1, len(m.entries))
		m.expanded = false
	case "down", "j":
		m.cursor = moveCursor(m.cursor, 1, len(m.entries))
		m.expanded = false
	case "enter":
		if len(m.entries) == 0 {
			m.done = true
			return m, tea.Quit
		}
		m.expanded = !m.expanded
	case "esc", "q", "ctrl+c":
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m historyModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(fmt.Sprintf("Recent picks (%d)", len(m.entries))))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(m.styles.empty.Render("No history yet."))
		b.WriteString("\n")
		return b.String()
	}

	for i, entry := range m.entries {
		line := fmt.Sprintf("%s  %s",
			m.styles.meta.Render(entry.PickedAt.In(m.location).Format(historyTimeLayout)),
			filepath.Base(entry.Path),
		)
		if i == m.cursor {
			b.WriteString(m.styles.cursor.Render("> "))
			b.WriteString(m.styles.selected.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(m.styles.item.Render(line))
		}
		b.WriteString("\n")
	}

	if m.expanded {
		entry := m.entries[m.cursor]
		b.WriteString(m.styles.detail.Render(fmt.Sprintf("Path:      %s\nPicked at: %s",
			entry.Path,
			entry.PickedAt.In(m.location).Format(time.RFC1123),
		)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.help.Render("↑/↓ move • enter details • esc back"))
	b.WriteString("\n")

	return b.String()
}

func moveCursor(cursor, delta, length int) int {
	if length == 0 {
		return 0
	}
	return (cursor + delta + length) % length
}
