// Package tui is the interactive list view. Every add, toggle and delete is
// applied to the store (and persisted) as soon as the key is pressed.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/tada/internal/todos"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts a todo to bubbles/list.Item
type listItem struct {
	ID       string
	Name     string
	Complete bool
}

func (i listItem) Title() string       { return i.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Name }

// Single-line rows.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+ui.ItemLine(it.ID, it.Name, it.Complete))
}

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

type Model struct {
	ctx   context.Context
	store *todos.Store
	list  list.Model

	// Inline add
	adding bool
	ti     textinput.Model

	status    string // last message, cleared on the next key
	statusErr bool

	width, height int
}

func New(ctx context.Context, store *todos.Store) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addKey, toggleKey, deleteKey} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addKey, toggleKey, deleteKey} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item name..."
	ti.CharLimit = 200

	m := Model{ctx: ctx, store: store, list: l, ti: ti, width: 80, height: 24}
	m.resize()
	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, store *todos.Store) error {
	p := tea.NewProgram(New(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// refresh rebuilds the list rows and header from the store.
func (m *Model) refresh() tea.Cmd {
	items := m.store.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{ID: it.ID, Name: it.Name, Complete: it.Complete})
	}
	done, pending := m.store.Stats()
	m.list.Title = ui.Header(done, pending)
	cmd := m.list.SetItems(li)
	if n := len(m.list.Items()); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

func (m *Model) report(err error, okMsg string) {
	if err != nil {
		log.Warn().Err(err).Msg("tui: store operation failed")
		m.status, m.statusErr = err.Error(), true
		return
	}
	m.status, m.statusErr = okMsg, false
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	// while the filter prompt is open every key belongs to it
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	m.status = ""
	switch km.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		_, err := m.store.Toggle(m.ctx, it.ID)
		m.report(err, "toggled")
		return m, m.refresh()
	case "d":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		_, err := m.store.Remove(m.ctx, it.ID)
		m.report(err, "removed")
		return m, m.refresh()
	case "a":
		m.adding = true
		m.ti.SetValue("")
		m.resize()
		return m, m.ti.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			name := strings.TrimSpace(m.ti.Value())
			if name == "" {
				m.status, m.statusErr = "Name cannot be empty", true
				return m, nil
			}
			_, err := m.store.Add(m.ctx, name)
			m.report(err, "added")
			m.stopAdding()
			cmd := m.refresh()
			// newly added items land at the end
			m.list.Select(len(m.list.Items()) - 1)
			return m, cmd
		case "esc":
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) stopAdding() {
	m.adding = false
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *Model) resize() {
	h := m.height - 5
	if m.adding {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	content := m.list.View()
	if m.adding {
		t := ui.Current()
		inputLine := t.Accent.Render("Add new item") + "\n" + m.ti.View()
		content += "\n" + ui.PanelString([]string{inputLine})
	}
	if m.status != "" {
		style := ui.Current().Muted
		if m.statusErr {
			style = ui.Current().Error
		}
		content += "\n" + style.Render(m.status)
	}
	return ui.PanelString([]string{content})
}
