// package ui implements the interactive review TUI for the processed ledger.
//
// The review screen lists every finalized album and lets the user stage
// correction commands (remove from the discovery playlist, or promote to a
// favorite) into the queue playlists that the reconciler drains on its next
// pass.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/aria/internal/models"
)

// Stager stages a correction command for a ledger entry. Implemented by the
// cmd layer over the catalog client.
type Stager interface {
	Stage(ctx context.Context, entry models.LedgerEntry, command models.CommandType) error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var _ list.Item = entryItem{}

// entryItem wraps [models.LedgerEntry] to implement [list.Item].
type entryItem struct {
	entry models.LedgerEntry
}

func (i entryItem) FilterValue() string { return i.entry.Artist + " " + i.entry.Title }
func (i entryItem) Title() string {
	return fmt.Sprintf("%s — %s", i.entry.Artist, i.entry.Title)
}
func (i entryItem) Description() string {
	ts := time.Unix(i.entry.Timestamp, 0).Format("2006-01-02")
	return fmt.Sprintf("%s • %s", i.entry.Outcome, ts)
}

// keyMap defines the key bindings for the review TUI.
type keyMap struct {
	remove  key.Binding
	promote key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		remove: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "stage removal"),
		),
		promote: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "stage promotion"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.remove, k.promote, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.remove, k.promote, k.quit}}
}

// stagedMsg reports the result of a staging call back to the model.
type stagedMsg struct {
	entry   models.LedgerEntry
	command models.CommandType
	err     error
}

// Model represents the review TUI state.
type Model struct {
	ctx    context.Context
	stager Stager
	list   list.Model
	help   help.Model
	keys   keyMap
	status string
	busy   bool
}

// NewModel creates a review model over the given ledger entries.
func NewModel(ctx context.Context, stager Stager, entries []models.LedgerEntry) Model {
	items := make([]list.Item, len(entries))
	for i, entry := range entries {
		items[i] = entryItem{entry: entry}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = "Processed albums"
	l.SetShowHelp(false)

	return Model{
		ctx:    ctx,
		stager: stager,
		list:   l,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case stagedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = errStyle.Render(fmt.Sprintf("✗ %s — %s: %v", msg.entry.Artist, msg.entry.Title, msg.err))
		} else {
			m.status = okStyle.Render(fmt.Sprintf("✓ staged %s for %s — %s", msg.command, msg.entry.Artist, msg.entry.Title))
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.remove):
			return m.stage(models.CommandRemove)
		case key.Matches(msg, m.keys.promote):
			return m.stage(models.CommandPromote)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// stage kicks off a staging call for the selected entry.
func (m Model) stage(command models.CommandType) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return m, nil
	}

	m.busy = true
	m.status = statusStyle.Render(fmt.Sprintf("staging %s...", command))

	return m, func() tea.Msg {
		err := m.stager.Stage(m.ctx, item.entry, command)
		return stagedMsg{entry: item.entry, command: command, err: err}
	}
}

func (m Model) View() string {
	view := titleStyle.Render("aria review") + "\n" + m.list.View()
	if m.status != "" {
		view += "\n" + m.status
	}
	view += "\n" + m.help.View(m.keys)
	return view
}
