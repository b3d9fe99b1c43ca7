// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tudu/internal/todo"
	"github.com/nibzard/tudu/internal/view"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	logger   *log.Logger
	location string
}

// WithLogger sets the logger used for storage failures.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// WithLocation sets the store location shown in the footer.
func WithLocation(location string) TUIOption {
	return func(c *tuiConfig) {
		c.location = location
	}
}

// RunTUI runs the task editor over ctrl until the user quits. The controller
// must already be loaded.
func RunTUI(ctx context.Context, ctrl *view.Controller, opts ...TUIOption) error {
	if ctrl == nil {
		return errors.New("tui: nil controller")
	}
	c := &tuiConfig{}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctrl, c)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type focus int

const (
	focusList focus = iota
	focusCreate
	focusSearch
)

type tuiModel struct {
	ctrl     *view.Controller
	logger   *log.Logger
	location string

	keys   keyMap
	help   help.Model
	create textinput.Model
	edit   textinput.Model
	search textinput.Model

	focus    focus
	cursor   int
	session  view.EditSession
	status   string
	width    int
	quitting bool
}

func newTUIModel(ctrl *view.Controller, cfg *tuiConfig) *tuiModel {
	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	create := textinput.New()
	create.Prompt = "+ "
	create.Placeholder = "What needs doing?"

	edit := textinput.New()
	edit.Prompt = "> "

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.SetValue(ctrl.SearchTerm())

	return &tuiModel{
		ctrl:     ctrl,
		logger:   logger,
		location: cfg.location,
		keys:     defaultKeyMap(),
		help:     help.New(),
		create:   create,
		edit:     edit,
		search:   search,
		focus:    focusList,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		m.status = ""
		var cmd tea.Cmd
		if m.ctrl.Mode() == view.ModeEditing {
			cmd = m.updateEditing(msg)
		} else {
			switch m.focus {
			case focusCreate:
				cmd = m.updateCreate(msg)
			case focusSearch:
				cmd = m.updateSearch(msg)
			default:
				cmd = m.updateList(msg)
			}
		}
		m.clampCursor()
		return m, cmd
	}

	// Blink and other input messages go to whichever field has focus.
	var cmd tea.Cmd
	switch {
	case m.ctrl.Mode() == view.ModeEditing:
		m.edit, cmd = m.edit.Update(msg)
	case m.focus == focusCreate:
		m.create, cmd = m.create.Update(msg)
	case m.focus == focusSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.fail("Failed to save edit", m.ctrl.ApplyEdit(m.session, m.edit.Value()))
		return m.endEdit()
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelEdit()
		return m.endEdit()
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return cmd
}

func (m *tuiModel) endEdit() tea.Cmd {
	m.session = view.EditSession{}
	m.edit.Blur()
	m.edit.SetValue("")
	return m.setFocus(focusList)
}

func (m *tuiModel) updateCreate(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.ctrl.SetDraft(m.create.Value())
		created, err := m.ctrl.SubmitCreate()
		m.fail("Failed to save task", err)
		m.create.SetValue(m.ctrl.Draft())
		if created {
			m.cursor = len(m.ctrl.Visible()) - 1
		}
		return nil
	case key.Matches(msg, m.keys.Focus):
		return m.setFocus(focusSearch)
	case key.Matches(msg, m.keys.Cancel):
		return m.setFocus(focusList)
	}
	var cmd tea.Cmd
	m.create, cmd = m.create.Update(msg)
	m.ctrl.SetDraft(m.create.Value())
	return cmd
}

func (m *tuiModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Erase):
		m.eraseSearch()
		return nil
	case key.Matches(msg, m.keys.Cancel):
		if m.search.Value() == "" {
			return m.setFocus(focusList)
		}
		m.eraseSearch()
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.setFocus(focusList)
	case key.Matches(msg, m.keys.Focus):
		return m.setFocus(focusList)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.Search(m.search.Value())
	return cmd
}

func (m *tuiModel) eraseSearch() {
	m.search.SetValue("")
	m.ctrl.EraseSearch()
}

func (m *tuiModel) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Toggle):
		if i, ok := m.selected(); ok {
			m.fail("Failed to save task", m.ctrl.ToggleDone(i))
		}
	case key.Matches(msg, m.keys.Delete):
		if i, ok := m.selected(); ok {
			m.fail("Failed to delete task", m.ctrl.Delete(i))
		}
	case key.Matches(msg, m.keys.Edit):
		i, ok := m.selected()
		if !ok {
			return nil
		}
		session, ok, err := m.ctrl.BeginEdit(i)
		m.fail("Failed to edit task", err)
		if !ok {
			return nil
		}
		m.session = session
		m.edit.SetValue(session.Text)
		m.edit.CursorEnd()
		m.create.Blur()
		m.search.Blur()
		return m.edit.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.ctrl.Filter(nextFilter(m.ctrl.FilterMode()))
	case key.Matches(msg, m.keys.FilterAll):
		m.ctrl.Filter(todo.FilterAll)
	case key.Matches(msg, m.keys.FilterDone):
		m.ctrl.Filter(todo.FilterDone)
	case key.Matches(msg, m.keys.FilterTodo):
		m.ctrl.Filter(todo.FilterTodo)
	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.Focus):
		return m.setFocus(focusCreate)
	case key.Matches(msg, m.keys.Search):
		return m.setFocus(focusSearch)
	case key.Matches(msg, m.keys.Erase):
		m.eraseSearch()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *tuiModel) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.create.Blur()
	m.search.Blur()
	switch f {
	case focusCreate:
		return m.create.Focus()
	case focusSearch:
		return m.search.Focus()
	}
	return nil
}

// selected returns the controller row index under the cursor.
func (m *tuiModel) selected() (int, bool) {
	visible := m.ctrl.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return 0, false
	}
	return visible[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	n := len(m.ctrl.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) fail(msg string, err error) {
	if err == nil {
		return
	}
	m.logger.Error(msg, "err", err)
	m.status = fmt.Sprintf("%s: %v", msg, err)
}

func nextFilter(current string) string {
	filters := todo.Filters()
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return todo.FilterAll
}

func (m *tuiModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tudu"))
	b.WriteString("\n\n")

	if m.ctrl.Mode() == view.ModeEditing {
		b.WriteString(labelStyle.Render("Edit task"))
		b.WriteString("\n")
		b.WriteString(m.edit.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter save • esc cancel"))
		b.WriteString("\n")
		m.writeStatus(&b)
		return b.String()
	}

	b.WriteString(m.create.View())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	m.writeFilters(&b)
	b.WriteString("\n")
	m.writeRows(&b)
	m.writeStatus(&b)
	if m.location != "" {
		b.WriteString(dimStyle.Render(m.location))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *tuiModel) writeFilters(b *strings.Builder) {
	b.WriteString(labelStyle.Render("Show:"))
	for _, f := range todo.Filters() {
		b.WriteString(" ")
		if f == m.ctrl.FilterMode() {
			b.WriteString(activeStyle.Render(f))
		} else {
			b.WriteString(dimStyle.Render(f))
		}
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeRows(b *strings.Builder) {
	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		if m.ctrl.Len() == 0 {
			b.WriteString(dimStyle.Render("No tasks yet."))
		} else {
			b.WriteString(dimStyle.Render("No matching tasks."))
		}
		b.WriteString("\n")
		return
	}
	for pos, i := range visible {
		row, err := m.ctrl.Row(i)
		if err != nil {
			continue
		}
		check := "[ ]"
		label := row.Text
		if row.Done {
			check = "[x]"
			label = doneStyle.Render(label)
		}
		line := fmt.Sprintf("%s %s", check, label)
		if pos == m.cursor && m.focus == focusList {
			b.WriteString(selectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
}

// IsTTY reports whether the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
