// Package view keeps the rendered task rows in step with the stored
// collection and turns user events into state transitions.
//
// The controller knows nothing about terminals; internal/ui drives it.
package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tudu/internal/todo"
)

// ErrNoRow is returned when an index does not address a row.
var ErrNoRow = errors.New("no such row")

// Mode is the presentation mode.
type Mode int

const (
	// ModeListing shows the creation form and the list.
	ModeListing Mode = iota
	// ModeEditing shows only the edit form.
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeListing:
		return "listing"
	case ModeEditing:
		return "editing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Identity selects how rows are matched to stored tasks.
type Identity int

const (
	// ByID matches on the generated task id.
	ByID Identity = iota
	// ByText matches on label equality and affects every duplicate.
	ByText
)

// ParseIdentity maps a config value ("id" or "text") to an Identity.
func ParseIdentity(s string) (Identity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "id":
		return ByID, nil
	case "text":
		return ByText, nil
	default:
		return ByID, fmt.Errorf("unknown identity %q (expected id|text)", s)
	}
}

// Store is the persistence the controller writes through.
// *todo.Repository implements it.
type Store interface {
	ReadAll() ([]todo.Task, error)
	Append(todo.Task) (todo.Task, error)
	Remove(id string) (int, error)
	RemoveByText(text string) (int, error)
	Toggle(id string) (int, error)
	ToggleByText(text string) (int, error)
	Rename(id, newText string) (int, error)
	UpdateText(oldText, newText string) (int, error)
}

// Row is one rendered task.
type Row struct {
	ID     string
	Text   string
	Done   bool
	Hidden bool
}

// EditSession identifies the task being edited. It is captured when editing
// starts and handed back on submit.
type EditSession struct {
	ID   string
	Text string
}

// Controller holds the rendered rows and the view mode.
type Controller struct {
	store    Store
	identity Identity
	logger   *log.Logger

	rows   []Row
	mode   Mode
	draft  string
	search string
	filter string
}

// Option configures a Controller.
type Option func(*Controller)

// WithIdentity sets how rows are matched to stored tasks.
func WithIdentity(id Identity) Option {
	return func(c *Controller) {
		c.identity = id
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a controller in listing mode with no rows.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: log.New(io.Discard),
		mode:   ModeListing,
		filter: todo.FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the rows with the stored collection without writing to it.
func (c *Controller) Load() error {
	tasks, err := c.store.ReadAll()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	c.rows = c.rows[:0]
	for _, t := range tasks {
		if _, err := c.Render(t, false); err != nil {
			return err
		}
	}
	c.logger.Debug("Tasks loaded", "count", len(tasks))
	return nil
}

// Render appends a row for task. When persist is true the task is appended to
// the store with done reset to false; the row still shows task.Done. The
// creation draft is cleared either way.
func (c *Controller) Render(task todo.Task, persist bool) (Row, error) {
	row := Row{ID: task.ID, Text: task.Text, Done: task.Done}
	if persist {
		stored, err := c.store.Append(todo.Task{ID: task.ID, Text: task.Text, Done: false})
		if err != nil {
			return Row{}, fmt.Errorf("save task: %w", err)
		}
		row.ID = stored.ID
	}
	c.rows = append(c.rows, row)
	c.draft = ""
	return row, nil
}

// SetDraft records the creation field contents.
func (c *Controller) SetDraft(text string) {
	c.draft = text
}

// Draft returns the creation field contents.
func (c *Controller) Draft() string {
	return c.draft
}

// SubmitCreate renders and persists the draft. An empty draft, or a submit
// while editing, changes nothing. created reports whether a row was added.
func (c *Controller) SubmitCreate() (created bool, err error) {
	if c.mode != ModeListing || c.draft == "" {
		return false, nil
	}
	row, err := c.Render(todo.Task{Text: c.draft}, true)
	if err != nil {
		return false, err
	}
	c.logger.Debug("Task created", "id", row.ID, "text", row.Text)
	return true, nil
}

// ToggleDone flips the done state of row i and persists the flip.
func (c *Controller) ToggleDone(i int) error {
	if err := c.checkRow(i); err != nil {
		return err
	}
	row := &c.rows[i]

	var err error
	if c.identity == ByText {
		_, err = c.store.ToggleByText(row.Text)
	} else {
		_, err = c.store.Toggle(row.ID)
	}
	if err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	row.Done = !row.Done
	c.logger.Debug("Task toggled", "id", row.ID, "done", row.Done)
	return nil
}

// Delete removes row i and persists the removal. Under ByText every row with
// the same label goes too, matching what the store removes.
func (c *Controller) Delete(i int) error {
	if err := c.checkRow(i); err != nil {
		return err
	}
	target := c.rows[i]

	if c.identity == ByText {
		if _, err := c.store.RemoveByText(target.Text); err != nil {
			return fmt.Errorf("remove task: %w", err)
		}
		c.rows = removeRows(c.rows, func(r Row) bool { return r.Text == target.Text })
	} else {
		if _, err := c.store.Remove(target.ID); err != nil {
			return fmt.Errorf("remove task: %w", err)
		}
		c.rows = append(c.rows[:i], c.rows[i+1:]...)
	}
	c.logger.Debug("Task removed", "id", target.ID, "text", target.Text)
	return nil
}

// ToggleEditMode swaps between listing and editing.
func (c *Controller) ToggleEditMode() {
	if c.mode == ModeListing {
		c.mode = ModeEditing
	} else {
		c.mode = ModeListing
	}
}

// BeginEdit enters editing mode for row i. ok is false when already editing.
func (c *Controller) BeginEdit(i int) (session EditSession, ok bool, err error) {
	if c.mode != ModeListing {
		return EditSession{}, false, nil
	}
	if err := c.checkRow(i); err != nil {
		return EditSession{}, false, err
	}
	c.ToggleEditMode()
	row := c.rows[i]
	return EditSession{ID: row.ID, Text: row.Text}, true, nil
}

// ApplyEdit renames every row matching session and persists the rename, then
// returns to listing. An empty newText renames nothing.
func (c *Controller) ApplyEdit(session EditSession, newText string) error {
	if c.mode != ModeEditing {
		return nil
	}
	defer c.ToggleEditMode()

	if newText == "" {
		return nil
	}

	var matched []int
	for i := range c.rows {
		if c.matches(c.rows[i], session) {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	var err error
	if c.identity == ByText {
		_, err = c.store.UpdateText(session.Text, newText)
	} else {
		_, err = c.store.Rename(session.ID, newText)
	}
	if err != nil {
		return fmt.Errorf("rename task: %w", err)
	}
	for _, i := range matched {
		c.rows[i].Text = newText
	}
	c.logger.Debug("Task renamed", "id", session.ID, "from", session.Text, "to", newText)
	return nil
}

// CancelEdit returns to listing without changes.
func (c *Controller) CancelEdit() {
	if c.mode == ModeEditing {
		c.ToggleEditMode()
	}
}

func (c *Controller) matches(r Row, s EditSession) bool {
	if c.identity == ByText {
		return r.Text == s.Text
	}
	return r.ID == s.ID
}

// Search hides every row whose lowercased label does not contain term.
// The term itself is matched as given.
func (c *Controller) Search(term string) {
	c.search = term
	for i := range c.rows {
		c.rows[i].Hidden = !strings.Contains(strings.ToLower(c.rows[i].Text), term)
	}
}

// EraseSearch clears the term and shows every row.
func (c *Controller) EraseSearch() {
	c.Search("")
}

// Filter shows rows by completion state: all, done or todo. Any other
// value is ignored.
func (c *Controller) Filter(mode string) {
	if _, ok := (todo.Task{}).MatchesStatus(mode); !ok {
		return
	}
	c.filter = mode
	for i := range c.rows {
		show, _ := todo.Task{Done: c.rows[i].Done}.MatchesStatus(mode)
		c.rows[i].Hidden = !show
	}
}

// Mode returns the current presentation mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// SearchTerm returns the last applied search term.
func (c *Controller) SearchTerm() string {
	return c.search
}

// FilterMode returns the last applied status filter.
func (c *Controller) FilterMode() string {
	return c.filter
}

// Len returns the number of rows, hidden or not.
func (c *Controller) Len() int {
	return len(c.rows)
}

// Row returns row i.
func (c *Controller) Row(i int) (Row, error) {
	if err := c.checkRow(i); err != nil {
		return Row{}, err
	}
	return c.rows[i], nil
}

// Rows returns a copy of every row in order.
func (c *Controller) Rows() []Row {
	out := make([]Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Visible returns the indexes of rows that are not hidden.
func (c *Controller) Visible() []int {
	var out []int
	for i, r := range c.rows {
		if !r.Hidden {
			out = append(out, i)
		}
	}
	return out
}

func (c *Controller) checkRow(i int) error {
	if i < 0 || i >= len(c.rows) {
		return fmt.Errorf("%w: %d", ErrNoRow, i)
	}
	return nil
}

func removeRows(rows []Row, match func(Row) bool) []Row {
	out := rows[:0]
	for _, r := range rows {
		if !match(r) {
			out = append(out, r)
		}
	}
	return out
}
