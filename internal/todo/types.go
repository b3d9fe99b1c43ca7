package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned when a task reference matches nothing.
var ErrNotFound = errors.New("task not found")

// DefaultKey is the storage key the collection is written under.
const DefaultKey = "todos"

// Status filters accepted by MatchesStatus.
const (
	FilterAll  = "all"
	FilterDone = "done"
	FilterTodo = "todo"
)

// Filters returns the recognized status filter values.
func Filters() []string {
	return []string{FilterAll, FilterDone, FilterTodo}
}

// Task is a single entry in the list.
type Task struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// UnmarshalJSON accepts done as a boolean, a number (0 is false) or null.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   string          `json:"id"`
		Text string          `json:"text"`
		Done json.RawMessage `json:"done"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	done, err := parseDone(raw.Done)
	if err != nil {
		return err
	}
	t.ID = raw.ID
	t.Text = raw.Text
	t.Done = done
	return nil
}

func parseDone(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	switch string(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return false, fmt.Errorf("done: expected boolean or number, got %s", raw)
	}
	return n != 0, nil
}

// MatchesStatus reports whether t is shown under filter. ok is false for an
// unrecognized filter.
func (t Task) MatchesStatus(filter string) (match bool, ok bool) {
	switch filter {
	case FilterAll:
		return true, true
	case FilterDone:
		return t.Done, true
	case FilterTodo:
		return !t.Done, true
	default:
		return false, false
	}
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Empty  bool // no value stored, or a JSON null
	Errors []error
	Tasks  []Task
}
