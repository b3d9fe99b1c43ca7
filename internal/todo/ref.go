package todo

import (
	"fmt"
	"strconv"
	"strings"
)

// minIDPrefix is the shortest id prefix Resolve accepts.
const minIDPrefix = 4

// Resolve finds the task a command-line reference points at and returns its
// index in tasks. ref is tried, in order, as a 1-based position, a full id, a
// unique id prefix, and exact text. Ambiguous prefixes and duplicated text
// are errors.
func Resolve(tasks []Task, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("task reference required")
	}

	if isAllDigits(ref) {
		n, err := strconv.Atoi(ref)
		if err == nil && n >= 1 && n <= len(tasks) {
			return n - 1, nil
		}
	}

	for i, t := range tasks {
		if t.ID == ref {
			return i, nil
		}
	}

	if len(ref) >= minIDPrefix {
		if i, err := uniqueMatch(tasks, ref, func(t Task) bool {
			return strings.HasPrefix(t.ID, ref)
		}); i >= 0 || err != nil {
			return i, err
		}
	}

	if i, err := uniqueMatch(tasks, ref, func(t Task) bool {
		return t.Text == ref
	}); i >= 0 || err != nil {
		return i, err
	}

	return -1, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

func uniqueMatch(tasks []Task, ref string, match func(Task) bool) (int, error) {
	found := -1
	for i, t := range tasks {
		if !match(t) {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("ambiguous task reference: %s", ref)
		}
		found = i
	}
	return found, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
