package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/tudu/internal/kv"
)

// CorruptSuffix is appended to the storage key to back up an unreadable value.
const CorruptSuffix = ".corrupt"

// Repository reads and writes the task collection under one storage key.
type Repository struct {
	store  kv.Store
	key    string
	logger *log.Logger
	newID  func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for recoverable faults.
func WithLogger(logger *log.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithIDGenerator overrides the id generator. Used by tests.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRepository returns a repository over store. An empty key means DefaultKey.
func NewRepository(store kv.Store, key string, opts ...Option) (*Repository, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	if err := kv.ValidateKey(key); err != nil {
		return nil, err
	}
	r := &Repository{
		store:  store,
		key:    key,
		logger: log.New(io.Discard),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Key returns the storage key.
func (r *Repository) Key() string {
	return r.key
}

// NewID returns a fresh task id.
func (r *Repository) NewID() string {
	return r.newID()
}

// Raw returns the stored value as-is.
func (r *Repository) Raw() (string, bool, error) {
	return r.store.Get(r.key)
}

// ReadAll returns the stored collection in insertion order. A missing value
// is an empty collection. A corrupt value is backed up and read as empty.
// Missing or repeated ids are replaced and the result written back before
// returning. Only store failures are returned as errors.
func (r *Repository) ReadAll() ([]Task, error) {
	raw, ok, err := r.store.Get(r.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.key, err)
	}
	if !ok {
		return []Task{}, nil
	}

	result := Validate(raw)
	if !result.Valid {
		r.recoverCorrupt(raw, result.Errors)
		return []Task{}, nil
	}
	if result.Empty {
		return []Task{}, nil
	}

	tasks := result.Tasks
	if r.assignIDs(tasks) {
		if err := r.writeAll(tasks); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// recoverCorrupt keeps the unreadable value under the backup key so the next
// write does not lose it.
func (r *Repository) recoverCorrupt(raw string, errs []error) {
	backupKey := r.key + CorruptSuffix
	fields := []any{"key", r.key, "backup", backupKey}
	if len(errs) > 0 {
		fields = append(fields, "err", errs[0])
	}
	r.logger.Warn("Stored task collection is corrupt, reading as empty", fields...)
	if err := r.store.Set(backupKey, raw); err != nil {
		r.logger.Error("Failed to back up corrupt collection", "key", backupKey, "err", err)
	}
}

// assignIDs gives a fresh id to every task stored without one and to every
// later repeat of an id, so each id names exactly one task. The first task
// holding an id keeps it.
func (r *Repository) assignIDs(tasks []Task) bool {
	taken := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.ID != "" {
			taken[t.ID] = true
		}
	}

	kept := make(map[string]bool, len(tasks))
	missing, repeated := 0, 0
	for i := range tasks {
		switch {
		case tasks[i].ID == "":
			missing++
		case kept[tasks[i].ID]:
			repeated++
		default:
			kept[tasks[i].ID] = true
			continue
		}
		id := r.newID()
		for taken[id] {
			id = r.newID()
		}
		taken[id] = true
		kept[id] = true
		tasks[i].ID = id
	}
	if missing > 0 {
		r.logger.Info("Assigned ids to legacy tasks", "count", missing)
	}
	if repeated > 0 {
		r.logger.Warn("Replaced duplicate task ids", "count", repeated)
	}
	return missing+repeated > 0
}

func (r *Repository) writeAll(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", r.key, err)
	}
	if err := r.store.Set(r.key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", r.key, err)
	}
	return nil
}

// mutate runs a whole-collection read-modify-write. fn returns the new
// collection and how many entries it affected. The collection is written
// back even when nothing matched.
func (r *Repository) mutate(fn func([]Task) ([]Task, int)) (int, error) {
	tasks, err := r.ReadAll()
	if err != nil {
		return 0, err
	}
	out, n := fn(tasks)
	if err := r.writeAll(out); err != nil {
		return 0, err
	}
	return n, nil
}

// Append adds task to the end of the collection, assigning an id if it has none.
func (r *Repository) Append(task Task) (Task, error) {
	if task.ID == "" {
		task.ID = r.newID()
	}
	_, err := r.mutate(func(tasks []Task) ([]Task, int) {
		return append(tasks, task), 1
	})
	if err != nil {
		return Task{}, err
	}
	r.logger.Debug("Task appended", "id", task.ID, "text", task.Text)
	return task, nil
}

// Remove drops the task with id.
func (r *Repository) Remove(id string) (int, error) {
	return r.mutate(func(tasks []Task) ([]Task, int) {
		return removeWhere(tasks, func(t Task) bool { return t.ID == id })
	})
}

// RemoveByText drops every task whose text equals text.
func (r *Repository) RemoveByText(text string) (int, error) {
	return r.mutate(func(tasks []Task) ([]Task, int) {
		return removeWhere(tasks, func(t Task) bool { return t.Text == text })
	})
}

// Toggle flips done on the task with id.
func (r *Repository) Toggle(id string) (int, error) {
	return r.mutate(func(tasks []Task) ([]Task, int) {
		return updateWhere(tasks, func(t Task) bool { return t.ID == id }, func(t *Task) {
			t.Done = !t.Done
		})
	})
}

// ToggleByText flips done on every task whose text equals text.
func (r *Repository) ToggleByText(text string) (int, error) {
	return r.mutate(func(tasks []Task) ([]Task, int) {
		return updateWhere(tasks, func(t Task) bool { return t.Text == text }, func(t *Task) {
			t.Done = !t.Done
		})
	})
}

// Rename sets the text of the task with id.
func (r *Repository) Rename(id, newText string) (int, error) {
	return r.mutate(func(tasks []Task) ([]Task, int) {
		return updateWhere(tasks, func(t Task) bool { return t.ID == id }, func(t *Task) {
			t.Text = newText
		})
	})
}

// UpdateText sets newText on every task whose text equals oldText.
func (r *Repository) UpdateText(oldText, newText string) (int, error) {
	return r.mutate(func(tasks []Task) ([]Task, int) {
		return updateWhere(tasks, func(t Task) bool { return t.Text == oldText }, func(t *Task) {
			t.Text = newText
		})
	})
}

func removeWhere(tasks []Task, match func(Task) bool) ([]Task, int) {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if match(t) {
			continue
		}
		out = append(out, t)
	}
	return out, len(tasks) - len(out)
}

func updateWhere(tasks []Task, match func(Task) bool, update func(*Task)) ([]Task, int) {
	n := 0
	for i := range tasks {
		if match(tasks[i]) {
			update(&tasks[i])
			n++
		}
	}
	return tasks, n
}
