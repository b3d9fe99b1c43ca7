package view

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/nibzard/tudu/internal/kv"
	"github.com/nibzard/tudu/internal/todo"
)

func seededController(t *rapid.T, identity Identity) (*Controller, *todo.Repository) {
	repo, err := todo.NewRepository(kv.NewMemoryStore(), "")
	if err != nil {
		t.Fatalf("NewRepository failed: %v", err)
	}
	c := New(repo, WithIdentity(identity))

	labels := rapid.SliceOfN(rapid.SampledFrom([]string{"milk", "Milk tea", "dog", "bread", "eggs"}), 0, 12).Draw(t, "labels")
	for _, label := range labels {
		c.SetDraft(label)
		if _, err := c.SubmitCreate(); err != nil {
			t.Fatalf("SubmitCreate failed: %v", err)
		}
	}
	for i := 0; i < c.Len(); i++ {
		if rapid.Bool().Draw(t, "done") {
			if err := c.ToggleDone(i); err != nil {
				t.Fatalf("ToggleDone failed: %v", err)
			}
		}
	}
	return c, repo
}

func TestFilterIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c, _ := seededController(t, ByID)

		if rapid.Bool().Draw(t, "useSearch") {
			term := rapid.SampledFrom([]string{"", "milk", "M", "o", "zzz"}).Draw(t, "term")
			c.Search(term)
			once := c.Rows()
			c.Search(term)
			if !reflect.DeepEqual(once, c.Rows()) {
				t.Fatalf("Search(%q) not idempotent", term)
			}
			return
		}
		mode := rapid.SampledFrom([]string{"all", "done", "todo", "bogus"}).Draw(t, "mode")
		c.Filter(mode)
		once := c.Rows()
		c.Filter(mode)
		if !reflect.DeepEqual(once, c.Rows()) {
			t.Fatalf("Filter(%q) not idempotent", mode)
		}
	})
}

func TestDeleteRemovesMatchingSetProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		identity := rapid.SampledFrom([]Identity{ByID, ByText}).Draw(t, "identity")
		c, repo := seededController(t, identity)
		if c.Len() == 0 {
			return
		}
		i := rapid.IntRange(0, c.Len()-1).Draw(t, "row")
		target, _ := c.Row(i)

		before, _ := repo.ReadAll()
		wantRemoved := 0
		for _, task := range before {
			if identity == ByText && task.Text == target.Text || identity == ByID && task.ID == target.ID {
				wantRemoved++
			}
		}

		if err := c.Delete(i); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		after, _ := repo.ReadAll()
		if got := len(before) - len(after); got != wantRemoved {
			t.Fatalf("removed %d stored tasks, want %d", got, wantRemoved)
		}
		if c.Len() != len(after) {
			t.Fatalf("rows %d out of step with storage %d", c.Len(), len(after))
		}
	})
}
