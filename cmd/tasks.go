package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/nibzard/tudu/internal/config"
	"github.com/nibzard/tudu/internal/todo"
	"github.com/nibzard/tudu/internal/view"
)

// shortIDLen is how much of an id ls prints.
const shortIDLen = 8

// lsCommand prints the stored tasks in order.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tudu ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filter := fs.String("filter", todo.FilterAll, "Show all, done or todo tasks")
	search := fs.String("search", "", "Show tasks whose lowercased text contains the term")
	asJSON := fs.Bool("json", false, "Print the tasks as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !slices.Contains(todo.Filters(), *filter) {
		return fmt.Errorf("unknown filter %q (expected %s)", *filter, strings.Join(todo.Filters(), "|"))
	}

	store, ctrl, err := openController(cfg, newLogger(cfg, stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	shown := visibleRows(ctrl, *filter, *search)
	rows := ctrl.Rows()

	if *asJSON {
		tasks := make([]todo.Task, 0, len(shown))
		for _, i := range shown {
			tasks = append(tasks, rowTask(rows[i]))
		}
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding tasks: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	if len(rows) == 0 {
		fmt.Fprintln(stdout, "No tasks.")
		return nil
	}
	if len(shown) == 0 {
		fmt.Fprintln(stdout, "No matching tasks.")
		return nil
	}
	for _, i := range shown {
		printRow(i+1, rows[i])
	}
	return nil
}

// visibleRows applies the status filter and then the search term. Unlike the
// interactive view, where the last one applied wins, ls shows rows that pass
// both.
func visibleRows(ctrl *view.Controller, filter, search string) []int {
	ctrl.Filter(filter)
	shown := ctrl.Visible()
	if search == "" {
		return shown
	}
	ctrl.Search(search)
	matched := ctrl.Visible()
	out := shown[:0]
	for _, i := range shown {
		if slices.Contains(matched, i) {
			out = append(out, i)
		}
	}
	return out
}

func printRow(n int, r view.Row) {
	check := " "
	if r.Done {
		check = "x"
	}
	fmt.Fprintf(stdout, "%3d. [%s] %s  (%s)\n", n, check, r.Text, shortID(r.ID))
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func rowTask(r view.Row) todo.Task {
	return todo.Task{ID: r.ID, Text: r.Text, Done: r.Done}
}

// addCommand creates one task from the joined arguments.
func addCommand(cfg *config.Config, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: tudu add <text...>")
	}

	store, ctrl, err := openController(cfg, newLogger(cfg, stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl.SetDraft(text)
	if _, err := ctrl.SubmitCreate(); err != nil {
		return err
	}
	row, err := ctrl.Row(ctrl.Len() - 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added %s %s\n", shortID(row.ID), row.Text)
	return nil
}

// doneCommand toggles the completion state of one task.
func doneCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tudu done <ref>")
	}
	store, ctrl, err := openController(cfg, newLogger(cfg, stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	i, err := resolveRow(ctrl, args[0])
	if err != nil {
		return err
	}
	if err := ctrl.ToggleDone(i); err != nil {
		return err
	}
	row, err := ctrl.Row(i)
	if err != nil {
		return err
	}
	state := "todo"
	if row.Done {
		state = "done"
	}
	fmt.Fprintf(stdout, "Marked %s %s\n", state, row.Text)
	return nil
}

// editCommand replaces the text of one task.
func editCommand(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: tudu edit <ref> <text...>")
	}
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("new text is empty")
	}

	store, ctrl, err := openController(cfg, newLogger(cfg, stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	i, err := resolveRow(ctrl, args[0])
	if err != nil {
		return err
	}
	session, _, err := ctrl.BeginEdit(i)
	if err != nil {
		return err
	}
	if err := ctrl.ApplyEdit(session, text); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Renamed %q to %q\n", session.Text, text)
	return nil
}

// rmCommand deletes one task, or every task sharing its text when
// match_by is text.
func rmCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tudu rm <ref>")
	}
	store, ctrl, err := openController(cfg, newLogger(cfg, stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	i, err := resolveRow(ctrl, args[0])
	if err != nil {
		return err
	}
	row, err := ctrl.Row(i)
	if err != nil {
		return err
	}
	before := ctrl.Len()
	if err := ctrl.Delete(i); err != nil {
		return err
	}
	removed := before - ctrl.Len()
	if removed == 1 {
		fmt.Fprintf(stdout, "Removed %s\n", row.Text)
	} else {
		fmt.Fprintf(stdout, "Removed %d tasks named %s\n", removed, row.Text)
	}
	return nil
}

func resolveRow(ctrl *view.Controller, ref string) (int, error) {
	rows := ctrl.Rows()
	tasks := make([]todo.Task, len(rows))
	for i, r := range rows {
		tasks[i] = rowTask(r)
	}
	return todo.Resolve(tasks, ref)
}
