// Package cmd implements the CLI command structure for tudu.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tudu/internal/config"
	"github.com/nibzard/tudu/internal/kv"
	"github.com/nibzard/tudu/internal/logging"
	"github.com/nibzard/tudu/internal/todo"
	"github.com/nibzard/tudu/internal/ui"
	"github.com/nibzard/tudu/internal/view"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Command output. Tests swap these for buffers.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the tudu CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tudu", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No args or a leading flag means the terminal UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "logs":
		return logsCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the terminal UI. Logs go to a session file so they do
// not draw over the alternate screen.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tudu tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	session, err := logging.NewSessionLog(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer session.Close()
	logger := newLogger(cfg, session.Writer())
	logger.Info("Session started", "run", session.RunID, "store", cfg.Store, "path", cfg.StorePath)

	store, ctrl, err := openController(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return ui.RunTUI(ctx, ctrl,
		ui.WithLogger(logger),
		ui.WithLocation(storeLocation(cfg)),
	)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "tudu version %s\n", Version)
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	return logging.NewLogger(w, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})
}

// openRepository opens the configured store and the task repository over it.
// The caller closes the store.
func openRepository(cfg *config.Config, logger *log.Logger) (kv.Store, *todo.Repository, error) {
	store, err := kv.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}
	repo, err := todo.NewRepository(store, cfg.StorageKey, todo.WithLogger(logger))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, repo, nil
}

// openController opens the repository and loads a controller over it.
func openController(cfg *config.Config, logger *log.Logger) (kv.Store, *view.Controller, error) {
	identity, err := view.ParseIdentity(cfg.MatchBy)
	if err != nil {
		return nil, nil, err
	}
	store, repo, err := openRepository(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	ctrl := view.New(repo, view.WithIdentity(identity), view.WithLogger(logger))
	if err := ctrl.Load(); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, ctrl, nil
}

func storeLocation(cfg *config.Config) string {
	if cfg.StorePath == "" {
		return fmt.Sprintf("%s store, key %q", cfg.Store, cfg.StorageKey)
	}
	return fmt.Sprintf("%s store at %s, key %q", cfg.Store, cfg.StorePath, cfg.StorageKey)
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tudu - a terminal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tudu [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                      Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  ls                       List tasks")
	fmt.Fprintln(w, "  add <text...>            Add a task")
	fmt.Fprintln(w, "  done <ref>               Toggle a task's completion")
	fmt.Fprintln(w, "  edit <ref> <text...>     Change a task's text")
	fmt.Fprintln(w, "  rm <ref>                 Delete a task")
	fmt.Fprintln(w, "  doctor                   Check config and the stored collection")
	fmt.Fprintln(w, "  init                     Write an example .tudu/tudu.toml")
	fmt.Fprintln(w, "  logs                     Print the latest terminal UI session log")
	fmt.Fprintln(w, "  version                  Show version information")
	fmt.Fprintln(w, "  help                     Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A <ref> is a list number, a task id or unique id prefix, or the exact task text.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Show all, done or todo tasks (default \"all\")")
	fmt.Fprintln(w, "  -search string")
	fmt.Fprintln(w, "        Show tasks whose lowercased text contains the term")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print the tasks as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options (use with 'logs' command):")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
