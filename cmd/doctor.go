package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/tudu/internal/config"
	"github.com/nibzard/tudu/internal/logging"
	"github.com/nibzard/tudu/internal/todo"
	"github.com/nibzard/tudu/internal/tududir"
)

// doctorCommand prints the effective config and checks the stored collection.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tudu doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "tudu doctor")
	fmt.Fprintln(stdout, "===========")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintln(stdout, "Config:")
	if file := cws.GetConfigFile(); file != "" {
		fmt.Fprintf(stdout, "  File: %s\n", file)
	} else {
		fmt.Fprintln(stdout, "  File: (none, using defaults)")
	}
	fmt.Fprintf(stdout, "  store = %s (%s)\n", cfg.Store, cws.Sources["store"])
	fmt.Fprintf(stdout, "  store_path = %s (%s)\n", cfg.StorePath, cws.Sources["store_path"])
	fmt.Fprintf(stdout, "  storage_key = %s (%s)\n", cfg.StorageKey, cws.Sources["storage_key"])
	fmt.Fprintf(stdout, "  match_by = %s (%s)\n", cfg.MatchBy, cws.Sources["match_by"])
	if *verbose {
		fmt.Fprintf(stdout, "  log_dir = %s (%s)\n", cfg.LogDir, cws.Sources["log_dir"])
		fmt.Fprintf(stdout, "  log_level = %s (%s)\n", cfg.LogLevel, cws.Sources["log_level"])
		fmt.Fprintf(stdout, "  log_format = %s (%s)\n", cfg.LogFormat, cws.Sources["log_format"])
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Store: %s\n", storeLocation(cfg))
	store, repo, err := openRepository(cfg, newLogger(cfg, stderr))
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		return errors.New("doctor checks failed")
	}
	defer store.Close()

	// Raw, not ReadAll: ReadAll repairs what it reads.
	raw, ok, err := repo.Raw()
	switch {
	case err != nil:
		fmt.Fprintf(stdout, "  ❌ Read error: %v\n", err)
		allOK = false
	case !ok:
		fmt.Fprintln(stdout, "  ⚠️  No stored collection (created on first add)")
	default:
		result := todo.Validate(raw)
		if result.Valid {
			fmt.Fprintf(stdout, "  ✅ Valid, %d tasks\n", len(result.Tasks))
			missing, repeated := 0, 0
			seen := make(map[string]bool, len(result.Tasks))
			for _, t := range result.Tasks {
				switch {
				case t.ID == "":
					missing++
				case seen[t.ID]:
					repeated++
				default:
					seen[t.ID] = true
				}
			}
			if missing > 0 {
				fmt.Fprintf(stdout, "  ⚠️  %d tasks without an id (assigned and saved on next load)\n", missing)
			}
			if repeated > 0 {
				fmt.Fprintf(stdout, "  ⚠️  %d tasks repeat an earlier id (reassigned and saved on next load)\n", repeated)
			}
		} else {
			fmt.Fprintln(stdout, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(stdout, "     - %v\n", e)
			}
			allOK = false
		}
	}

	backupKey := repo.Key() + todo.CorruptSuffix
	if _, ok, err := store.Get(backupKey); err == nil && ok {
		fmt.Fprintf(stdout, "  ⚠️  Backup of a corrupt collection under %q\n", backupKey)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Log directory: %s\n", cfg.LogDir)
	if logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot); err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else if latest, err := logging.FindLatestLog(logDir); err == nil && latest != "" {
		fmt.Fprintf(stdout, "  Latest session: %s\n", latest)
	} else {
		fmt.Fprintln(stdout, "  ⚠️  No sessions yet")
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

// initCommand writes an example project config to .tudu/tudu.toml.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tudu init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	path := tududir.ConfigPath(cfg.ProjectRoot)
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(stdout, "Config already exists: %s\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", tududir.Dir, err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

// logsCommand prints the latest terminal UI session log.
func logsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tudu logs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stdout, "Log: %s\n\n", logPath)
	return logging.TailLog(stdout, logPath, *n)
}
