// Package cli wires configuration, logging and the task store behind a cobra
// command tree. Running the root command with no subcommand opens the TUI.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskcal/internal/config"
	"github.com/sandeepkv93/taskcal/internal/logging"
	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/storage"
	"github.com/sandeepkv93/taskcal/internal/taskstore"
)

const stateFileName = "view.json"

// app is the state shared by every subcommand for one invocation.
type app struct {
	configPath string
	backend    string
	verbose    bool

	cfg    config.Config
	log    *zap.Logger
	store  *taskstore.Store
	closer io.Closer
}

// Execute runs the command tree and releases the store even when a
// subcommand fails.
func Execute(ctx context.Context, args []string) error {
	cmd, a := newRoot()
	defer a.teardown()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRoot() (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "taskcal",
		Short: "A month-grid calendar and task list for the terminal.",
		Long: `taskcal keeps dated tasks with optional times, notes and colored tags.

Run without arguments to open the calendar.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUI(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $TASKCAL_CONFIG or <user config dir>/taskcal/config.toml)")
	flags.StringVar(&a.backend, "backend", "", "document backend: sqlite, diskv or memory")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	addCommands(cmd, a)
	return cmd, a
}

func addCommands(topLevel *cobra.Command, a *app) {
	addUI(topLevel, a)
	addGrid(topLevel, a)
	addList(topLevel, a)
	addAdd(topLevel, a)
	addDone(topLevel, a)
	addRemove(topLevel, a)
	addTag(topLevel, a)
	addTags(topLevel, a)
}

// interactive reports whether cmd hands the terminal to the TUI.
func interactive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "ui"
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		resolved, err := config.ResolvePath()
		if err != nil {
			return err
		}
		path = resolved
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return err
	}
	cfg = config.FromEnv(cfg)
	if a.backend != "" {
		cfg.Backend = strings.ToLower(a.backend)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.configPath = path

	opts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if !interactive(cmd) {
		opts = logging.Options{Level: "warn"}
		if a.verbose {
			opts.Level = "debug"
		}
	}
	logger, err := logging.New(opts)
	if err != nil {
		return err
	}
	a.log = logger

	docs, closer, err := openBackend(cfg)
	if err != nil {
		return err
	}
	a.closer = closer

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	a.store = taskstore.New(docs, taskstore.WithLocation(loc), taskstore.WithLogger(logger))
	a.log.Debug("store ready",
		zap.String("backend", cfg.Backend),
		zap.String("config", path),
		zap.String("timezone", loc.String()))

	// The TUI loads asynchronously so the spinner can run.
	if interactive(cmd) {
		return nil
	}
	ctx, cancel := a.storeContext(cmd)
	defer cancel()
	if _, err := a.store.Load(ctx); err != nil {
		return err
	}
	return nil
}

// teardown is safe to call more than once.
func (a *app) teardown() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil && a.log != nil {
			a.log.Warn("close store failed", zap.Error(err))
		}
		a.closer = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) storeContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.cfg.StoreTimeout())
}

func (a *app) statePath() string {
	return filepath.Join(filepath.Dir(a.configPath), stateFileName)
}

// openBackend returns the configured document store and, for backends that
// hold resources, the closer to release them.
func openBackend(cfg config.Config) (storage.DocumentStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s, nil
	case config.BackendDiskv:
		s, err := storage.OpenDiskv(cfg.DiskvPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open diskv store: %w", err)
		}
		return s, nil, nil
	case config.BackendMemory:
		return storage.NewMemoryDocumentStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

// findTask resolves a full task id or a unique prefix of one. `taskcal list`
// and `taskcal add` print the shortest unique prefix, so their output always
// resolves here.
func (a *app) findTask(ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if task, ok := a.store.Task(ref); ok {
		return task, nil
	}
	var matches []model.Task
	for _, task := range a.store.Tasks() {
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch {
	case ref == "" || len(matches) == 0:
		return model.Task{}, fmt.Errorf("%w: task %q", taskstore.ErrNotFound, ref)
	case len(matches) > 1:
		return model.Task{}, fmt.Errorf("task id %q is ambiguous: %d matches", ref, len(matches))
	}
	return matches[0], nil
}
