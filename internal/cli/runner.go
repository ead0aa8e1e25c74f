package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logger"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/kv"
	"github.com/Makepad-fr/tada/internal/todos"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune behavior from root flags. Empty values keep the configured ones.
type Options struct {
	Group   bool // list grouped by pending/done
	Backend string
	Dir     string
	Theme   string
	Verbose bool

	// EnvFiles overrides the .env files config.Load reads.
	EnvFiles []string
}

// usageError maps to exit code 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

// noArgs rejects positional arguments. On the root it also catches unknown
// subcommands.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

// app is the state shared by subcommands once the root pre-run has loaded
// configuration.
type app struct {
	opt Options
	cfg *config.Config
}

// Execute runs the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Quiet until setup applies the configured level.
	logger.Init(stderr, "error")

	a := &app{}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		if err.Error() != "" {
			ui.Fail(stderr, err.Error())
			ui.Note(stderr, "Run `todo --help` for usage.")
		}
		return 2
	}

	ui.Fail(stderr, err.Error())
	var derr *todos.DeserializationError
	if errors.As(err, &derr) {
		ui.Note(stderr, "Hint: run `todo reset` to start over with an empty list")
	}
	if a.opt.Verbose {
		logger.ErrorWithStack(err)
	}
	return 1
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny persistent to-do list",
		Long: `todo keeps an ordered to-do list and saves the whole list after every change.

Storage backends:
  file    todos.json in the storage directory (default)
  sqlite  todos.db in the storage directory
  redis   the TODOS key of a redis server
  memory  nothing is kept between runs

Configuration comes from TADA_* environment variables (optionally from .env)
and the flags below.`,
		Example: `  todo add "Buy milk"
  todo ls
  todo done 3f2a
  todo rm 3f2a
  todo tui`,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return usagef("")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	f := root.PersistentFlags()
	f.StringVar(&a.opt.Backend, "backend", "", "storage backend: file, sqlite, redis or memory")
	f.StringVar(&a.opt.Dir, "dir", "", "storage directory (default: working directory)")
	f.StringVar(&a.opt.Theme, "theme", "", "output theme: classic, neon or mono")
	f.BoolVarP(&a.opt.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newDoneCommand(a),
		newRemoveCommand(a),
		newTUICommand(a),
		newResetCommand(a),
		newAuthCommand(a),
	)
	return root
}

// setup loads configuration, applies flag overrides, then configures logging
// and the theme.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opt.EnvFiles...)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.opt.Backend != "" {
		cfg.Storage.Backend = a.opt.Backend
	}
	if a.opt.Dir != "" {
		cfg.Storage.Dir = a.opt.Dir
	}
	if a.opt.Theme != "" {
		cfg.Theme = a.opt.Theme
	}
	if a.opt.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return usagef("%v", err)
	}

	logger.Init(cmd.ErrOrStderr(), cfg.LogLevel)
	ui.SetTheme(cfg.Theme)
	a.cfg = cfg
	return nil
}

// openBackend opens the configured storage. The redis password falls back to
// the saved credential.
func (a *app) openBackend(ctx context.Context) (kv.Store, error) {
	sc := a.cfg.Storage
	if sc.Backend == config.BackendRedis && sc.Redis.Password == "" {
		ti, err := auth.GetToken()
		if err != nil {
			return nil, fmt.Errorf("credentials: %w", err)
		}
		if ti != nil {
			sc.Redis.Password = ti.Token
		}
	}
	backend, err := store.Open(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return backend, nil
}

// openList opens storage and loads the list from it. The returned func closes
// the backend.
func (a *app) openList(ctx context.Context) (*todos.Store, func(), error) {
	backend, err := a.openBackend(ctx)
	if err != nil {
		return nil, nil, err
	}
	s, err := todos.Load(ctx, backend)
	if err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("load: %w", err)
	}
	return s, func() { _ = backend.Close() }, nil
}
