package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinylittleshell/taskq/internal/app"
	"github.com/atinylittleshell/taskq/internal/concurrency"
	"github.com/atinylittleshell/taskq/internal/config"
	"github.com/atinylittleshell/taskq/internal/shell"
	"github.com/atinylittleshell/taskq/internal/styles"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var BUILD_VERSION = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands once the root command has
// loaded configuration.
type cli struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
	pools  *concurrency.Registry
	getwd  func() (string, error)
}

func newRootCmd() *cobra.Command {
	c := &cli{
		logger: zap.NewNop(),
		pools:  concurrency.NewRegistry(),
		getwd:  os.Getwd,
	}

	root := &cobra.Command{
		Use:   "taskq",
		Short: "taskq - a small task queue",
		Long: `taskq runs tasks defined in YAML task modules.

Use "taskq shell" to explore the app and its tasks interactively.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./taskq.yaml or ~/.taskq/config.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "loglevel", "", "log level (debug, info, warn, error)")

	root.AddCommand(newShellCmd(c))
	root.AddCommand(newTasksCmd(c))
	root.AddCommand(newVersionCmd())
	return root
}

func (c *cli) setup() error {
	cfg, err := config.NewLoader(c.logger).Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	logger, err := initializeLogger(cfg)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	c.logger.Info("-------- new taskq session --------", zap.Any("args", os.Args))
	return nil
}

// initializeLogger writes to the log file only; the terminal belongs to
// the interactive shell.
func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logLevel := zap.NewAtomicLevelAt(level)
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{cfg.LogFile}
	loggerConfig.ErrorOutputPaths = []string{cfg.LogFile}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func (c *cli) newApp() *app.App {
	return app.New(c.cfg.App, app.Options{
		Imports: c.cfg.Imports,
		Include: c.cfg.Include,
		Pool:    c.cfg.Pool,
		Pools:   c.pools,
		Logger:  c.logger,
	})
}

func newShellCmd(c *cli) *cobra.Command {
	var flags shell.Flags
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell with the app and its tasks predefined",
		Long: `Start an interactive shell with these names predefined:

  app, taskq        the application
  Task              register a task
  signature, subtask, group, chain, chord, chunks, xmap, xstarmap

and every task of the default modules, by its short name.

The rich shell is used when available, then the yaegi REPL, then the
plain shell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			launcher := shell.NewLauncher(shell.Options{
				Pools:   c.pools,
				Stdin:   cmd.InOrStdin(),
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
				Logger:  c.logger,
				Getwd:   c.getwd,
				Shell:   c.cfg.Shell,
				Version: BUILD_VERSION,
			})
			return launcher.Launch(cmd.Context(), flags, c.newApp())
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.ForceRich, "ipython", "I", false, "force the rich line-editor shell")
	f.BoolVarP(&flags.ForceYaegi, "bpython", "B", false, "force the yaegi REPL")
	f.BoolVar(&flags.ForcePlain, "python", false, "force the plain shell")
	f.BoolVarP(&flags.WithoutTasks, "without-tasks", "T", false, "don't add tasks to the shell namespace")
	f.BoolVar(&flags.Eventlet, "eventlet", false, "use the eventlet pool")
	f.BoolVar(&flags.Gevent, "gevent", false, "use the gevent pool")
	return cmd
}

func newTasksCmd(c *cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List registered tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.newApp()
			cwd, err := c.getwd()
			if err != nil {
				return err
			}
			if err := a.Loader().WithSearchPath(cwd).ImportDefaultModules(cmd.Context()); err != nil {
				return err
			}
			return printTasks(cmd.OutOrStdout(), a, all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include taskq's own tasks")
	return cmd
}

func printTasks(w io.Writer, a *app.App, all bool) error {
	for _, name := range a.TaskNames() {
		if !all && app.IsReserved(name) {
			continue
		}
		t, _ := a.Lookup(name)
		line := "  . " + styles.NOTICE(name)
		if t.Doc != "" {
			line += "  " + strings.TrimSpace(t.Doc)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), BUILD_VERSION)
		},
	}
}
