package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nicobailon/wtm/internal/config"
	"github.com/nicobailon/wtm/internal/deps"
	"github.com/nicobailon/wtm/internal/engine"
	"github.com/nicobailon/wtm/internal/git"
	"github.com/nicobailon/wtm/internal/log"
	"github.com/nicobailon/wtm/internal/shell"
	"github.com/nicobailon/wtm/internal/shortcut"
	"github.com/nicobailon/wtm/internal/tui"
	"github.com/nicobailon/wtm/internal/workspace"
	"github.com/nicobailon/wtm/pkg/version"
)

var (
	mainFlag    bool
	versionFlag bool
	verboseFlag bool
	configFlag  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "wtm",
	Short:         "Terminal dashboard for git worktrees",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log every git invocation")
	rootCmd.Flags().BoolVarP(&mainFlag, "main", "m", false, "Print the main worktree path and exit")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
}

func ensureDeps() error {
	missing := deps.Check()
	if len(missing) == 0 {
		return nil
	}
	for _, dep := range missing {
		fmt.Fprintf(os.Stderr, "Missing dependency: %s (%s)\n", dep.Name, deps.InstallHint(dep))
	}
	return fmt.Errorf("missing required dependencies")
}

// services is everything a command needs once the repository is known.
type services struct {
	cfg    *config.Config
	log    *log.Logger
	git    *git.Git
	ws     *workspace.Service
	reg    *shortcut.Registry
	runner *shell.Runner
	engine *engine.Engine
}

func (s *services) Close() error { return s.log.Close() }

func loadServices(ctx context.Context) (context.Context, *services, error) {
	if err := ensureDeps(); err != nil {
		return ctx, nil, err
	}
	cfg, err := config.Load(configFlag)
	if err != nil {
		return ctx, nil, err
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = log.DefaultPath()
	}
	logger := log.New(logPath, verboseFlag)
	ctx = log.WithLogger(ctx, logger)
	logger.Debug("config %q loaded", cfg.Path)

	cwd, err := os.Getwd()
	if err != nil {
		logger.Close()
		return ctx, nil, err
	}
	g, err := git.Open(ctx, cwd, nil)
	if err != nil {
		logger.Close()
		return ctx, nil, err
	}
	g.Timeout = cfg.GitTimeout
	g.FetchTimeout = cfg.FetchTimeout
	g.PathPattern = cfg.PathPattern
	g.Log = logger

	reg, err := shortcut.Load(shortcut.Defaults(cfg.IDE), cfg.Shortcuts)
	if err != nil {
		logger.Close()
		return ctx, nil, err
	}
	for _, w := range reg.Warnings() {
		logger.Warn("shortcuts: %s", w)
	}

	runner := shell.NewRunner()
	// The cd path is the only thing written to a captured stdout.
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		runner.Stdout = os.Stderr
	}

	svc := workspace.NewService(g, cfg)
	e := engine.New(svc, reg, runner, engine.Options{
		RepoRoot:   g.RepoRoot,
		Editor:     cfg.Editor,
		NotesFile:  cfg.NotesFile,
		InitScript: cfg.InitScript,
	})
	return ctx, &services{cfg: cfg, log: logger, git: g, ws: svc, reg: reg, runner: runner, engine: e}, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Println(version.Version)
		return nil
	}

	ctx, s, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if mainFlag {
		fmt.Println(s.git.RepoRoot)
		return nil
	}

	out := os.Stdout
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		out = os.Stderr
	}
	app := tui.New(
		tui.Deps{Engine: s.engine, Git: s.git, Runner: s.runner},
		tui.Options{
			Output:    out,
			RepoName:  filepath.Base(s.git.RepoRoot),
			NotesFile: s.cfg.NotesFile,
			Warnings:  s.reg.Warnings(),
		},
	)
	path, err := app.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		s.log.Error("tui: %v", err)
		return err
	}
	if path != "" {
		s.log.Info("exit to %s", path)
		fmt.Println(path)
	}
	return nil
}
