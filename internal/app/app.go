package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/leaderboard/internal/config"
	"github.com/five82/leaderboard/internal/results"
	"github.com/five82/leaderboard/internal/trialfile"
	"github.com/five82/leaderboard/internal/ui"
	"github.com/five82/leaderboard/internal/wwl"
)

// Options configure the runner.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/leaderboard/prefs.toml
	TrialPath  string
	WWLURL     string // overrides the config file when set
	LogLevel   slog.Level
	NoResults  bool // skip writing trial results
}

// Run executes the trials in opts.TrialPath in the terminal until they
// finish, the user quits, or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	trials, err := trialfile.Load(opts.TrialPath)
	if err != nil {
		return err
	}

	timeline := NewTimeline(TimelineOptions{
		Trials:  trials,
		Remote:  env.Client,
		Results: env.resultSaver(),
		Logger:  env.Logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = config.DefaultPrefsPath()
	}
	model := ui.New(ui.Options{
		ThemeName: env.Config.Theme,
		PrefsPath: prefsPath,
		Continue:  timeline.Continue,
		Snapshot:  timeline.Snapshot,
		Logger:    env.Logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Quitting the program ends the running trial.
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := timeline.Run(gctx, ui.NewDisplay(program.Send), func(s TrialStart) {
			program.Send(ui.TrialStartedMsg{Index: s.Index, Total: s.Total, Name: s.Name, TrialID: s.TrialID})
		})
		program.Send(ui.TimelineDoneMsg{Err: err})
		if errors.Is(err, context.Canceled) {
			env.Logger.Info("timeline cancelled")
			return nil
		}
		return err
	})
	return g.Wait()
}

// Env holds what every command needs: settings, a logger, the remote client
// and, when enabled, the results store.
type Env struct {
	Config  config.Config
	Logger  *slog.Logger
	Client  *wwl.Client
	Results *results.Store

	closers []io.Closer
}

// Setup loads the config and opens the log file, remote client and results
// store. Close releases them.
func Setup(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg = config.LoadPrefs(opts.PrefsPath).Apply(cfg)
	if opts.WWLURL != "" {
		cfg.WWLURL = opts.WWLURL
	}

	env := &Env{Config: cfg}

	logger, logFile, err := openLogger(cfg.LogFile, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	env.Logger = logger
	env.closers = append(env.closers, logFile)

	env.Client, err = wwl.NewClient(cfg.WWLURL, wwl.Options{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init world-wide-lab client: %w", err)
	}
	if !env.Client.Initialized() {
		logger.Info("no wwl_url configured; remote trials will fail validation")
	}

	if !opts.NoResults {
		env.Results, err = results.Open(ctx, cfg.ResultsPath)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.closers = append(env.closers, env.Results)
	}
	return env, nil
}

// Close releases everything Setup opened.
func (e *Env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
	e.closers = nil
}

// resultSaver keeps a nil *results.Store from becoming a non-nil interface.
func (e *Env) resultSaver() ResultSaver {
	if e.Results == nil {
		return nil
	}
	return e.Results
}

// openLogger returns a text logger appending to path. The terminal belongs to
// the UI, so nothing is logged to stderr.
func openLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, file, nil
}
