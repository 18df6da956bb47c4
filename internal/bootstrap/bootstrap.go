package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	prefsinadapter "dpwrk/internal/modules/preferences/adapter/in"
	prefsoutadapter "dpwrk/internal/modules/preferences/adapter/out"
	prefsin "dpwrk/internal/modules/preferences/port/in"
	prefsservice "dpwrk/internal/modules/preferences/service"
	prefsusecase "dpwrk/internal/modules/preferences/usecase"
	timerinadapter "dpwrk/internal/modules/timer/adapter/in"
	timeroutadapter "dpwrk/internal/modules/timer/adapter/out"
	timerin "dpwrk/internal/modules/timer/port/in"
	timerservice "dpwrk/internal/modules/timer/service"
	timerusecase "dpwrk/internal/modules/timer/usecase"
	"dpwrk/internal/platform/clock"
	"dpwrk/internal/platform/config"
	"dpwrk/internal/platform/id"
	"dpwrk/internal/platform/kv"
	"dpwrk/internal/platform/lifecycle"
	"dpwrk/internal/platform/logging"
	uiapp "dpwrk/internal/ui/app"
)

const appName = "dpwrk"

// App is the wired application. Lifecycle is nil when control is forwarded
// to a running daemon.
type App struct {
	Config    config.Config
	Logger    hclog.Logger
	TimerCLI  timerinadapter.CLIHandler
	PrefsCLI  prefsinadapter.CLIHandler
	Lifecycle timerin.Lifecycle
	Remote    bool

	timer     timerin.Usecase
	engine    *timerservice.Engine
	scheduler *timeroutadapter.WallClockScheduler
	store     *kv.SQLiteStore
}

// New wires an in-process engine over the local database. The engine starts
// idle; call Restore through Lifecycle to pick up persisted state.
func New(ctx context.Context, cfg config.Config, logger hclog.Logger, bell io.Writer) (*App, error) {
	logger = logging.OrNull(logger)
	clk := clock.SystemClock{}

	store, err := kv.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	prefsUC := newPreferences(ctx, cfg, logger)
	prefsPort := timeroutadapter.NewPreferencesAdapter(prefsUC)

	scheduler := timeroutadapter.NewWallClockScheduler(
		clk,
		timeroutadapter.NewDesktopNotifier(appName, logger.Named("notify")),
		prefsPort,
		logger.Named("scheduler"),
	)
	engine := timerservice.NewEngine(
		clk,
		timeroutadapter.NewSQLiteStateStore(store, logger.Named("state")),
		scheduler,
		timeroutadapter.NewTerminalFeedback(bell, prefsPort, logger.Named("feedback")),
		logger.Named("engine"),
		timerservice.Options{TickInterval: cfg.TickInterval},
	)
	timerUC := timerusecase.NewInteractor(engine, prefsPort, id.UUID{}, logger.Named("timer"))

	return &App{
		Config:    cfg,
		Logger:    logger,
		TimerCLI:  timerinadapter.NewCLIHandler(timerUC),
		PrefsCLI:  prefsinadapter.NewCLIHandler(prefsUC),
		Lifecycle: timerUC,
		timer:     timerUC,
		engine:    engine,
		scheduler: scheduler,
		store:     store,
	}, nil
}

// NewRemote forwards timer control to the daemon on cfg.SocketPath.
// Preferences stay local because they live in a plain file.
func NewRemote(ctx context.Context, cfg config.Config, logger hclog.Logger) *App {
	logger = logging.OrNull(logger)
	timerUC := timerusecase.NewRemoteInteractor(timeroutadapter.NewJSONRPCClient(), cfg.SocketPath)
	return &App{
		Config:   cfg,
		Logger:   logger,
		TimerCLI: timerinadapter.NewCLIHandler(timerUC),
		PrefsCLI: prefsinadapter.NewCLIHandler(newPreferences(ctx, cfg, logger)),
		Remote:   true,
		timer:    timerUC,
	}
}

// Open attaches to a running daemon when one answers, otherwise it wires a
// local engine and restores persisted state.
func Open(ctx context.Context, cfg config.Config, logger hclog.Logger, bell io.Writer) (*App, error) {
	if DaemonReachable(ctx, cfg.SocketPath) {
		logging.OrNull(logger).Debug("using running daemon", "socket", cfg.SocketPath)
		return NewRemote(ctx, cfg, logger), nil
	}
	app, err := New(ctx, cfg, logger, bell)
	if err != nil {
		return nil, err
	}
	restored, err := app.Lifecycle.Restore(ctx)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("restore timer: %w", err)
	}
	if restored.IsComplete {
		// Restore has signalled this completion; clear it so the next
		// process to open the state does not signal it again.
		app.scheduler.DeliverDue(ctx)
		app.Lifecycle.ResetCompleted(ctx, restored.SessionID)
	}
	return app, nil
}

// DaemonReachable reports whether a daemon answers on socketPath.
func DaemonReachable(ctx context.Context, socketPath string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err := timeroutadapter.NewJSONRPCClient().Status(probeCtx, socketPath)
	return err == nil
}

func (a *App) Close() error {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// RunDaemon owns the engine until ctx is done: it serves control requests,
// delivers notifications, reacts to host lifecycle events and resets a
// completed session after the configured delay.
func RunDaemon(ctx context.Context, app *App) error {
	if app.Remote || app.Lifecycle == nil {
		return errors.New("daemon requires a local engine")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := startDaemon(ctx, app); err != nil {
		return err
	}

	app.Logger.Info("daemon listening", "socket", app.Config.SocketPath)
	err := timeroutadapter.NewJSONRPCServer().Serve(ctx, app.Config.SocketPath, app.timer)
	if err != nil {
		return fmt.Errorf("serve ipc: %w", err)
	}
	app.Logger.Info("daemon stopped")
	return nil
}

// RunTUI shows the countdown screen. A local engine also gets lifecycle
// handling and notification delivery for as long as the screen is open.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var lc timerin.Lifecycle
	if !app.Remote {
		lc = app.Lifecycle
		go func() {
			_ = app.scheduler.Run(ctx, time.Second)
		}()
		events := lifecycle.Merge(ctx, app.Logger.Named("lifecycle"), lifecycle.NewGapWatcher(), lifecycle.LogindSource{})
		go timerinadapter.NewLifecycleHandler(lc, app.Logger.Named("lifecycle")).Run(ctx, events)
	}

	model := uiapp.NewModel(app.TimerCLI, lc, app.PrefsCLI, app.Config.AutoResetDelay)
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// NewLogger routes daemon logs to stderr and everything else to the log file
// so that command output and the TUI stay clean.
func NewLogger(cfg config.Config, toStderr bool) (hclog.Logger, io.Closer, error) {
	if toStderr {
		return logging.New(appName, cfg.LogLevel, os.Stderr), nopCloser{}, nil
	}
	file, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.New(appName, cfg.LogLevel, file), file, nil
}

// startDaemon subscribes the auto-reset loop before restoring, so a session
// that expired while no daemon ran is reset like any other.
func startDaemon(ctx context.Context, app *App) error {
	updates, unsubscribe := app.Lifecycle.Subscribe(16)
	go func() {
		defer unsubscribe()
		autoReset(ctx, app.Lifecycle, updates, app.Config.AutoResetDelay, app.Logger.Named("auto-reset"))
	}()

	if _, err := app.Lifecycle.Restore(ctx); err != nil {
		return fmt.Errorf("restore timer: %w", err)
	}

	go func() {
		_ = app.scheduler.Run(ctx, time.Second)
	}()
	events := lifecycle.Merge(ctx, app.Logger.Named("lifecycle"),
		lifecycle.NewGapWatcher(),
		lifecycle.SignalSource{},
		lifecycle.LogindSource{},
	)
	go timerinadapter.NewLifecycleHandler(app.Lifecycle, app.Logger.Named("lifecycle")).Run(ctx, events)
	return nil
}

func newPreferences(ctx context.Context, cfg config.Config, logger hclog.Logger) prefsin.Usecase {
	svc := prefsservice.NewPreferencesService(ctx, prefsoutadapter.NewYAMLStore(cfg.PreferencesPath), logger.Named("preferences"))
	return prefsusecase.NewInteractor(svc)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
