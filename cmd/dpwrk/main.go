package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dpwrk/internal/bootstrap"
	prefsdto "dpwrk/internal/modules/preferences/dto"
	"dpwrk/internal/modules/timer/domain"
	timerdto "dpwrk/internal/modules/timer/dto"
	"dpwrk/internal/platform/config"
	apperrors "dpwrk/internal/platform/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaultDir, err := config.DefaultDataDir()
	if err != nil {
		defaultDir = ".dpwrk"
	}

	root := &cobra.Command{
		Use:           "dpwrk",
		Short:         "Focus session timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDir, "directory holding state, preferences and the daemon socket")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: trace|debug|info|warn|error")

	root.AddCommand(newDaemonCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newStartCmd(opts))
	root.AddCommand(newControlCmd(opts, "pause", "Pause the running session", pauseSession))
	root.AddCommand(newControlCmd(opts, "resume", "Resume a paused session", resumeSession))
	root.AddCommand(newControlCmd(opts, "stop", "Stop the current session", stopSession))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newPrefsCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	return config.New(opts.dataDir, opts.logLevel)
}

// withApp opens the app for one command: the daemon when it answers,
// otherwise a local engine over the same state.
func withApp(ctx context.Context, opts *rootOptions, fn func(*bootstrap.App) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closer, err := bootstrap.NewLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	app, err := bootstrap.Open(ctx, cfg, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the timer daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if bootstrap.DaemonReachable(ctx, cfg.SocketPath) {
				return apperrors.ErrDaemonRunning
			}
			logger, closer, err := bootstrap.NewLogger(cfg, true)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			app, err := bootstrap.New(ctx, cfg, logger, os.Stdout)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunDaemon(ctx, app)
		},
	}
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the countdown screen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()
			return withApp(ctx, opts, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(ctx, app)
			})
		},
	}
}

func newStartCmd(opts *rootOptions) *cobra.Command {
	var goal string
	var minutes int

	cmd := &cobra.Command{
		Use:   "start [goal]",
		Short: "Start a focus session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && goal == "" {
				goal = args[0]
			}
			if minutes < 0 {
				return fmt.Errorf("%w: minutes must not be negative", apperrors.ErrInvalidDuration)
			}
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				state, err := app.TimerCLI.Start(cmd.Context(), goal, minutes)
				if err != nil {
					return err
				}
				printState(cmd.OutOrStdout(), state)
				if !app.Remote {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "no daemon running; the session is saved but nothing will notify on completion (run `dpwrk daemon`)")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "what this session is for")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "session length in minutes (0 uses the preferred default)")
	return cmd
}

type controlFunc func(context.Context, *bootstrap.App) (timerdto.StateOutput, error)

func pauseSession(ctx context.Context, app *bootstrap.App) (timerdto.StateOutput, error) {
	return app.TimerCLI.Pause(ctx)
}

func resumeSession(ctx context.Context, app *bootstrap.App) (timerdto.StateOutput, error) {
	return app.TimerCLI.Resume(ctx)
}

func stopSession(ctx context.Context, app *bootstrap.App) (timerdto.StateOutput, error) {
	return app.TimerCLI.Stop(ctx)
}

func newControlCmd(opts *rootOptions, use, short string, run controlFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				state, err := run(cmd.Context(), app)
				if err != nil {
					return err
				}
				printState(cmd.OutOrStdout(), state)
				return nil
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				state, err := app.TimerCLI.Status(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(state)
				}
				printState(cmd.OutOrStdout(), state)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the state as JSON")
	return cmd
}

func newPrefsCmd(opts *rootOptions) *cobra.Command {
	prefs := &cobra.Command{Use: "prefs", Short: "Session defaults and feedback settings"}

	prefs.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				out, err := app.PrefsCLI.Show(cmd.Context())
				if err != nil {
					return err
				}
				printPrefs(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	var minutes int
	var notifications, sound bool
	var apps, websites []string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.NFlag() == 0 {
				return errors.New("nothing to set; pass at least one flag")
			}
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				ctx := cmd.Context()
				var out prefsdto.PreferencesOutput
				var err error
				if flags.Changed("minutes") {
					if out, err = app.PrefsCLI.SetDefaultMinutes(ctx, minutes); err != nil {
						return err
					}
				}
				if flags.Changed("notifications") {
					if out, err = app.PrefsCLI.SetNotifications(ctx, notifications); err != nil {
						return err
					}
				}
				if flags.Changed("sound") {
					if out, err = app.PrefsCLI.SetSound(ctx, sound); err != nil {
						return err
					}
				}
				if flags.Changed("apps") {
					if out, err = app.PrefsCLI.SetBlockedApps(ctx, apps); err != nil {
						return err
					}
				}
				if flags.Changed("websites") {
					if out, err = app.PrefsCLI.SetBlockedWebsites(ctx, websites); err != nil {
						return err
					}
				}
				printPrefs(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	set.Flags().IntVar(&minutes, "minutes", 0, "default session length in minutes")
	set.Flags().BoolVar(&notifications, "notifications", true, "deliver a desktop notification on completion")
	set.Flags().BoolVar(&sound, "sound", true, "ring the terminal bell on completion")
	set.Flags().StringSliceVar(&apps, "apps", nil, "default blocked apps")
	set.Flags().StringSliceVar(&websites, "websites", nil, "default blocked websites")

	prefs.AddCommand(set)
	return prefs
}

func printState(w io.Writer, state timerdto.StateOutput) {
	if state.SessionID == "" {
		_, _ = fmt.Fprintln(w, "idle")
		return
	}
	goal := state.Goal
	if goal == "" {
		goal = "-"
	}
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s remaining of %s\t%.0f%%\n",
		state.Phase, goal, domain.FormatClock(state.Remaining), domain.FormatClock(state.Duration), state.Progress*100)
}

func printPrefs(w io.Writer, out prefsdto.PreferencesOutput) {
	_, _ = fmt.Fprintf(w, "default_minutes\t%d\n", int(out.DefaultDuration/time.Minute))
	_, _ = fmt.Fprintf(w, "notifications\t%t\n", out.NotificationsEnabled)
	_, _ = fmt.Fprintf(w, "sound\t%t\n", out.SoundEnabled)
	_, _ = fmt.Fprintf(w, "blocked_apps\t%s\n", strings.Join(out.DefaultBlockedApps, ","))
	_, _ = fmt.Fprintf(w, "blocked_websites\t%s\n", strings.Join(out.DefaultBlockedWebsites, ","))
	if out.LastGoal != "" {
		_, _ = fmt.Fprintf(w, "last_goal\t%s\n", out.LastGoal)
	}
}
