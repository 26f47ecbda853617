package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"volume-control/internal/adapter/secondary/lock"
	"volume-control/internal/adapter/secondary/notify"
	"volume-control/internal/adapter/secondary/pulse"
	"volume-control/internal/adapter/secondary/repository"
	"volume-control/internal/config"
	"volume-control/internal/domain"
	"volume-control/internal/logging"
	"volume-control/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
)

// Secondary adapters, replaceable in tests.
var (
	newAudioServer = func(cfg *config.Config) (domain.AudioServer, error) {
		c, err := pulse.NewClient(cfg.PactlCommand)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	newNotifier = func(cfg *config.Config) (domain.Notifier, error) {
		n, err := notify.NewNotifySend(cfg.NotifyCommand)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
)

type adjustFlags struct {
	application  bool
	increase     float64
	decrease     float64
	muteToggle   bool
	duration     float64
	iconMuted    string
	icon         string
	title        string
	steps        uint64
	stepInterval uint64
}

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	var f adjustFlags
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "volume-control",
		Short: "Very simple program to control volume of currently playing device",
		Long: `Changes the volume of the device (or application) that is playing right now
and shows a desktop notification with the result.

Targets are picked in this order: everything currently playing, then the
target controlled last time, then the default device.`,
		Example: `  volume-control --increase 5
  volume-control --decrease 5 --steps 5 --step-interval 10
  volume-control --mute-toggle
  volume-control --application --increase 10`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdjust(cmd, &f)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file (.json, .yaml or .toml)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose mode (-v, -vv, -vvv)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	fl := cmd.Flags()
	fl.SortFlags = false
	fl.Float64Var(&f.increase, "increase", 0, "increase volume of `PERCENT`")
	fl.Float64Var(&f.decrease, "decrease", 0, "decrease volume of `PERCENT`")
	fl.BoolVarP(&f.muteToggle, "mute-toggle", "m", false, "toggle mute")
	fl.BoolVar(&f.application, "application", false, "control playing applications instead of devices")
	fl.Float64Var(&f.duration, "duration", defaults["duration"].(float64), "notification duration in `SECONDS`")
	fl.StringVar(&f.iconMuted, "icon-muted", defaults["icon_muted"].(string), "notification `ICON` when muted")
	fl.StringVar(&f.icon, "icon", defaults["icon"].(string), "notification `ICON`")
	fl.StringVar(&f.title, "title", defaults["title"].(string), "notification `TITLE`")
	fl.Uint64Var(&f.steps, "steps", defaults["steps"].(uint64), "steps for smooth transition (1 to disable)")
	fl.Uint64Var(&f.stepInterval, "step-interval", defaults["step_interval_ms"].(uint64), "step interval in `MILLISECONDS`")
	cmd.MarkFlagsMutuallyExclusive("increase", "decrease")
	cmd.MarkFlagsMutuallyExclusive("increase", "mute-toggle")

	cmd.AddCommand(
		newListCmd(),
		newShellCmd(),
	)

	return cmd
}

// options merges explicitly set flags over the loaded configuration.
func (f *adjustFlags) options(fl *pflag.FlagSet, cfg config.Config) (usecase.Options, error) {
	if fl.Changed("application") {
		cfg.Application = f.application
	}
	if fl.Changed("duration") {
		cfg.Duration = f.duration
	}
	if fl.Changed("icon-muted") {
		cfg.IconMuted = f.iconMuted
	}
	if fl.Changed("icon") {
		cfg.Icon = f.icon
	}
	if fl.Changed("title") {
		cfg.Title = f.title
	}
	if fl.Changed("steps") {
		cfg.Steps = f.steps
	}
	if fl.Changed("step-interval") {
		cfg.StepIntervalMS = f.stepInterval
	}
	if err := config.Validate(cfg); err != nil {
		return usecase.Options{}, err
	}

	var req domain.Request
	switch {
	case f.muteToggle:
		req = domain.ToggleMute()
	case fl.Changed("increase"):
		req = domain.Increase(f.increase)
	case fl.Changed("decrease"):
		req = domain.Decrease(f.decrease)
	default:
		return usecase.Options{}, domain.ErrInvalidRequest
	}

	kind := domain.KindDevice
	if cfg.Application {
		kind = domain.KindApplication
	}

	opts := usecase.Options{
		Kind:         kind,
		Request:      req,
		Steps:        cfg.Steps,
		StepInterval: cfg.StepInterval(),
		Title:        cfg.Title,
		Icon:         cfg.Icon,
		IconMuted:    cfg.IconMuted,
		Duration:     cfg.NotificationTimeout(),
	}
	return opts, opts.Validate()
}

func runAdjust(cmd *cobra.Command, f *adjustFlags) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	opts, err := f.options(cmd.Flags(), *cfg)
	if err != nil {
		return err
	}

	repo, err := repository.NewFileRepository(cfg.StateDir)
	if err != nil {
		return err
	}
	l, err := lock.Acquire(repo.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logging.Errorf("release lock: %v", err)
		}
	}()

	audio, err := newAudioServer(cfg)
	if err != nil {
		return err
	}
	notifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	uc := usecase.NewAdjustUseCase(audio, notifier, repo)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logging.Debugf("%s on %s targets", opts.Request, opts.Kind)
	res, err := uc.Adjust(ctx, opts)
	for _, t := range res.Targets {
		logging.Infof("%s: %d%% (muted: %t, %d step(s), tier: %s)",
			t.Name, domain.Percent(t.Volume), t.Muted, t.Applied, res.Tier)
	}
	return err
}

func newListCmd() *cobra.Command {
	var application bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playback devices (or applications) and their volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("application") {
				cfg.Application = application
			}
			audio, err := newAudioServer(cfg)
			if err != nil {
				return err
			}
			kind := domain.KindDevice
			if cfg.Application {
				kind = domain.KindApplication
			}

			uc := usecase.NewAdjustUseCase(audio, notify.Noop{}, repository.NewMemoryRepository())
			targets, err := uc.List(cmd.Context(), kind)
			if err != nil {
				return err
			}
			return printTargets(cmd.OutOrStdout(), targets)
		},
	}
	cmd.Flags().BoolVar(&application, "application", false, "list applications instead of devices")
	return cmd
}

func printTargets(w io.Writer, targets []domain.Target) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tSTATE\tVOLUME\tDESCRIPTION")
	for _, t := range targets {
		marker := ""
		if t.Default {
			marker = "*"
		}
		state := "idle"
		if t.Running {
			state = "running"
		}
		volume := fmt.Sprintf("%d%%", domain.Percent(t.Volume.Avg()))
		if t.Muted {
			volume += " (muted)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, t.Name, state, volume, t.Description)
	}
	return tw.Flush()
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
