package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"volume-control/internal/domain"
	"volume-control/internal/logging"
)

// AdjustUseCase is the primary port for volume adjustments.
type AdjustUseCase interface {
	// Adjust selects the active targets and applies opts.Request to each of them.
	Adjust(ctx context.Context, opts Options) (Result, error)
	// List returns every target of kind, with the system default marked.
	List(ctx context.Context, kind domain.Kind) ([]domain.Target, error)
}

// Options describes one invocation.
type Options struct {
	Kind         domain.Kind
	Request      domain.Request
	Steps        uint64
	StepInterval time.Duration

	Title     string
	Icon      string
	IconMuted string
	Duration  time.Duration
}

// Validate checks the request and step settings.
func (o Options) Validate() error {
	switch o.Request.Type {
	case domain.RequestIncrease, domain.RequestDecrease:
		p := o.Request.Percent
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: got %g", domain.ErrInvalidPercent, p)
		}
	case domain.RequestToggleMute:
	default:
		return domain.ErrInvalidRequest
	}
	if o.Steps < 1 {
		return domain.ErrInvalidSteps
	}
	if o.StepInterval < 0 || o.Duration < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// TargetResult is the state a target was left in.
type TargetResult struct {
	Name           string
	Volume         domain.Volume
	Muted          bool
	Applied        int
	NotificationID uint32
}

// Result summarises an invocation.
type Result struct {
	Tier    domain.Tier
	Targets []TargetResult
}

type adjustInteractor struct {
	audio    domain.AudioServer
	notifier domain.Notifier
	repo     domain.StateRepository
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewAdjustUseCase wires the adjustment use case to its secondary ports.
func NewAdjustUseCase(
	audio domain.AudioServer,
	notifier domain.Notifier,
	repo domain.StateRepository,
) AdjustUseCase {
	return newAdjustInteractor(audio, notifier, repo)
}

func newAdjustInteractor(audio domain.AudioServer, notifier domain.Notifier, repo domain.StateRepository) *adjustInteractor {
	return &adjustInteractor{
		audio:    audio,
		notifier: notifier,
		repo:     repo,
		sleep:    sleepContext,
	}
}

func (a *adjustInteractor) Adjust(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	targets, err := a.audio.ListTargets(ctx, opts.Kind)
	if err != nil {
		return Result{}, fmt.Errorf("list %ss: %w", opts.Kind, err)
	}

	previous, hasPrevious := a.repo.PreviousTarget()
	sel, err := domain.SelectTargets(targets, previous, hasPrevious, func() (string, error) {
		return a.audio.DefaultTargetName(ctx, opts.Kind)
	})
	if err != nil {
		return Result{}, fmt.Errorf("query default %s: %w", opts.Kind, err)
	}

	result := Result{Tier: sel.Tier}
	if len(sel.Targets) == 0 {
		logging.Infof("no %s to control", opts.Kind)
		return result, nil
	}
	logging.Debugf("selected %d %s(s) from tier %s", len(sel.Targets), opts.Kind, sel.Tier)

	for _, target := range sel.Targets {
		tr, err := a.apply(ctx, target, opts)
		if err != nil {
			return result, fmt.Errorf("%s %q: %w", opts.Kind, target.Name, err)
		}
		if sel.RememberTarget {
			if err := a.repo.SavePreviousTarget(target.Name); err != nil {
				return result, err
			}
		}
		result.Targets = append(result.Targets, tr)
	}
	return result, nil
}

func (a *adjustInteractor) apply(ctx context.Context, target domain.Target, opts Options) (TargetResult, error) {
	id := a.repo.NotificationID(target.Name)
	tr := TargetResult{Name: target.Name, Volume: target.Volume.Avg(), Muted: target.Muted}

	if opts.Request.Type == domain.RequestToggleMute {
		muted := !target.Muted
		if err := a.audio.SetMute(ctx, target, muted); err != nil {
			return tr, fmt.Errorf("set mute: %w", err)
		}
		shown, icon := target.Volume.Avg(), opts.Icon
		if muted {
			shown, icon = domain.VolumeMuted, opts.IconMuted
		}
		logging.Debugf("%s muted: %t", target.Name, muted)

		newID, err := a.notify(ctx, id, shown, target.Description, icon, opts)
		if err != nil {
			return tr, err
		}
		tr.Muted, tr.Applied, tr.NotificationID = muted, 1, newID
		return tr, a.saveNotificationID(target.Name, newID)
	}

	old := domain.StartingVolume(target, opts.Request)
	want := domain.ComputeNewVolume(old, opts.Request)
	plan := domain.PlanSteps(old, want, opts.Steps)
	logging.Debugf("%s muted: %t, old: %d, new: %d, ui max: %d, plan: %v",
		target.Name, target.Muted, old, want, domain.VolumeUIMax, plan)

	unmute := target.Muted && opts.Request.Type == domain.RequestIncrease
	for i, v := range plan {
		if err := a.audio.SetVolume(ctx, target, target.Volume.Set(v)); err != nil {
			return tr, fmt.Errorf("set volume: %w", err)
		}
		tr.Volume, tr.Applied = v, i+1
		if unmute {
			if err := a.audio.SetMute(ctx, target, false); err != nil {
				return tr, fmt.Errorf("unmute: %w", err)
			}
			unmute, tr.Muted = false, false
		}

		newID, err := a.notify(ctx, id, v, target.Description, opts.Icon, opts)
		if err != nil {
			return tr, err
		}
		id, tr.NotificationID = newID, newID

		if i+1 < len(plan) {
			if err := a.sleep(ctx, opts.StepInterval); err != nil {
				return tr, err
			}
		}
	}
	return tr, a.saveNotificationID(target.Name, id)
}

func (a *adjustInteractor) notify(ctx context.Context, id uint32, v domain.Volume, description, icon string, opts Options) (uint32, error) {
	percent := domain.Percent(v)
	progress := domain.UIPercent(v)
	logging.Debugf("new: %d%%, progress: %d%%", percent, progress)

	newID, err := a.notifier.Show(ctx, domain.Notification{
		ReplaceID: id,
		Summary:   opts.Title,
		Body:      fmt.Sprintf("%d%% | %s", percent, description),
		Icon:      icon,
		Progress:  progress,
		Timeout:   opts.Duration,
	})
	if err != nil {
		return id, fmt.Errorf("show notification: %w", err)
	}
	return newID, nil
}

func (a *adjustInteractor) saveNotificationID(name string, id uint32) error {
	if err := a.repo.SaveNotificationID(name, id); err != nil {
		return fmt.Errorf("save notification id: %w", err)
	}
	return nil
}

func (a *adjustInteractor) List(ctx context.Context, kind domain.Kind) ([]domain.Target, error) {
	targets, err := a.audio.ListTargets(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	name, err := a.audio.DefaultTargetName(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("query default %s: %w", kind, err)
	}
	domain.MarkDefault(targets, name)
	return targets, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
