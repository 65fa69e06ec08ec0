package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Releaser/internal/domain"
	"github.com/shaiso/Releaser/internal/telemetry"
)

// Options — конфигурация Runner.
type Options struct {
	// Logger — логгер; по умолчанию slog.Default().
	Logger *slog.Logger

	// ParallelLimit — максимум одновременных хостов в parallel шаге.
	// 0 — без ограничения.
	ParallelLimit int

	// Observers — наблюдатели (история, события, метрики).
	Observers []Observer

	// DryRun помечает run как пробный. Сам Runner команды не выполняет,
	// печатью вместо запуска занимается исполнитель действий.
	DryRun bool
}

// Runner выполняет pipeline шаг за шагом.
type Runner struct {
	logger    *slog.Logger
	limit     int
	observers []Observer
	dryRun    bool
}

// New создаёт Runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := opts.ParallelLimit
	if limit < 0 {
		limit = 0
	}

	return &Runner{
		logger:    logger,
		limit:     limit,
		observers: opts.Observers,
		dryRun:    opts.DryRun,
	}
}

// Run выполняет pipeline и возвращает ошибку первого упавшего шага.
func (r *Runner) Run(ctx context.Context, p *Pipeline) error {
	_, err := r.Execute(ctx, p)
	return err
}

// Execute выполняет pipeline и возвращает итоговый run вместе с ошибкой.
//
// Шаги выполняются строго по порядку. Отмена ctx проверяется только между
// шагами: уже начатый шаг runner не прерывает, следующий не запускается.
func (r *Runner) Execute(ctx context.Context, p *Pipeline) (*domain.Run, error) {
	run := domain.NewRun(p.Name, p.Config.Version, p.Hosts())
	run.DryRun = r.dryRun

	logger := telemetry.RunLogger(r.logger, run)
	ctx = telemetry.WithLogger(ctx, logger)

	state := NewRunState()
	run.MarkRunning()
	r.notify(logger, "run_started", func(o Observer) error {
		return o.RunStarted(ctx, run)
	})

	logger.Info("pipeline started", "steps", len(p.Steps), "hosts", len(run.Hosts), "dry_run", r.dryRun)

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return r.finish(ctx, logger, run, state, step.Name, fmt.Errorf("pipeline %s stopped before step %s: %w", p.Name, step.Name, err))
		}

		if err := state.Enter(i); err != nil {
			return r.finish(ctx, logger, run, state, step.Name, err)
		}
		run.CurrentStep = i

		if err := r.runStep(ctx, logger, run, p, i, step); err != nil {
			return r.finish(ctx, logger, run, state, step.Name, err)
		}
	}

	return r.finish(ctx, logger, run, state, "", nil)
}

// finish фиксирует итог run и уведомляет наблюдателей.
func (r *Runner) finish(ctx context.Context, logger *slog.Logger, run *domain.Run, state *RunState, step string, runErr error) (*domain.Run, error) {
	if runErr == nil {
		if err := state.Succeed(); err != nil {
			runErr = err
		}
	}

	if runErr != nil {
		_ = state.Fail(step)
		run.MarkFailed(step, runErr.Error())
		logger.Error("pipeline failed", "step", step, "error", runErr, "state", state.Snapshot().String())
	} else {
		run.MarkSucceeded()
		logger.Info("pipeline succeeded", "duration", run.Duration())
	}

	// Наблюдатели получают уведомление даже после отмены ctx.
	notifyCtx := context.WithoutCancel(ctx)
	r.notify(logger, "run_finished", func(o Observer) error {
		return o.RunFinished(notifyCtx, run)
	})

	return run, runErr
}

// runStep выполняет один шаг в его режиме.
func (r *Runner) runStep(ctx context.Context, logger *slog.Logger, run *domain.Run, p *Pipeline, index int, step Step) error {
	// Начатый шаг доводится до конца: отмена ctx (Ctrl-C) не должна
	// обрывать rsync или npm publish на середине. Отмена проверяется в
	// Execute перед следующим шагом.
	ctx = context.WithoutCancel(ctx)

	stepLogger := logger.With("step", step.Name, "index", index, "mode", step.Mode.String())
	stepLogger.Info("step started")

	var targets []Target
	if step.Mode == domain.StepModeParallel {
		for _, h := range p.Config.Hosts {
			targets = append(targets, Target{Host: h})
		}
	} else {
		targets = []Target{{}}
	}

	results := r.invoke(ctx, run, index, step, targets)

	var (
		failures  []*StepExecutionError
		succeeded []string
	)
	for i, res := range results {
		if res.err != nil {
			failures = append(failures, res.err)
			stepLogger.Error("step failed",
				"host", targets[i].Host,
				"exit_code", res.err.ExitCode,
				"error", res.err.Err,
			)
		} else {
			succeeded = append(succeeded, targets[i].Host)
		}

		result := res.result
		run.Steps = append(run.Steps, result)
		r.notify(stepLogger, "step_finished", func(o Observer) error {
			return o.StepFinished(ctx, run, result)
		})
	}

	switch {
	case len(failures) == 0:
		stepLogger.Info("step succeeded", "invocations", len(results))
		return nil
	case step.Mode != domain.StepModeParallel:
		return failures[0]
	case len(succeeded) == 0:
		if len(failures) == 1 {
			return failures[0]
		}
		errs := make([]error, len(failures))
		for i, f := range failures {
			errs[i] = f
		}
		return errors.Join(errs...)
	default:
		return &PartialParallelFailureError{
			Step:      step.Name,
			Failures:  failures,
			Succeeded: succeeded,
		}
	}
}

type invocation struct {
	result domain.StepResult
	err    *StepExecutionError
}

// invoke вызывает действие для каждой цели и дожидается всех вызовов.
// Результаты возвращаются в порядке целей.
func (r *Runner) invoke(ctx context.Context, run *domain.Run, index int, step Step, targets []Target) []invocation {
	results := make([]invocation, len(targets))

	call := func(i int) {
		target := targets[i]
		started := time.Now()
		err := step.Action(ctx, target)
		finished := time.Now()

		res := domain.StepResult{
			RunID:      run.ID,
			Index:      index,
			Name:       step.Name,
			Mode:       step.Mode,
			Host:       target.Host,
			Status:     domain.StepStatusSucceeded,
			StartedAt:  started,
			FinishedAt: finished,
		}

		var stepErr *StepExecutionError
		if err != nil {
			stepErr = newStepError(step.Name, target.Host, err)
			res.Status = domain.StepStatusFailed
			res.ExitCode = stepErr.ExitCode
			res.Stderr = stepErr.Stderr
			res.Error = err.Error()
		}

		results[i] = invocation{result: res, err: stepErr}
	}

	if step.Mode != domain.StepModeParallel {
		call(0)
		return results
	}

	// errgroup без контекста: упавший хост не отменяет остальные,
	// Wait дожидается всех запущенных вызовов.
	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i := range targets {
		g.Go(func() error {
			call(i)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// notify вызывает всех наблюдателей; ошибки только логируются.
func (r *Runner) notify(logger *slog.Logger, event string, fn func(Observer) error) {
	for _, o := range r.observers {
		if err := fn(o); err != nil {
			logger.Warn("observer failed", "event", event, "observer", fmt.Sprintf("%T", o), "error", err)
		}
	}
}
