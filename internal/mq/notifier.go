package mq

import (
	"context"

	"github.com/shaiso/Releaser/internal/domain"
)

// publisher — то, что нужно ReleaseNotifier от Publisher.
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg *Message) error
}

// ReleaseNotifier публикует события run в RabbitMQ.
// Реализует runner.Observer.
type ReleaseNotifier struct {
	pub publisher
}

// NewReleaseNotifier создаёт ReleaseNotifier.
func NewReleaseNotifier(pub *Publisher) *ReleaseNotifier {
	return &ReleaseNotifier{pub: pub}
}

// RunStarted публикует run.started.
func (n *ReleaseNotifier) RunStarted(ctx context.Context, run *domain.Run) error {
	msg := NewMessage(MessageTypeRunStarted, NewRunPayload(run))
	return n.pub.Publish(ctx, RoutingKey(run.Pipeline, EventRunStarted), msg)
}

// StepFinished публикует step.finished.
func (n *ReleaseNotifier) StepFinished(ctx context.Context, run *domain.Run, result domain.StepResult) error {
	msg := NewMessage(MessageTypeStepFinished, NewStepPayload(run.Pipeline, result))
	return n.pub.Publish(ctx, RoutingKey(run.Pipeline, EventStepFinished), msg)
}

// RunFinished публикует run.finished.
func (n *ReleaseNotifier) RunFinished(ctx context.Context, run *domain.Run) error {
	msg := NewMessage(MessageTypeRunFinished, NewRunPayload(run))
	return n.pub.Publish(ctx, RoutingKey(run.Pipeline, EventRunFinished), msg)
}

// NewRunPayload строит payload события run.
func NewRunPayload(run *domain.Run) RunPayload {
	return RunPayload{
		RunID:      run.ID,
		Pipeline:   run.Pipeline,
		Version:    run.Version,
		Hosts:      run.Hosts,
		Status:     string(run.Status),
		FailedStep: run.FailedStep,
		Error:      run.Error,
		DryRun:     run.DryRun,
		DurationMs: run.Duration().Milliseconds(),
	}
}

// NewStepPayload строит payload события шага.
func NewStepPayload(pipeline string, res domain.StepResult) StepPayload {
	return StepPayload{
		RunID:      res.RunID,
		Pipeline:   pipeline,
		Index:      res.Index,
		Step:       res.Name,
		Mode:       res.Mode.String(),
		Host:       res.Host,
		Status:     string(res.Status),
		ExitCode:   res.ExitCode,
		Error:      res.Error,
		DurationMs: res.Duration().Milliseconds(),
	}
}
