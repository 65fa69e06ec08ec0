package repo

import (
	"context"
	"fmt"

	"github.com/shaiso/Releaser/internal/domain"
)

// runStore — операции RunRepo, нужные HistoryRecorder.
type runStore interface {
	Create(ctx context.Context, run *domain.Run) error
	Update(ctx context.Context, run *domain.Run) error
	AddStep(ctx context.Context, res domain.StepResult) error
}

// HistoryRecorder пишет историю релизов в Postgres.
// Реализует runner.Observer.
//
// Если запись run не удалось создать, результаты шагов копятся в памяти
// и дописываются, как только создание пройдёт (не позже RunFinished).
type HistoryRecorder struct {
	store   runStore
	created bool
	pending []domain.StepResult
}

// NewHistoryRecorder создаёт HistoryRecorder поверх RunRepo.
func NewHistoryRecorder(runs *RunRepo) *HistoryRecorder {
	return &HistoryRecorder{store: runs}
}

// RunStarted создаёт запись run.
func (h *HistoryRecorder) RunStarted(ctx context.Context, run *domain.Run) error {
	return h.ensureRun(ctx, run)
}

// StepFinished сохраняет результат вызова шага.
func (h *HistoryRecorder) StepFinished(ctx context.Context, run *domain.Run, result domain.StepResult) error {
	h.pending = append(h.pending, result)
	if err := h.ensureRun(ctx, run); err != nil {
		return fmt.Errorf("step %s kept in memory until run %s is recorded: %w", result.Name, run.ID, err)
	}
	return h.flush(ctx)
}

// RunFinished сохраняет итог run вместе с отложенными шагами.
func (h *HistoryRecorder) RunFinished(ctx context.Context, run *domain.Run) error {
	if err := h.ensureRun(ctx, run); err != nil {
		return fmt.Errorf("run %s lost with %d step results: %w", run.ID, len(h.pending), err)
	}
	if err := h.flush(ctx); err != nil {
		return err
	}
	return h.store.Update(ctx, run)
}

// ensureRun создаёт запись run, если её ещё нет.
func (h *HistoryRecorder) ensureRun(ctx context.Context, run *domain.Run) error {
	if h.created {
		return nil
	}
	if err := h.store.Create(ctx, run); err != nil {
		return err
	}
	h.created = true
	return nil
}

// flush дописывает накопленные результаты по порядку.
func (h *HistoryRecorder) flush(ctx context.Context) error {
	for len(h.pending) > 0 {
		if err := h.store.AddStep(ctx, h.pending[0]); err != nil {
			return err
		}
		h.pending = h.pending[1:]
	}
	return nil
}
