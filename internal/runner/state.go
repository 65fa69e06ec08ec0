package runner

import (
	"fmt"
	"sync"

	"github.com/shaiso/Releaser/internal/domain"
)

// RunState — машина состояний одного run.
//
//	Pending → Running(0) → Running(1) → ... → Succeeded
//	                    ↘ Failed(step)
//
// Повторы и возобновление не поддерживаются: из Succeeded и Failed
// переходов нет.
type RunState struct {
	mu         sync.RWMutex
	status     domain.RunStatus
	stepIndex  int
	failedStep string
}

// Snapshot — состояние run на момент вызова.
type Snapshot struct {
	Status     domain.RunStatus
	StepIndex  int
	FailedStep string
}

func (s Snapshot) String() string {
	switch s.Status {
	case domain.RunStatusRunning:
		return fmt.Sprintf("%s(%d)", s.Status, s.StepIndex)
	case domain.RunStatusFailed:
		return fmt.Sprintf("%s(%s)", s.Status, s.FailedStep)
	default:
		return string(s.Status)
	}
}

// NewRunState создаёт состояние в Pending.
func NewRunState() *RunState {
	return &RunState{status: domain.RunStatusPending, stepIndex: -1}
}

// Enter переводит run к шагу index.
// Допустимо только Pending → Running(0) и Running(i) → Running(i+1).
func (s *RunState) Enter(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.status == domain.RunStatusPending && index == 0:
	case s.status == domain.RunStatusRunning && index == s.stepIndex+1:
	default:
		return fmt.Errorf("%w: %s -> RUNNING(%d)", ErrInvalidTransition, s.snapshot(), index)
	}

	s.status = domain.RunStatusRunning
	s.stepIndex = index
	return nil
}

// Succeed переводит run из Running в Succeeded.
func (s *RunState) Succeed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.RunStatusRunning {
		return fmt.Errorf("%w: %s -> SUCCEEDED", ErrInvalidTransition, s.snapshot())
	}
	s.status = domain.RunStatusSucceeded
	return nil
}

// Fail переводит run в Failed(step) из Pending или Running.
func (s *RunState) Fail(step string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return fmt.Errorf("%w: %s -> FAILED", ErrInvalidTransition, s.snapshot())
	}
	s.status = domain.RunStatusFailed
	s.failedStep = step
	return nil
}

// Snapshot возвращает текущее состояние.
func (s *RunState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *RunState) snapshot() Snapshot {
	return Snapshot{Status: s.status, StepIndex: s.stepIndex, FailedStep: s.failedStep}
}
