package runner

import (
	"errors"
	"testing"

	"github.com/shaiso/Releaser/internal/domain"
)

func TestRunState_HappyPath(t *testing.T) {
	s := NewRunState()
	if s.Snapshot().Status != domain.RunStatusPending {
		t.Fatalf("initial status = %s", s.Snapshot().Status)
	}

	for i := 0; i < 3; i++ {
		if err := s.Enter(i); err != nil {
			t.Fatalf("Enter(%d) error = %v", i, err)
		}
		if got := s.Snapshot().String(); got != "RUNNING("+string(rune('0'+i))+")" {
			t.Errorf("Snapshot() = %s", got)
		}
	}

	if err := s.Succeed(); err != nil {
		t.Fatalf("Succeed() error = %v", err)
	}
	if s.Snapshot().Status != domain.RunStatusSucceeded {
		t.Errorf("status = %s", s.Snapshot().Status)
	}
}

func TestRunState_Fail(t *testing.T) {
	s := NewRunState()
	_ = s.Enter(0)

	if err := s.Fail("clean"); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.Status != domain.RunStatusFailed || snap.FailedStep != "clean" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.String() != "FAILED(clean)" {
		t.Errorf("String() = %s", snap.String())
	}
}

func TestRunState_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		fn   func(s *RunState) error
	}{
		{"skip step", func(s *RunState) error { return s.Enter(1) }},
		{"succeed from pending", func(s *RunState) error { return s.Succeed() }},
		{"reenter step", func(s *RunState) error {
			_ = s.Enter(0)
			return s.Enter(0)
		}},
		{"go back", func(s *RunState) error {
			_ = s.Enter(0)
			_ = s.Enter(1)
			return s.Enter(0)
		}},
		{"retry after failure", func(s *RunState) error {
			_ = s.Enter(0)
			_ = s.Fail("s0")
			return s.Enter(1)
		}},
		{"fail after success", func(s *RunState) error {
			_ = s.Enter(0)
			_ = s.Succeed()
			return s.Fail("s0")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(NewRunState())
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}
