package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/Releaser/internal/domain"
)

type fakeStore struct {
	createErr error
	calls     []string
	steps     []domain.StepResult
}

func (f *fakeStore) Create(ctx context.Context, run *domain.Run) error {
	f.calls = append(f.calls, "create")
	return f.createErr
}

func (f *fakeStore) Update(ctx context.Context, run *domain.Run) error {
	f.calls = append(f.calls, "update:"+string(run.Status))
	return nil
}

func (f *fakeStore) AddStep(ctx context.Context, res domain.StepResult) error {
	f.calls = append(f.calls, "step:"+res.Host)
	f.steps = append(f.steps, res)
	return nil
}

func TestHistoryRecorder(t *testing.T) {
	store := &fakeStore{}
	h := &HistoryRecorder{store: store}
	ctx := context.Background()

	run := domain.NewRun("release_site", "1.2.3", []string{"host-a", "host-b"})
	run.MarkRunning()

	if err := h.RunStarted(ctx, run); err != nil {
		t.Fatal(err)
	}
	for _, host := range run.Hosts {
		res := domain.StepResult{RunID: run.ID, Name: "copy_release", Host: host, Status: domain.StepStatusSucceeded}
		if err := h.StepFinished(ctx, run, res); err != nil {
			t.Fatal(err)
		}
	}
	run.MarkSucceeded()
	if err := h.RunFinished(ctx, run); err != nil {
		t.Fatal(err)
	}

	want := []string{"create", "step:host-a", "step:host-b", "update:SUCCEEDED"}
	if len(store.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", store.calls, want)
	}
	for i := range want {
		if store.calls[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, store.calls[i], want[i])
		}
	}
}

func TestHistoryRecorder_CreateFailed(t *testing.T) {
	store := &fakeStore{createErr: errors.New("connection refused")}
	h := &HistoryRecorder{store: store}
	ctx := context.Background()

	run := domain.NewRun("deploy_site", "1.2.3", []string{"host-a", "host-b"})

	if err := h.RunStarted(ctx, run); err == nil {
		t.Fatal("expected create error")
	}

	// Пока записи run нет, шаги не пишутся, а ошибка сообщает об этом
	err := h.StepFinished(ctx, run, domain.StepResult{RunID: run.ID, Name: "rsync_docs", Host: "host-a"})
	if err == nil {
		t.Fatal("expected error while run row is missing")
	}
	if len(store.steps) != 0 {
		t.Error("steps must not be written without a run row")
	}

	// База вернулась: следующий шаг создаёт run и дописывает отложенный
	store.createErr = nil
	if err := h.StepFinished(ctx, run, domain.StepResult{RunID: run.ID, Name: "rsync_docs", Host: "host-b"}); err != nil {
		t.Fatal(err)
	}
	run.MarkSucceeded()
	if err := h.RunFinished(ctx, run); err != nil {
		t.Fatal(err)
	}

	want := []string{"create", "create", "create", "step:host-a", "step:host-b", "update:SUCCEEDED"}
	if len(store.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", store.calls, want)
	}
	for i := range want {
		if store.calls[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, store.calls[i], want[i])
		}
	}
}

func TestHistoryRecorder_StepsKeptUntilRunFinished(t *testing.T) {
	store := &fakeStore{createErr: errors.New("connection refused")}
	h := &HistoryRecorder{store: store}
	ctx := context.Background()

	run := domain.NewRun("clean", "1.2.3", nil)
	_ = h.RunStarted(ctx, run)
	_ = h.StepFinished(ctx, run, domain.StepResult{RunID: run.ID, Name: "git_clean"})

	store.createErr = nil
	run.MarkFailed("git_clean", "exit 1")
	if err := h.RunFinished(ctx, run); err != nil {
		t.Fatal(err)
	}

	if len(store.steps) != 1 || store.steps[0].Name != "git_clean" {
		t.Errorf("steps = %+v, want the buffered git_clean result", store.steps)
	}
	if last := store.calls[len(store.calls)-1]; last != "update:FAILED" {
		t.Errorf("last call = %s, want update:FAILED", last)
	}
}

func TestNullString(t *testing.T) {
	if nullString("") != nil {
		t.Error("empty string should map to NULL")
	}
	if s := nullString("x"); s == nil || *s != "x" {
		t.Error("non-empty string should be kept")
	}
	if derefString(nil) != "" {
		t.Error("NULL should map to empty string")
	}
}
