package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Releaser/internal/domain"
)

func TestRoutingKey(t *testing.T) {
	if got := RoutingKey("release_site", EventRunFinished); got != "release_site.run.finished" {
		t.Errorf("RoutingKey() = %q", got)
	}
}

func TestWatchPattern(t *testing.T) {
	tests := map[string]string{
		"":        "#",
		"  ":      "#",
		"release": "release.#",
	}
	for in, want := range tests {
		if got := WatchPattern(in); got != want {
			t.Errorf("WatchPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

type published struct {
	key string
	msg *Message
}

type fakePublisher struct {
	out []published
	err error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, msg *Message) error {
	f.out = append(f.out, published{key: routingKey, msg: msg})
	return f.err
}

func TestReleaseNotifier(t *testing.T) {
	pub := &fakePublisher{}
	n := &ReleaseNotifier{pub: pub}
	ctx := context.Background()

	run := domain.NewRun("release_site", "1.2.3", []string{"host-a"})
	run.MarkRunning()

	if err := n.RunStarted(ctx, run); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	res := domain.StepResult{
		RunID:      run.ID,
		Index:      1,
		Name:       "copy_release",
		Mode:       domain.StepModeParallel,
		Host:       "host-a",
		Status:     domain.StepStatusFailed,
		ExitCode:   1,
		Error:      "exit status 1",
		StartedAt:  now.Add(-1500 * time.Millisecond),
		FinishedAt: now,
	}
	if err := n.StepFinished(ctx, run, res); err != nil {
		t.Fatal(err)
	}

	run.MarkFailed("copy_release", "exit status 1")
	if err := n.RunFinished(ctx, run); err != nil {
		t.Fatal(err)
	}

	if len(pub.out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(pub.out))
	}

	keys := []string{"release_site.run.started", "release_site.step.finished", "release_site.run.finished"}
	for i, key := range keys {
		if pub.out[i].key != key {
			t.Errorf("message %d routing key = %q, want %q", i, pub.out[i].key, key)
		}
		if pub.out[i].msg.ID == "" {
			t.Errorf("message %d has no ID", i)
		}
	}

	step, ok := pub.out[1].msg.Payload.(StepPayload)
	if !ok {
		t.Fatalf("step payload type = %T", pub.out[1].msg.Payload)
	}
	if step.Host != "host-a" || step.ExitCode != 1 || step.DurationMs != 1500 {
		t.Errorf("unexpected step payload: %+v", step)
	}

	final, ok := pub.out[2].msg.Payload.(RunPayload)
	if !ok {
		t.Fatalf("run payload type = %T", pub.out[2].msg.Payload)
	}
	if final.Status != "FAILED" || final.FailedStep != "copy_release" {
		t.Errorf("unexpected run payload: %+v", final)
	}
}

func TestReleaseNotifier_PublishError(t *testing.T) {
	pub := &fakePublisher{err: ErrNoChannel}
	n := &ReleaseNotifier{pub: pub}

	err := n.RunStarted(context.Background(), domain.NewRun("clean", "1.2.3", nil))
	if !errors.Is(err, ErrNoChannel) {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
}

func TestParsePayload(t *testing.T) {
	run := domain.NewRun("release", "1.2.3", []string{"host-a", "host-b"})
	body, err := json.Marshal(NewMessage(MessageTypeRunStarted, NewRunPayload(run)))
	if err != nil {
		t.Fatal(err)
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatal(err)
	}

	payload, err := ParsePayload[RunPayload](&msg)
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if payload.RunID != run.ID || payload.Pipeline != "release" || len(payload.Hosts) != 2 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}
