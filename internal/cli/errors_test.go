package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/shaiso/Releaser/internal/config"
	"github.com/shaiso/Releaser/internal/runner"
)

func TestExitCode(t *testing.T) {
	stepErr := func(host string, code int) *runner.StepExecutionError {
		return &runner.StepExecutionError{Step: "rsync_docs", Host: host, ExitCode: code, Err: errors.New("boom")}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("boom"), ExitFailed},
		{"config error", configErr(errors.New("bad flag")), ExitConfig},
		{
			"missing configuration",
			fmt.Errorf("load: %w", &config.ConfigurationMissingError{What: "host list", Path: "hosts.json", Err: fs.ErrNotExist}),
			ExitConfig,
		},
		{"invalid configuration", fmt.Errorf("hosts.json: %w", config.ErrInvalidConfig), ExitConfig},
		{"step failure", stepErr("", 128), 128},
		{"step failure without code", stepErr("", 0), ExitFailed},
		{
			"partial parallel failure",
			&runner.PartialParallelFailureError{
				Step:      "rsync_docs",
				Failures:  []*runner.StepExecutionError{stepErr("host-b", 23), stepErr("host-c", 12)},
				Succeeded: []string{"host-a"},
			},
			23,
		},
		{"all hosts failed", errors.Join(stepErr("host-a", 255), stepErr("host-b", 12)), 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigErr(t *testing.T) {
	if configErr(nil) != nil {
		t.Error("configErr(nil) should be nil")
	}

	base := errors.New("base")
	err := configErr(base)
	if !errors.Is(err, base) {
		t.Error("ConfigError should unwrap to base error")
	}
	if err.Error() != "base" {
		t.Errorf("Error() = %q, want %q", err.Error(), "base")
	}
}
