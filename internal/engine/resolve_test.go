package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Releaser/internal/domain"
)

func stepNames(steps []ResolvedStep) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolve_Defaults(t *testing.T) {
	spec := DefaultSpec()

	tests := []struct {
		pipeline string
		want     []string
	}{
		{"clean", []string{"git_clean"}},
		{"deploy_site", []string{"rsync_docs"}},
		{"release_site", []string{"rsync_docs", "copy_release"}},
		{"unrelease_site", []string{"remove_release"}},
		{"release_github", []string{"check_tag", "git_tag", "git_push_tag"}},
		{"release_npm", []string{"npm_publish"}},
		{"release", []string{
			"git_clean",
			"jake_html_api",
			"rsync_docs", "copy_release",
			"check_tag", "git_tag", "git_push_tag",
			"npm_publish",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.pipeline, func(t *testing.T) {
			steps, err := Resolve(spec, tt.pipeline)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := stepNames(steps); !equalNames(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_From(t *testing.T) {
	steps, err := Resolve(DefaultSpec(), "release")
	if err != nil {
		t.Fatal(err)
	}

	from := map[string]string{}
	for _, s := range steps {
		from[s.Name] = s.From
	}
	if from["rsync_docs"] != "deploy_site" {
		t.Errorf("rsync_docs from %q, want deploy_site", from["rsync_docs"])
	}
	if from["copy_release"] != "release_site" {
		t.Errorf("copy_release from %q, want release_site", from["copy_release"])
	}
}

func TestResolve_Modes(t *testing.T) {
	steps, err := Resolve(DefaultSpec(), "release")
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range steps {
		switch s.Kind {
		case KindRemote, KindRsync:
			if s.Mode != domain.StepModeParallel {
				t.Errorf("%s: mode = %s, want parallel", s.Name, s.Mode)
			}
		default:
			if s.Mode != domain.StepModeOnce {
				t.Errorf("%s: mode = %s, want once", s.Name, s.Mode)
			}
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	_, err := Resolve(DefaultSpec(), "deploy_everything")
	if !errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("expected ErrPipelineNotFound, got %v", err)
	}
}

func TestResolve_DuplicateAcrossUses(t *testing.T) {
	spec := &domain.PipelineSpec{Pipelines: map[string]domain.PipelineDef{
		"a": {Steps: []domain.StepDef{{Name: "x", Kind: KindLocal, With: map[string]string{"run": "true"}}}},
		"b": {Steps: []domain.StepDef{
			{Uses: "a"},
			{Name: "x", Kind: KindLocal, With: map[string]string{"run": "false"}},
		}},
	}}

	err := Validate(spec)
	if !errors.Is(err, ErrDuplicateStepName) {
		t.Errorf("expected ErrDuplicateStepName, got %v", err)
	}
}

func TestResolve_SelfCycle(t *testing.T) {
	spec := &domain.PipelineSpec{Pipelines: map[string]domain.PipelineDef{
		"loop": {Steps: []domain.StepDef{{Uses: "loop"}}},
	}}

	_, err := Resolve(spec, "loop")
	if !errors.Is(err, ErrCyclicPipeline) {
		t.Errorf("expected ErrCyclicPipeline, got %v", err)
	}
}

func TestDefaultSpec_Independent(t *testing.T) {
	a := DefaultSpec()
	delete(a.Pipelines, "release")

	b := DefaultSpec()
	if _, ok := b.Pipelines["release"]; !ok {
		t.Error("DefaultSpec must return a fresh copy")
	}
	if len(DefaultYAML()) == 0 {
		t.Error("DefaultYAML is empty")
	}
}
