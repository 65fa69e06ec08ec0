package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Releaser/internal/domain"
)

func testConfig() domain.ReleaseConfig {
	return domain.ReleaseConfig{
		Version:     "1.2.3",
		PackageName: "seed",
		Hosts:       []string{"host-a", "host-b"},
		RemoteUser:  "deploy",
	}.WithDefaults()
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(testConfig())

	if ctx.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", ctx.Version)
	}
	if ctx.Tag != "v1.2.3" {
		t.Errorf("Tag = %q, want v1.2.3", ctx.Tag)
	}
	if ctx.DevDir != "public/doc/dev/" {
		t.Errorf("DevDir = %q", ctx.DevDir)
	}
	if ctx.ReleaseDir != "public/doc/v1.2.3" {
		t.Errorf("ReleaseDir = %q", ctx.ReleaseDir)
	}
	if ctx.Host != "" {
		t.Error("Host should be empty for a fresh context")
	}
	if ctx.Env == nil {
		t.Error("Env should not be nil")
	}
}

func TestContext_ForHost(t *testing.T) {
	base := NewContext(testConfig())
	a := base.ForHost("host-a")

	if a.Host != "host-a" {
		t.Errorf("Host = %q, want host-a", a.Host)
	}
	if base.Host != "" {
		t.Error("ForHost must not modify the original context")
	}
	if a.Version != base.Version {
		t.Error("ForHost must keep the version")
	}
}

func TestRender(t *testing.T) {
	ctx := NewContext(testConfig()).ForHost("host-a")
	ctx.Env["NPM_TAG"] = "next"

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"no template", "git clean -fd", "git clean -fd"},
		{"tag", "cp -R dev {{ .Tag }}", "cp -R dev v1.2.3"},
		{"version", "yuidoc --project-version {{ .Version }}", "yuidoc --project-version 1.2.3"},
		{"dirs", "{{ .LocalDocDir }} {{ .DevDir }}", "build_docs/ public/doc/dev/"},
		{"remote", "git push {{ .GitRemote }} {{ .Tag }}", "git push all v1.2.3"},
		{"host", "{{ .User }}@{{ .Host }}", "deploy@host-a"},
		{"env", "npm publish --tag {{ .Env.NPM_TAG }}", "npm publish --tag next"},
		{"default", `{{ default "latest" .Env.MISSING_VAR }}`, "latest"},
		{"quote", `echo {{ quote "a b" }}`, "echo 'a b'"},
		{"trimSlash", "{{ trimSlash .DevDir }}", "public/doc/dev"},
		{"upper", "{{ upper .PackageName }}", "SEED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, ctx)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("Render() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRender_InvalidTemplate(t *testing.T) {
	ctx := NewContext(testConfig())

	_, err := Render("{{ .Tag", ctx)
	if !errors.Is(err, ErrTemplateParse) {
		t.Errorf("expected ErrTemplateParse, got %v", err)
	}

	_, err = Render("{{ .NoSuchField }}", ctx)
	if !errors.Is(err, ErrTemplateRender) {
		t.Errorf("expected ErrTemplateRender, got %v", err)
	}
}

func TestRenderMap(t *testing.T) {
	ctx := NewContext(testConfig())

	got, err := RenderMap(map[string]string{
		"dir": "{{ .DocRoot }}",
		"run": "rm -rf {{ .Tag }}",
	}, ctx)
	if err != nil {
		t.Fatalf("RenderMap() error = %v", err)
	}
	if got["dir"] != "public/doc" || got["run"] != "rm -rf v1.2.3" {
		t.Errorf("RenderMap() = %v", got)
	}

	if _, err := RenderMap(map[string]string{"run": "{{ .Bad"}, ctx); !errors.Is(err, ErrTemplateParse) {
		t.Errorf("expected ErrTemplateParse, got %v", err)
	}
}

func TestCheckTemplates(t *testing.T) {
	if err := CheckTemplates(map[string]string{"run": "cp -R dev {{ .Tag }}"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckTemplates(map[string]string{"run": "{{ if }}"}); !errors.Is(err, ErrTemplateParse) {
		t.Errorf("expected ErrTemplateParse, got %v", err)
	}
}
