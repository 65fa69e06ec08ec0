package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Releaser/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPackageMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "package.json", `{"name":"yeti","version":"1.2.3","main":"lib/yeti.js"}`)

	meta, err := ReadPackageMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "yeti", meta.Name)
	assert.Equal(t, "1.2.3", meta.Version)
}

func TestReadPackageMetadata_Missing(t *testing.T) {
	_, err := ReadPackageMetadata(filepath.Join(t.TempDir(), "package.json"))

	var missing *ConfigurationMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "package metadata", missing.What)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadPackageMetadata_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed json":   `{"version":`,
		"missing version":  `{"name":"yeti"}`,
		"not semver":       `{"version":"1.2"}`,
		"prefixed with v":  `{"version":"v1.2.3"}`,
		"garbage version":  `{"version":"latest"}`,
		"blank version":    `{"version":"   "}`,
		"array not object": `["1.2.3"]`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "package.json", content)
			_, err := ReadPackageMetadata(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidateVersion(t *testing.T) {
	assert.NoError(t, ValidateVersion("0.1.0"))
	assert.NoError(t, ValidateVersion("1.2.3-rc.1"))
	assert.NoError(t, ValidateVersion("2.0.0+build.5"))
	assert.Error(t, ValidateVersion("1"))
	assert.Error(t, ValidateVersion("v1.0.0"))
}

func TestReadHosts(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".hosts.json", `["host-b", " host-a ", "host-b", "deploy@host-c:2222"]`)

	hosts, err := ReadHosts(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"host-b", "host-a", "deploy@host-c:2222"}, hosts)
}

func TestReadHosts_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hosts.json")
	_, err := ReadHosts(path)

	var missing *ConfigurationMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "host list", missing.What)
	assert.Equal(t, path, missing.Path)
	assert.Contains(t, err.Error(), "specify hosts to deploy to")
}

func TestReadHosts_Invalid(t *testing.T) {
	tests := map[string]string{
		"object":     `{"hosts":["a"]}`,
		"empty list": `[]`,
		"blank host": `["a", ""]`,
		"numbers":    `[1, 2]`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), ".hosts.json", content)
			_, err := ReadHosts(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name":"yeti","version":"1.2.3"}`)
	writeFile(t, dir, ".hosts.json", `["host-a","host-b"]`)

	cfg, err := Load(Options{WorkDir: dir, RemoteUser: "deploy"})
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "yeti", cfg.PackageName)
	assert.Equal(t, []string{"host-a", "host-b"}, cfg.Hosts)
	assert.Equal(t, "deploy", cfg.RemoteUser)
	assert.Equal(t, domain.DefaultDocRoot, cfg.RemoteDocRoot)
	assert.Equal(t, domain.DefaultLocalDocDir, cfg.LocalDocDir)
	assert.Equal(t, domain.DefaultGitRemote, cfg.GitRemote)
	assert.Equal(t, dir, cfg.WorkDir)
	assert.Equal(t, "v1.2.3", cfg.Tag())
	assert.Equal(t, "public/doc/v1.2.3", cfg.ReleaseDir())
}

func TestLoad_EnvFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"version":"0.9.0"}`)
	writeFile(t, dir, ".hosts.json", `["host-a"]`)

	t.Setenv(EnvDocRoot, "/srv/www/doc")
	t.Setenv(EnvGitRemote, "origin")

	cfg, err := Load(Options{WorkDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "/srv/www/doc", cfg.RemoteDocRoot)
	assert.Equal(t, "origin", cfg.GitRemote)

	// Флаг важнее переменной окружения
	cfg, err = Load(Options{WorkDir: dir, GitRemote: "upstream"})
	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.GitRemote)
}

func TestLoad_MissingHosts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"version":"1.2.3"}`)

	_, err := Load(Options{WorkDir: dir})

	var missing *ConfigurationMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, filepath.Join(dir, DefaultHostsFile), missing.Path)
}

func TestLoad_CustomPaths(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	writeFile(t, dir, "meta.json", `{"version":"3.0.0"}`)
	hostsPath := writeFile(t, other, "hosts.json", `["docs.example.com"]`)

	cfg, err := Load(Options{WorkDir: dir, MetadataFile: "meta.json", HostsFile: hostsPath})
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", cfg.Version)
	assert.Equal(t, []string{"docs.example.com"}, cfg.Hosts)
}
