package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shaiso/Releaser/internal/domain"
)

// Переменные окружения, подставляемые, если соответствующий флаг не задан.
const (
	EnvRemoteUser = "RELEASER_REMOTE_USER"
	EnvDocRoot    = "RELEASER_DOC_ROOT"
	EnvGitRemote  = "RELEASER_GIT_REMOTE"
	EnvSSHConfig  = "RELEASER_SSH_CONFIG"
)

// Options — источники конфигурации релиза.
type Options struct {
	// MetadataFile — путь к package.json.
	MetadataFile string

	// HostsFile — путь к JSON со списком хостов.
	HostsFile string

	// WorkDir — корень проекта; относительные пути считаются от него.
	WorkDir string

	RemoteUser    string
	RemoteDocRoot string
	LocalDocDir   string
	GitRemote     string
	SSHConfigFile string
}

// Load собирает ReleaseConfig из файлов и переменных окружения.
//
// Метаданные читаются один раз: полученная версия используется
// во всех шагах run. Отсутствие любого из файлов возвращает
// *ConfigurationMissingError.
func Load(opts Options) (domain.ReleaseConfig, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return domain.ReleaseConfig{}, err
		}
		workDir = wd
	}

	meta, err := ReadPackageMetadata(resolve(workDir, opts.MetadataFile, DefaultMetadataFile))
	if err != nil {
		return domain.ReleaseConfig{}, err
	}

	hosts, err := ReadHosts(resolve(workDir, opts.HostsFile, DefaultHostsFile))
	if err != nil {
		return domain.ReleaseConfig{}, err
	}

	cfg := domain.ReleaseConfig{
		Version:       meta.Version,
		PackageName:   meta.Name,
		Hosts:         hosts,
		RemoteUser:    firstNonEmpty(opts.RemoteUser, os.Getenv(EnvRemoteUser)),
		RemoteDocRoot: firstNonEmpty(opts.RemoteDocRoot, os.Getenv(EnvDocRoot)),
		LocalDocDir:   opts.LocalDocDir,
		GitRemote:     firstNonEmpty(opts.GitRemote, os.Getenv(EnvGitRemote)),
		SSHConfigFile: firstNonEmpty(opts.SSHConfigFile, os.Getenv(EnvSSHConfig)),
		WorkDir:       workDir,
	}

	return cfg.WithDefaults(), nil
}

func resolve(workDir, path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
