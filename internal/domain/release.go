package domain

import (
	"slices"
	"strings"
)

// Значения по умолчанию для ReleaseConfig.
const (
	DefaultDocRoot     = "public/doc"
	DefaultLocalDocDir = "build_docs/"
	DefaultGitRemote   = "all"
)

// ReleaseConfig — параметры одного релиза.
//
// Загружается один раз при старте процесса (config.Load) и дальше
// передаётся только по значению. Pipeline хранит собственную копию Hosts,
// поэтому изменения исходного слайса после конструирования не видны шагам.
type ReleaseConfig struct {
	// Version — семантическая версия из package.json (например, "1.2.3").
	// Одно и то же значение используется во всех шагах одного run.
	Version string `json:"version"`

	// PackageName — имя пакета из package.json (может быть пустым).
	PackageName string `json:"package_name,omitempty"`

	// Hosts — упорядоченный список адресов хостов: host, user@host, host:port.
	Hosts []string `json:"hosts"`

	// RemoteUser — пользователь SSH, если адрес хоста его не содержит.
	RemoteUser string `json:"remote_user,omitempty"`

	// RemoteDocRoot — каталог документации на хостах.
	// Последняя сборка лежит в <RemoteDocRoot>/dev/, релизная копия в <RemoteDocRoot>/v<Version>/.
	RemoteDocRoot string `json:"remote_doc_root"`

	// LocalDocDir — локальный каталог собранной документации.
	LocalDocDir string `json:"local_doc_dir"`

	// GitRemote — remote, в который пушится тег релиза.
	GitRemote string `json:"git_remote"`

	// SSHConfigFile — путь к ssh_config, передаётся в ssh и rsync через -F.
	SSHConfigFile string `json:"ssh_config_file,omitempty"`

	// WorkDir — рабочий каталог для локальных команд (корень проекта).
	WorkDir string `json:"work_dir,omitempty"`
}

// Tag возвращает имя тега релиза: v<Version>.
func (c ReleaseConfig) Tag() string {
	return "v" + strings.TrimPrefix(c.Version, "v")
}

// ReleaseDir возвращает путь к релизной копии документации на хосте.
func (c ReleaseConfig) ReleaseDir() string {
	return strings.TrimRight(c.RemoteDocRoot, "/") + "/" + c.Tag()
}

// DevDir возвращает путь к последней сборке документации на хосте.
func (c ReleaseConfig) DevDir() string {
	return strings.TrimRight(c.RemoteDocRoot, "/") + "/dev/"
}

// Clone возвращает копию конфигурации с независимым слайсом Hosts.
func (c ReleaseConfig) Clone() ReleaseConfig {
	c.Hosts = slices.Clone(c.Hosts)
	return c
}

// WithDefaults заполняет пустые поля значениями по умолчанию.
func (c ReleaseConfig) WithDefaults() ReleaseConfig {
	if c.RemoteDocRoot == "" {
		c.RemoteDocRoot = DefaultDocRoot
	}
	if c.LocalDocDir == "" {
		c.LocalDocDir = DefaultLocalDocDir
	}
	if c.GitRemote == "" {
		c.GitRemote = DefaultGitRemote
	}
	return c
}
