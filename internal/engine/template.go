package engine

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/shaiso/Releaser/internal/domain"
	"github.com/shaiso/Releaser/internal/shell"
)

// Context — контекст для рендеринга параметров шага.
//
// Используется в Go templates для доступа к данным релиза:
//   - {{ .Version }}, {{ .Tag }}
//   - {{ .DocRoot }}, {{ .DevDir }}, {{ .ReleaseDir }}
//   - {{ .Host }} (только для parallel шагов)
//   - {{ .Env.VAR_NAME }}
type Context struct {
	Version     string `json:"version"`
	Tag         string `json:"tag"`
	PackageName string `json:"package_name"`

	// Host — адрес текущего хоста. Пустой для once шагов.
	Host string `json:"host"`

	// User — пользователь SSH по умолчанию.
	User string `json:"user"`

	DocRoot     string `json:"doc_root"`
	DevDir      string `json:"dev_dir"`
	ReleaseDir  string `json:"release_dir"`
	LocalDocDir string `json:"local_doc_dir"`
	GitRemote   string `json:"git_remote"`

	// Env — переменные окружения процесса.
	Env map[string]string `json:"env"`
}

// NewContext создаёт контекст рендеринга из конфигурации релиза.
func NewContext(cfg domain.ReleaseConfig) *Context {
	return &Context{
		Version:     cfg.Version,
		Tag:         cfg.Tag(),
		PackageName: cfg.PackageName,
		User:        cfg.RemoteUser,
		DocRoot:     cfg.RemoteDocRoot,
		DevDir:      cfg.DevDir(),
		ReleaseDir:  cfg.ReleaseDir(),
		LocalDocDir: cfg.LocalDocDir,
		GitRemote:   cfg.GitRemote,
		Env:         environ(),
	}
}

// ForHost возвращает копию контекста для конкретного хоста.
func (c *Context) ForHost(host string) *Context {
	cp := *c
	cp.Host = host
	return &cp
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// templateFuncs — дополнительные функции для шаблонов.
var templateFuncs = template.FuncMap{
	// default — возвращает значение по умолчанию, если второй аргумент пустой
	"default": func(def, val string) string {
		if val == "" {
			return def
		}
		return val
	},

	// quote — экранирует строку для POSIX shell
	"quote": shell.Quote,

	// trimSlash — удаляет завершающие слэши
	"trimSlash": func(s string) string {
		return strings.TrimRight(s, "/")
	},

	"join":      func(sep string, items []string) string { return strings.Join(items, sep) },
	"hasPrefix": strings.HasPrefix,
	"hasSuffix": strings.HasSuffix,
	"lower":     strings.ToLower,
	"upper":     strings.ToUpper,
	"trim":      strings.TrimSpace,
	"replace":   strings.ReplaceAll,
}

// Render рендерит строковый шаблон с контекстом.
//
//	cp -R dev {{ .Tag }}
//	{{ .LocalDocDir }} -> {{ .DevDir }}
//
// Отсутствующие ключи Env рендерятся пустой строкой.
func Render(tmpl string, ctx *Context) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").Option("missingkey=zero").Funcs(templateFuncs).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return buf.String(), nil
}

// RenderMap рендерит все значения параметров шага.
func RenderMap(with map[string]string, ctx *Context) (map[string]string, error) {
	result := make(map[string]string, len(with))
	for key, val := range with {
		rendered, err := Render(val, ctx)
		if err != nil {
			return nil, fmt.Errorf("with.%s: %w", key, err)
		}
		result[key] = rendered
	}
	return result, nil
}

// CheckTemplates проверяет синтаксис шаблонов шага без выполнения.
func CheckTemplates(with map[string]string) error {
	for key, val := range with {
		if !strings.Contains(val, "{{") {
			continue
		}
		if _, err := template.New(key).Funcs(templateFuncs).Parse(val); err != nil {
			return fmt.Errorf("with.%s: %w: %v", key, ErrTemplateParse, err)
		}
	}
	return nil
}
