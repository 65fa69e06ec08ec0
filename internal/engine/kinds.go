package engine

import (
	"sort"

	"github.com/shaiso/Releaser/internal/domain"
)

// Типы действий шагов.
const (
	KindLocal     = "local"
	KindRemote    = "remote"
	KindRsync     = "rsync"
	KindTagAbsent = "tag_absent"
)

// kindRule — правила режима и обязательные параметры для kind.
type kindRule struct {
	defaultMode  domain.StepMode
	allowOnce    bool
	allowPar     bool
	requiredWith []string
}

// kinds — допустимые типы шагов.
// remote и rsync адресуют хост, поэтому выполняются только в parallel режиме.
var kinds = map[string]kindRule{
	KindLocal:     {defaultMode: domain.StepModeOnce, allowOnce: true, allowPar: true, requiredWith: []string{"run"}},
	KindRemote:    {defaultMode: domain.StepModeParallel, allowPar: true, requiredWith: []string{"run"}},
	KindRsync:     {defaultMode: domain.StepModeParallel, allowPar: true, requiredWith: []string{"local_dir", "remote_dir"}},
	KindTagAbsent: {defaultMode: domain.StepModeOnce, allowOnce: true, requiredWith: []string{"tag"}},
}

// IsValidKind проверяет, является ли kind допустимым.
func IsValidKind(kind string) bool {
	_, ok := kinds[kind]
	return ok
}

// GetValidKinds возвращает отсортированный список допустимых kind.
func GetValidKinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultMode возвращает режим по умолчанию для kind.
func DefaultMode(kind string) domain.StepMode {
	return kinds[kind].defaultMode
}

func (r kindRule) allows(mode domain.StepMode) bool {
	switch mode {
	case domain.StepModeOnce:
		return r.allowOnce
	case domain.StepModeParallel:
		return r.allowPar
	default:
		return false
	}
}
