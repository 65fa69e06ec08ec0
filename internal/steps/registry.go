package steps

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shaiso/Releaser/internal/shell"
	"github.com/shaiso/Releaser/internal/vcs"
)

// Registry — реализации шагов по kind.
//
// Реестр собирается один раз перед Compile и дальше только читается,
// в том числе из горутин parallel шагов.
type Registry struct {
	steps map[string]Step
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// DefaultRegistry — local, remote, rsync и tag_absent.
// Все команды идут через exec: shell.Exec для запуска, shell.DryRun для печати.
func DefaultRegistry(exec shell.Executor) *Registry {
	r := NewRegistry()
	r.Register(NewLocalStep(exec))
	r.Register(NewRemoteStep(exec))
	r.Register(NewRsyncStep(exec))
	r.Register(NewTagAbsentStep(vcs.TagExists))
	return r
}

// Register добавляет шаг, заменяя прежний с тем же kind.
func (r *Registry) Register(step Step) {
	r.steps[step.Type()] = step
}

// Get возвращает шаг по kind или ErrStepNotFound.
func (r *Registry) Get(kind string) (Step, error) {
	step, ok := r.steps[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s (registered: %v)", ErrStepNotFound, kind, r.Kinds())
	}
	return step, nil
}

// Kinds возвращает зарегистрированные kind по алфавиту.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.steps))
}
