package runner

import (
	"context"
	"fmt"

	"github.com/shaiso/Releaser/internal/domain"
)

// Target — адресат одного вызова действия.
// Для once шагов Host пустой.
type Target struct {
	Host string
}

// Action — действие шага. Ошибка означает провал шага; если она несёт
// код выхода (метод ExitCode() int), он становится кодом выхода процесса.
type Action func(ctx context.Context, target Target) error

// Step — именованный шаг pipeline.
type Step struct {
	Name   string
	Mode   domain.StepMode
	Action Action
}

// Pipeline — упорядоченные шаги плюс конфигурация релиза.
type Pipeline struct {
	Name   string
	Config domain.ReleaseConfig
	Steps  []Step
}

// NewPipeline создаёт pipeline.
//
// Config копируется: список хостов pipeline не меняется, даже если
// вызывающий позже изменит свой слайс.
func NewPipeline(name string, cfg domain.ReleaseConfig, steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyPipeline)
	}

	steps = append([]Step(nil), steps...)
	for i, step := range steps {
		if step.Action == nil {
			return nil, fmt.Errorf("%s: step %d (%s): %w", name, i, step.Name, ErrNilAction)
		}
		if step.Mode == "" {
			steps[i].Mode = domain.StepModeOnce
		}
		if steps[i].Mode == domain.StepModeParallel && len(cfg.Hosts) == 0 {
			return nil, fmt.Errorf("%s: step %s: %w", name, step.Name, ErrNoHosts)
		}
	}

	return &Pipeline{
		Name:   name,
		Config: cfg.Clone(),
		Steps:  steps,
	}, nil
}

// Hosts возвращает копию списка хостов.
func (p *Pipeline) Hosts() []string {
	return append([]string(nil), p.Config.Hosts...)
}
