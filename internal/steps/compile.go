package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/Releaser/internal/domain"
	"github.com/shaiso/Releaser/internal/engine"
	"github.com/shaiso/Releaser/internal/runner"
)

// Compile собирает runner.Pipeline из определений.
//
// Раскрывает uses, находит реализацию каждого шага в реестре и
// оборачивает её в runner.Action. Параметры шага рендерятся при каждом
// вызове: для parallel шагов в контексте доступен {{ .Host }}.
func Compile(spec *domain.PipelineSpec, name string, cfg domain.ReleaseConfig, reg *Registry) (*runner.Pipeline, error) {
	resolved, err := engine.Resolve(spec, name)
	if err != nil {
		return nil, err
	}

	cfg = cfg.Clone()
	base := engine.NewContext(cfg)

	steps := make([]runner.Step, 0, len(resolved))
	for _, def := range resolved {
		impl, err := reg.Get(def.Kind)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: step %s: %w", name, def.Name, err)
		}

		steps = append(steps, runner.Step{
			Name:   def.Name,
			Mode:   def.Mode,
			Action: bind(impl, def, cfg, base),
		})
	}

	return runner.NewPipeline(name, cfg, steps...)
}

// bind превращает шаг из реестра в runner.Action.
func bind(impl Step, def engine.ResolvedStep, cfg domain.ReleaseConfig, base *engine.Context) runner.Action {
	return func(ctx context.Context, target runner.Target) error {
		with, err := engine.RenderMap(def.With, base.ForHost(target.Host))
		if err != nil {
			return fmt.Errorf("step %s: %w", def.Name, err)
		}

		return impl.Execute(ctx, &Request{
			StepName: def.Name,
			Host:     target.Host,
			With:     with,
			Config:   cfg,
		})
	}
}
