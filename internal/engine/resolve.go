package engine

import (
	"fmt"
	"strings"

	"github.com/shaiso/Releaser/internal/domain"
)

// ResolvedStep — шаг после раскрытия композиции.
type ResolvedStep struct {
	domain.StepDef

	// From — pipeline, в котором шаг объявлен
	// (для release это, например, "release_site" или "clean").
	From string
}

// Resolve раскрывает uses и возвращает плоский упорядоченный список шагов pipeline.
//
// Композиция раскрывается в глубину, в порядке объявления: шаги
// вставленного pipeline занимают место шага uses. Имена шагов в
// результирующем списке должны быть уникальны.
func Resolve(spec *domain.PipelineSpec, name string) ([]ResolvedStep, error) {
	if _, ok := spec.Pipelines[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPipelineNotFound, name)
	}

	r := &resolver{
		spec:     spec,
		visiting: make(map[string]bool),
		names:    make(map[string]string),
	}
	if err := r.visit(name, nil); err != nil {
		return nil, err
	}
	return r.out, nil
}

type resolver struct {
	spec     *domain.PipelineSpec
	visiting map[string]bool
	names    map[string]string // имя шага → pipeline, где он объявлен
	out      []ResolvedStep
}

// visit обходит pipeline; path — цепочка uses для сообщения о цикле.
func (r *resolver) visit(name string, path []string) error {
	path = append(path, name)

	if r.visiting[name] {
		return NewValidationError(path[0], "", "uses",
			fmt.Sprintf("cycle: %s", strings.Join(path, " -> ")), ErrCyclicPipeline)
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	def := r.spec.Pipelines[name]
	for _, step := range def.Steps {
		if step.IsComposite() {
			if _, ok := r.spec.Pipelines[step.Uses]; !ok {
				return NewValidationError(name, step.Name, "uses",
					fmt.Sprintf("uses unknown pipeline: %s", step.Uses), ErrMissingPipeline)
			}
			if err := r.visit(step.Uses, path); err != nil {
				return err
			}
			continue
		}

		if from, dup := r.names[step.Name]; dup {
			return NewValidationError(path[0], step.Name, "name",
				fmt.Sprintf("step %s from %s clashes with step from %s", step.Name, name, from),
				ErrDuplicateStepName)
		}
		r.names[step.Name] = name

		if step.Mode == "" {
			step.Mode = DefaultMode(step.Kind)
		}
		r.out = append(r.out, ResolvedStep{StepDef: step, From: name})
	}

	return nil
}
