package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Releaser/internal/domain"
)

// Parse разбирает YAML определения pipeline и валидирует их.
// Неизвестные поля считаются ошибкой, чтобы опечатки не превращались в пустые шаги.
func Parse(data []byte) (*domain.PipelineSpec, error) {
	var spec domain.PipelineSpec

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse pipeline spec: %w", err)
	}

	if err := Validate(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadFile читает и разбирает файл определений pipeline.
func LoadFile(path string) (*domain.PipelineSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Validate выполняет полную валидацию PipelineSpec.
//
// Проверяет:
// - Наличие pipeline и шагов
// - Имена и их уникальность в рамках pipeline
// - Корректность kind, режима и обязательных параметров
// - Что uses ссылается на существующий pipeline
// - Отсутствие циклов в композиции
//
// Пустые режимы заменяются режимом по умолчанию для kind,
// синонимы (run_once, run_parallel) приводятся к каноническому виду.
func Validate(spec *domain.PipelineSpec) error {
	if spec == nil || len(spec.Pipelines) == 0 {
		return ErrEmptyPipelines
	}

	for _, name := range PipelineNames(spec) {
		if name == "" {
			return NewValidationError("", "", "name", "pipeline has empty name", ErrEmptyPipelineName)
		}

		def := spec.Pipelines[name]
		if err := validatePipeline(spec, name, &def); err != nil {
			return err
		}
		spec.Pipelines[name] = def
	}

	// Циклы проверяем после того, как все ссылки валидны
	for _, name := range PipelineNames(spec) {
		if _, err := Resolve(spec, name); err != nil {
			return err
		}
	}

	return nil
}

// validatePipeline валидирует шаги одного pipeline.
func validatePipeline(spec *domain.PipelineSpec, name string, def *domain.PipelineDef) error {
	if len(def.Steps) == 0 {
		return NewValidationError(name, "", "steps", "pipeline has no steps", ErrEmptySteps)
	}

	stepNames := make(map[string]bool)

	for i := range def.Steps {
		step := &def.Steps[i]

		if step.IsComposite() {
			if err := validateUses(spec, name, i, step); err != nil {
				return err
			}
			continue
		}

		if err := ValidateStep(name, step, stepNames); err != nil {
			return err
		}
	}

	return nil
}

// validateUses проверяет шаг-ссылку на другой pipeline.
func validateUses(spec *domain.PipelineSpec, pipeline string, index int, step *domain.StepDef) error {
	label := step.Name
	if label == "" {
		label = fmt.Sprintf("#%d", index)
	}

	if step.Kind != "" {
		return NewValidationError(pipeline, label, "uses",
			"step sets both uses and kind", ErrAmbiguousStep)
	}
	if _, ok := spec.Pipelines[step.Uses]; !ok {
		return NewValidationError(pipeline, label, "uses",
			fmt.Sprintf("uses unknown pipeline: %s", step.Uses), ErrMissingPipeline)
	}
	return nil
}

// ValidateStep валидирует один шаг с действием.
// stepNames — уже встреченные имена шагов pipeline (для проверки уникальности).
func ValidateStep(pipeline string, step *domain.StepDef, stepNames map[string]bool) error {
	if step.Name == "" {
		return NewValidationError(pipeline, "", "name", "step has empty name", ErrEmptyStepName)
	}

	if stepNames[step.Name] {
		return NewValidationError(pipeline, step.Name, "name",
			fmt.Sprintf("duplicate step name: %s", step.Name), ErrDuplicateStepName)
	}
	stepNames[step.Name] = true

	rule, ok := kinds[step.Kind]
	if !ok {
		return NewValidationError(pipeline, step.Name, "kind",
			fmt.Sprintf("unknown step kind: %q", step.Kind), ErrUnknownKind)
	}

	mode, ok := domain.ParseStepMode(string(step.Mode))
	if !ok {
		return NewValidationError(pipeline, step.Name, "mode",
			fmt.Sprintf("invalid mode: %q", step.Mode), ErrInvalidMode)
	}
	if mode == "" {
		mode = rule.defaultMode
	}
	if !rule.allows(mode) {
		return NewValidationError(pipeline, step.Name, "mode",
			fmt.Sprintf("kind %s cannot run in %s mode", step.Kind, mode), ErrModeNotAllowed)
	}
	step.Mode = mode

	for _, key := range rule.requiredWith {
		if step.With[key] == "" {
			return NewValidationError(pipeline, step.Name, "with."+key,
				fmt.Sprintf("%s requires with.%s", step.Kind, key), ErrMissingParam)
		}
	}

	if err := CheckTemplates(step.With); err != nil {
		return NewValidationError(pipeline, step.Name, "with", err.Error(), err)
	}

	return nil
}

// PipelineNames возвращает отсортированный список имён pipeline.
func PipelineNames(spec *domain.PipelineSpec) []string {
	names := make([]string, 0, len(spec.Pipelines))
	for name := range spec.Pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
