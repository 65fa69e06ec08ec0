package engine

import "errors"

// Ошибки валидации PipelineSpec.
var (
	// ErrEmptyPipelines — файл определений не содержит ни одного pipeline.
	ErrEmptyPipelines = errors.New("pipeline spec has no pipelines")

	// ErrEmptyPipelineName — pipeline без имени.
	ErrEmptyPipelineName = errors.New("pipeline has empty name")

	// ErrEmptySteps — pipeline не содержит шагов.
	ErrEmptySteps = errors.New("pipeline has no steps")

	// ErrEmptyStepName — шаг не имеет имени.
	ErrEmptyStepName = errors.New("step has empty name")

	// ErrDuplicateStepName — несколько шагов с одинаковым именем.
	ErrDuplicateStepName = errors.New("duplicate step name")

	// ErrUnknownKind — неизвестный тип действия.
	ErrUnknownKind = errors.New("unknown step kind")

	// ErrInvalidMode — режим не "once" и не "parallel".
	ErrInvalidMode = errors.New("invalid step mode")

	// ErrModeNotAllowed — режим недопустим для данного kind (remote/rsync требуют хост).
	ErrModeNotAllowed = errors.New("step mode not allowed for kind")

	// ErrAmbiguousStep — шаг одновременно задаёт uses и kind.
	ErrAmbiguousStep = errors.New("step sets both uses and kind")

	// ErrMissingPipeline — uses ссылается на несуществующий pipeline.
	ErrMissingPipeline = errors.New("step uses unknown pipeline")

	// ErrCyclicPipeline — pipeline прямо или косвенно использует сам себя.
	ErrCyclicPipeline = errors.New("cyclic pipeline composition")

	// ErrMissingParam — у шага не задан обязательный параметр в with.
	ErrMissingParam = errors.New("step is missing required parameter")
)

// ErrPipelineNotFound — запрошенный pipeline отсутствует в определениях.
var ErrPipelineNotFound = errors.New("pipeline not found")

// Ошибки рендеринга шаблонов.
var (
	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")

	// ErrTemplateParse — ошибка парсинга шаблона.
	ErrTemplateParse = errors.New("template parse failed")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	Pipeline string // pipeline, где произошла ошибка
	Step     string // имя шага (может быть пустым)
	Field    string // поле, вызвавшее ошибку
	Message  string // описание ошибки
	Err      error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	prefix := "pipeline " + e.Pipeline
	if e.Step != "" {
		prefix += ": step " + e.Step
	}
	return prefix + ": " + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(pipeline, step, field, message string, err error) *ValidationError {
	return &ValidationError{
		Pipeline: pipeline,
		Step:     step,
		Field:    field,
		Message:  message,
		Err:      err,
	}
}
