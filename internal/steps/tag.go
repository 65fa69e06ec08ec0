package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/Releaser/internal/engine"
	"github.com/shaiso/Releaser/internal/telemetry"
)

// TagLookup проверяет наличие тега в репозитории, содержащем dir.
type TagLookup func(dir, tag string) (bool, error)

// TagAbsentStep падает, если тег релиза уже есть в локальном репозитории.
// Проверка только читает репозиторий, поэтому выполняется и в dry-run.
//
// Параметры:
//   - tag — имя тега (обязательный)
type TagAbsentStep struct {
	lookup TagLookup
}

// NewTagAbsentStep создаёт TagAbsentStep.
func NewTagAbsentStep(lookup TagLookup) *TagAbsentStep {
	return &TagAbsentStep{lookup: lookup}
}

// Type возвращает тип шага.
func (s *TagAbsentStep) Type() string {
	return engine.KindTagAbsent
}

// Execute проверяет отсутствие тега.
func (s *TagAbsentStep) Execute(ctx context.Context, req *Request) error {
	tag := req.Param("tag", "")
	if tag == "" {
		return invalidParam(req, "tag")
	}

	dir := req.Config.WorkDir
	if dir == "" {
		dir = "."
	}

	exists, err := s.lookup(dir, tag)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTagExists, tag)
	}

	telemetry.FromContext(ctx).Debug("tag is free", "tag", tag)
	return nil
}

func invalidParam(req *Request, key string) error {
	return fmt.Errorf("%w: step %s: with.%s is required", ErrInvalidConfig, req.StepName, key)
}
