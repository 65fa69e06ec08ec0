package engine

import (
	_ "embed"
	"fmt"

	"github.com/shaiso/Releaser/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultSpec возвращает встроенные определения pipeline.
// Каждый вызов разбирает YAML заново, вызывающий может менять результат.
func DefaultSpec() *domain.PipelineSpec {
	spec, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("engine: invalid embedded defaults.yaml: %v", err))
	}
	return spec
}

// DefaultYAML возвращает исходный текст встроенных определений.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultsYAML))
	copy(out, defaultsYAML)
	return out
}
