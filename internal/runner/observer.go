package runner

import (
	"context"

	"github.com/shaiso/Releaser/internal/domain"
)

// Observer получает уведомления о ходе run.
//
// Уведомления доставляются последовательно из горутины Runner.Run.
// Ошибка наблюдателя логируется на уровне WARN и не влияет на результат
// pipeline. StepFinished вызывается по одному разу на каждый вызов
// действия: один раз для once шага, по разу на хост для parallel.
type Observer interface {
	RunStarted(ctx context.Context, run *domain.Run) error
	StepFinished(ctx context.Context, run *domain.Run, result domain.StepResult) error
	RunFinished(ctx context.Context, run *domain.Run) error
}
