package domain

import (
	"time"

	"github.com/google/uuid"
)

// StepResult — результат одного вызова шага.
//
// Для once шага на run приходится один StepResult,
// для parallel шага — по одному на каждый хост.
type StepResult struct {
	// RunID — ссылка на родительский run.
	RunID uuid.UUID `json:"run_id"`

	// Index — порядковый номер шага в pipeline (с нуля).
	Index int `json:"index"`

	// Name — имя шага.
	Name string `json:"name"`

	// Mode — режим выполнения шага.
	Mode StepMode `json:"mode"`

	// Host — хост, для которого выполнялся вызов. Пустой для once шагов.
	Host string `json:"host,omitempty"`

	// Status — результат вызова.
	Status StepStatus `json:"status"`

	// ExitCode — код выхода команды (0 при успехе).
	ExitCode int `json:"exit_code"`

	// Stderr — stderr упавшей команды (может быть обрезан).
	Stderr string `json:"stderr,omitempty"`

	// Error — текст ошибки при неудаче.
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration возвращает продолжительность вызова.
func (r *StepResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded возвращает true для успешного вызова.
func (r *StepResult) Succeeded() bool {
	return r.Status == StepStatusSucceeded
}
