package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — один запуск pipeline.
//
// Run создаётся Runner'ом перед первым шагом и фиксирует, какой pipeline,
// с какой версией и на каких хостах выполнялся. Используется для истории
// релизов (repo), событий (mq) и метрик (telemetry).
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// Pipeline — имя выполняемого pipeline (например, "release").
	Pipeline string `json:"pipeline"`

	// Version — версия релиза, одинаковая для всех шагов run.
	Version string `json:"version"`

	// Hosts — хосты, на которые раскладываются parallel шаги.
	Hosts []string `json:"hosts"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// CurrentStep — индекс выполняемого шага (имеет смысл в статусе RUNNING).
	CurrentStep int `json:"current_step"`

	// FailedStep — имя упавшего шага, если run завершился с FAILED.
	FailedStep string `json:"failed_step,omitempty"`

	// Error — текст ошибки, если run завершился с FAILED.
	Error string `json:"error,omitempty"`

	// Steps — результаты вызовов шагов в порядке завершения шагов.
	Steps []StepResult `json:"steps,omitempty"`

	// DryRun — команды только печатались, а не выполнялись.
	DryRun bool `json:"dry_run,omitempty"`

	// StartedAt — время перехода в RUNNING.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения (успешного или с ошибкой).
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт run в статусе PENDING.
func NewRun(pipeline, version string, hosts []string) *Run {
	return &Run{
		ID:        uuid.New(),
		Pipeline:  pipeline,
		Version:   version,
		Hosts:     hosts,
		Status:    RunStatusPending,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит run в статус SUCCEEDED.
func (r *Run) MarkSucceeded() {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.FinishedAt = &now
}

// MarkFailed переводит run в статус FAILED с именем шага и ошибкой.
func (r *Run) MarkFailed(step, err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.FailedStep = step
	r.Error = err
}
