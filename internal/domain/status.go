package domain

// RunStatus — статус выполнения pipeline.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ FAILED
//
// Повторов и возобновления с упавшего шага нет.
type RunStatus string

const (
	// RunStatusPending — run создан, но ни один шаг ещё не запущен.
	RunStatusPending RunStatus = "PENDING"

	// RunStatusRunning — выполняется один из шагов.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusSucceeded — все шаги завершились успешно.
	RunStatusSucceeded RunStatus = "SUCCEEDED"

	// RunStatusFailed — один из шагов упал, следующие не запускались.
	RunStatusFailed RunStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (run завершён).
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed:
		return true
	default:
		return false
	}
}

// StepStatus — результат одного вызова шага (одного хоста для parallel).
type StepStatus string

const (
	StepStatusSucceeded StepStatus = "SUCCEEDED"
	StepStatusFailed    StepStatus = "FAILED"
)

// StepMode — режим выполнения шага.
type StepMode string

const (
	// StepModeOnce — шаг выполняется ровно один раз, независимо от числа хостов.
	StepModeOnce StepMode = "once"

	// StepModeParallel — шаг выполняется параллельно, по одному разу на каждый хост.
	StepModeParallel StepMode = "parallel"
)

// String возвращает строковое представление StepMode.
func (m StepMode) String() string {
	return string(m)
}

// ParseStepMode парсит строку в StepMode.
// Пустая строка возвращает пустой режим (он будет заменён режимом по умолчанию для kind).
func ParseStepMode(s string) (StepMode, bool) {
	switch s {
	case "once", "run_once":
		return StepModeOnce, true
	case "parallel", "run_parallel":
		return StepModeParallel, true
	case "":
		return "", true
	default:
		return "", false
	}
}
