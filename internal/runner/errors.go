package runner

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки runner.
var (
	// ErrEmptyPipeline — pipeline без шагов.
	ErrEmptyPipeline = errors.New("pipeline has no steps")

	// ErrNoHosts — parallel шаг при пустом списке хостов.
	ErrNoHosts = errors.New("pipeline has parallel steps but no hosts")

	// ErrInvalidTransition — недопустимый переход машины состояний run.
	ErrInvalidTransition = errors.New("invalid run state transition")

	// ErrNilAction — шаг без действия.
	ErrNilAction = errors.New("step has no action")
)

// StepExecutionError — команда шага завершилась с ошибкой.
type StepExecutionError struct {
	// Step — имя шага.
	Step string

	// Host — хост, пустой для once шагов.
	Host string

	// ExitCode — код выхода команды; 1, если неизвестен.
	ExitCode int

	// Stderr — хвост stderr команды (может быть пустым).
	Stderr string

	Err error
}

func (e *StepExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "step %s failed", e.Step)
	if e.Host != "" {
		fmt.Fprintf(&b, " on %s", e.Host)
	}
	fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// PartialParallelFailureError — parallel шаг упал на части хостов.
//
// Succeeded перечисляет хосты, на которых шаг выполнился: их состояние
// уже изменено и автоматически не откатывается.
type PartialParallelFailureError struct {
	Step      string
	Failures  []*StepExecutionError
	Succeeded []string
}

func (e *PartialParallelFailureError) Error() string {
	hosts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		hosts[i] = f.Host
	}
	total := len(e.Failures) + len(e.Succeeded)
	return fmt.Sprintf("step %s failed on %d of %d hosts (%s): %v",
		e.Step, len(e.Failures), total, strings.Join(hosts, ", "), e.Failures[0])
}

// Unwrap возвращает ошибки хостов в порядке списка хостов,
// так что errors.As находит первую из них.
func (e *PartialParallelFailureError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// ExitCode возвращает код выхода первого упавшего хоста.
func (e *PartialParallelFailureError) ExitCode() int {
	if len(e.Failures) == 0 {
		return 1
	}
	return e.Failures[0].ExitCode
}

// newStepError оборачивает ошибку действия в StepExecutionError,
// забирая код выхода и stderr, если ошибка их несёт.
func newStepError(step, host string, err error) *StepExecutionError {
	var existing *StepExecutionError
	if errors.As(err, &existing) {
		return existing
	}

	e := &StepExecutionError{Step: step, Host: host, ExitCode: 1, Err: err}

	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) && coded.ExitCode() > 0 {
		e.ExitCode = coded.ExitCode()
	}

	var stderr interface{ StderrOutput() string }
	if errors.As(err, &stderr) {
		e.Stderr = stderr.StderrOutput()
	}

	return e
}
