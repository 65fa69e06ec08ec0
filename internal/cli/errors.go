package cli

import (
	"errors"

	"github.com/shaiso/Releaser/internal/config"
	"github.com/shaiso/Releaser/internal/runner"
)

// Коды выхода процесса.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

var errNegativeParallel = errors.New("--parallel must not be negative")

// ConfigError — ошибка конфигурации, обнаруженная до запуска шагов:
// флаги, файлы, определения pipeline.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// configErr оборачивает err в ConfigError (nil остаётся nil).
func configErr(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Err: err}
}

// ExitCode переводит ошибку в код выхода процесса.
//
//	nil                          → 0
//	ошибка конфигурации          → 2
//	StepExecutionError           → код выхода упавшей команды (1, если неизвестен)
//	остальное                    → 1
//
// Для PartialParallelFailureError и объединённых ошибок всех хостов
// берётся первая ошибка в порядке списка хостов.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	var missing *config.ConfigurationMissingError
	if errors.As(err, &cfgErr) || errors.As(err, &missing) || errors.Is(err, config.ErrInvalidConfig) {
		return ExitConfig
	}

	var stepErr *runner.StepExecutionError
	if errors.As(err, &stepErr) && stepErr.ExitCode > 0 {
		return stepErr.ExitCode
	}

	return ExitFailed
}
