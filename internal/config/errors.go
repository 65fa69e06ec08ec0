package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig — файл конфигурации есть, но его содержимое некорректно.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationMissingError — обязательный файл конфигурации отсутствует.
//
// Возвращается до построения pipeline; процесс завершается,
// не выполнив ни одной команды.
type ConfigurationMissingError struct {
	What string // что именно отсутствует: "package metadata", "host list"
	Path string // путь, по которому искали файл
	Hint string // подсказка пользователю
	Err  error  // базовая ошибка (обычно fs.ErrNotExist)
}

// Error реализует интерфейс error.
func (e *ConfigurationMissingError) Error() string {
	msg := fmt.Sprintf("%s not found at %s", e.What, e.Path)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// Unwrap возвращает базовую ошибку.
func (e *ConfigurationMissingError) Unwrap() error {
	return e.Err
}
