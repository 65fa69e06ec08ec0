package steps

import (
	"context"
	"errors"

	"github.com/shaiso/Releaser/internal/domain"
)

// Ошибки шагов.
var (
	// ErrStepNotFound — тип шага не найден в реестре.
	ErrStepNotFound = errors.New("step type not found")

	// ErrInvalidConfig — невалидная конфигурация шага.
	ErrInvalidConfig = errors.New("invalid step config")

	// ErrInvalidHost — адрес хоста не разбирается.
	ErrInvalidHost = errors.New("invalid host address")

	// ErrTagExists — тег релиза уже существует.
	ErrTagExists = errors.New("tag already exists")
)

// Step — интерфейс для типов шагов.
//
// Каждый тип шага (local, remote, rsync, tag_absent) реализует этот интерфейс.
type Step interface {
	// Type возвращает тип шага.
	Type() string

	// Execute выполняет одно действие шага.
	// Для parallel шагов вызывается по разу на хост, с заполненным req.Host.
	Execute(ctx context.Context, req *Request) error
}

// Request — входные данные для выполнения шага.
type Request struct {
	// StepName — имя шага в pipeline.
	StepName string

	// Host — адрес хоста; пустой для once шагов.
	Host string

	// With — параметры шага, уже отрендеренные через engine.RenderMap.
	With map[string]string

	// Config — конфигурация релиза.
	Config domain.ReleaseConfig
}

// Param возвращает параметр шага или значение по умолчанию.
func (r *Request) Param(key, def string) string {
	if v, ok := r.With[key]; ok && v != "" {
		return v
	}
	return def
}

// BoolParam возвращает булев параметр ("true"/"false") или значение по умолчанию.
func (r *Request) BoolParam(key string, def bool) bool {
	switch r.With[key] {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	default:
		return def
	}
}
