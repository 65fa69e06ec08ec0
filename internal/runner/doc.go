// Package runner выполняет pipeline релиза.
//
// Pipeline — упорядоченный список шагов. Каждый шаг выполняется в одном
// из режимов:
//   - once     — действие вызывается ровно один раз, без хоста
//   - parallel — действие вызывается параллельно для каждого хоста
//
// Первая ошибка прерывает pipeline: следующие шаги не запускаются.
// Parallel шаг всегда дожидается завершения всех хостов, даже если
// какой-то из них уже упал.
//
// Ошибки:
//   - StepExecutionError — команда шага завершилась с ошибкой
//   - PartialParallelFailureError — parallel шаг упал только на части хостов
//
// Файлы пакета:
//   - pipeline.go — Step, Target, Pipeline
//   - runner.go   — Runner и fan-out по хостам (errgroup)
//   - state.go    — RunState, машина состояний run
//   - observer.go — Observer для истории, событий и метрик
//   - errors.go   — ошибки пакета
package runner
