// Package telemetry обеспечивает наблюдаемость releaser.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики run и шагов
//
// Логи пишутся в stderr, чтобы не смешиваться с выводом команд.
// Метрики выгружаются в textfile или Pushgateway после run.
package telemetry
