// Package cli реализует командную строку releaser.
//
// # Команды
//
// Для каждого pipeline из встроенных определений есть своя подкоманда:
//
//	releaser deploy_site
//	releaser release_site --hosts hosts.json
//	releaser release --dry-run
//
// Pipeline из --pipeline-file запускаются через `releaser run NAME`.
// Вспомогательные команды:
//   - list [PIPELINE] — pipeline и их шаги после раскрытия uses
//   - history [RUN_ID] — история релизов из PostgreSQL (--db-url)
//   - watch — события релизов из RabbitMQ (--amqp-url)
//
// # Вывод
//
// Output печатает таблицы (text/tabwriter) или JSON (--json).
// Данные идут в stdout, сообщения и логи в stderr.
//
// # Коды выхода
//
// ExitCode переводит ошибку команды в код выхода процесса:
// 2 для ошибок конфигурации (обнаруживаются до первого шага),
// код упавшей команды для ошибок шагов, 1 в остальных случаях.
package cli
