// Package mq публикует и читает события релизов через RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — exchange releaser.events и очереди watch
//   - publisher.go  — конверт Message и публикация
//   - notifier.go   — ReleaseNotifier (runner.Observer)
//   - consumer.go   — потребление событий для `releaser watch`
//
// Типы сообщений:
//   - run.started    — run начат
//   - step.finished  — вызов шага завершён (по хосту для parallel)
//   - run.finished   — run завершён (SUCCEEDED или FAILED)
//
// Routing key: <pipeline>.<тип>, например release.run.finished.
package mq
