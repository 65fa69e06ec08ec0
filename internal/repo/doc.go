// Package repo хранит историю релизов в Postgres (pgx).
//
// Таблицы (schema.sql, создаются EnsureSchema):
//   - release_runs  — один run pipeline
//   - release_steps — один вызов шага (по хосту для parallel шагов)
//
// HistoryRecorder подключается к runner как Observer; команда
// `releaser history` читает записи через RunRepo.List.
package repo
