// Package engine отвечает за определения pipeline.
//
// Включает:
//   - parser.go   — разбор и валидация YAML определений (PipelineSpec)
//   - resolve.go  — раскрытие композиции uses в плоский список шагов
//   - kinds.go    — допустимые типы шагов и их режимы
//   - template.go — рендеринг параметров шагов ({{ .Tag }}, {{ .DocRoot }})
//   - defaults.yaml — встроенные pipeline (deploy_site, release, ...)
//
// Engine не выполняет команды: он только превращает декларацию
// в упорядоченный список проверенных шагов.
package engine
