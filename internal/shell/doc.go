// Package shell запускает внешние команды: sh, ssh, rsync, git, npm.
//
// Executor — единственная точка, через которую Releaser создаёт процессы.
// Реализации:
//   - Exec   — реальный запуск через os/exec с захватом stderr
//   - DryRun — печатает команду ("+ ssh host ...") и ничего не запускает
//
// Ненулевой код выхода возвращается как *ExitError, из которого
// runner берёт код и stderr для StepExecutionError.
package shell
