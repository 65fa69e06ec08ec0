// Package steps содержит реализации типов шагов pipeline релиза.
//
// # Обзор
//
// Каждый тип шага получает отрендеренные параметры (With) и выполняет
// одно действие: запускает команду локально, по ssh, через rsync или
// проверяет git репозиторий. Все процессы запускаются через
// shell.Executor, поэтому dry-run и тесты подменяют только исполнитель.
//
// # Типы шагов
//
//	local       sh -c <run> в каталоге dir (по умолчанию WorkDir)
//	remote      ssh [-F cfg] [-p port] user@host "cd <dir> && <run>"
//	rsync       rsync -az --delete [-e "ssh ..."] <local_dir> user@host:<remote_dir>
//	tag_absent  ошибка, если тег уже есть в локальном репозитории
//
// # Использование
//
//	reg := steps.DefaultRegistry(&shell.Exec{Stdout: os.Stdout, Stderr: os.Stderr})
//	p, err := steps.Compile(spec, "release", cfg, reg)
//	if err != nil {
//	    // неизвестный pipeline или тип шага
//	}
//	err = runner.New(runner.Options{}).Run(ctx, p)
//
// # Файлы пакета
//
//   - step.go     — интерфейс Step, Request, ошибки
//   - registry.go — Registry для получения Step по типу
//   - compile.go  — сборка runner.Pipeline из определений
//   - host.go     — разбор адресов хостов
//   - local.go, remote.go, rsync.go, tag.go — типы шагов
package steps
