package steps

import (
	"context"

	"github.com/shaiso/Releaser/internal/engine"
	"github.com/shaiso/Releaser/internal/shell"
)

// LocalStep выполняет команду на локальной машине через sh -c.
//
// Параметры:
//   - run — команда (обязательный)
//   - dir — рабочий каталог (по умолчанию WorkDir релиза)
//
// Команда получает версию релиза в окружении: RELEASER_VERSION,
// RELEASER_TAG и RELEASER_PACKAGE.
type LocalStep struct {
	exec shell.Executor
}

// NewLocalStep создаёт LocalStep.
func NewLocalStep(exec shell.Executor) *LocalStep {
	return &LocalStep{exec: exec}
}

// Type возвращает тип шага.
func (s *LocalStep) Type() string {
	return engine.KindLocal
}

// Execute выполняет команду.
func (s *LocalStep) Execute(ctx context.Context, req *Request) error {
	run := req.Param("run", "")
	if run == "" {
		return invalidParam(req, "run")
	}

	cmd := shell.Shell(run)
	cmd.Dir = req.Param("dir", req.Config.WorkDir)
	cmd.Env = releaseEnv(req)

	_, err := s.exec.Run(ctx, cmd)
	return err
}

func releaseEnv(req *Request) map[string]string {
	return map[string]string{
		"RELEASER_VERSION": req.Config.Version,
		"RELEASER_TAG":     req.Config.Tag(),
		"RELEASER_PACKAGE": req.Config.PackageName,
	}
}
