package steps

import (
	"context"

	"github.com/shaiso/Releaser/internal/engine"
	"github.com/shaiso/Releaser/internal/shell"
)

// RemoteStep выполняет команду на хосте через ssh.
//
//	ssh [-F cfg] [-p port] user@host "cd <dir> && <run>"
//
// Параметры:
//   - run — команда (обязательный)
//   - dir — каталог на хосте
type RemoteStep struct {
	exec shell.Executor
}

// NewRemoteStep создаёт RemoteStep.
func NewRemoteStep(exec shell.Executor) *RemoteStep {
	return &RemoteStep{exec: exec}
}

// Type возвращает тип шага.
func (s *RemoteStep) Type() string {
	return engine.KindRemote
}

// Execute выполняет команду на req.Host.
func (s *RemoteStep) Execute(ctx context.Context, req *Request) error {
	run := req.Param("run", "")
	if run == "" {
		return invalidParam(req, "run")
	}

	addr, err := ParseAddress(req.Host, req.Config.RemoteUser)
	if err != nil {
		return err
	}

	remote := run
	if dir := req.Param("dir", ""); dir != "" {
		remote = "cd " + shell.Quote(dir) + " && " + run
	}

	args := sshOptions(req.Config.SSHConfigFile, addr.Port)
	args = append(args, addr.Destination(), remote)

	_, err = s.exec.Run(ctx, shell.Cmd("ssh", args...))
	return err
}
