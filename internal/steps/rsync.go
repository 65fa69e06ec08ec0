package steps

import (
	"context"
	"strings"

	"github.com/shaiso/Releaser/internal/engine"
	"github.com/shaiso/Releaser/internal/shell"
)

// RsyncStep синхронизирует локальный каталог с каталогом на хосте.
//
//	rsync -az --delete [-e "ssh -F cfg -p port"] <local_dir> user@host:<remote_dir>
//
// Параметры:
//   - local_dir  — локальный каталог (обязательный)
//   - remote_dir — каталог на хосте (обязательный)
//   - delete     — удалять на хосте файлы, которых нет локально (по умолчанию true)
type RsyncStep struct {
	exec shell.Executor
}

// NewRsyncStep создаёт RsyncStep.
func NewRsyncStep(exec shell.Executor) *RsyncStep {
	return &RsyncStep{exec: exec}
}

// Type возвращает тип шага.
func (s *RsyncStep) Type() string {
	return engine.KindRsync
}

// Execute синхронизирует каталог с req.Host.
func (s *RsyncStep) Execute(ctx context.Context, req *Request) error {
	localDir := req.Param("local_dir", "")
	if localDir == "" {
		return invalidParam(req, "local_dir")
	}
	remoteDir := req.Param("remote_dir", "")
	if remoteDir == "" {
		return invalidParam(req, "remote_dir")
	}

	addr, err := ParseAddress(req.Host, req.Config.RemoteUser)
	if err != nil {
		return err
	}

	args := []string{"-az"}
	if req.BoolParam("delete", true) {
		args = append(args, "--delete")
	}
	if opts := sshOptions(req.Config.SSHConfigFile, addr.Port); len(opts) > 0 {
		args = append(args, "-e", "ssh "+strings.Join(opts, " "))
	}
	args = append(args, localDir, addr.Destination()+":"+remoteDir)

	cmd := shell.Cmd("rsync", args...)
	cmd.Dir = req.Config.WorkDir

	_, err = s.exec.Run(ctx, cmd)
	return err
}
