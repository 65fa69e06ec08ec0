package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// maxStderr — сколько последних байт stderr сохраняется в ExitError.
const maxStderr = 8 * 1024

// Command — описание запускаемого процесса.
type Command struct {
	// Program — исполняемый файл (ищется в PATH).
	Program string

	// Args — аргументы без имени программы.
	Args []string

	// Dir — рабочий каталог. Пустой — текущий каталог процесса.
	Dir string

	// Env — дополнительные переменные окружения (добавляются к os.Environ).
	Env map[string]string
}

// Cmd создаёт Command.
func Cmd(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// Shell создаёт Command, выполняющую строку через sh -c.
func Shell(script string) Command {
	return Command{Program: "sh", Args: []string{"-c", script}}
}

// String возвращает команду в виде, пригодном для лога и dry-run.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Program)
	for _, a := range c.Args {
		parts = append(parts, Quote(a))
	}
	return strings.Join(parts, " ")
}

// Result — результат выполнения команды.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor запускает команды.
type Executor interface {
	// Run выполняет команду и ждёт её завершения.
	// Ненулевой код выхода возвращается как *ExitError.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExitError — команда завершилась с ненулевым кодом.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

// Error реализует интерфейс error.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

// Unwrap возвращает базовую ошибку.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode возвращает код выхода команды.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// StderrOutput возвращает захваченный stderr.
func (e *ExitError) StderrOutput() string {
	return e.Stderr
}

// Exec запускает команды через os/exec.
//
// Stdout и stderr процесса дублируются в Stdout/Stderr (если заданы),
// stderr дополнительно захватывается для ExitError.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run реализует Executor.
func (e *Exec) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(c.Env)...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = tee(&stdoutBuf, e.Stdout)
	cmd.Stderr = tee(&stderrBuf, e.Stderr)

	err := cmd.Run()

	res := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		ExitCode: exitCode(ctx, err),
	}
	if err != nil {
		return res, &ExitError{
			Command: c.String(),
			Code:    res.ExitCode,
			Stderr:  tail(res.Stderr, maxStderr),
			Err:     err,
		}
	}
	return res, nil
}

// DryRun только печатает команды.
type DryRun struct {
	Out io.Writer
}

// Run реализует Executor.
func (d *DryRun) Run(_ context.Context, c Command) (*Result, error) {
	line := "+ " + c.String()
	if c.Dir != "" {
		line = "+ (cd " + Quote(c.Dir) + ") " + c.String()
	}
	fmt.Fprintln(d.Out, line)
	return &Result{}, nil
}

// Quote экранирует строку для POSIX shell, если это нужно.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]#~!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// exitCode извлекает код выхода из ошибки os/exec.
// 124 — как у timeout(1), если истёк дедлайн контекста; 127 — как у sh, если программа не найдена.
func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
		// Процесс убит сигналом.
		return 1
	}
	if errors.Is(err, exec.ErrNotFound) {
		return 127
	}
	return 1
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
