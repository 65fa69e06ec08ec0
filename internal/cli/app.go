package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shaiso/Releaser/internal/config"
	"github.com/shaiso/Releaser/internal/domain"
	"github.com/shaiso/Releaser/internal/engine"
	"github.com/shaiso/Releaser/internal/mq"
	"github.com/shaiso/Releaser/internal/repo"
	"github.com/shaiso/Releaser/internal/runner"
	"github.com/shaiso/Releaser/internal/shell"
	"github.com/shaiso/Releaser/internal/steps"
	"github.com/shaiso/Releaser/internal/telemetry"
)

// Flags — глобальные флаги releaser.
type Flags struct {
	WorkDir      string
	MetadataFile string
	HostsFile    string
	PipelineFile string

	RemoteUser    string
	RemoteDocRoot string
	LocalDocDir   string
	GitRemote     string
	SSHConfigFile string

	Parallel int
	DryRun   bool
	JSON     bool

	DBURL       string
	AMQPURL     string
	MetricsFile string
	Pushgateway string
}

// App связывает флаги с пакетами releaser.
type App struct {
	flags  *Flags
	stdout io.Writer
	stderr io.Writer

	// executor подменяет исполнитель команд (тесты).
	executor shell.Executor

	logger *slog.Logger
}

func (a *App) output() *Output {
	return NewOutput(a.flags.JSON, a.stdout, a.stderr)
}

func (a *App) log() *slog.Logger {
	if a.logger == nil {
		a.logger = telemetry.SetupLogger(a.stderr)
	}
	return a.logger
}

// loadSpec возвращает определения из --pipeline-file или встроенные.
func (a *App) loadSpec() (*domain.PipelineSpec, error) {
	if a.flags.PipelineFile == "" {
		return engine.DefaultSpec(), nil
	}
	spec, err := engine.LoadFile(a.flags.PipelineFile)
	return spec, configErr(err)
}

// loadConfig читает package.json и список хостов.
func (a *App) loadConfig() (domain.ReleaseConfig, error) {
	cfg, err := config.Load(config.Options{
		MetadataFile:  a.flags.MetadataFile,
		HostsFile:     a.flags.HostsFile,
		WorkDir:       a.flags.WorkDir,
		RemoteUser:    a.flags.RemoteUser,
		RemoteDocRoot: a.flags.RemoteDocRoot,
		LocalDocDir:   a.flags.LocalDocDir,
		GitRemote:     a.flags.GitRemote,
		SSHConfigFile: a.flags.SSHConfigFile,
	})
	return cfg, configErr(err)
}

// newExecutor возвращает исполнитель команд: печать в dry-run,
// иначе реальный запуск с выводом в консоль.
//
// С --json stdout занят записью run, поэтому вывод команд и строки
// dry-run уходят в stderr.
func (a *App) newExecutor() shell.Executor {
	out := a.stdout
	if a.flags.JSON {
		out = a.stderr
	}

	switch {
	case a.executor != nil:
		return a.executor
	case a.flags.DryRun:
		return &shell.DryRun{Out: out}
	default:
		return &shell.Exec{Stdout: out, Stderr: a.stderr}
	}
}

// observers подключает историю и события, если заданы --db-url и --amqp-url.
// Недоступная БД или брокер не мешают релизу: предупреждение в лог и дальше без них.
func (a *App) observers(ctx context.Context, metrics *telemetry.Metrics) ([]runner.Observer, func()) {
	logger := a.log()
	observers := []runner.Observer{metrics}
	var closers []func()

	if a.flags.DBURL != "" {
		pool, err := repo.NewPool(ctx, a.flags.DBURL)
		if err != nil {
			logger.Warn("release history disabled", "error", err)
		} else if err := repo.EnsureSchema(ctx, pool); err != nil {
			logger.Warn("release history disabled", "error", err)
			pool.Close()
		} else {
			observers = append(observers, repo.NewHistoryRecorder(repo.NewRunRepo(pool)))
			closers = append(closers, pool.Close)
		}
	}

	if a.flags.AMQPURL != "" {
		conn, err := mq.NewConnection(a.flags.AMQPURL, logger)
		if err != nil {
			logger.Warn("release events disabled", "error", err)
		} else if err := mq.SetupTopology(ctx, conn); err != nil {
			logger.Warn("release events disabled", "error", err)
			_ = conn.Close()
		} else {
			observers = append(observers, mq.NewReleaseNotifier(mq.NewPublisher(conn, logger)))
			closers = append(closers, func() { _ = conn.Close() })
		}
	}

	return observers, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// exportMetrics пишет метрики в textfile и Pushgateway.
func (a *App) exportMetrics(ctx context.Context, metrics *telemetry.Metrics, pipeline string) {
	logger := a.log()

	if a.flags.MetricsFile != "" {
		if err := metrics.WriteTextfile(a.flags.MetricsFile); err != nil {
			logger.Warn("metrics export failed", "error", err)
		}
	}
	if a.flags.Pushgateway != "" {
		if err := metrics.Push(ctx, a.flags.Pushgateway, pipeline); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}
}

// RunPipeline загружает конфигурацию и выполняет pipeline name.
//
// Все ошибки конфигурации возвращаются до запуска первой команды.
func (a *App) RunPipeline(ctx context.Context, name string) error {
	spec, err := a.loadSpec()
	if err != nil {
		return err
	}
	if _, ok := spec.Pipelines[name]; !ok {
		return configErr(fmt.Errorf("%w: %s", engine.ErrPipelineNotFound, name))
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	pipeline, err := steps.Compile(spec, name, cfg, steps.DefaultRegistry(a.newExecutor()))
	if err != nil {
		return configErr(err)
	}

	metrics := telemetry.NewMetrics()
	observers, closeObservers := a.observers(ctx, metrics)
	defer closeObservers()

	r := runner.New(runner.Options{
		Logger:        a.log(),
		ParallelLimit: a.flags.Parallel,
		Observers:     observers,
		DryRun:        a.flags.DryRun,
	})

	run, runErr := r.Execute(ctx, pipeline)
	a.exportMetrics(context.WithoutCancel(ctx), metrics, name)

	out := a.output()
	if out.IsJSON() {
		if err := out.JSON(run); err != nil {
			return err
		}
	} else if runErr == nil {
		out.Success(fmt.Sprintf("%s %s: %s in %s", name, cfg.Version, run.Status, run.Duration().Round(time.Millisecond)))
	}

	return runErr
}
