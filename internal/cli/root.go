package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Releaser/internal/engine"
	"github.com/shaiso/Releaser/internal/shell"
)

// Переменные окружения для подключения к внешним сервисам.
const (
	EnvDBURL    = "DB_URL"
	EnvAMQPURL  = "AMQP_URL"
	EnvParallel = "RELEASER_PARALLEL"
)

// Options — параметры корневой команды.
type Options struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer

	// Executor подменяет запуск команд (используется в тестах).
	Executor shell.Executor
}

// NewRootCmd создаёт корневую команду releaser.
//
// Для каждого pipeline из встроенных определений создаётся отдельная
// подкоманда; pipeline из --pipeline-file запускаются через `run NAME`.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	flags := &Flags{}
	app := &App{
		flags:    flags,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		executor: opts.Executor,
	}

	rootCmd := &cobra.Command{
		Use:           "releaser",
		Short:         "Releaser — release pipeline runner",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(opts.Stdout)
	rootCmd.SetErr(opts.Stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return configErr(err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.WorkDir, "workdir", "", "Project root (default: current directory)")
	pf.StringVar(&flags.MetadataFile, "metadata", "", "Package metadata JSON (default: package.json)")
	pf.StringVar(&flags.HostsFile, "hosts", "", "Host list JSON (default: hosts.json)")
	pf.StringVar(&flags.PipelineFile, "pipeline-file", "", "Pipeline definitions YAML (default: built-in)")
	pf.StringVar(&flags.RemoteDocRoot, "doc-root", "", "Documentation root on remote hosts")
	pf.StringVar(&flags.LocalDocDir, "local-doc-dir", "", "Local directory with built documentation")
	pf.StringVar(&flags.RemoteUser, "user", "", "Remote user for ssh and rsync")
	pf.StringVar(&flags.GitRemote, "git-remote", "", "Git remote to push release tags to")
	pf.StringVar(&flags.SSHConfigFile, "ssh-config", "", "ssh config file passed to ssh and rsync (-F)")
	pf.IntVar(&flags.Parallel, "parallel", envInt(EnvParallel), "Max hosts processed at once by parallel steps (0: no limit)")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print commands instead of running them")
	pf.BoolVar(&flags.JSON, "json", false, "Output in JSON format")
	pf.StringVar(&flags.DBURL, "db-url", os.Getenv(EnvDBURL), "PostgreSQL URL for release history")
	pf.StringVar(&flags.AMQPURL, "amqp-url", os.Getenv(EnvAMQPURL), "RabbitMQ URL for release events")
	pf.StringVar(&flags.MetricsFile, "metrics-file", "", "Write run metrics to this file (node_exporter textfile format)")
	pf.StringVar(&flags.Pushgateway, "pushgateway", "", "Push run metrics to this Pushgateway URL")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flags.Parallel < 0 {
			return configErr(errNegativeParallel)
		}
		return nil
	}

	rootCmd.AddCommand(newPipelineCmds(app, engine.DefaultSpec())...)
	rootCmd.AddCommand(
		newRunCmd(app),
		newListCmd(app),
		newHistoryCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}

// envInt читает целое из переменной окружения; 0, если не задано или некорректно.
func envInt(key string) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return n
}
