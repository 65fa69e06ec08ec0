// Releaser — выполняет pipeline релиза: сборка документации, раскладка
// сайта по хостам, тег в git и публикация пакета.
//
// Использование:
//
//	releaser [flags] <pipeline>
//	releaser run <pipeline> --pipeline-file pipelines.yaml
//	releaser list [pipeline]
//	releaser history [run-id]
//	releaser watch [--pipeline name]
//
// Код выхода: 0 при успехе, 2 при ошибке конфигурации,
// иначе код выхода упавшей команды.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/Releaser/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(cli.Options{Version: version})

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
