package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Releaser/internal/domain"
	"github.com/shaiso/Releaser/internal/repo"
)

var errNoDatabase = errors.New("release history requires --db-url or " + EnvDBURL)

func newHistoryCmd(app *App) *cobra.Command {
	var pipeline, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "Show recent release runs or the steps of one run",
		Args: func(cmd *cobra.Command, args []string) error {
			return configErr(cobra.MaximumNArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.flags.DBURL == "" {
				return configErr(errNoDatabase)
			}

			ctx := cmd.Context()
			pool, err := repo.NewPool(ctx, app.flags.DBURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			runs := repo.NewRunRepo(pool)
			out := app.output()

			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return configErr(fmt.Errorf("invalid run id %q: %w", args[0], err))
				}

				run, err := runs.GetByID(ctx, id)
				if err != nil {
					return err
				}
				run.Steps, err = runs.ListSteps(ctx, id)
				if err != nil {
					return err
				}

				if out.IsJSON() {
					return out.JSON(run)
				}

				out.Line("Run %s: %s %s %s", run.ID, run.Pipeline, run.Version, run.Status)
				if run.FailedStep != "" {
					out.Line("Failed at %s: %s", run.FailedStep, run.Error)
				}
				return out.Table(stepHeaders, stepRows(run.Steps))
			}

			list, err := runs.List(ctx, repo.RunFilter{
				Pipeline: pipeline,
				Status:   domain.RunStatus(strings.ToUpper(status)),
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, len(list))
			for i := range list {
				r := &list[i]
				rows[i] = []string{
					r.ID.String(),
					r.Pipeline,
					r.Version,
					string(r.Status),
					formatTime(r.StartedAt),
					r.Duration().Round(time.Millisecond).String(),
					r.FailedStep,
				}
			}

			return out.Print(
				[]string{"ID", "PIPELINE", "VERSION", "STATUS", "STARTED", "DURATION", "FAILED STEP"},
				rows, list,
			)
		},
	}

	cmd.Flags().StringVar(&pipeline, "pipeline", "", "Filter by pipeline")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (SUCCEEDED, FAILED, ...)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max runs to show")

	return cmd
}

var stepHeaders = []string{"INDEX", "STEP", "MODE", "HOST", "STATUS", "EXIT", "DURATION"}

func stepRows(results []domain.StepResult) [][]string {
	rows := make([][]string, len(results))
	for i := range results {
		res := &results[i]
		rows[i] = []string{
			strconv.Itoa(res.Index),
			res.Name,
			res.Mode.String(),
			res.Host,
			string(res.Status),
			strconv.Itoa(res.ExitCode),
			res.Duration().Round(time.Millisecond).String(),
		}
	}
	return rows
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
