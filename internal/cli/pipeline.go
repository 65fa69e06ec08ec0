package cli

import (
	"github.com/spf13/cobra"

	"github.com/shaiso/Releaser/internal/domain"
	"github.com/shaiso/Releaser/internal/engine"
)

// newPipelineCmds создаёт по подкоманде на каждый pipeline из spec.
func newPipelineCmds(app *App, spec *domain.PipelineSpec) []*cobra.Command {
	names := engine.PipelineNames(spec)
	cmds := make([]*cobra.Command, 0, len(names))

	for _, name := range names {
		short := spec.Pipelines[name].Description
		if short == "" {
			short = "Run the " + name + " pipeline"
		}

		cmds = append(cmds, &cobra.Command{
			Use:     name,
			Short:   short,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunPipeline(cmd.Context(), name)
			},
		})
	}

	return cmds
}

func newRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run PIPELINE",
		Short: "Run a pipeline by name (including ones from --pipeline-file)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunPipeline(cmd.Context(), args[0])
		},
	}
}

// exactArgs — cobra.ExactArgs, ошибка которого считается ошибкой конфигурации.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return configErr(cobra.ExactArgs(n)(cmd, args))
	}
}
