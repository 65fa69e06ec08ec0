package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Releaser/internal/engine"
)

// pipelineInfo — строка `releaser list --json`.
type pipelineInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Steps       []string `json:"steps"`
}

// stepInfo — строка `releaser list PIPELINE --json`.
type stepInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Mode  string `json:"mode"`
	From  string `json:"from"`
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [PIPELINE]",
		Short: "List pipelines or the flattened steps of one pipeline",
		Args: func(cmd *cobra.Command, args []string) error {
			return configErr(cobra.MaximumNArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return app.listSteps(args[0])
			}
			return app.listPipelines()
		},
	}
}

func (a *App) listPipelines() error {
	spec, err := a.loadSpec()
	if err != nil {
		return err
	}

	var infos []pipelineInfo
	var rows [][]string
	for _, name := range engine.PipelineNames(spec) {
		resolved, err := engine.Resolve(spec, name)
		if err != nil {
			return configErr(err)
		}
		stepNames := make([]string, len(resolved))
		for i, s := range resolved {
			stepNames[i] = s.Name
		}

		desc := spec.Pipelines[name].Description
		infos = append(infos, pipelineInfo{Name: name, Description: desc, Steps: stepNames})
		rows = append(rows, []string{name, strconv.Itoa(len(resolved)), desc})
	}

	return a.output().Print([]string{"PIPELINE", "STEPS", "DESCRIPTION"}, rows, infos)
}

func (a *App) listSteps(name string) error {
	spec, err := a.loadSpec()
	if err != nil {
		return err
	}

	resolved, err := engine.Resolve(spec, name)
	if err != nil {
		return configErr(err)
	}

	infos := make([]stepInfo, len(resolved))
	rows := make([][]string, len(resolved))
	for i, s := range resolved {
		infos[i] = stepInfo{Index: i, Name: s.Name, Kind: s.Kind, Mode: s.Mode.String(), From: s.From}
		rows[i] = []string{strconv.Itoa(i), s.Name, s.Kind, s.Mode.String(), s.From}
	}

	return a.output().Print([]string{"INDEX", "STEP", "KIND", "MODE", "FROM"}, rows, infos)
}
