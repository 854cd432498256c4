package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/hblaunch/internal/launcher"
)

// planView is the dry-run description of an invocation. The password is
// always masked.
type planView struct {
	Entrypoint string            `json:"entrypoint" yaml:"entrypoint"`
	WorkDir    string            `json:"work_dir" yaml:"work_dir"`
	Argv       []string          `json:"argv" yaml:"argv"`
	Command    string            `json:"command" yaml:"command"`
	Env        []launcher.EnvVar `json:"env,omitempty" yaml:"env,omitempty"`
}

func newPlanView(inv *launcher.Invocation) planView {
	return planView{
		Entrypoint: inv.Entrypoint,
		WorkDir:    inv.Dir,
		Argv:       inv.RedactedArgv(),
		Command:    inv.String(),
		Env:        inv.Overrides,
	}
}

func writePlan(w io.Writer, inv *launcher.Invocation, format string) error {
	view := newPlanView(inv)

	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(view); err != nil {
			return err
		}
		return encoder.Close()

	case "text", "":
		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")
		table.Append([]string{"Entrypoint", view.Entrypoint})
		table.Append([]string{"Work dir", view.WorkDir})
		table.Append([]string{"Command", view.Command})
		for _, env := range view.Env {
			table.Append([]string{"env " + env.Name, env.Value})
		}
		return table.Render()

	default:
		return &ExitError{Code: 1, Message: fmt.Sprintf("Error: unknown output format %q (want text, json or yaml)", format)}
	}
}
