package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akasprzok/pulse/internal/samples"
	"github.com/akasprzok/pulse/internal/tables"
)

// TableCmd shows the loaded samples.
type TableCmd struct {
	SourceFlags

	Output string `name:"output" short:"o" help:"Output format." default:"table" enum:"table,json,yaml,csv"`
}

func (t *TableCmd) Run(ctx *Context) error {
	src, err := t.Source(ctx)
	if err != nil {
		return err
	}
	loaded, err := load(ctx, src)
	if err != nil {
		return err
	}

	if t.Output != "table" {
		return samples.Encode(ctx.stdout(), samples.Format(t.Output), loaded)
	}

	model, err := tables.Samples(loaded)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model).Run()
	return err
}
