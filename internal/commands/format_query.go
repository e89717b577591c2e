package commands

import (
	"fmt"

	"github.com/akasprzok/pulse/internal/samples"
)

type FormatQueryCmd struct {
	Query string `arg:"" name:"query" help:"Query to format." required:"true"`
}

func (f *FormatQueryCmd) Run(ctx *Context) error {
	if err := samples.ValidateQuery(f.Query); err != nil {
		return err
	}
	fmt.Fprintln(ctx.stdout(), samples.FormatQuery(f.Query))
	return nil
}
