package commands

import (
	"fmt"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/render"
	"github.com/akasprzok/pulse/internal/tables"
)

// SummaryCmd prints mean BPM per subject as a bar chart and a table.
type SummaryCmd struct {
	SourceFlags

	Subjects []string `name:"subject" help:"Subjects to summarise. Defaults to all."`
	Window   string   `name:"window" short:"w" help:"Restrict to START:END in unix seconds."`
	Width    int      `name:"width" help:"Bar chart width. Defaults to the terminal width."`
}

func (s *SummaryCmd) Run(ctx *Context) error {
	src, err := s.Source(ctx)
	if err != nil {
		return err
	}
	loaded, err := load(ctx, src)
	if err != nil {
		return err
	}

	engine := charts.NewEngine(charts.Config{Mode: charts.MultiSeries, Selection: s.Subjects})
	engine.Dispatch(charts.LoadSamples{Samples: loaded})
	if s.Window != "" {
		w, err := parseWindow(s.Window)
		if err != nil {
			return err
		}
		engine.Dispatch(charts.SetWindow{Window: w})
	}

	out := ctx.stdout()
	if msg := engine.Empty().Message(); msg != "" {
		fmt.Fprintln(out, WarningStyle.Render(msg))
		return nil
	}

	width := s.Width
	if width <= 0 {
		width = terminalWidth()
	}
	w := engine.Window()
	fmt.Fprintln(out, HeadingStyle.Render(fmt.Sprintf("Mean BPM %s - %s", charts.FormatClock(w.Start), charts.FormatClock(w.End))))
	fmt.Fprintln(out, render.MeansBarchart(engine.Means(), engine.Colors(), width))
	fmt.Fprintln(out, tables.Means(engine.Means(), engine.Colors()).View())
	return nil
}
