package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akasprzok/pulse/internal/samples"
	"github.com/akasprzok/pulse/internal/tui"
)

// ViewCmd is the Kong command for the interactive chart.
type ViewCmd struct {
	SourceFlags
	FeedFlags
	ChartFlags
}

// Run starts the interactive TUI.
func (v *ViewCmd) Run(ctx *Context) error {
	src, err := v.Source(ctx)
	if err != nil {
		return err
	}

	feedCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reload tui.Reloader
	if v.File == "" {
		reload = func(query string) (samples.Source, error) {
			return v.SourceFor(ctx, query)
		}
	}

	model := tui.New(tui.Options{
		Mode:        v.chartMode(),
		Source:      src,
		Reload:      reload,
		Query:       v.Query,
		Feed:        startFeeds(feedCtx, ctx, v.Feeds(ctx)),
		Timeout:     ctx.Timeout,
		Selection:   v.Subjects,
		ShowAverage: v.Average,
		Logger:      ctx.logger(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
