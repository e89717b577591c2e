package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/browser"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/render"
)

// ExportCmd renders the chart once to a file.
type ExportCmd struct {
	SourceFlags
	ChartFlags

	Output string `arg:"" name:"output" help:"File to write. The extension picks the format unless --format is set." type:"path"`
	Format string `name:"format" help:"Output format: svg, png or html."`
	Window string `name:"window" short:"w" help:"Zoom window as START:END in unix seconds."`
	Width  int    `name:"width" help:"Chart width in pixels." default:"800"`
	Height int    `name:"height" help:"Chart height in pixels." default:"400"`
	Title  string `name:"title" help:"Chart title for HTML output." default:"Heart rate"`
	Open   bool   `name:"open" help:"Open the file once written."`
}

// exportFormat resolves the output format from the flag or the extension.
func exportFormat(output, explicit string) (render.Format, error) {
	if explicit != "" {
		switch f := render.Format(strings.ToLower(explicit)); f {
		case render.FormatSVG, render.FormatPNG, render.FormatHTML:
			return f, nil
		}
		return "", fmt.Errorf("unsupported format %q", explicit)
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".svg":
		return render.FormatSVG, nil
	case ".png":
		return render.FormatPNG, nil
	case ".html", ".htm":
		return render.FormatHTML, nil
	default:
		return "", fmt.Errorf("cannot infer format of %q: use --format", output)
	}
}

func (e *ExportCmd) Run(ctx *Context) error {
	format, err := exportFormat(e.Output, e.Format)
	if err != nil {
		return err
	}
	src, err := e.Source(ctx)
	if err != nil {
		return err
	}
	loaded, err := load(ctx, src)
	if err != nil {
		return err
	}

	width, height := e.Width, e.Height
	if width <= 0 {
		width = DefaultExportWidth
	}
	if height <= 0 {
		height = DefaultExportHeight
	}
	mode := e.chartMode()
	engine := charts.NewEngine(charts.Config{
		Mode:        mode,
		Surface:     charts.DefaultSurface(mode, float64(width), float64(height)),
		Selection:   e.Subjects,
		ShowAverage: e.Average,
	})
	engine.Dispatch(charts.LoadSamples{Samples: loaded})
	if e.Window != "" {
		w, err := parseWindow(e.Window)
		if err != nil {
			return err
		}
		engine.Dispatch(charts.SetWindow{Window: w})
	}
	if msg := engine.Empty().Message(); msg != "" {
		ctx.logger().Warn("exporting an empty chart", "reason", msg)
	}

	f, err := os.Create(e.Output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := render.Export(f, format, e.Title, engine); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	ctx.logger().Info("chart exported", "path", e.Output, "format", format, "subjects", engine.Selection().Len())
	fmt.Fprintln(ctx.stdout(), e.Output)

	if e.Open {
		if err := browser.OpenFile(e.Output); err != nil {
			return fmt.Errorf("opening %s: %w", e.Output, err)
		}
	}
	return nil
}
