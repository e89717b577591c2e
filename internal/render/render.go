// Package render draws chart scenes onto concrete surfaces: the terminal,
// SVG, PNG and ECharts HTML.
package render

import (
	"fmt"
	"io"

	"github.com/akasprzok/pulse/internal/charts"
)

// Format is an export file format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Export writes the engine's current scene in format.
func Export(w io.Writer, format Format, title string, e *charts.Engine) error {
	switch format {
	case FormatSVG:
		return SVG(w, e.Scene())
	case FormatPNG:
		return PNG(w, e.Scene())
	case FormatHTML:
		return HTML(w, title, e)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
