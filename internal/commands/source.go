package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/samples"
)

// ClientFactory builds a Prometheus client for an endpoint URL.
type ClientFactory func(url string) (samples.Client, error)

var errNoSource = errors.New("no sample source: set --file or --prometheus-url")

// SourceFlags selects where samples come from. A file wins over Prometheus.
type SourceFlags struct {
	PrometheusURL string        `help:"URL of the Prometheus endpoint." short:"p" env:"PULSE_PROMETHEUS_URL" name:"prometheus-url"`
	Query         string        `name:"query" short:"q" help:"PromQL selector returning one BPM series per subject." default:"heart_rate_bpm" env:"PULSE_QUERY"`
	SubjectLabel  string        `name:"subject-label" help:"Label naming the subject of each series." default:"subject" env:"PULSE_SUBJECT_LABEL"`
	Range         time.Duration `name:"range" short:"r" help:"Range to query." default:"1h"`
	Step          time.Duration `name:"step" short:"s" help:"Step interval for range queries." default:"15s"`
	File          string        `name:"file" short:"f" help:"Read samples from a JSON, YAML or CSV file." type:"path"`
}

func (s SourceFlags) client(ctx *Context) (samples.Client, error) {
	if s.PrometheusURL == "" {
		return nil, errNoSource
	}
	newClient := ctx.NewClient
	if newClient == nil {
		newClient = samples.NewClient
	}
	client, err := newClient(s.PrometheusURL)
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}
	return client, nil
}

// Source returns the configured sample source.
func (s SourceFlags) Source(ctx *Context) (samples.Source, error) {
	return s.SourceFor(ctx, s.Query)
}

// SourceFor is Source with the query replaced.
func (s SourceFlags) SourceFor(ctx *Context, query string) (samples.Source, error) {
	if s.File != "" {
		return samples.FileSource{Path: s.File, Logger: ctx.logger()}, nil
	}
	if err := samples.ValidateQuery(query); err != nil {
		return nil, err
	}
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	step := s.Step
	if step <= 0 {
		step = DefaultQueryStep
	}
	end := time.Now()
	return samples.PrometheusSource{
		Client:       client,
		Query:        query,
		SubjectLabel: s.SubjectLabel,
		Start:        end.Add(-s.Range),
		End:          end,
		Step:         step,
		Timeout:      ctx.Timeout,
		Logger:       ctx.logger(),
	}, nil
}

// load reads the source once within the command timeout.
func load(ctx *Context, src samples.Source) ([]charts.Sample, error) {
	c := context.Background()
	if ctx.Timeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(c, ctx.Timeout)
		defer cancel()
	}
	loaded, err := src.Load(c)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Name(), err)
	}
	ctx.logger().Info("samples loaded", "source", src.Name(), "count", len(loaded))
	return loaded, nil
}

// ChartFlags are the view options shared by the chart commands.
type ChartFlags struct {
	Mode     string   `name:"mode" help:"Chart one subject or compare many." default:"multi" enum:"single,multi"`
	Subjects []string `name:"subject" help:"Subjects to show initially. Repeatable."`
	Average  bool     `name:"average" short:"a" help:"Show mean reference lines."`
}

func (f ChartFlags) chartMode() charts.Mode {
	return parseMode(f.Mode)
}

func parseMode(s string) charts.Mode {
	if s == "single" {
		return charts.SingleSeries
	}
	return charts.MultiSeries
}

// parseWindow parses START:END in unix seconds.
func parseWindow(s string) (charts.TimeWindow, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return charts.TimeWindow{}, fmt.Errorf("window %q: want START:END", s)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return charts.TimeWindow{}, fmt.Errorf("window start: %w", err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return charts.TimeWindow{}, fmt.Errorf("window end: %w", err)
	}
	return charts.NewTimeWindow(start, end), nil
}
