package samples

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/akasprzok/pulse/internal/charts"
)

// DefaultSubjectLabel is the series label holding the subject identifier.
const DefaultSubjectLabel = "subject"

type prometheusClient struct {
	v1api v1.API
}

// Client is the subset of the Prometheus HTTP API used to fetch heart-rate
// series.
type Client interface {
	QueryRange(ctx context.Context, query string, start, end time.Time, step time.Duration, timeout time.Duration) (model.Matrix, v1.Warnings, error)
	LabelValues(ctx context.Context, labelName string, start, end time.Time, timeout time.Duration) ([]string, v1.Warnings, error)
}

func NewClient(url string) (Client, error) {
	client, err := api.NewClient(api.Config{
		Address: url,
	})
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}
	v1api := v1.NewAPI(client)
	return &prometheusClient{v1api: v1api}, nil
}

func (c *prometheusClient) QueryRange(ctx context.Context, query string, start, end time.Time, step time.Duration, timeout time.Duration) (model.Matrix, v1.Warnings, error) {
	var matrix model.Matrix
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	result, warnings, err := c.v1api.QueryRange(ctx, query, v1.Range{
		Start: start,
		End:   end,
		Step:  step,
	}, v1.WithTimeout(timeout))
	if err != nil {
		return matrix, warnings, err
	}

	switch result.Type() {
	case model.ValMatrix:
		m := result.(model.Matrix)
		return m, warnings, nil
	case model.ValNone, model.ValScalar, model.ValVector, model.ValString:
		return matrix, warnings, fmt.Errorf("unexpected result type: %s", result.Type())
	default:
		return matrix, warnings, fmt.Errorf("unknown result type: %s", result.Type())
	}
}

func (c *prometheusClient) LabelValues(ctx context.Context, labelName string, start, end time.Time, timeout time.Duration) ([]string, v1.Warnings, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	values, warnings, err := c.v1api.LabelValues(ctx, labelName, []string{}, start, end, v1.WithTimeout(timeout))
	if err != nil {
		return nil, warnings, err
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = string(v)
	}
	return result, warnings, nil
}

// FormatQuery pretty-prints a PromQL expression, returning it unchanged when
// it does not parse.
func FormatQuery(query string) string {
	ast, err := parser.ParseExpr(query)
	if err != nil {
		return query
	}
	return ast.Pretty(0)
}

// ValidateQuery reports a parse error for an invalid PromQL expression.
func ValidateQuery(query string) error {
	if _, err := parser.ParseExpr(query); err != nil {
		return fmt.Errorf("invalid query %q: %w", query, err)
	}
	return nil
}

// PrometheusSource loads samples with a range query. Each returned series
// becomes one subject, named by SubjectLabel.
type PrometheusSource struct {
	Client       Client
	Query        string
	SubjectLabel string
	Start, End   time.Time
	Step         time.Duration
	Timeout      time.Duration
	Logger       *slog.Logger
}

func (s PrometheusSource) Name() string {
	return "prometheus:" + s.Query
}

func (s PrometheusSource) Load(ctx context.Context) ([]charts.Sample, error) {
	if err := ValidateQuery(s.Query); err != nil {
		return nil, err
	}
	logger := loggerOrDefault(s.Logger)
	matrix, warnings, err := s.Client.QueryRange(ctx, s.Query, s.Start, s.End, s.Step, s.Timeout)
	if err != nil {
		return nil, fmt.Errorf("querying range: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("prometheus warning", "query", s.Query, "warning", w)
	}
	label := s.SubjectLabel
	if label == "" {
		label = DefaultSubjectLabel
	}
	return keepValid(FromMatrix(matrix, label), s.Name(), logger), nil
}

// FromMatrix converts a range query result to samples. A series without
// the subject label is named after its full label set.
func FromMatrix(matrix model.Matrix, subjectLabel string) []charts.Sample {
	out := make([]charts.Sample, 0)
	for _, stream := range matrix {
		subject := string(stream.Metric[model.LabelName(subjectLabel)])
		if subject == "" {
			subject = stream.Metric.String()
		}
		for _, p := range stream.Values {
			out = append(out, charts.Sample{
				Subject:   subject,
				Timestamp: float64(p.Timestamp) / 1000,
				BPM:       float64(p.Value),
			})
		}
	}
	return out
}
