// Package samples loads heart-rate samples from Prometheus or from files.
package samples

import (
	"context"
	"log/slog"

	"github.com/akasprzok/pulse/internal/charts"
)

// Source delivers the sample set of one chart session.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]charts.Sample, error)
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// keepValid drops samples the chart cannot draw and logs each one as a
// data quality issue.
func keepValid(in []charts.Sample, source string, logger *slog.Logger) []charts.Sample {
	out := in[:0]
	dropped := 0
	for _, s := range in {
		if !s.Valid() {
			dropped++
			logger.Debug("dropping malformed sample",
				"source", source, "subject", s.Subject, "timestamp", s.Timestamp, "bpm", s.BPM)
			continue
		}
		out = append(out, s)
	}
	if dropped > 0 {
		logger.Warn("dropped malformed samples", "source", source, "count", dropped)
	}
	return out
}

// Static is a Source over samples already in memory.
type Static []charts.Sample

func (s Static) Name() string { return "static" }

func (s Static) Load(context.Context) ([]charts.Sample, error) {
	return append([]charts.Sample(nil), s...), nil
}
