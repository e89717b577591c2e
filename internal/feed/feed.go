// Package feed streams live heart-rate samples from message brokers.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akasprzok/pulse/internal/charts"
)

// Feed delivers batches of samples until ctx is cancelled. Run blocks and
// must not touch the chart engine; receivers forward batches into their
// own event loop.
type Feed interface {
	Name() string
	Run(ctx context.Context, out chan<- []charts.Sample) error
}

// reading is the wire shape of one sample. Subject may be omitted when the
// transport carries it, e.g. in the MQTT topic.
type reading struct {
	Subject   string   `json:"subject"`
	Timestamp *float64 `json:"timestamp"`
	BPM       *float64 `json:"bpm"`
}

// ErrEmptyPayload is returned for a message with no body.
var ErrEmptyPayload = errors.New("empty payload")

// DecodeMessage parses a JSON object or array of readings. Readings without
// a subject take fallbackSubject. Readings missing a field are rejected as
// a whole message so partial batches never reach the chart.
func DecodeMessage(payload []byte, fallbackSubject string) ([]charts.Sample, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	var readings []reading
	if payload[0] == '[' {
		if err := json.Unmarshal(payload, &readings); err != nil {
			return nil, fmt.Errorf("decoding readings: %w", err)
		}
	} else {
		var r reading
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("decoding reading: %w", err)
		}
		readings = []reading{r}
	}

	out := make([]charts.Sample, 0, len(readings))
	for i, r := range readings {
		if r.Timestamp == nil || r.BPM == nil {
			return nil, fmt.Errorf("reading %d: timestamp and bpm are required", i)
		}
		subject := r.Subject
		if subject == "" {
			subject = fallbackSubject
		}
		out = append(out, charts.Sample{Subject: subject, Timestamp: *r.Timestamp, BPM: *r.BPM})
	}
	return out, nil
}

// subjectFromTopic returns the last non-wildcard segment of an MQTT topic,
// e.g. "S3" for "pulse/S3".
func subjectFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if p != "" && p != "+" && p != "#" && p != "bpm" {
			return p
		}
	}
	return ""
}

// deliver forwards valid samples to out, logging the ones dropped.
func deliver(ctx context.Context, out chan<- []charts.Sample, batch []charts.Sample, source string, logger *slog.Logger) {
	valid := batch[:0]
	for _, s := range batch {
		if !s.Valid() {
			logger.Warn("dropping malformed sample", "source", source, "subject", s.Subject, "bpm", s.BPM)
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return
	}
	select {
	case out <- valid:
	case <-ctx.Done():
	}
}
