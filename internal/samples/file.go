package samples

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/akasprzok/pulse/internal/charts"
)

// Format is an on-disk sample encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for a file extension with no decoder.
var ErrUnknownFormat = errors.New("unknown sample file format")

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// FileSource reads samples from a JSON, YAML or CSV file.
type FileSource struct {
	Path   string
	Logger *slog.Logger
}

func (s FileSource) Name() string {
	return "file:" + s.Path
}

func (s FileSource) Load(_ context.Context) ([]charts.Sample, error) {
	format, err := FormatOf(s.Path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening samples: %w", err)
	}
	defer f.Close()

	logger := loggerOrDefault(s.Logger)
	out, err := Decode(f, format, logger)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return keepValid(out, s.Name(), logger), nil
}

// Decode reads samples in the given format. Unparseable CSV rows are
// logged and skipped; validity is not checked here.
func Decode(r io.Reader, format Format, logger *slog.Logger) ([]charts.Sample, error) {
	var out []charts.Sample
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatCSV:
		return decodeCSV(r, loggerOrDefault(logger))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return out, nil
}

// decodeCSV reads subject,timestamp,bpm rows. The header row is optional
// and timestamps may be seconds or RFC 3339.
func decodeCSV(r io.Reader, logger *slog.Logger) ([]charts.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []charts.Sample
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding csv: %w", err)
		}
		if len(record) != 3 {
			logger.Warn("skipping csv row", "line", line, "fields", len(record))
			continue
		}
		if line == 1 && strings.EqualFold(record[0], "subject") {
			continue
		}
		ts, err := parseTimestamp(record[1])
		if err != nil {
			logger.Warn("skipping csv row", "line", line, "error", err)
			continue
		}
		bpm, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			logger.Warn("skipping csv row", "line", line, "error", err)
			continue
		}
		out = append(out, charts.Sample{Subject: record[0], Timestamp: ts, BPM: bpm})
	}
}

func parseTimestamp(s string) (float64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q is neither seconds nor RFC 3339", s)
	}
	return float64(t.UnixNano()) / 1e9, nil
}

// Encode writes samples in the given format.
func Encode(w io.Writer, format Format, samples []charts.Sample) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(samples)
	case FormatYAML:
		data, err := yaml.Marshal(samples)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"subject", "timestamp", "bpm"}); err != nil {
			return err
		}
		for _, s := range samples {
			row := []string{
				s.Subject,
				strconv.FormatFloat(s.Timestamp, 'f', -1, 64),
				strconv.FormatFloat(s.BPM, 'f', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
