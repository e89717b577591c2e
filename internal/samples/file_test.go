package samples

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akasprzok/pulse/internal/charts"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"hr.json", FormatJSON, false},
		{"hr.YAML", FormatYAML, false},
		{"hr.yml", FormatYAML, false},
		{"data/hr.csv", FormatCSV, false},
		{"hr.txt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatOf() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("FormatOf() error = %v, want ErrUnknownFormat", err)
			}
			if got != tt.want {
				t.Errorf("FormatOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	want := []charts.Sample{
		{Subject: "S1", Timestamp: 0, BPM: 100},
		{Subject: "S1", Timestamp: 10, BPM: 110},
	}

	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json", FormatJSON, `[{"subject":"S1","timestamp":0,"bpm":100},{"subject":"S1","timestamp":10,"bpm":110}]`},
		{"yaml", FormatYAML, "- subject: S1\n  timestamp: 0\n  bpm: 100\n- subject: S1\n  timestamp: 10\n  bpm: 110\n"},
		{"csv with header", FormatCSV, "subject,timestamp,bpm\nS1,0,100\nS1,10,110\n"},
		{"csv without header", FormatCSV, "S1,0,100\nS1,10,110\n"},
		{"csv rfc3339", FormatCSV, "S1,1970-01-01T00:00:00Z,100\nS1,1970-01-01T00:00:10Z,110\n"},
		{"csv skips bad rows", FormatCSV, "S1,0,100\nS1,soon,90\nS1,5\nS1,10,110\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input), tt.format, discard)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("Decode() = %+v, want %+v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("Decode()[%d] = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestEncodeDecodeCSV(t *testing.T) {
	in := []charts.Sample{{Subject: "S10", Timestamp: 1.25, BPM: 64.5}}
	var buf bytes.Buffer
	if err := Encode(&buf, FormatCSV, in); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "subject,timestamp,bpm\n") {
		t.Errorf("Encode() output lacks header: %q", buf.String())
	}
	out, err := Decode(&buf, FormatCSV, discard)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Errorf("Decode(Encode()) = %+v, want %+v", out, in)
	}
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hr.json")
	data := `[{"subject":"S1","timestamp":0,"bpm":100},{"subject":"","timestamp":1,"bpm":90},{"subject":"S2","timestamp":2,"bpm":-1}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	src := FileSource{Path: path, Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	got, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != "S1" {
		t.Errorf("Load() = %+v, want only the valid S1 sample", got)
	}
	if !strings.Contains(logs.String(), "dropped malformed samples") || !strings.Contains(logs.String(), "count=2") {
		t.Errorf("expected a warning about 2 dropped samples, got %q", logs.String())
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "nope.csv"), Logger: discard}
	_, err := src.Load(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestStaticCopies(t *testing.T) {
	s := Static{{Subject: "S1", Timestamp: 1, BPM: 60}}
	got, _ := s.Load(context.Background())
	got[0].BPM = 0
	if s[0].BPM != 60 {
		t.Error("Static.Load() returned the backing slice")
	}
}
