package feed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/akasprzok/pulse/internal/charts"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		fallback string
		want     []charts.Sample
		wantErr  bool
	}{
		{
			name:    "single object",
			payload: `{"subject":"S1","timestamp":10,"bpm":72}`,
			want:    []charts.Sample{{Subject: "S1", Timestamp: 10, BPM: 72}},
		},
		{
			name:     "array with fallback subject",
			payload:  `[{"timestamp":1,"bpm":60},{"subject":"S9","timestamp":2,"bpm":61}]`,
			fallback: "S4",
			want: []charts.Sample{
				{Subject: "S4", Timestamp: 1, BPM: 60},
				{Subject: "S9", Timestamp: 2, BPM: 61},
			},
		},
		{
			name:     "zero bpm is kept",
			payload:  `{"timestamp":3,"bpm":0}`,
			fallback: "S1",
			want:     []charts.Sample{{Subject: "S1", Timestamp: 3, BPM: 0}},
		},
		{name: "missing bpm", payload: `{"subject":"S1","timestamp":10}`, wantErr: true},
		{name: "not json", payload: `bpm=72`, wantErr: true},
		{name: "empty", payload: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMessage([]byte(tt.payload), tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeMessage() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("DecodeMessage()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSubjectFromTopic(t *testing.T) {
	tests := []struct {
		topic, want string
	}{
		{"pulse/S3", "S3"},
		{"pulse/S3/bpm", "S3"},
		{"pulse/+", "pulse"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := subjectFromTopic(tt.topic); got != tt.want {
			t.Errorf("subjectFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestMQTTHandle(t *testing.T) {
	f := MQTT{Topic: "pulse/+", Logger: discard}
	out := make(chan []charts.Sample, 2)

	f.handle(context.Background(), out, "pulse/S7", []byte(`{"timestamp":5,"bpm":88}`))
	f.handle(context.Background(), out, "pulse/S7", []byte(`{"timestamp":6,"bpm":-1}`))
	f.handle(context.Background(), out, "pulse/S7", []byte(`garbage`))

	if len(out) != 1 {
		t.Fatalf("batches delivered = %d, want 1", len(out))
	}
	batch := <-out
	if len(batch) != 1 || batch[0].Subject != "S7" || batch[0].BPM != 88 {
		t.Errorf("batch = %+v, want one S7 reading at 88", batch)
	}
}

func TestDeliverRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := make(chan []charts.Sample)

	done := make(chan struct{})
	go func() {
		deliver(ctx, out, []charts.Sample{{Subject: "S1", Timestamp: 1, BPM: 60}}, "test", discard)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("deliver blocked after cancellation")
	}
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestKafkaConsume(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Key: []byte("S2"), Value: []byte(`{"timestamp":1,"bpm":70}`)},
		{Offset: 2, Value: []byte(`not json`)},
		{Offset: 3, Value: []byte(`[{"subject":"S3","timestamp":2,"bpm":71}]`)},
	}}
	f := Kafka{Brokers: []string{"localhost:9092"}, Topic: "hr", GroupID: "pulse", Logger: discard, reader: reader}
	out := make(chan []charts.Sample, 4)

	if err := f.Run(context.Background(), out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reader.closed {
		t.Error("reader not closed")
	}
	if len(reader.committed) != 3 {
		t.Errorf("committed = %v, want every offset including the bad one", reader.committed)
	}

	close(out)
	var subjects []string
	for batch := range out {
		for _, s := range batch {
			subjects = append(subjects, s.Subject)
		}
	}
	if len(subjects) != 2 || subjects[0] != "S2" || subjects[1] != "S3" {
		t.Errorf("subjects = %v, want [S2 S3]", subjects)
	}
}

func TestKafkaRunValidatesConfig(t *testing.T) {
	out := make(chan []charts.Sample)
	if err := (Kafka{Topic: "hr"}).Run(context.Background(), out); err == nil {
		t.Error("Run() without brokers error = nil")
	}
	if err := (Kafka{Brokers: []string{"b"}}).Run(context.Background(), out); err == nil {
		t.Error("Run() without topic error = nil")
	}
}

func TestFeedNames(t *testing.T) {
	feeds := []Feed{MQTT{Topic: "pulse/+"}, Kafka{Topic: "hr"}}
	want := []string{"mqtt:pulse/+", "kafka:hr"}
	for i, f := range feeds {
		if f.Name() != want[i] {
			t.Errorf("Name() = %q, want %q", f.Name(), want[i])
		}
	}
}
