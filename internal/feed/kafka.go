package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/akasprzok/pulse/internal/charts"
)

// messageReader is the part of *kafka.Reader the feed needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka consumes readings from a topic. The message key, when present,
// names the subject of readings that lack one.
type Kafka struct {
	Brokers     []string
	Topic       string
	GroupID     string
	PollTimeout time.Duration
	Logger      *slog.Logger

	reader messageReader
}

func (f Kafka) Name() string {
	return "kafka:" + f.Topic
}

func (f Kafka) Run(ctx context.Context, out chan<- []charts.Sample) error {
	if len(f.Brokers) == 0 {
		return errors.New("at least one broker is required")
	}
	if f.Topic == "" {
		return errors.New("kafka topic must not be empty")
	}
	reader := f.reader
	if reader == nil {
		reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     f.Brokers,
			GroupID:     f.GroupID,
			Topic:       f.Topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
		})
	}
	defer reader.Close()
	return f.consume(ctx, reader, out)
}

func (f Kafka) consume(ctx context.Context, reader messageReader, out chan<- []charts.Sample) error {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	poll := f.PollTimeout
	if poll <= 0 {
		poll = 5 * time.Second
	}

	logger.Info("kafka feed started", "topic", f.Topic, "group", f.GroupID)
	defer logger.Info("kafka feed stopped", "topic", f.Topic)

	for {
		if ctx.Err() != nil {
			return nil
		}

		fetchCtx, cancel := context.WithTimeout(ctx, poll)
		msg, err := reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				continue
			case errors.Is(err, context.Canceled):
				if ctx.Err() != nil {
					return nil
				}
				continue
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe), errors.Is(err, kafka.ErrGroupClosed):
				return nil
			}
			logger.Error("kafka fetch error", "error", err)
			continue
		}

		batch, err := DecodeMessage(msg.Value, string(msg.Key))
		if err != nil {
			logger.Warn("kafka decode error", "offset", msg.Offset, "error", err)
		} else {
			deliver(ctx, out, batch, f.Name(), logger)
		}

		if f.GroupID == "" {
			continue
		}
		commitCtx, commitCancel := context.WithTimeout(ctx, poll)
		if err := reader.CommitMessages(commitCtx, msg); err != nil && ctx.Err() == nil {
			logger.Error("kafka commit error", "offset", msg.Offset, "error", err)
		}
		commitCancel()
	}
}
