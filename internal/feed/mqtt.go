package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/akasprzok/pulse/internal/charts"
)

// MQTT subscribes to a topic filter on an MQTT broker. Readings published
// to "pulse/S3" without a subject field are attributed to S3.
type MQTT struct {
	Broker   string
	Topic    string
	ClientID string
	QoS      byte
	Logger   *slog.Logger
}

func (f MQTT) Name() string {
	return "mqtt:" + f.Topic
}

func (f MQTT) Run(ctx context.Context, out chan<- []charts.Sample) error {
	logger := f.logger()
	opts := mqtt.NewClientOptions().
		AddBroker(f.Broker).
		SetClientID(f.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "broker", f.Broker, "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to %s: %w", f.Broker, token.Error())
	}
	defer client.Disconnect(250)

	token := client.Subscribe(f.Topic, f.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		f.handle(ctx, out, msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribing to %s: %w", f.Topic, token.Error())
	}
	logger.Info("mqtt feed started", "broker", f.Broker, "topic", f.Topic)

	<-ctx.Done()
	logger.Info("mqtt feed stopped", "topic", f.Topic)
	return nil
}

func (f MQTT) handle(ctx context.Context, out chan<- []charts.Sample, topic string, payload []byte) {
	batch, err := DecodeMessage(payload, subjectFromTopic(topic))
	if err != nil {
		f.logger().Warn("mqtt decode error", "topic", topic, "error", err)
		return
	}
	deliver(ctx, out, batch, f.Name(), f.logger())
}

func (f MQTT) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}
