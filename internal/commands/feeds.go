package commands

import (
	"context"
	"errors"
	"sync"

	"github.com/akasprzok/pulse/internal/charts"
	"github.com/akasprzok/pulse/internal/feed"
)

// FeedFlags configures live sample feeds appended to the loaded samples.
type FeedFlags struct {
	MQTTBroker   string   `name:"mqtt-broker" help:"MQTT broker URL for live readings, e.g. tcp://localhost:1883." env:"PULSE_MQTT_BROKER"`
	MQTTTopic    string   `name:"mqtt-topic" help:"MQTT topic filter for live readings." default:"pulse/+/bpm" env:"PULSE_MQTT_TOPIC"`
	KafkaBrokers []string `name:"kafka-brokers" help:"Kafka brokers for live readings." env:"PULSE_KAFKA_BROKERS" sep:","`
	KafkaTopic   string   `name:"kafka-topic" help:"Kafka topic for live readings." default:"heart-rate" env:"PULSE_KAFKA_TOPIC"`
	KafkaGroup   string   `name:"kafka-group" help:"Kafka consumer group. Offsets are committed only with a group." env:"PULSE_KAFKA_GROUP"`
}

// Feeds returns the feeds enabled by the flags.
func (f FeedFlags) Feeds(ctx *Context) []feed.Feed {
	var feeds []feed.Feed
	if f.MQTTBroker != "" {
		clientID := "pulse"
		if len(ctx.SessionID) >= 8 {
			clientID += "-" + ctx.SessionID[:8]
		}
		feeds = append(feeds, feed.MQTT{
			Broker:   f.MQTTBroker,
			Topic:    f.MQTTTopic,
			ClientID: clientID,
			QoS:      1,
			Logger:   ctx.logger(),
		})
	}
	if len(f.KafkaBrokers) > 0 {
		feeds = append(feeds, feed.Kafka{
			Brokers: f.KafkaBrokers,
			Topic:   f.KafkaTopic,
			GroupID: f.KafkaGroup,
			Logger:  ctx.logger(),
		})
	}
	return feeds
}

// startFeeds runs feeds in the background and merges their batches into
// one channel, closed once every feed has stopped. It returns nil when
// there are no feeds.
func startFeeds(c context.Context, ctx *Context, feeds []feed.Feed) <-chan []charts.Sample {
	if len(feeds) == 0 {
		return nil
	}
	out := make(chan []charts.Sample, FeedBuffer)
	var wg sync.WaitGroup
	for _, f := range feeds {
		wg.Add(1)
		go func(f feed.Feed) {
			defer wg.Done()
			ctx.logger().Info("feed started", "feed", f.Name())
			if err := f.Run(c, out); err != nil && !errors.Is(err, context.Canceled) {
				ctx.logger().Error("feed stopped", "feed", f.Name(), "error", err)
			}
		}(f)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
