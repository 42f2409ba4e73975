package eventbus

import (
	"context"
	"encoding/json"

	"ai-hub-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	TopicStateChanged = "state.changed"
	TopicStreamUpdate = "stream.update"
)

// StreamUpdate carries the running accumulated text of an in-flight model
// turn. Done marks the final update of a dispatch.
type StreamUpdate struct {
	ContainerId uuid.UUID `json:"containerId"`
	ChatId      uuid.UUID `json:"chatId"`
	Text        string    `json:"text"`
	Done        bool      `json:"done"`
}

// StateChanged announces that the snapshot mutated and subscribers should
// refetch. It intentionally carries no payload; the snapshot endpoint is the
// source of truth.
type StateChanged struct {
	ContainerId uuid.UUID `json:"containerId"`
	Reason      string    `json:"reason"`
}

// Bus is the in-process pub/sub fabric between services and the websocket
// layer. It wraps a single gochannel transport so subscribers never block
// publishers.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    logger.ILogger
}

func NewBus(log logger.ILogger) *Bus {
	ps := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, watermill.NopLogger{})
	return &Bus{pubsub: ps, log: log}
}

func (b *Bus) publish(topic string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.log.Error("eventbus", "failed to marshal event", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		b.log.Error("eventbus", "failed to publish event", map[string]interface{}{
			"topic": topic,
			"error": err.Error(),
		})
	}
}

func (b *Bus) PublishStateChanged(ev StateChanged) {
	b.publish(TopicStateChanged, ev)
}

func (b *Bus) PublishStreamUpdate(ev StreamUpdate) {
	b.publish(TopicStreamUpdate, ev)
}

// Subscribe returns the raw message channel for a topic. Callers must Ack
// every message.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
