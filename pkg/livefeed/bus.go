package livefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the in-process update channel. The resolver publishes on it and the
// websocket relay consumes from it.
type Bus struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewBus(pubSub *gochannel.GoChannel) *Bus {
	return &Bus{pubSub: pubSub, topic: Topic}
}

// NewGoChannel creates the watermill channel backing a Bus.
func NewGoChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
}

func (b *Bus) Publish(ctx context.Context, update Update) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal build update: %w", err)
	}
	msg := message.NewMessage(update.ID, payload)
	msg.SetContext(ctx)
	if err := b.pubSub.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("failed to publish build update: %w", err)
	}
	return nil
}

// Subscribe decodes updates until ctx is done. Malformed messages are acked
// and skipped.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Update, error) {
	messages, err := b.pubSub.Subscribe(ctx, b.topic)
	if err != nil {
		return nil, err
	}

	out := make(chan Update)
	go func() {
		defer close(out)
		for msg := range messages {
			var update Update
			if err := json.Unmarshal(msg.Payload, &update); err != nil {
				msg.Ack()
				continue
			}
			select {
			case out <- update:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
