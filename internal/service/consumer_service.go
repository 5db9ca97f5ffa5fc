package service

import (
	"context"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/pkg/livefeed"
)

// IConsumerService relays updates from the in-process bus to live delivery.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	bus      *livefeed.Bus
	delivery livefeed.Publisher
	logger   logger.ILogger
}

func NewConsumerService(bus *livefeed.Bus, delivery livefeed.Publisher, log logger.ILogger) IConsumerService {
	return &consumerService{
		bus:      bus,
		delivery: delivery,
		logger:   log,
	}
}

// Consume subscribes and relays in the background until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	updates, err := cs.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for update := range updates {
			if err := cs.delivery.Publish(ctx, update); err != nil {
				cs.logger.Warn("ConsumerService", "Failed to deliver build update", map[string]interface{}{
					"build_id":     update.ID,
					"requester_id": update.RequesterID,
					"error":        err.Error(),
				})
			}
		}
	}()

	return nil
}
