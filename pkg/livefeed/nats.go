package livefeed

import (
	"context"

	"pc-autobuild-be/pkg/events"
)

// EventPublisher is the cluster event sink, satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ClusterPublisher forwards updates as BUILD_GENERATED events so other
// services (order history, analytics) can follow generated builds.
type ClusterPublisher struct {
	publisher EventPublisher
}

func NewClusterPublisher(publisher EventPublisher) *ClusterPublisher {
	return &ClusterPublisher{publisher: publisher}
}

func (p *ClusterPublisher) Publish(ctx context.Context, update Update) error {
	if p.publisher == nil {
		return nil
	}
	return p.publisher.Publish(ctx, ToEvent(update))
}

// ToEvent converts an update into the cluster event envelope.
func ToEvent(update Update) events.BaseEvent {
	return events.BaseEvent{
		Type: EventType,
		Data: map[string]interface{}{
			"build_id":      update.ID,
			"requester_id":  update.RequesterID,
			"strategy":      update.Strategy,
			"index":         update.Index,
			"configuration": update.Configuration,
			"total_cost":    update.TotalCost,
		},
		OccurredAt: update.CreatedAt,
	}
}
