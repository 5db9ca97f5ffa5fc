// Package livefeed pushes every newly found configuration to interested
// listeners. Delivery is best effort: publishers report errors but callers
// never wait on an acknowledgement.
package livefeed

import (
	"context"
	"errors"
	"time"

	"pc-autobuild-be/pkg/autobuild"

	"github.com/google/uuid"
)

// Topic is the bus topic and the NATS event type suffix of build updates.
const Topic = "builds.generated"

// EventType is the cluster event type emitted for every update.
const EventType = "BUILD_GENERATED"

// Update announces one complete configuration.
type Update struct {
	ID            string                  `json:"id"`
	RequesterID   string                  `json:"requester_id"`
	Strategy      autobuild.Strategy      `json:"strategy"`
	Index         int                     `json:"index"`
	Configuration autobuild.Configuration `json:"configuration"`
	TotalCost     int64                   `json:"total_cost"`
	CreatedAt     time.Time               `json:"created_at"`
}

func NewUpdate(requesterID string, strategy autobuild.Strategy, index int, cfg autobuild.Configuration) Update {
	return Update{
		ID:            uuid.NewString(),
		RequesterID:   requesterID,
		Strategy:      strategy,
		Index:         index,
		Configuration: cfg,
		TotalCost:     cfg.TotalCost(),
		CreatedAt:     time.Now(),
	}
}

// Publisher delivers updates.
type Publisher interface {
	Publish(ctx context.Context, update Update) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, update Update) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every update.
type Discard struct{}

func (Discard) Publish(context.Context, Update) error { return nil }
