package service

import (
	"context"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/pkg/events"
	"pc-autobuild-be/pkg/livefeed"
	pktNats "pc-autobuild-be/pkg/nats"
)

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// BuildEventService follows BUILD_GENERATED events of the whole cluster and
// writes them to the build audit log.
type BuildEventService struct {
	subscriber EventSubscriber
	audit      logger.ILogger
}

func NewBuildEventService(sub EventSubscriber, audit logger.ILogger) *BuildEventService {
	return &BuildEventService{subscriber: sub, audit: audit}
}

func (s *BuildEventService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe(ctx, pktNats.Subject(livefeed.EventType), "build-audit", s.handleEvent)
}

func (s *BuildEventService) handleEvent(ctx context.Context, event events.Event) error {
	if event.EventType() != livefeed.EventType {
		return nil
	}
	data := event.Payload()
	s.audit.Info("BuildAudit", "Build generated", map[string]interface{}{
		"build_id":     data["build_id"],
		"requester_id": data["requester_id"],
		"strategy":     data["strategy"],
		"index":        data["index"],
		"total_cost":   data["total_cost"],
		"occurred_at":  event.Timestamp(),
	})
	return nil
}
