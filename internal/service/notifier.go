package service

import (
	"context"

	"studio-booking-be/internal/pkg/logger"
	"studio-booking-be/pkg/events"
	pktNats "studio-booking-be/pkg/nats"
)

// NotificationEmitter is informed after successful booking transitions.
// It owns no booking state. Emitting is fire-and-forget: failures are
// logged and never propagated to the booking operation.
type NotificationEmitter interface {
	EmitBookingEvent(ctx context.Context, event events.Event)
}

type eventEmitter struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewEventEmitter(publisher *pktNats.Publisher, log logger.ILogger) NotificationEmitter {
	return &eventEmitter{
		publisher: publisher,
		logger:    log,
	}
}

func (e *eventEmitter) EmitBookingEvent(ctx context.Context, event events.Event) {
	e.publish(ctx, event)
}

func (e *eventEmitter) publish(ctx context.Context, event events.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Error("EventEmitter", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
