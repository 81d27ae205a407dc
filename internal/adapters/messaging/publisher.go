package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

var (
	_ ports.TrackingEventPublisher = (*RabbitMQBroker)(nil)
	_ ports.SessionEventPublisher  = (*RabbitMQBroker)(nil)
)

func (rmq *RabbitMQBroker) PublishTrackingUpdated(ctx context.Context, evt ports.TrackingEvent) error {
	return rmq.publish(ctx, ports.EventTrackingUpdated, evt)
}

func (rmq *RabbitMQBroker) PublishSessionCancelled(ctx context.Context, evt ports.SessionCancelledEvent) error {
	return rmq.publish(ctx, ports.EventSessionCancelled, evt)
}

// publish sends evt as a persistent JSON message. The event type travels
// in the AMQP type property so consumers can share one queue.
func (rmq *RabbitMQBroker) publish(ctx context.Context, eventType string, evt any) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         eventType,
				Timestamp:    time.Now(),
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
