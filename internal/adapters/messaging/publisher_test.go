package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/activeplay/booking-service/internal/config"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type publishCall struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	calls  []publishCall
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.calls = append(f.calls, publishCall{key: key, msg: msg})
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestBroker(ch *fakeChannel) *RabbitMQBroker {
	return &RabbitMQBroker{
		ch:        ch,
		queueName: "activeplay.events",
		cb:        config.NewCircuitBreaker(config.BreakerRabbitMQ),
	}
}

func TestPublishTrackingUpdated(t *testing.T) {
	ch := &fakeChannel{}
	broker := newTestBroker(ch)
	evt := ports.TrackingEvent{
		TrackingID:     "trk-1",
		ScheduleItemID: "s1",
		ParentID:       "parent-1",
		Status:         "arrived",
		OccurredAt:     time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	require.NoError(t, broker.PublishTrackingUpdated(context.Background(), evt))
	require.Len(t, ch.calls, 1)

	call := ch.calls[0]
	assert.Equal(t, "activeplay.events", call.key)
	assert.Equal(t, ports.EventTrackingUpdated, call.msg.Type)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)

	var decoded ports.TrackingEvent
	require.NoError(t, json.Unmarshal(call.msg.Body, &decoded))
	assert.Equal(t, evt, decoded)
}

func TestPublishSessionCancelled(t *testing.T) {
	ch := &fakeChannel{}
	broker := newTestBroker(ch)

	err := broker.PublishSessionCancelled(context.Background(), ports.SessionCancelledEvent{
		ScheduleItemID: "s1",
		ParentID:       "parent-1",
		Activity:       "Swimming Session",
		Children:       []string{"Sarah"},
	})
	require.NoError(t, err)
	require.Len(t, ch.calls, 1)
	assert.Equal(t, ports.EventSessionCancelled, ch.calls[0].msg.Type)
}

func TestPublish_ExpiredContext(t *testing.T) {
	ch := &fakeChannel{}
	broker := newTestBroker(ch)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := broker.PublishTrackingUpdated(ctx, ports.TrackingEvent{TrackingID: "trk-1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, ch.calls)
}

func TestPublish_ChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	broker := newTestBroker(ch)

	err := broker.PublishTrackingUpdated(context.Background(), ports.TrackingEvent{TrackingID: "trk-1"})
	assert.EqualError(t, err, "channel closed")
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, newTestBroker(ch).Close())
	assert.True(t, ch.closed)
}
